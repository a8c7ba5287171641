// Package encodings 消费视频 CDN 的转码回调事件，推进资产状态。
package encodings

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Event 表示从转码回调消息中解析出的关键信息。
type Event struct {
	VideoID   string
	LibraryID string
	Status    int
}

// CDN 回调的字段命名不稳定（PascalCase 与 camelCase 并存），全部列出按序取值。
type encodeCallbackMessage struct {
	VideoGuid      string      `json:"VideoGuid"`
	VideoGuidLower string      `json:"videoGuid"`
	VideoLibraryID json.Number `json:"VideoLibraryId"`
	LibraryIDLower json.Number `json:"videoLibraryId"`
	Status         *int        `json:"Status"`
	StatusLower    *int        `json:"status"`
}

type eventDecoder struct{}

func newDecoder() *eventDecoder {
	return &eventDecoder{}
}

// Decode 将 Pub/Sub 消息数据解析为 Event。
func (d *eventDecoder) Decode(data []byte) (*Event, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("encodings: empty payload")
	}

	var msg encodeCallbackMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("encodings: decode callback payload: %w", err)
	}

	videoID := strings.TrimSpace(msg.VideoGuid)
	if videoID == "" {
		videoID = strings.TrimSpace(msg.VideoGuidLower)
	}
	if videoID == "" {
		return nil, fmt.Errorf("encodings: missing video guid")
	}

	libraryID := msg.VideoLibraryID.String()
	if libraryID == "" || libraryID == "0" {
		libraryID = msg.LibraryIDLower.String()
	}

	status := -1
	if msg.Status != nil {
		status = *msg.Status
	} else if msg.StatusLower != nil {
		status = *msg.StatusLower
	}
	if status < 0 {
		return nil, fmt.Errorf("encodings: missing status")
	}

	return &Event{
		VideoID:   videoID,
		LibraryID: libraryID,
		Status:    status,
	}, nil
}
