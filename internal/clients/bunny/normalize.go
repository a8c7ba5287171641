package bunny

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawVideo 覆盖 CDN 各版本响应中出现过的字段命名。
// 归一化集中在这一处：调用方永远只见到规范化的 Video。
type rawVideo struct {
	GUID           string          `json:"guid"`
	VideoID        string          `json:"videoId"`
	VideoIDSnake   string          `json:"video_id"`
	ID             string          `json:"id"`
	UnderscoreID   string          `json:"_id"`
	VideoLibraryID json.Number     `json:"videoLibraryId"`
	Title          string          `json:"title"`
	Status         int             `json:"status"`
	EncodeProgress int32           `json:"encodeProgress"`
	Length         int64           `json:"length"`
	StorageSize    int64           `json:"storageSize"`
	ThumbnailFile  string          `json:"thumbnailFileName"`
	Resolutions    string          `json:"availableResolutions"`
	Data           json.RawMessage `json:"data"`
}

// normalizeVideo 将任意形态的 CDN 响应解析为规范化 Video。
// 视频 ID 依次尝试 guid、videoId、video_id、id、_id，外层无命中时下钻 data 对象；
// 全部缺失返回 ErrMissingVideoID。
func normalizeVideo(body []byte) (*Video, error) {
	var raw rawVideo
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("bunny: decode video response: %w", err)
	}

	id := firstNonEmpty(raw.GUID, raw.VideoID, raw.VideoIDSnake, raw.ID, raw.UnderscoreID)
	if id == "" && len(raw.Data) > 0 {
		var nested rawVideo
		if err := json.Unmarshal(raw.Data, &nested); err == nil {
			id = firstNonEmpty(nested.GUID, nested.VideoID, nested.VideoIDSnake, nested.ID, nested.UnderscoreID)
			if id != "" {
				raw = nested
			}
		}
	}
	if id == "" {
		return nil, ErrMissingVideoID
	}

	return &Video{
		VideoID:              id,
		LibraryID:            raw.VideoLibraryID.String(),
		Title:                raw.Title,
		EncodeStatus:         raw.Status,
		EncodeProgress:       clampProgress(raw.EncodeProgress),
		LengthSeconds:        raw.Length,
		StorageSizeBytes:     raw.StorageSize,
		ThumbnailFileName:    raw.ThumbnailFile,
		AvailableResolutions: splitResolutions(raw.Resolutions),
	}, nil
}

// IsReady 判断转码状态是否为可播放终态。
func (v *Video) IsReady() bool {
	return v.EncodeStatus == EncodeStatusFinished || v.EncodeStatus == EncodeStatusResolution
}

// IsFailed 判断转码状态是否为失败终态。
func (v *Video) IsFailed() bool {
	return v.EncodeStatus == EncodeStatusFailed
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func splitResolutions(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func clampProgress(p int32) int32 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
