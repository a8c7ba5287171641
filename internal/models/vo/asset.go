// Package vo 定义视图对象（View Objects），用于向上层传递业务数据。
// VO 对象由 Service 层返回，经 Views 层转换为 API 响应，隔离内部数据结构。
package vo

import (
	"time"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/google/uuid"
)

// AssetDetail 封装视频资产视图，包含前端播放与管理需要的核心字段。
type AssetDetail struct {
	AssetID         uuid.UUID         `json:"asset_id"`
	Kind            string            `json:"kind"`
	Title           string            `json:"title"`
	Status          string            `json:"status"`
	RemoteVideoID   *string           `json:"remote_video_id"`
	LibraryID       *string           `json:"library_id"`
	PlaybackURL     *string           `json:"playback_url"`
	DirectPlayURLs  map[string]string `json:"direct_play_urls"`
	ThumbnailURL    *string           `json:"thumbnail_url"`
	DurationSeconds *int64            `json:"duration_seconds"`
	SizeBytes       *int64            `json:"size_bytes"`
	EncodeProgress  int32             `json:"encode_progress"`
	ErrorMessage    *string           `json:"error_message"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewAssetDetail 从持久化实体构造资产 VO。
func NewAssetDetail(asset *po.VideoAsset) *AssetDetail {
	if asset == nil {
		return nil
	}
	urls := make(map[string]string, len(asset.DirectPlayURLs))
	for k, v := range asset.DirectPlayURLs {
		urls[k] = v
	}
	return &AssetDetail{
		AssetID:         asset.AssetID,
		Kind:            string(asset.Kind),
		Title:           asset.Title,
		Status:          string(asset.Status),
		RemoteVideoID:   asset.RemoteVideoID,
		LibraryID:       asset.LibraryID,
		PlaybackURL:     asset.PlaybackURL,
		DirectPlayURLs:  urls,
		ThumbnailURL:    asset.ThumbnailURL,
		DurationSeconds: asset.DurationSeconds,
		SizeBytes:       asset.SizeBytes,
		EncodeProgress:  asset.EncodeProgress,
		ErrorMessage:    asset.ErrorMessage,
		CreatedAt:       asset.CreatedAt,
		UpdatedAt:       asset.UpdatedAt,
	}
}

// IngestProgress 封装流水线进度视图，供前端轮询展示。
type IngestProgress struct {
	JobID     uuid.UUID `json:"job_id"`
	AssetID   uuid.UUID `json:"asset_id"`
	Phase     string    `json:"phase"`
	Percent   int32     `json:"percent"`
	Message   *string   `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewIngestProgress 从持久化实体构造进度 VO。
func NewIngestProgress(job *po.IngestJob) *IngestProgress {
	if job == nil {
		return nil
	}
	return &IngestProgress{
		JobID:     job.JobID,
		AssetID:   job.AssetID,
		Phase:     string(job.Phase),
		Percent:   job.Percent,
		Message:   job.Message,
		UpdatedAt: job.UpdatedAt,
	}
}

// AssetRevision 描述一次写操作后的资产版本信息，用于事件审计。
type AssetRevision struct {
	AssetID    uuid.UUID
	EventID    uuid.UUID
	Status     po.AssetStatus
	OccurredAt time.Time
}
