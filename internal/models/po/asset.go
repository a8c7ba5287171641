// Package po 定义面向持久化的数据对象（Persistent Objects），由 Repository 层使用。
// PO 对象映射数据库表结构，不直接暴露给上层业务逻辑。
package po

import (
	"time"

	"github.com/google/uuid"
)

// AssetKind 表示视频资产所属的内容类型。
type AssetKind string

// 资产内容类型常量定义
const (
	AssetKindEpisode AssetKind = "episode" // 剧集（drama episode）
	AssetKindMovie   AssetKind = "movie"   // 电影正片
	AssetKindTrailer AssetKind = "trailer" // 预告片
	AssetKindAd      AssetKind = "ad"      // 广告素材
)

// AssetStatus 表示视频资产的总体生命周期状态。
type AssetStatus string

// 资产状态常量定义
const (
	AssetStatusPendingUpload AssetStatus = "pending_upload" // 记录已创建但字节未上传
	AssetStatusUploading     AssetStatus = "uploading"      // 二进制上传进行中
	AssetStatusProcessing    AssetStatus = "processing"     // CDN 转码进行中
	AssetStatusReady         AssetStatus = "ready"          // 转码完成可播放
	AssetStatusFailed        AssetStatus = "failed"         // 上传或转码失败
)

// VideoAsset 表示 catalog.video_assets 表的数据库实体。
// 每条剧集/电影/预告/广告视频都对应一条资产记录，映射 CDN 侧的远端视频。
type VideoAsset struct {
	// ============================================
	// 基础层字段
	// ============================================
	AssetID   uuid.UUID   `db:"asset_id"`   // 主键（UUID v4）
	Kind      AssetKind   `db:"kind"`       // 内容类型
	Title     string      `db:"title"`      // 资产标题（必填）
	Status    AssetStatus `db:"status"`     // 总体状态
	CreatedAt time.Time   `db:"created_at"` // 记录创建时间
	UpdatedAt time.Time   `db:"updated_at"` // 最近更新时间（触发器自动维护）

	// ============================================
	// CDN 侧标识（CreateVideo 成功后补写）
	// ============================================
	RemoteVideoID *string `db:"remote_video_id"` // CDN 视频 GUID
	LibraryID     *string `db:"library_id"`      // CDN 媒体库 ID

	// ============================================
	// 转码完成后补写的播放属性
	// ============================================
	PlaybackURL     *string           `db:"playback_url"`     // iframe 播放页 URL
	DirectPlayURLs  map[string]string `db:"direct_play_urls"` // 各分辨率 MP4 直链（jsonb）
	ThumbnailURL    *string           `db:"thumbnail_url"`    // 缩略图 URL
	DurationSeconds *int64            `db:"duration_seconds"` // 视频时长（秒）
	SizeBytes       *int64            `db:"size_bytes"`       // 原始文件大小（字节）
	EncodeProgress  int32             `db:"encode_progress"`  // CDN 转码进度（0-100）

	// ============================================
	// 错误与审计
	// ============================================
	ErrorMessage *string `db:"error_message"` // 最近一次失败原因
}
