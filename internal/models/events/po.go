package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind 标识领域事件类型。
type Kind int

// 领域事件类型常量。
const (
	// KindUnknown 表示未识别的事件类型。
	KindUnknown Kind = iota
	// KindAssetCreated 表示资产创建事件。
	KindAssetCreated
	// KindAssetStatusChanged 表示资产状态变更事件。
	KindAssetStatusChanged
	// KindAssetDeleted 表示资产删除事件。
	KindAssetDeleted
	// KindTitlePublished 表示目录条目上架事件。
	KindTitlePublished
	// KindTitleArchived 表示目录条目归档事件。
	KindTitleArchived
)

func (k Kind) String() string {
	switch k {
	case KindAssetCreated:
		return "asset.created"
	case KindAssetStatusChanged:
		return "asset.status_changed"
	case KindAssetDeleted:
		return "asset.deleted"
	case KindTitlePublished:
		return "title.published"
	case KindTitleArchived:
		return "title.archived"
	default:
		return "asset.unknown"
	}
}

// DomainEvent 表示领域层生成的标准事件。
type DomainEvent struct {
	EventID       uuid.UUID
	Kind          Kind
	AggregateID   uuid.UUID
	AggregateType string
	Version       int64
	OccurredAt    time.Time
	Payload       any
}

// AssetCreated 描述资产创建事件的业务载荷。
type AssetCreated struct {
	AssetID uuid.UUID `json:"asset_id"`
	Kind    string    `json:"kind"`
	Title   string    `json:"title"`
	Status  string    `json:"status"`
}

// AssetStatusChanged 描述资产状态变更事件的业务载荷。
type AssetStatusChanged struct {
	AssetID         uuid.UUID `json:"asset_id"`
	Status          string    `json:"status"`
	RemoteVideoID   *string   `json:"remote_video_id,omitempty"`
	PlaybackURL     *string   `json:"playback_url,omitempty"`
	ThumbnailURL    *string   `json:"thumbnail_url,omitempty"`
	DurationSeconds *int64    `json:"duration_seconds,omitempty"`
	EncodeProgress  int32     `json:"encode_progress"`
	ErrorMessage    *string   `json:"error_message,omitempty"`
}

// AssetDeleted 描述资产删除事件的业务载荷。
type AssetDeleted struct {
	AssetID   uuid.UUID  `json:"asset_id"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	Reason    *string    `json:"reason,omitempty"`
}

// TitleVisibilityChanged 描述条目上架/归档事件的业务载荷。
type TitleVisibilityChanged struct {
	TitleType  string    `json:"title_type"`
	TitleID    uuid.UUID `json:"title_id"`
	Visibility string    `json:"visibility"`
}

const (
	// AggregateTypeAsset 标识视频资产聚合类型，供 Outbox headers / attributes 使用。
	AggregateTypeAsset = "video_asset"
	// AggregateTypeTitle 标识目录条目聚合类型。
	AggregateTypeTitle = "title"
	// SchemaVersionV1 描述事件载荷的当前 schema 版本。
	SchemaVersionV1 = "v1"
)

var (
	// ErrNilAsset 在构建事件时资产实体为空。
	ErrNilAsset = fmt.Errorf("event builder: asset is nil")
	// ErrInvalidEventID 表示未提供合法的事件 ID。
	ErrInvalidEventID = fmt.Errorf("event builder: event id is required")
	// ErrUnknownEventKind 表示未识别的事件类型。
	ErrUnknownEventKind = fmt.Errorf("event builder: unknown event kind")
)
