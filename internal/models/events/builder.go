package events

import (
	"time"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/google/uuid"
)

// NewAssetCreatedEvent 基于持久化实体构建 AssetCreated 事件。
func NewAssetCreatedEvent(asset *po.VideoAsset, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if asset == nil {
		return nil, ErrNilAsset
	}
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &DomainEvent{
		EventID:       eventID,
		Kind:          KindAssetCreated,
		AggregateID:   asset.AssetID,
		AggregateType: AggregateTypeAsset,
		Version:       VersionFromTime(occurredAt),
		OccurredAt:    occurredAt.UTC(),
		Payload: AssetCreated{
			AssetID: asset.AssetID,
			Kind:    string(asset.Kind),
			Title:   asset.Title,
			Status:  string(asset.Status),
		},
	}, nil
}

// NewAssetStatusChangedEvent 基于持久化实体构建 AssetStatusChanged 事件。
func NewAssetStatusChangedEvent(asset *po.VideoAsset, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if asset == nil {
		return nil, ErrNilAsset
	}
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	return &DomainEvent{
		EventID:       eventID,
		Kind:          KindAssetStatusChanged,
		AggregateID:   asset.AssetID,
		AggregateType: AggregateTypeAsset,
		Version:       VersionFromTime(occurredAt),
		OccurredAt:    occurredAt.UTC(),
		Payload: AssetStatusChanged{
			AssetID:         asset.AssetID,
			Status:          string(asset.Status),
			RemoteVideoID:   asset.RemoteVideoID,
			PlaybackURL:     asset.PlaybackURL,
			ThumbnailURL:    asset.ThumbnailURL,
			DurationSeconds: asset.DurationSeconds,
			EncodeProgress:  asset.EncodeProgress,
			ErrorMessage:    asset.ErrorMessage,
		},
	}, nil
}

// NewAssetDeletedEvent 构建 AssetDeleted 事件。
func NewAssetDeletedEvent(assetID uuid.UUID, eventID uuid.UUID, occurredAt time.Time, reason *string) (*DomainEvent, error) {
	if assetID == uuid.Nil {
		return nil, ErrNilAsset
	}
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	deletedAt := occurredAt.UTC()

	return &DomainEvent{
		EventID:       eventID,
		Kind:          KindAssetDeleted,
		AggregateID:   assetID,
		AggregateType: AggregateTypeAsset,
		Version:       VersionFromTime(occurredAt),
		OccurredAt:    deletedAt,
		Payload: AssetDeleted{
			AssetID:   assetID,
			DeletedAt: &deletedAt,
			Reason:    reason,
		},
	}, nil
}

// NewTitleVisibilityEvent 构建条目上架/归档事件。
func NewTitleVisibilityEvent(titleType string, titleID uuid.UUID, visibility po.Visibility, eventID uuid.UUID, occurredAt time.Time) (*DomainEvent, error) {
	if titleID == uuid.Nil {
		return nil, ErrNilAsset
	}
	if eventID == uuid.Nil {
		return nil, ErrInvalidEventID
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	kind := KindTitlePublished
	if visibility == po.VisibilityArchived {
		kind = KindTitleArchived
	}

	return &DomainEvent{
		EventID:       eventID,
		Kind:          kind,
		AggregateID:   titleID,
		AggregateType: AggregateTypeTitle,
		Version:       VersionFromTime(occurredAt),
		OccurredAt:    occurredAt.UTC(),
		Payload: TitleVisibilityChanged{
			TitleType:  titleType,
			TitleID:    titleID,
			Visibility: string(visibility),
		},
	}, nil
}
