package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/metadata"
	"github.com/miravio/services-catalog/internal/models/events"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/models/vo"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// AssetCommandRepo 定义写模型需要的持久化行为。
type AssetCommandRepo interface {
	Create(ctx context.Context, sess txmanager.Session, asset *po.VideoAsset) (*po.VideoAsset, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateAssetInput) (*po.VideoAsset, error)
	FindByID(ctx context.Context, sess txmanager.Session, assetID uuid.UUID) (*po.VideoAsset, error)
	Delete(ctx context.Context, sess txmanager.Session, assetID uuid.UUID) error
}

// OutboxWriter 定义 Outbox 写入行为。
type OutboxWriter interface {
	Enqueue(ctx context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error
}

// CreateAssetInput 表示创建资产的输入参数。
type CreateAssetInput struct {
	Kind  po.AssetKind
	Title string
}

// UpdateAssetInput 表示更新资产元数据时的可选字段。
type UpdateAssetInput struct {
	AssetID uuid.UUID
	Title   *string
}

// DeleteAssetInput 表示删除资产时的输入。
type DeleteAssetInput struct {
	AssetID uuid.UUID
	Reason  *string
}

// AssetCommandService 封装视频资产写模型用例。
// 所有写操作在同一事务内写入实体与 Outbox 事件，保证事件不丢失。
type AssetCommandService struct {
	repo      AssetCommandRepo
	outbox    OutboxWriter
	txManager txmanager.Manager
	log       *log.Helper
}

// NewAssetCommandService 构造资产写模型服务。
func NewAssetCommandService(repo AssetCommandRepo, outbox OutboxWriter, tx txmanager.Manager, logger log.Logger) *AssetCommandService {
	return &AssetCommandService{
		repo:      repo,
		outbox:    outbox,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// CreateAsset 创建资产记录并写入 AssetCreated 事件。
func (s *AssetCommandService) CreateAsset(ctx context.Context, input CreateAssetInput) (*vo.AssetDetail, error) {
	if err := validateCreateAsset(input); err != nil {
		return nil, err
	}

	asset := &po.VideoAsset{
		AssetID: uuid.New(),
		Kind:    input.Kind,
		Title:   strings.TrimSpace(input.Title),
		Status:  po.AssetStatusPendingUpload,
	}

	var created *po.VideoAsset
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		persisted, repoErr := s.repo.Create(txCtx, sess, asset)
		if repoErr != nil {
			return repoErr
		}

		occurredAt := persisted.CreatedAt.UTC()
		if occurredAt.IsZero() {
			occurredAt = time.Now().UTC()
		}
		event, buildErr := events.NewAssetCreatedEvent(persisted, uuid.New(), occurredAt)
		if buildErr != nil {
			return fmt.Errorf("build asset created event: %w", buildErr)
		}
		if err := enqueueOutbox(txCtx, sess, s.outbox, event, occurredAt); err != nil {
			return err
		}

		created = persisted
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.WithContext(ctx).Warnf("create asset timeout: title=%s", input.Title)
			return nil, errors.GatewayTimeout(catalogv1.ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT.String(), "create timeout")
		}
		s.log.WithContext(ctx).Errorf("create asset failed: title=%s err=%v", input.Title, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create asset").WithCause(fmt.Errorf("create asset: %w", err))
	}

	s.log.WithContext(ctx).Infof("CreateAsset: asset_id=%s kind=%s title=%s", created.AssetID, created.Kind, created.Title)
	return vo.NewAssetDetail(created), nil
}

// UpdateAsset 更新资产元数据并写入状态事件。
func (s *AssetCommandService) UpdateAsset(ctx context.Context, input UpdateAssetInput) (*vo.AssetDetail, error) {
	if input.AssetID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "asset_id is required")
	}
	if input.Title == nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "no fields to update")
	}
	if strings.TrimSpace(*input.Title) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title must not be blank")
	}

	var updated *po.VideoAsset
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		asset, repoErr := s.repo.Update(txCtx, sess, repositories.UpdateAssetInput{
			AssetID: input.AssetID,
			Title:   input.Title,
		})
		if repoErr != nil {
			return repoErr
		}

		occurredAt := asset.UpdatedAt.UTC()
		if occurredAt.IsZero() {
			occurredAt = time.Now().UTC()
		}
		event, buildErr := events.NewAssetStatusChangedEvent(asset, uuid.New(), occurredAt)
		if buildErr != nil {
			return fmt.Errorf("build asset status event: %w", buildErr)
		}
		if err := enqueueOutbox(txCtx, sess, s.outbox, event, occurredAt); err != nil {
			return err
		}

		updated = asset
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAssetNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String(), "asset not found")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.WithContext(ctx).Warnf("update asset timeout: asset_id=%s", input.AssetID)
			return nil, errors.GatewayTimeout(catalogv1.ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT.String(), "update timeout")
		}
		s.log.WithContext(ctx).Errorf("update asset failed: asset_id=%s err=%v", input.AssetID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update asset").WithCause(fmt.Errorf("update asset: %w", err))
	}

	s.log.WithContext(ctx).Infof("UpdateAsset: asset_id=%s", updated.AssetID)
	return vo.NewAssetDetail(updated), nil
}

// DeleteAsset 删除资产记录并写入删除事件。
// 远端视频的清理由调用方决定，这里只负责本地记录与事件。
func (s *AssetCommandService) DeleteAsset(ctx context.Context, input DeleteAssetInput) error {
	if input.AssetID == uuid.Nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "asset_id is required")
	}

	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		if repoErr := s.repo.Delete(txCtx, sess, input.AssetID); repoErr != nil {
			return repoErr
		}

		occurredAt := time.Now().UTC()
		event, buildErr := events.NewAssetDeletedEvent(input.AssetID, uuid.New(), occurredAt, input.Reason)
		if buildErr != nil {
			return fmt.Errorf("build asset deleted event: %w", buildErr)
		}
		return enqueueOutbox(txCtx, sess, s.outbox, event, occurredAt)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAssetNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String(), "asset not found")
		}
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.WithContext(ctx).Warnf("delete asset timeout: asset_id=%s", input.AssetID)
			return errors.GatewayTimeout(catalogv1.ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT.String(), "delete timeout")
		}
		s.log.WithContext(ctx).Errorf("delete asset failed: asset_id=%s err=%v", input.AssetID, err)
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete asset").WithCause(fmt.Errorf("delete asset: %w", err))
	}

	s.log.WithContext(ctx).Infof("DeleteAsset: asset_id=%s operator=%s", input.AssetID, metadata.Operator(ctx))
	return nil
}

// enqueueOutbox 将领域事件序列化后写入 Outbox，payload 与 headers 均为 JSON。
func enqueueOutbox(ctx context.Context, sess txmanager.Session, outbox OutboxWriter, event *events.DomainEvent, availableAt time.Time) error {
	payload, err := events.MarshalPayload(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	attrs := events.BuildAttributes(event, events.SchemaVersionV1, events.TraceIDFromContext(ctx))
	headers, err := events.MarshalAttributes(attrs)
	if err != nil {
		return fmt.Errorf("marshal event headers: %w", err)
	}
	if availableAt.IsZero() {
		availableAt = time.Now().UTC()
	}

	msg := repositories.OutboxMessage{
		EventID:       event.EventID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.Kind.String(),
		Payload:       payload,
		Headers:       headers,
		AvailableAt:   availableAt,
	}
	if err := outbox.Enqueue(ctx, sess, msg); err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

func validateCreateAsset(input CreateAssetInput) error {
	switch input.Kind {
	case po.AssetKindEpisode, po.AssetKindMovie, po.AssetKindTrailer, po.AssetKindAd:
	default:
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), fmt.Sprintf("invalid asset kind: %s", input.Kind))
	}
	if strings.TrimSpace(input.Title) == "" {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title is required")
	}
	return nil
}
