package encodings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/models/events"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

type assetRepository interface {
	FindByRemoteVideoID(ctx context.Context, sess txmanager.Session, remoteID string) (*po.VideoAsset, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateAssetInput) (*po.VideoAsset, error)
}

type outboxWriter interface {
	Enqueue(ctx context.Context, sess txmanager.Session, msg repositories.OutboxMessage) error
}

type streamClient interface {
	GetVideo(ctx context.Context, videoID string) (*bunny.Video, error)
	DirectPlayURLs(videoID string, resolutions []string) map[string]string
	ThumbnailURL(videoID, fileName string) string
	EmbedURL(videoID string) string
}

// Handler 处理转码回调事件：把 CDN 侧的状态推进到资产主表。
// 回调弥补轮询窗口：流水线轮询超时后，ready/failed 终态由这里补齐。
type Handler struct {
	assets assetRepository
	outbox outboxWriter
	stream streamClient
	log    *log.Helper
}

// NewHandler 构造转码事件处理器。
func NewHandler(assets assetRepository, outbox outboxWriter, stream streamClient, logger log.Logger) *Handler {
	if logger == nil {
		logger = log.NewStdLogger(nil)
	}
	return &Handler{
		assets: assets,
		outbox: outbox,
		stream: stream,
		log:    log.NewHelper(logger),
	}
}

// Handle 执行转码回调的业务处理。消息重复投递时幂等跳过。
func (h *Handler) Handle(ctx context.Context, sess txmanager.Session, evt *Event, inboxEvt *store.InboxEvent) error {
	if evt == nil {
		return fmt.Errorf("encodings: nil event payload")
	}
	if inboxEvt == nil {
		return fmt.Errorf("encodings: missing inbox event metadata")
	}
	if h.assets == nil || h.outbox == nil {
		return fmt.Errorf("encodings: handler not initialized")
	}

	asset, err := h.assets.FindByRemoteVideoID(ctx, sess, evt.VideoID)
	if err != nil {
		if errors.Is(err, repositories.ErrAssetNotFound) {
			h.log.WithContext(ctx).Warnf("encodings: callback for unknown video_id=%s", evt.VideoID)
			return nil
		}
		return fmt.Errorf("encodings: load asset: %w", err)
	}

	update, terminal := h.buildUpdate(ctx, asset, evt)
	if update == nil {
		h.log.WithContext(ctx).Debugf("encodings: skip duplicate callback asset_id=%s status=%d", asset.AssetID, evt.Status)
		return nil
	}

	updated, err := h.assets.Update(ctx, sess, *update)
	if err != nil {
		return fmt.Errorf("encodings: update asset: %w", err)
	}
	if !terminal {
		return nil
	}

	occurredAt := updated.UpdatedAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	event, buildErr := events.NewAssetStatusChangedEvent(updated, uuid.New(), occurredAt)
	if buildErr != nil {
		return fmt.Errorf("encodings: build status event: %w", buildErr)
	}
	payload, err := events.MarshalPayload(event)
	if err != nil {
		return fmt.Errorf("encodings: marshal event payload: %w", err)
	}
	headers, err := events.MarshalAttributes(events.BuildAttributes(event, events.SchemaVersionV1, events.TraceIDFromContext(ctx)))
	if err != nil {
		return fmt.Errorf("encodings: marshal event headers: %w", err)
	}
	if err := h.outbox.Enqueue(ctx, sess, repositories.OutboxMessage{
		EventID:       event.EventID,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		EventType:     event.Kind.String(),
		Payload:       payload,
		Headers:       headers,
		AvailableAt:   occurredAt,
	}); err != nil {
		return fmt.Errorf("encodings: enqueue outbox: %w", err)
	}

	h.log.WithContext(ctx).Infof("encodings: asset advanced asset_id=%s status=%s", updated.AssetID, updated.Status)
	return nil
}

// buildUpdate 把回调状态映射为资产更新。返回 nil 表示无需处理（幂等跳过）。
// terminal 表示终态推进（ready/failed），只有终态才发布领域事件。
func (h *Handler) buildUpdate(ctx context.Context, asset *po.VideoAsset, evt *Event) (*repositories.UpdateAssetInput, bool) {
	switch evt.Status {
	case bunny.EncodeStatusFinished, bunny.EncodeStatusResolution:
		if asset.Status == po.AssetStatusReady {
			return nil, false
		}
		ready := po.AssetStatusReady
		full := int32(100)
		update := &repositories.UpdateAssetInput{
			AssetID:        asset.AssetID,
			Status:         &ready,
			EncodeProgress: &full,
			// 软超时写入的提示文案在此处清空，避免 ready 资产挂着过期错误。
			ClearErrorMessage: true,
		}
		h.enrichFromRemote(ctx, evt.VideoID, update)
		return update, true

	case bunny.EncodeStatusFailed:
		if asset.Status == po.AssetStatusFailed {
			return nil, false
		}
		failed := po.AssetStatusFailed
		message := "cdn encoding failed"
		return &repositories.UpdateAssetInput{
			AssetID:      asset.AssetID,
			Status:       &failed,
			ErrorMessage: &message,
		}, true

	case bunny.EncodeStatusQueued, bunny.EncodeStatusProcessing:
		// 终态后的迟到中间回调直接忽略。
		if asset.Status == po.AssetStatusReady || asset.Status == po.AssetStatusFailed {
			return nil, false
		}
		processing := po.AssetStatusProcessing
		return &repositories.UpdateAssetInput{
			AssetID: asset.AssetID,
			Status:  &processing,
		}, false

	default:
		h.log.WithContext(ctx).Warnf("encodings: unknown status=%d video_id=%s", evt.Status, evt.VideoID)
		return nil, false
	}
}

// enrichFromRemote 拉取远端元数据补全播放属性，失败只记日志。
func (h *Handler) enrichFromRemote(ctx context.Context, videoID string, update *repositories.UpdateAssetInput) {
	if h.stream == nil {
		return
	}
	embed := h.stream.EmbedURL(videoID)
	update.PlaybackURL = &embed

	video, err := h.stream.GetVideo(ctx, videoID)
	if err != nil {
		h.log.WithContext(ctx).Warnf("encodings: fetch remote video failed video_id=%s err=%v", videoID, err)
		return
	}
	update.DirectPlayURLs = h.stream.DirectPlayURLs(videoID, video.AvailableResolutions)
	if video.LengthSeconds > 0 {
		update.DurationSeconds = &video.LengthSeconds
	}
	if video.ThumbnailFileName != "" {
		if url := h.stream.ThumbnailURL(videoID, video.ThumbnailFileName); url != "" {
			update.ThumbnailURL = &url
		}
	}
}
