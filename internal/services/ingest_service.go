package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/models/events"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/models/vo"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// 流水线时序参数。
const (
	encodePollInterval = 3 * time.Second  // 转码状态轮询间隔
	encodePollAttempts = 30               // 轮询次数上限（约 90 秒）
	propagationDelay   = 2 * time.Second  // 转码完成后等待 CDN 元数据同步
	maxThumbnailBytes  = 5 * 1024 * 1024  // 缩略图大小上限
)

// 进度带：各阶段在 0-100 进度条上的起止位置。
const (
	percentURLGenerated  = int32(20)  // 远端注册完成
	percentUploadDone    = int32(80)  // 字节上传完成
	percentPollBase      = int32(90)  // 轮询阶段基准
	percentPollCap       = int32(99)  // 轮询阶段上限，100 只在落库后出现
	percentComplete      = int32(100) // 流水线结束
)

// ErrIngestInFlight 表示同一资产已有流水线在执行。
var ErrIngestInFlight = stderrors.New("ingest already in flight for this asset")

// StreamClient 抽象视频 CDN 客户端，便于测试替换。
type StreamClient interface {
	CreateVideo(ctx context.Context, title string) (*bunny.Video, error)
	UploadVideo(ctx context.Context, videoID string, r io.Reader, size int64, progress func(sent, total int64)) error
	GetVideo(ctx context.Context, videoID string) (*bunny.Video, error)
	SetThumbnail(ctx context.Context, videoID, filename string, r io.Reader) error
	EmbedURL(videoID string) string
	DirectPlayURLs(videoID string, resolutions []string) map[string]string
	ThumbnailURL(videoID, fileName string) string
}

// IngestJobRepo 抽象流水线进度持久化。
type IngestJobRepo interface {
	Create(ctx context.Context, sess txmanager.Session, job *po.IngestJob) (*po.IngestJob, error)
	UpdateProgress(ctx context.Context, sess txmanager.Session, jobID uuid.UUID, phase po.IngestPhase, percent int32, message *string) (*po.IngestJob, error)
	FindLatestByAsset(ctx context.Context, assetID uuid.UUID) (*po.IngestJob, error)
}

// kindProfile 描述每种内容类型的上传约束。
// 同一条流水线按 profile 参数化执行，不为每种类型单独实现。
type kindProfile struct {
	maxSizeBytes int64
	allowedMIME  map[string]struct{}
}

var videoMIME = map[string]struct{}{
	"video/mp4":                {},
	"video/quicktime":          {},
	"video/webm":               {},
	"video/x-matroska":         {},
	"application/octet-stream": {},
}

var kindProfiles = map[po.AssetKind]kindProfile{
	po.AssetKindEpisode: {maxSizeBytes: 8 << 30, allowedMIME: videoMIME},
	po.AssetKindMovie:   {maxSizeBytes: 16 << 30, allowedMIME: videoMIME},
	po.AssetKindTrailer: {maxSizeBytes: 2 << 30, allowedMIME: videoMIME},
	po.AssetKindAd:      {maxSizeBytes: 512 << 20, allowedMIME: videoMIME},
}

// IngestInput 表示一次上传流水线的输入。
type IngestInput struct {
	AssetID     uuid.UUID
	Filename    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
	Thumbnail   *ThumbnailInput // 可选，失败不影响主流程
}

// ThumbnailInput 表示缩略图上传参数。
type ThumbnailInput struct {
	Filename    string
	ContentType string
	SizeBytes   int64
	Body        io.Reader
}

// IngestResult 表示流水线结束后的资产与进度快照。
// TimedOut 表示轮询超时但元数据已保存，转码在 CDN 侧继续。
type IngestResult struct {
	Asset    *vo.AssetDetail
	Job      *vo.IngestProgress
	TimedOut bool
}

// IngestService 驱动完整的视频上传流水线：
// 远端注册 → 字节上传 → 转码轮询 → 缩略图 → 元数据落库。
type IngestService struct {
	assets    AssetCommandRepo
	jobs      IngestJobRepo
	stream    StreamClient
	outbox    OutboxWriter
	txManager txmanager.Manager
	log       *log.Helper

	// 测试注入点：时间与休眠。
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

// NewIngestService 构造上传流水线服务。
func NewIngestService(assets AssetCommandRepo, jobs IngestJobRepo, stream StreamClient, outbox OutboxWriter, tx txmanager.Manager, logger log.Logger) *IngestService {
	return &IngestService{
		assets:    assets,
		jobs:      jobs,
		stream:    stream,
		outbox:    outbox,
		txManager: tx,
		log:       log.NewHelper(logger),
		now:       time.Now,
		sleep:     sleepContext,
		inflight:  make(map[uuid.UUID]struct{}),
	}
}

// Ingest 执行一次完整的上传流水线。
// 同一资产同一时刻只允许一条流水线；重复提交返回 Conflict。
func (s *IngestService) Ingest(ctx context.Context, input IngestInput) (*IngestResult, error) {
	if err := s.validateIngest(ctx, input); err != nil {
		return nil, err
	}
	if !s.acquire(input.AssetID) {
		return nil, errors.Conflict(catalogv1.ErrorReason_ERROR_REASON_INGEST_IN_FLIGHT.String(), "ingest already in flight").WithCause(ErrIngestInFlight)
	}
	defer s.release(input.AssetID)

	asset, err := s.assets.FindByID(ctx, nil, input.AssetID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAssetNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String(), "asset not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load asset").WithCause(err)
	}
	profile, ok := kindProfiles[asset.Kind]
	if !ok {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), fmt.Sprintf("unsupported asset kind: %s", asset.Kind))
	}
	if err := validateAgainstProfile(input, profile); err != nil {
		return nil, err
	}

	job, err := s.jobs.Create(ctx, nil, &po.IngestJob{
		JobID:   uuid.New(),
		AssetID: asset.AssetID,
		Phase:   po.IngestPhaseGeneratingURL,
		Percent: 0,
	})
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to start ingest").WithCause(err)
	}

	result, runErr := s.run(ctx, asset, job, input, profile)
	if runErr != nil {
		s.failJob(ctx, job.JobID, runErr)
		return nil, runErr
	}
	return result, nil
}

// run 按阶段推进流水线。任何阶段返回 error 都会终止流水线并标记资产失败，
// 唯一例外是轮询超时：元数据照常落库，TimedOut 置位。
func (s *IngestService) run(ctx context.Context, asset *po.VideoAsset, job *po.IngestJob, input IngestInput, _ kindProfile) (*IngestResult, error) {
	// 阶段一：远端注册（0-20）。
	s.advance(ctx, job.JobID, po.IngestPhaseGeneratingURL, 5, nil)
	remote, err := s.stream.CreateVideo(ctx, asset.Title)
	if err != nil {
		s.markAssetFailed(ctx, asset.AssetID, err)
		if stderrors.Is(err, bunny.ErrMissingVideoID) {
			return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_MISSING_VIDEO_ID.String(), "upstream did not return a video id").WithCause(err)
		}
		return nil, classifyUpstream(err, "failed to register remote video")
	}

	uploading := po.AssetStatusUploading
	if _, err := s.persistAsset(ctx, repositories.UpdateAssetInput{
		AssetID:       asset.AssetID,
		Status:        &uploading,
		RemoteVideoID: &remote.VideoID,
		LibraryID:     &remote.LibraryID,
	}); err != nil {
		return nil, err
	}
	s.advance(ctx, job.JobID, po.IngestPhaseGeneratingURL, percentURLGenerated, nil)

	// 阶段二：字节上传（20-80）。进度按已传字节线性映射。
	s.advance(ctx, job.JobID, po.IngestPhaseUploading, percentURLGenerated, nil)
	lastPercent := percentURLGenerated
	onProgress := func(sent, total int64) {
		if total <= 0 {
			return
		}
		percent := percentURLGenerated + int32(int64(percentUploadDone-percentURLGenerated)*sent/total)
		if percent > lastPercent {
			lastPercent = percent
			s.advance(ctx, job.JobID, po.IngestPhaseUploading, percent, nil)
		}
	}
	if err := s.stream.UploadVideo(ctx, remote.VideoID, input.Body, input.SizeBytes, onProgress); err != nil {
		s.markAssetFailed(ctx, asset.AssetID, err)
		if stderrors.Is(err, bunny.ErrUploadTransport) {
			return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_UPLOAD_TRANSPORT.String(), "binary upload failed").WithCause(err)
		}
		return nil, classifyUpstream(err, "binary upload failed")
	}
	s.advance(ctx, job.JobID, po.IngestPhaseUploading, percentUploadDone, nil)

	// 阶段三：转码轮询（80-100）。
	processing := po.AssetStatusProcessing
	if _, err := s.persistAsset(ctx, repositories.UpdateAssetInput{
		AssetID: asset.AssetID,
		Status:  &processing,
	}); err != nil {
		return nil, err
	}
	s.advance(ctx, job.JobID, po.IngestPhaseProcessing, percentUploadDone, nil)

	final, timedOut, err := s.pollEncoding(ctx, asset.AssetID, job.JobID, remote.VideoID)
	if err != nil {
		return nil, err
	}

	// 阶段四：缩略图（可选，失败不终止流水线）。
	var thumbnailURL *string
	if input.Thumbnail != nil {
		s.advance(ctx, job.JobID, po.IngestPhaseUploadingThumbnail, percentPollCap, nil)
		if url, thumbErr := s.uploadThumbnail(ctx, remote.VideoID, *input.Thumbnail); thumbErr != nil {
			s.log.WithContext(ctx).Warnf("thumbnail upload failed, continuing: asset_id=%s err=%v", asset.AssetID, thumbErr)
		} else if url != "" {
			thumbnailURL = &url
		}
	}

	// 阶段五：元数据落库 + 状态事件。
	s.advance(ctx, job.JobID, po.IngestPhaseSaving, percentPollCap, nil)
	saved, err := s.finalize(ctx, asset.AssetID, remote.VideoID, final, thumbnailURL, input.SizeBytes, timedOut)
	if err != nil {
		return nil, err
	}

	message := "ingest complete"
	if timedOut {
		message = "encode still processing on the cdn; metadata saved"
	}
	finalJob, jobErr := s.jobs.UpdateProgress(ctx, nil, job.JobID, po.IngestPhaseComplete, percentComplete, &message)
	if jobErr != nil {
		s.log.WithContext(ctx).Warnf("finalize ingest job failed: job_id=%s err=%v", job.JobID, jobErr)
		finalJob = job
	}

	s.log.WithContext(ctx).Infof("Ingest: asset_id=%s video_id=%s timed_out=%t", asset.AssetID, remote.VideoID, timedOut)
	return &IngestResult{
		Asset:    vo.NewAssetDetail(saved),
		Job:      vo.NewIngestProgress(finalJob),
		TimedOut: timedOut,
	}, nil
}

// pollEncoding 轮询转码状态直至就绪、失败或超时。
// 返回的 timedOut 为软失败：调用方照常落库，转码在远端继续。
func (s *IngestService) pollEncoding(ctx context.Context, assetID uuid.UUID, jobID uuid.UUID, videoID string) (*bunny.Video, bool, error) {
	var last *bunny.Video
	for attempt := 0; attempt < encodePollAttempts; attempt++ {
		video, err := s.stream.GetVideo(ctx, videoID)
		if err != nil {
			// 单次查询失败不终止轮询，下一轮重试。
			s.log.WithContext(ctx).Warnf("poll encode status failed: video_id=%s attempt=%d err=%v", videoID, attempt+1, err)
		} else {
			last = video
			if video.IsFailed() {
				s.markAssetFailed(ctx, assetID, fmt.Errorf("cdn encoding failed: status=%d", video.EncodeStatus))
				return nil, false, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_ENCODING_FAILED.String(), "cdn encoding failed")
			}
			if video.IsReady() {
				// 转码完成后远端元数据（时长、分辨率）需要短暂时间同步。
				if err := s.sleep(ctx, propagationDelay); err != nil {
					return nil, false, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "ingest cancelled").WithCause(err)
				}
				if refreshed, refreshErr := s.stream.GetVideo(ctx, videoID); refreshErr == nil {
					video = refreshed
				}
				return video, false, nil
			}
			percent := percentPollBase + video.EncodeProgress/10
			if percent > percentPollCap {
				percent = percentPollCap
			}
			s.advance(ctx, jobID, po.IngestPhaseProcessing, percent, nil)
		}

		if err := s.sleep(ctx, encodePollInterval); err != nil {
			return nil, false, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "ingest cancelled").WithCause(err)
		}
	}
	s.log.WithContext(ctx).Warnf("encode polling timed out: video_id=%s attempts=%d", videoID, encodePollAttempts)
	return last, true, nil
}

// finalize 将转码结果写回资产并发出状态事件。
// 超时场景下资产保持 processing，由 encodings 消费任务在回调到达时推进为 ready。
func (s *IngestService) finalize(ctx context.Context, assetID uuid.UUID, videoID string, video *bunny.Video, thumbnailURL *string, sizeBytes int64, timedOut bool) (*po.VideoAsset, error) {
	status := po.AssetStatusReady
	progress := int32(100)
	update := repositories.UpdateAssetInput{
		AssetID:        assetID,
		EncodeProgress: &progress,
	}
	if timedOut {
		status = po.AssetStatusProcessing
		if video != nil {
			progress = video.EncodeProgress
		} else {
			progress = 0
		}
		message := "encode polling timed out; awaiting cdn callback"
		update.ErrorMessage = &message
	} else {
		// 重新入库成功时清掉上一次尝试遗留的错误文案。
		update.ClearErrorMessage = true
	}
	update.Status = &status

	embed := s.stream.EmbedURL(videoID)
	update.PlaybackURL = &embed
	if video != nil {
		update.DirectPlayURLs = s.stream.DirectPlayURLs(videoID, video.AvailableResolutions)
		if video.LengthSeconds > 0 {
			update.DurationSeconds = &video.LengthSeconds
		}
		if thumbnailURL == nil && video.ThumbnailFileName != "" {
			if url := s.stream.ThumbnailURL(videoID, video.ThumbnailFileName); url != "" {
				update.ThumbnailURL = &url
			}
		}
	}
	if thumbnailURL != nil {
		update.ThumbnailURL = thumbnailURL
	}
	if sizeBytes > 0 {
		update.SizeBytes = &sizeBytes
	}

	return s.persistAsset(ctx, update)
}

// uploadThumbnail 校验并上传缩略图，返回可访问地址。
func (s *IngestService) uploadThumbnail(ctx context.Context, videoID string, thumb ThumbnailInput) (string, error) {
	if err := validateThumbnail(thumb); err != nil {
		return "", err
	}
	if err := s.stream.SetThumbnail(ctx, videoID, thumb.Filename, thumb.Body); err != nil {
		return "", err
	}
	return s.stream.ThumbnailURL(videoID, thumb.Filename), nil
}

// UploadThumbnail 为已有资产单独替换缩略图。
// 与流水线内的缩略图阶段不同，独立调用的失败会向调用方报告。
func (s *IngestService) UploadThumbnail(ctx context.Context, assetID uuid.UUID, thumb ThumbnailInput) (*vo.AssetDetail, error) {
	if err := validateThumbnail(thumb); err != nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_THUMBNAIL_INVALID.String(), err.Error())
	}

	asset, err := s.assets.FindByID(ctx, nil, assetID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAssetNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String(), "asset not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load asset").WithCause(err)
	}
	if asset.RemoteVideoID == nil || *asset.RemoteVideoID == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_THUMBNAIL_INVALID.String(), "asset has no remote video yet")
	}

	if err := s.stream.SetThumbnail(ctx, *asset.RemoteVideoID, thumb.Filename, thumb.Body); err != nil {
		return nil, classifyUpstream(err, "thumbnail upload failed")
	}

	url := s.stream.ThumbnailURL(*asset.RemoteVideoID, thumb.Filename)
	update := repositories.UpdateAssetInput{AssetID: assetID}
	if url != "" {
		update.ThumbnailURL = &url
	}
	saved, err := s.persistAsset(ctx, update)
	if err != nil {
		return nil, err
	}
	return vo.NewAssetDetail(saved), nil
}

// Progress 返回资产最近一次流水线的进度快照。
func (s *IngestService) Progress(ctx context.Context, assetID uuid.UUID) (*vo.IngestProgress, error) {
	if assetID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "asset_id is required")
	}
	job, err := s.jobs.FindLatestByAsset(ctx, assetID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrIngestJobNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String(), "no ingest recorded for asset")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load ingest progress").WithCause(err)
	}
	return vo.NewIngestProgress(job), nil
}

// persistAsset 在事务内更新资产并写入状态事件。
func (s *IngestService) persistAsset(ctx context.Context, input repositories.UpdateAssetInput) (*po.VideoAsset, error) {
	var updated *po.VideoAsset
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		asset, repoErr := s.assets.Update(txCtx, sess, input)
		if repoErr != nil {
			return repoErr
		}
		occurredAt := asset.UpdatedAt.UTC()
		if occurredAt.IsZero() {
			occurredAt = s.now().UTC()
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
		if stderrors.Is(err, repositories.ErrAssetNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String(), "asset not found")
		}
		s.log.WithContext(ctx).Errorf("persist asset failed: asset_id=%s err=%v", input.AssetID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to persist asset").WithCause(err)
	}
	return updated, nil
}

// advance 推进流水线进度，失败只记日志：进度展示不值得终止流水线。
func (s *IngestService) advance(ctx context.Context, jobID uuid.UUID, phase po.IngestPhase, percent int32, message *string) {
	if _, err := s.jobs.UpdateProgress(ctx, nil, jobID, phase, percent, message); err != nil {
		s.log.WithContext(ctx).Warnf("advance ingest job failed: job_id=%s phase=%s err=%v", jobID, phase, err)
	}
}

// failJob 将流水线标记为 error 终态。
func (s *IngestService) failJob(ctx context.Context, jobID uuid.UUID, cause error) {
	message := cause.Error()
	if _, err := s.jobs.UpdateProgress(ctx, nil, jobID, po.IngestPhaseError, 0, &message); err != nil {
		s.log.WithContext(ctx).Warnf("mark ingest job failed: job_id=%s err=%v", jobID, err)
	}
}

// markAssetFailed 将资产置为 failed 并记录原因，尽力而为。
func (s *IngestService) markAssetFailed(ctx context.Context, assetID uuid.UUID, cause error) {
	failed := po.AssetStatusFailed
	message := cause.Error()
	if _, err := s.persistAsset(ctx, repositories.UpdateAssetInput{
		AssetID:      assetID,
		Status:       &failed,
		ErrorMessage: &message,
	}); err != nil {
		s.log.WithContext(ctx).Warnf("mark asset failed: asset_id=%s err=%v", assetID, err)
	}
}

func (s *IngestService) validateIngest(_ context.Context, input IngestInput) error {
	if input.AssetID == uuid.Nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "asset_id is required")
	}
	if input.Body == nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "file body is required")
	}
	if input.SizeBytes < 0 {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "size_bytes must be non-negative")
	}
	return nil
}

func validateAgainstProfile(input IngestInput, profile kindProfile) error {
	if input.SizeBytes > profile.maxSizeBytes {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(),
			fmt.Sprintf("file exceeds size limit: %d > %d", input.SizeBytes, profile.maxSizeBytes))
	}
	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	if contentType != "" {
		if _, ok := profile.allowedMIME[contentType]; !ok {
			return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(),
				fmt.Sprintf("unsupported content_type: %s", input.ContentType))
		}
	}
	return nil
}

func validateThumbnail(thumb ThumbnailInput) error {
	if thumb.Body == nil {
		return stderrors.New("thumbnail body is required")
	}
	if thumb.SizeBytes > maxThumbnailBytes {
		return fmt.Errorf("thumbnail exceeds %d bytes", maxThumbnailBytes)
	}
	if !strings.HasPrefix(strings.ToLower(thumb.ContentType), "image/") {
		return fmt.Errorf("thumbnail must be an image, got %s", thumb.ContentType)
	}
	return nil
}

// classifyUpstream 将 CDN 客户端错误映射为对外错误。
func classifyUpstream(err error, msg string) error {
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.GatewayTimeout(catalogv1.ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT.String(), msg).WithCause(err)
	}
	var statusErr *bunny.StatusError
	if stderrors.As(err, &statusErr) {
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), fmt.Sprintf("%s: upstream status %d", msg, statusErr.Code)).WithCause(err)
	}
	return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), msg).WithCause(err)
}

func (s *IngestService) acquire(assetID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[assetID]; busy {
		return false
	}
	s.inflight[assetID] = struct{}{}
	return true
}

func (s *IngestService) release(assetID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, assetID)
}

// sleepContext 可被 ctx 取消的休眠。
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
