package services

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"testing"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type stubSession struct{}

func (stubSession) Tx() pgx.Tx               { return nil }
func (stubSession) Context() context.Context { return context.Background() }

type stubTxManager struct{}

func (stubTxManager) WithinTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, stubSession{})
}

func (stubTxManager) WithinReadOnlyTx(ctx context.Context, _ txmanager.TxOptions, fn func(context.Context, txmanager.Session) error) error {
	return fn(ctx, stubSession{})
}

type ingestAssetRepoStub struct {
	asset   *po.VideoAsset
	updates []repositories.UpdateAssetInput
}

func (s *ingestAssetRepoStub) Create(_ context.Context, _ txmanager.Session, a *po.VideoAsset) (*po.VideoAsset, error) {
	s.asset = a
	return a, nil
}

func (s *ingestAssetRepoStub) Update(_ context.Context, _ txmanager.Session, input repositories.UpdateAssetInput) (*po.VideoAsset, error) {
	if s.asset == nil || s.asset.AssetID != input.AssetID {
		return nil, repositories.ErrAssetNotFound
	}
	s.updates = append(s.updates, input)
	if input.Title != nil {
		s.asset.Title = *input.Title
	}
	if input.Status != nil {
		s.asset.Status = *input.Status
	}
	if input.RemoteVideoID != nil {
		s.asset.RemoteVideoID = input.RemoteVideoID
	}
	if input.LibraryID != nil {
		s.asset.LibraryID = input.LibraryID
	}
	if input.PlaybackURL != nil {
		s.asset.PlaybackURL = input.PlaybackURL
	}
	if input.DirectPlayURLs != nil {
		s.asset.DirectPlayURLs = input.DirectPlayURLs
	}
	if input.ThumbnailURL != nil {
		s.asset.ThumbnailURL = input.ThumbnailURL
	}
	if input.DurationSeconds != nil {
		s.asset.DurationSeconds = input.DurationSeconds
	}
	if input.SizeBytes != nil {
		s.asset.SizeBytes = input.SizeBytes
	}
	if input.EncodeProgress != nil {
		s.asset.EncodeProgress = *input.EncodeProgress
	}
	if input.ClearErrorMessage {
		s.asset.ErrorMessage = nil
	} else if input.ErrorMessage != nil {
		s.asset.ErrorMessage = input.ErrorMessage
	}
	s.asset.UpdatedAt = time.Now()
	copied := *s.asset
	return &copied, nil
}

func (s *ingestAssetRepoStub) FindByID(_ context.Context, _ txmanager.Session, assetID uuid.UUID) (*po.VideoAsset, error) {
	if s.asset == nil || s.asset.AssetID != assetID {
		return nil, repositories.ErrAssetNotFound
	}
	copied := *s.asset
	return &copied, nil
}

func (s *ingestAssetRepoStub) Delete(_ context.Context, _ txmanager.Session, _ uuid.UUID) error {
	return nil
}

type progressRecord struct {
	phase   po.IngestPhase
	percent int32
}

type ingestJobRepoStub struct {
	job     *po.IngestJob
	history []progressRecord
}

func (s *ingestJobRepoStub) Create(_ context.Context, _ txmanager.Session, job *po.IngestJob) (*po.IngestJob, error) {
	s.job = job
	return job, nil
}

func (s *ingestJobRepoStub) UpdateProgress(_ context.Context, _ txmanager.Session, jobID uuid.UUID, phase po.IngestPhase, percent int32, message *string) (*po.IngestJob, error) {
	if s.job == nil || s.job.JobID != jobID {
		return nil, repositories.ErrIngestJobNotFound
	}
	s.history = append(s.history, progressRecord{phase: phase, percent: percent})
	s.job.Phase = phase
	if percent > s.job.Percent {
		s.job.Percent = percent
	}
	if message != nil {
		s.job.Message = message
	}
	copied := *s.job
	return &copied, nil
}

func (s *ingestJobRepoStub) FindLatestByAsset(_ context.Context, assetID uuid.UUID) (*po.IngestJob, error) {
	if s.job == nil || s.job.AssetID != assetID {
		return nil, repositories.ErrIngestJobNotFound
	}
	copied := *s.job
	return &copied, nil
}

type ingestOutboxStub struct {
	messages []repositories.OutboxMessage
}

func (s *ingestOutboxStub) Enqueue(_ context.Context, _ txmanager.Session, msg repositories.OutboxMessage) error {
	s.messages = append(s.messages, msg)
	return nil
}

type ingestStreamStub struct {
	created    *bunny.Video
	createErr  error
	uploadErr  error
	getQueue   []*bunny.Video
	getErr     error
	getCalls   int
	thumbErr   error
	thumbCalls int
}

func (s *ingestStreamStub) CreateVideo(_ context.Context, title string) (*bunny.Video, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if s.created == nil {
		s.created = &bunny.Video{VideoID: "remote-1", LibraryID: "42", Title: title}
	}
	return s.created, nil
}

func (s *ingestStreamStub) UploadVideo(_ context.Context, _ string, r io.Reader, size int64, progress func(sent, total int64)) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return err
	}
	if progress != nil && size > 0 {
		progress(size/2, size)
		progress(size, size)
	}
	return nil
}

func (s *ingestStreamStub) GetVideo(_ context.Context, _ string) (*bunny.Video, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	idx := s.getCalls
	s.getCalls++
	if idx >= len(s.getQueue) {
		idx = len(s.getQueue) - 1
	}
	if idx < 0 {
		return nil, stderrors.New("no video configured")
	}
	return s.getQueue[idx], nil
}

func (s *ingestStreamStub) SetThumbnail(_ context.Context, _, _ string, r io.Reader) error {
	s.thumbCalls++
	if s.thumbErr != nil {
		return s.thumbErr
	}
	_, _ = io.Copy(io.Discard, r)
	return nil
}

func (s *ingestStreamStub) EmbedURL(videoID string) string {
	return "https://iframe.test/embed/42/" + videoID
}

func (s *ingestStreamStub) DirectPlayURLs(videoID string, resolutions []string) map[string]string {
	if len(resolutions) == 0 {
		return nil
	}
	urls := make(map[string]string, len(resolutions))
	for _, res := range resolutions {
		urls[res] = "https://cdn.test/" + videoID + "/play_" + res + ".mp4"
	}
	return urls
}

func (s *ingestStreamStub) ThumbnailURL(videoID, fileName string) string {
	if fileName == "" {
		return ""
	}
	return "https://cdn.test/" + videoID + "/" + fileName
}

func newIngestFixture(t *testing.T, stream *ingestStreamStub) (*IngestService, *ingestAssetRepoStub, *ingestJobRepoStub, *ingestOutboxStub, uuid.UUID) {
	t.Helper()
	assets := &ingestAssetRepoStub{asset: &po.VideoAsset{
		AssetID: uuid.New(),
		Kind:    po.AssetKindEpisode,
		Title:   "Pilot",
		Status:  po.AssetStatusPendingUpload,
	}}
	jobs := &ingestJobRepoStub{}
	outbox := &ingestOutboxStub{}
	svc := NewIngestService(assets, jobs, stream, outbox, stubTxManager{}, log.NewStdLogger(io.Discard))
	svc.sleep = func(context.Context, time.Duration) error { return nil }
	return svc, assets, jobs, outbox, assets.asset.AssetID
}

func reasonOf(err error) string {
	return kerrors.FromError(err).Reason
}

func TestIngest_HappyPath(t *testing.T) {
	stream := &ingestStreamStub{getQueue: []*bunny.Video{
		{VideoID: "remote-1", EncodeStatus: bunny.EncodeStatusProcessing, EncodeProgress: 50},
		{VideoID: "remote-1", EncodeStatus: bunny.EncodeStatusFinished, EncodeProgress: 100, LengthSeconds: 1500, AvailableResolutions: []string{"720p", "1080p"}, ThumbnailFileName: "thumbnail.jpg"},
	}}
	svc, assets, jobs, outbox, assetID := newIngestFixture(t, stream)

	result, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		Filename:    "pilot.mp4",
		ContentType: "video/mp4",
		SizeBytes:   2048,
		Body:        strings.NewReader(strings.Repeat("x", 2048)),
	})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.TimedOut {
		t.Fatal("expected TimedOut=false")
	}
	if assets.asset.Status != po.AssetStatusReady {
		t.Fatalf("asset status: got %s", assets.asset.Status)
	}
	if assets.asset.EncodeProgress != 100 {
		t.Fatalf("encode progress: got %d", assets.asset.EncodeProgress)
	}
	if assets.asset.PlaybackURL == nil || !strings.Contains(*assets.asset.PlaybackURL, "remote-1") {
		t.Fatalf("playback url: got %v", assets.asset.PlaybackURL)
	}
	if assets.asset.DurationSeconds == nil || *assets.asset.DurationSeconds != 1500 {
		t.Fatalf("duration: got %v", assets.asset.DurationSeconds)
	}
	if assets.asset.ThumbnailURL == nil || !strings.HasSuffix(*assets.asset.ThumbnailURL, "thumbnail.jpg") {
		t.Fatalf("thumbnail url: got %v", assets.asset.ThumbnailURL)
	}

	var last int32 = -1
	seen := map[int32]bool{}
	for _, rec := range jobs.history {
		if rec.percent < last {
			t.Fatalf("progress went backwards: %d after %d", rec.percent, last)
		}
		last = rec.percent
		seen[rec.percent] = true
	}
	for _, want := range []int32{20, 80, 95, 100} {
		if !seen[want] {
			t.Fatalf("expected percent %d in history %v", want, jobs.history)
		}
	}
	if result.Job.Percent != 100 {
		t.Fatalf("final job percent: got %d", result.Job.Percent)
	}

	// 每次资产状态变化都应写出一条状态事件。
	if len(outbox.messages) == 0 {
		t.Fatal("expected outbox messages")
	}
	for _, msg := range outbox.messages {
		if msg.EventType != "asset.status_changed" {
			t.Fatalf("event type: got %s", msg.EventType)
		}
	}
}

func TestIngest_PollPercentCapped(t *testing.T) {
	stream := &ingestStreamStub{getQueue: []*bunny.Video{
		{VideoID: "remote-1", EncodeStatus: bunny.EncodeStatusProcessing, EncodeProgress: 100},
		{VideoID: "remote-1", EncodeStatus: bunny.EncodeStatusFinished, EncodeProgress: 100},
	}}
	svc, _, jobs, _, assetID := newIngestFixture(t, stream)

	if _, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "video/mp4",
		SizeBytes:   64,
		Body:        strings.NewReader(strings.Repeat("x", 64)),
	}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	for _, rec := range jobs.history {
		if rec.phase == po.IngestPhaseProcessing && rec.percent > 99 {
			t.Fatalf("processing percent exceeded cap: %d", rec.percent)
		}
	}
}

func TestIngest_SoftTimeout(t *testing.T) {
	stream := &ingestStreamStub{getQueue: []*bunny.Video{
		{VideoID: "remote-1", EncodeStatus: bunny.EncodeStatusProcessing, EncodeProgress: 40},
	}}
	svc, assets, jobs, _, assetID := newIngestFixture(t, stream)

	result, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "video/mp4",
		SizeBytes:   64,
		Body:        strings.NewReader(strings.Repeat("x", 64)),
	})
	if err != nil {
		t.Fatalf("Ingest should succeed on poll timeout, got %v", err)
	}
	if !result.TimedOut {
		t.Fatal("expected TimedOut=true")
	}
	// 超时不标记失败：转码仍在远端继续，由回调任务推进终态。
	if assets.asset.Status != po.AssetStatusProcessing {
		t.Fatalf("asset status: got %s", assets.asset.Status)
	}
	if assets.asset.PlaybackURL == nil {
		t.Fatal("metadata should be saved despite timeout")
	}
	if jobs.job.Phase != po.IngestPhaseComplete || jobs.job.Percent != 100 {
		t.Fatalf("job should finish: phase=%s percent=%d", jobs.job.Phase, jobs.job.Percent)
	}
}

func TestIngest_EncodeFailed(t *testing.T) {
	stream := &ingestStreamStub{getQueue: []*bunny.Video{
		{VideoID: "remote-1", EncodeStatus: bunny.EncodeStatusFailed},
	}}
	svc, assets, jobs, _, assetID := newIngestFixture(t, stream)

	_, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "video/mp4",
		SizeBytes:   64,
		Body:        strings.NewReader(strings.Repeat("x", 64)),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if reasonOf(err) != catalogv1.ErrorReason_ERROR_REASON_ENCODING_FAILED.String() {
		t.Fatalf("reason: got %s", reasonOf(err))
	}
	if assets.asset.Status != po.AssetStatusFailed {
		t.Fatalf("asset status: got %s", assets.asset.Status)
	}
	if jobs.job.Phase != po.IngestPhaseError {
		t.Fatalf("job phase: got %s", jobs.job.Phase)
	}
}

func TestIngest_DuplicateSubmission(t *testing.T) {
	stream := &ingestStreamStub{}
	svc, _, _, _, assetID := newIngestFixture(t, stream)

	if !svc.acquire(assetID) {
		t.Fatal("first acquire should succeed")
	}
	defer svc.release(assetID)

	_, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "video/mp4",
		SizeBytes:   64,
		Body:        strings.NewReader("data"),
	})
	if !kerrors.IsConflict(err) {
		t.Fatalf("expected Conflict, got %v", err)
	}
	if reasonOf(err) != catalogv1.ErrorReason_ERROR_REASON_INGEST_IN_FLIGHT.String() {
		t.Fatalf("reason: got %s", reasonOf(err))
	}
}

func TestIngest_MissingVideoID(t *testing.T) {
	stream := &ingestStreamStub{createErr: bunny.ErrMissingVideoID}
	svc, assets, _, _, assetID := newIngestFixture(t, stream)

	_, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "video/mp4",
		SizeBytes:   64,
		Body:        strings.NewReader("data"),
	})
	if reasonOf(err) != catalogv1.ErrorReason_ERROR_REASON_MISSING_VIDEO_ID.String() {
		t.Fatalf("reason: got %s", reasonOf(err))
	}
	if assets.asset.Status != po.AssetStatusFailed {
		t.Fatalf("asset status: got %s", assets.asset.Status)
	}
}

func TestIngest_UploadTransportError(t *testing.T) {
	stream := &ingestStreamStub{uploadErr: bunny.ErrUploadTransport}
	svc, assets, _, _, assetID := newIngestFixture(t, stream)

	_, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "video/mp4",
		SizeBytes:   64,
		Body:        strings.NewReader("data"),
	})
	if reasonOf(err) != catalogv1.ErrorReason_ERROR_REASON_UPLOAD_TRANSPORT.String() {
		t.Fatalf("reason: got %s", reasonOf(err))
	}
	if assets.asset.Status != po.AssetStatusFailed {
		t.Fatalf("asset status: got %s", assets.asset.Status)
	}
}

func TestIngest_RejectsUnsupportedContentType(t *testing.T) {
	svc, _, _, _, assetID := newIngestFixture(t, &ingestStreamStub{})

	_, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "text/plain",
		SizeBytes:   64,
		Body:        strings.NewReader("data"),
	})
	if !kerrors.IsBadRequest(err) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
}

func TestIngest_ThumbnailFailureIsNonFatal(t *testing.T) {
	stream := &ingestStreamStub{
		getQueue: []*bunny.Video{{VideoID: "remote-1", EncodeStatus: bunny.EncodeStatusFinished}},
		thumbErr: stderrors.New("cdn rejected thumbnail"),
	}
	svc, assets, _, _, assetID := newIngestFixture(t, stream)

	result, err := svc.Ingest(context.Background(), IngestInput{
		AssetID:     assetID,
		ContentType: "video/mp4",
		SizeBytes:   64,
		Body:        strings.NewReader(strings.Repeat("x", 64)),
		Thumbnail: &ThumbnailInput{
			Filename:    "cover.jpg",
			ContentType: "image/jpeg",
			SizeBytes:   1024,
			Body:        strings.NewReader("jpegdata"),
		},
	})
	if err != nil {
		t.Fatalf("Ingest should survive thumbnail failure: %v", err)
	}
	if result.TimedOut {
		t.Fatal("unexpected timeout")
	}
	if stream.thumbCalls != 1 {
		t.Fatalf("thumbnail calls: got %d", stream.thumbCalls)
	}
	if assets.asset.Status != po.AssetStatusReady {
		t.Fatalf("asset status: got %s", assets.asset.Status)
	}
}

func TestUploadThumbnail_Validation(t *testing.T) {
	svc, assets, _, _, assetID := newIngestFixture(t, &ingestStreamStub{})
	remote := "remote-1"
	assets.asset.RemoteVideoID = &remote

	cases := []struct {
		name  string
		thumb ThumbnailInput
	}{
		{"oversized", ThumbnailInput{Filename: "big.jpg", ContentType: "image/jpeg", SizeBytes: 6 * 1024 * 1024, Body: strings.NewReader("x")}},
		{"not an image", ThumbnailInput{Filename: "cover.txt", ContentType: "text/plain", SizeBytes: 10, Body: strings.NewReader("x")}},
		{"nil body", ThumbnailInput{Filename: "cover.jpg", ContentType: "image/jpeg", SizeBytes: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadThumbnail(context.Background(), assetID, tc.thumb)
			if reasonOf(err) != catalogv1.ErrorReason_ERROR_REASON_THUMBNAIL_INVALID.String() {
				t.Fatalf("reason: got %s", reasonOf(err))
			}
		})
	}
}

func TestUploadThumbnail_RequiresRemoteVideo(t *testing.T) {
	svc, _, _, _, assetID := newIngestFixture(t, &ingestStreamStub{})

	_, err := svc.UploadThumbnail(context.Background(), assetID, ThumbnailInput{
		Filename:    "cover.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   10,
		Body:        strings.NewReader("x"),
	})
	if reasonOf(err) != catalogv1.ErrorReason_ERROR_REASON_THUMBNAIL_INVALID.String() {
		t.Fatalf("reason: got %s", reasonOf(err))
	}
}

func TestUploadThumbnail_UpdatesAsset(t *testing.T) {
	svc, assets, _, _, assetID := newIngestFixture(t, &ingestStreamStub{})
	remote := "remote-1"
	assets.asset.RemoteVideoID = &remote

	detail, err := svc.UploadThumbnail(context.Background(), assetID, ThumbnailInput{
		Filename:    "cover.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   2048,
		Body:        strings.NewReader("jpegdata"),
	})
	if err != nil {
		t.Fatalf("UploadThumbnail: %v", err)
	}
	if detail.ThumbnailURL == nil || !strings.HasSuffix(*detail.ThumbnailURL, "cover.jpg") {
		t.Fatalf("thumbnail url: got %v", detail.ThumbnailURL)
	}
}

func TestProgress(t *testing.T) {
	svc, _, jobs, _, assetID := newIngestFixture(t, &ingestStreamStub{})
	jobs.job = &po.IngestJob{
		JobID:   uuid.New(),
		AssetID: assetID,
		Phase:   po.IngestPhaseUploading,
		Percent: 45,
	}

	snapshot, err := svc.Progress(context.Background(), assetID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if snapshot.Percent != 45 || snapshot.Phase != string(po.IngestPhaseUploading) {
		t.Fatalf("snapshot: %+v", snapshot)
	}

	if _, err := svc.Progress(context.Background(), uuid.New()); !kerrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
