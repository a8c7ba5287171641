package encodings_test

import (
	"context"
	"io"
	"testing"

	"github.com/miravio/services-catalog/internal/clients/bunny"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"
	"github.com/miravio/services-catalog/internal/tasks/encodings"

	"github.com/bionicotaku/lingo-utils/outbox/store"
	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeSession struct{}

func (fakeSession) Tx() pgx.Tx               { return nil }
func (fakeSession) Context() context.Context { return context.Background() }

type fakeAssetRepo struct {
	asset   *po.VideoAsset
	updates []repositories.UpdateAssetInput
}

func (f *fakeAssetRepo) FindByRemoteVideoID(_ context.Context, _ txmanager.Session, remoteID string) (*po.VideoAsset, error) {
	if f.asset == nil || f.asset.RemoteVideoID == nil || *f.asset.RemoteVideoID != remoteID {
		return nil, repositories.ErrAssetNotFound
	}
	copied := *f.asset
	return &copied, nil
}

func (f *fakeAssetRepo) Update(_ context.Context, _ txmanager.Session, input repositories.UpdateAssetInput) (*po.VideoAsset, error) {
	f.updates = append(f.updates, input)
	if input.Status != nil {
		f.asset.Status = *input.Status
	}
	if input.EncodeProgress != nil {
		f.asset.EncodeProgress = *input.EncodeProgress
	}
	if input.ClearErrorMessage {
		f.asset.ErrorMessage = nil
	} else if input.ErrorMessage != nil {
		f.asset.ErrorMessage = input.ErrorMessage
	}
	if input.PlaybackURL != nil {
		f.asset.PlaybackURL = input.PlaybackURL
	}
	if input.DurationSeconds != nil {
		f.asset.DurationSeconds = input.DurationSeconds
	}
	copied := *f.asset
	return &copied, nil
}

type fakeOutbox struct {
	messages []repositories.OutboxMessage
}

func (f *fakeOutbox) Enqueue(_ context.Context, _ txmanager.Session, msg repositories.OutboxMessage) error {
	f.messages = append(f.messages, msg)
	return nil
}

type fakeStream struct {
	video *bunny.Video
}

func (f *fakeStream) GetVideo(_ context.Context, _ string) (*bunny.Video, error) {
	return f.video, nil
}

func (f *fakeStream) DirectPlayURLs(videoID string, resolutions []string) map[string]string {
	urls := make(map[string]string, len(resolutions))
	for _, res := range resolutions {
		urls[res] = "https://cdn.test/" + videoID + "/play_" + res + ".mp4"
	}
	return urls
}

func (f *fakeStream) ThumbnailURL(videoID, fileName string) string {
	return "https://cdn.test/" + videoID + "/" + fileName
}

func (f *fakeStream) EmbedURL(videoID string) string {
	return "https://iframe.test/embed/42/" + videoID
}

func processingAsset(remoteID string) *po.VideoAsset {
	return &po.VideoAsset{
		AssetID:       uuid.New(),
		Kind:          po.AssetKindEpisode,
		Title:         "Pilot",
		Status:        po.AssetStatusProcessing,
		RemoteVideoID: &remoteID,
	}
}

func TestHandle_FinishedAdvancesToReady(t *testing.T) {
	repo := &fakeAssetRepo{asset: processingAsset("vid-1")}
	outbox := &fakeOutbox{}
	stream := &fakeStream{video: &bunny.Video{
		VideoID:              "vid-1",
		EncodeStatus:         3,
		LengthSeconds:        1200,
		AvailableResolutions: []string{"720p"},
	}}
	handler := encodings.NewHandler(repo, outbox, stream, log.NewStdLogger(io.Discard))

	err := handler.Handle(context.Background(), fakeSession{}, &encodings.Event{VideoID: "vid-1", Status: 3}, &store.InboxEvent{EventType: "bunny.encode.callback"})
	require.NoError(t, err)

	require.Equal(t, po.AssetStatusReady, repo.asset.Status)
	require.EqualValues(t, 100, repo.asset.EncodeProgress)
	require.NotNil(t, repo.asset.PlaybackURL)
	require.NotNil(t, repo.asset.DurationSeconds)
	require.Len(t, outbox.messages, 1)
	require.Equal(t, "asset.status_changed", outbox.messages[0].EventType)
}

func TestHandle_FinishedClearsStaleTimeoutMessage(t *testing.T) {
	asset := processingAsset("vid-1")
	stale := "encode polling timed out; awaiting cdn callback"
	asset.ErrorMessage = &stale
	repo := &fakeAssetRepo{asset: asset}
	outbox := &fakeOutbox{}
	handler := encodings.NewHandler(repo, outbox, nil, log.NewStdLogger(io.Discard))

	err := handler.Handle(context.Background(), fakeSession{}, &encodings.Event{VideoID: "vid-1", Status: 3}, &store.InboxEvent{})
	require.NoError(t, err)

	require.Equal(t, po.AssetStatusReady, repo.asset.Status)
	require.Nil(t, repo.asset.ErrorMessage, "ready transition should clear the soft-timeout message")
	require.Len(t, repo.updates, 1)
	require.True(t, repo.updates[0].ClearErrorMessage)
}

func TestHandle_FailedMarksAsset(t *testing.T) {
	repo := &fakeAssetRepo{asset: processingAsset("vid-1")}
	outbox := &fakeOutbox{}
	handler := encodings.NewHandler(repo, outbox, nil, log.NewStdLogger(io.Discard))

	err := handler.Handle(context.Background(), fakeSession{}, &encodings.Event{VideoID: "vid-1", Status: 2}, &store.InboxEvent{})
	require.NoError(t, err)

	require.Equal(t, po.AssetStatusFailed, repo.asset.Status)
	require.NotNil(t, repo.asset.ErrorMessage)
	require.Len(t, outbox.messages, 1)
}

func TestHandle_DuplicateTerminalCallbackIsIdempotent(t *testing.T) {
	asset := processingAsset("vid-1")
	asset.Status = po.AssetStatusReady
	repo := &fakeAssetRepo{asset: asset}
	outbox := &fakeOutbox{}
	handler := encodings.NewHandler(repo, outbox, nil, log.NewStdLogger(io.Discard))

	err := handler.Handle(context.Background(), fakeSession{}, &encodings.Event{VideoID: "vid-1", Status: 3}, &store.InboxEvent{})
	require.NoError(t, err)

	require.Empty(t, repo.updates, "no update should be issued for duplicate callback")
	require.Empty(t, outbox.messages)
}

func TestHandle_IntermediateCallbackDoesNotEmitEvent(t *testing.T) {
	asset := processingAsset("vid-1")
	asset.Status = po.AssetStatusUploading
	repo := &fakeAssetRepo{asset: asset}
	outbox := &fakeOutbox{}
	handler := encodings.NewHandler(repo, outbox, nil, log.NewStdLogger(io.Discard))

	err := handler.Handle(context.Background(), fakeSession{}, &encodings.Event{VideoID: "vid-1", Status: 1}, &store.InboxEvent{})
	require.NoError(t, err)

	require.Equal(t, po.AssetStatusProcessing, repo.asset.Status)
	require.Empty(t, outbox.messages, "intermediate states should not publish events")
}

func TestHandle_LateIntermediateAfterTerminalIgnored(t *testing.T) {
	asset := processingAsset("vid-1")
	asset.Status = po.AssetStatusReady
	repo := &fakeAssetRepo{asset: asset}
	handler := encodings.NewHandler(repo, &fakeOutbox{}, nil, log.NewStdLogger(io.Discard))

	err := handler.Handle(context.Background(), fakeSession{}, &encodings.Event{VideoID: "vid-1", Status: 1}, &store.InboxEvent{})
	require.NoError(t, err)
	require.Empty(t, repo.updates)
	require.Equal(t, po.AssetStatusReady, repo.asset.Status)
}

func TestHandle_UnknownVideoSkipped(t *testing.T) {
	repo := &fakeAssetRepo{}
	handler := encodings.NewHandler(repo, &fakeOutbox{}, nil, log.NewStdLogger(io.Discard))

	err := handler.Handle(context.Background(), fakeSession{}, &encodings.Event{VideoID: "ghost", Status: 3}, &store.InboxEvent{})
	require.NoError(t, err, "unknown video callback should be acked, not retried")
}
