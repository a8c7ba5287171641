package services_test

import (
	"context"
	"io"
	"testing"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"
	"github.com/miravio/services-catalog/internal/services"

	"github.com/bionicotaku/lingo-utils/txmanager"
	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

type seriesRepoStub struct {
	series   *po.Series
	seasons  []*po.Season
	episodes map[uuid.UUID][]*po.Episode
}

func (s *seriesRepoStub) FindSeriesByID(_ context.Context, _ txmanager.Session, seriesID uuid.UUID) (*po.Series, error) {
	if s.series == nil || s.series.SeriesID != seriesID {
		return nil, repositories.ErrSeriesNotFound
	}
	return s.series, nil
}

func (s *seriesRepoStub) UpdateSeries(_ context.Context, _ txmanager.Session, input repositories.UpdateSeriesInput) (*po.Series, error) {
	if s.series == nil || s.series.SeriesID != input.SeriesID {
		return nil, repositories.ErrSeriesNotFound
	}
	if input.Visibility != nil {
		s.series.Visibility = *input.Visibility
	}
	s.series.UpdatedAt = time.Now()
	return s.series, nil
}

func (s *seriesRepoStub) ListSeasons(_ context.Context, _ uuid.UUID) ([]*po.Season, error) {
	return s.seasons, nil
}

func (s *seriesRepoStub) ListEpisodes(_ context.Context, seasonID uuid.UUID) ([]*po.Episode, error) {
	return s.episodes[seasonID], nil
}

type movieRepoStub struct {
	movie *po.Movie
}

func (s *movieRepoStub) FindByID(_ context.Context, _ txmanager.Session, movieID uuid.UUID) (*po.Movie, error) {
	if s.movie == nil || s.movie.MovieID != movieID {
		return nil, repositories.ErrMovieNotFound
	}
	return s.movie, nil
}

func (s *movieRepoStub) Update(_ context.Context, _ txmanager.Session, input repositories.UpdateMovieInput) (*po.Movie, error) {
	if s.movie == nil || s.movie.MovieID != input.MovieID {
		return nil, repositories.ErrMovieNotFound
	}
	if input.Visibility != nil {
		s.movie.Visibility = *input.Visibility
	}
	s.movie.UpdatedAt = time.Now()
	return s.movie, nil
}

type visibilityAssetStub struct {
	assets map[uuid.UUID]*po.VideoAsset
}

func (s *visibilityAssetStub) FindByID(_ context.Context, _ txmanager.Session, assetID uuid.UUID) (*po.VideoAsset, error) {
	asset, ok := s.assets[assetID]
	if !ok {
		return nil, repositories.ErrAssetNotFound
	}
	return asset, nil
}

func seriesFixture(episodeAssetStatus po.AssetStatus) (*seriesRepoStub, *visibilityAssetStub) {
	assetID := uuid.New()
	seasonID := uuid.New()
	series := &seriesRepoStub{
		series:  &po.Series{SeriesID: uuid.New(), Title: "Show", Visibility: po.VisibilityDraft},
		seasons: []*po.Season{{SeasonID: seasonID, SeasonNumber: 1}},
		episodes: map[uuid.UUID][]*po.Episode{
			seasonID: {{EpisodeID: uuid.New(), SeasonID: seasonID, AssetID: &assetID, EpisodeNumber: 1, Title: "Pilot"}},
		},
	}
	assets := &visibilityAssetStub{assets: map[uuid.UUID]*po.VideoAsset{
		assetID: {AssetID: assetID, Status: episodeAssetStatus},
	}}
	return series, assets
}

func newVisibilityService(series *seriesRepoStub, movies *movieRepoStub, assets *visibilityAssetStub, outbox *outboxRepoStub) *services.VisibilityService {
	return services.NewVisibilityService(series, movies, assets, outbox, noopTxManager{}, log.NewStdLogger(io.Discard))
}

func TestPublishSeries(t *testing.T) {
	series, assets := seriesFixture(po.AssetStatusReady)
	outbox := &outboxRepoStub{}
	svc := newVisibilityService(series, &movieRepoStub{}, assets, outbox)

	detail, err := svc.PublishSeries(context.Background(), series.series.SeriesID)
	if err != nil {
		t.Fatalf("PublishSeries: %v", err)
	}
	if detail.Visibility != string(po.VisibilityPublished) {
		t.Fatalf("visibility: got %s", detail.Visibility)
	}
	if len(outbox.messages) != 1 || outbox.messages[0].EventType != "title.published" {
		t.Fatalf("outbox: %+v", outbox.messages)
	}
}

func TestPublishSeries_NoPlayableEpisode(t *testing.T) {
	series, assets := seriesFixture(po.AssetStatusProcessing)
	svc := newVisibilityService(series, &movieRepoStub{}, assets, &outboxRepoStub{})

	_, err := svc.PublishSeries(context.Background(), series.series.SeriesID)
	if !kerrors.IsBadRequest(err) {
		t.Fatalf("expected BadRequest, got %v", err)
	}
	if kerrors.FromError(err).Reason != catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_READY.String() {
		t.Fatalf("reason: got %s", kerrors.FromError(err).Reason)
	}
	if series.series.Visibility != po.VisibilityDraft {
		t.Fatal("visibility should not change on failed publish")
	}
}

func TestPublishSeries_NotFound(t *testing.T) {
	svc := newVisibilityService(&seriesRepoStub{}, &movieRepoStub{}, &visibilityAssetStub{}, &outboxRepoStub{})
	_, err := svc.PublishSeries(context.Background(), uuid.New())
	if !kerrors.IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestArchiveSeries_NoPrecondition(t *testing.T) {
	// 归档不要求有可播放内容。
	series := &seriesRepoStub{series: &po.Series{SeriesID: uuid.New(), Visibility: po.VisibilityPublished}}
	outbox := &outboxRepoStub{}
	svc := newVisibilityService(series, &movieRepoStub{}, &visibilityAssetStub{}, outbox)

	detail, err := svc.ArchiveSeries(context.Background(), series.series.SeriesID)
	if err != nil {
		t.Fatalf("ArchiveSeries: %v", err)
	}
	if detail.Visibility != string(po.VisibilityArchived) {
		t.Fatalf("visibility: got %s", detail.Visibility)
	}
	if len(outbox.messages) != 1 || outbox.messages[0].EventType != "title.archived" {
		t.Fatalf("outbox: %+v", outbox.messages)
	}
}

func TestPublishMovie(t *testing.T) {
	assetID := uuid.New()
	movies := &movieRepoStub{movie: &po.Movie{MovieID: uuid.New(), AssetID: &assetID, Visibility: po.VisibilityDraft}}
	assets := &visibilityAssetStub{assets: map[uuid.UUID]*po.VideoAsset{
		assetID: {AssetID: assetID, Status: po.AssetStatusReady},
	}}
	outbox := &outboxRepoStub{}
	svc := newVisibilityService(&seriesRepoStub{}, movies, assets, outbox)

	detail, err := svc.PublishMovie(context.Background(), movies.movie.MovieID)
	if err != nil {
		t.Fatalf("PublishMovie: %v", err)
	}
	if detail.Visibility != string(po.VisibilityPublished) {
		t.Fatalf("visibility: got %s", detail.Visibility)
	}
	if len(outbox.messages) != 1 || outbox.messages[0].EventType != "title.published" {
		t.Fatalf("outbox: %+v", outbox.messages)
	}
}

func TestPublishMovie_AssetNotReady(t *testing.T) {
	assetID := uuid.New()
	movies := &movieRepoStub{movie: &po.Movie{MovieID: uuid.New(), AssetID: &assetID}}
	assets := &visibilityAssetStub{assets: map[uuid.UUID]*po.VideoAsset{
		assetID: {AssetID: assetID, Status: po.AssetStatusUploading},
	}}
	svc := newVisibilityService(&seriesRepoStub{}, movies, assets, &outboxRepoStub{})

	_, err := svc.PublishMovie(context.Background(), movies.movie.MovieID)
	if kerrors.FromError(err).Reason != catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_READY.String() {
		t.Fatalf("reason: got %s", kerrors.FromError(err).Reason)
	}
}

func TestPublishMovie_NoAsset(t *testing.T) {
	movies := &movieRepoStub{movie: &po.Movie{MovieID: uuid.New()}}
	svc := newVisibilityService(&seriesRepoStub{}, movies, &visibilityAssetStub{}, &outboxRepoStub{})

	_, err := svc.PublishMovie(context.Background(), movies.movie.MovieID)
	if kerrors.FromError(err).Reason != catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_READY.String() {
		t.Fatalf("reason: got %s", kerrors.FromError(err).Reason)
	}
}

func TestArchiveMovie(t *testing.T) {
	movies := &movieRepoStub{movie: &po.Movie{MovieID: uuid.New(), Visibility: po.VisibilityPublished}}
	outbox := &outboxRepoStub{}
	svc := newVisibilityService(&seriesRepoStub{}, movies, &visibilityAssetStub{}, outbox)

	detail, err := svc.ArchiveMovie(context.Background(), movies.movie.MovieID)
	if err != nil {
		t.Fatalf("ArchiveMovie: %v", err)
	}
	if detail.Visibility != string(po.VisibilityArchived) {
		t.Fatalf("visibility: got %s", detail.Visibility)
	}
	if len(outbox.messages) != 1 || outbox.messages[0].EventType != "title.archived" {
		t.Fatalf("outbox: %+v", outbox.messages)
	}
}
