package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/events"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/models/vo"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// TitleType 标识可上架的目录条目类型。
const (
	TitleTypeSeries = "series"
	TitleTypeMovie  = "movie"
)

// VisibilitySeriesRepo 定义上架流程需要的系列查询与更新行为。
type VisibilitySeriesRepo interface {
	FindSeriesByID(ctx context.Context, sess txmanager.Session, seriesID uuid.UUID) (*po.Series, error)
	UpdateSeries(ctx context.Context, sess txmanager.Session, input repositories.UpdateSeriesInput) (*po.Series, error)
	ListSeasons(ctx context.Context, seriesID uuid.UUID) ([]*po.Season, error)
	ListEpisodes(ctx context.Context, seasonID uuid.UUID) ([]*po.Episode, error)
}

// VisibilityMovieRepo 定义上架流程需要的电影查询与更新行为。
type VisibilityMovieRepo interface {
	FindByID(ctx context.Context, sess txmanager.Session, movieID uuid.UUID) (*po.Movie, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateMovieInput) (*po.Movie, error)
}

// VisibilityAssetRepo 定义上架前置校验需要的资产查询行为。
type VisibilityAssetRepo interface {
	FindByID(ctx context.Context, sess txmanager.Session, assetID uuid.UUID) (*po.VideoAsset, error)
}

// VisibilityService 控制目录条目的上架与归档。
// 上架要求关联视频资产已转码完成，避免把不可播放的内容暴露给用户。
type VisibilityService struct {
	series    VisibilitySeriesRepo
	movies    VisibilityMovieRepo
	assets    VisibilityAssetRepo
	outbox    OutboxWriter
	txManager txmanager.Manager
	log       *log.Helper
}

// NewVisibilityService 构造可见性服务。
func NewVisibilityService(series VisibilitySeriesRepo, movies VisibilityMovieRepo, assets VisibilityAssetRepo, outbox OutboxWriter, tx txmanager.Manager, logger log.Logger) *VisibilityService {
	return &VisibilityService{
		series:    series,
		movies:    movies,
		assets:    assets,
		outbox:    outbox,
		txManager: tx,
		log:       log.NewHelper(logger),
	}
}

// PublishSeries 将系列上架。要求至少一集的视频资产已就绪。
func (s *VisibilityService) PublishSeries(ctx context.Context, seriesID uuid.UUID) (*vo.SeriesDetail, error) {
	if err := s.checkSeriesReady(ctx, seriesID); err != nil {
		return nil, err
	}
	return s.setSeriesVisibility(ctx, seriesID, po.VisibilityPublished)
}

// ArchiveSeries 将系列归档下架。归档无前置条件。
func (s *VisibilityService) ArchiveSeries(ctx context.Context, seriesID uuid.UUID) (*vo.SeriesDetail, error) {
	return s.setSeriesVisibility(ctx, seriesID, po.VisibilityArchived)
}

// PublishMovie 将电影上架。要求关联资产已就绪。
func (s *VisibilityService) PublishMovie(ctx context.Context, movieID uuid.UUID) (*vo.MovieDetail, error) {
	movie, err := s.movies.FindByID(ctx, nil, movieID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrMovieNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "movie not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load movie").WithCause(err)
	}
	if movie.AssetID == nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_READY.String(), "movie has no video asset")
	}
	if err := s.checkAssetReady(ctx, *movie.AssetID); err != nil {
		return nil, err
	}
	return s.setMovieVisibility(ctx, movieID, po.VisibilityPublished)
}

// ArchiveMovie 将电影归档下架。
func (s *VisibilityService) ArchiveMovie(ctx context.Context, movieID uuid.UUID) (*vo.MovieDetail, error) {
	return s.setMovieVisibility(ctx, movieID, po.VisibilityArchived)
}

// checkSeriesReady 校验系列至少有一集可播放。
func (s *VisibilityService) checkSeriesReady(ctx context.Context, seriesID uuid.UUID) error {
	if _, err := s.series.FindSeriesByID(ctx, nil, seriesID); err != nil {
		if stderrors.Is(err, repositories.ErrSeriesNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "series not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load series").WithCause(err)
	}

	seasons, err := s.series.ListSeasons(ctx, seriesID)
	if err != nil {
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load seasons").WithCause(err)
	}
	for _, season := range seasons {
		episodes, err := s.series.ListEpisodes(ctx, season.SeasonID)
		if err != nil {
			return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load episodes").WithCause(err)
		}
		for _, episode := range episodes {
			if episode.AssetID == nil {
				continue
			}
			if err := s.checkAssetReady(ctx, *episode.AssetID); err == nil {
				return nil
			}
		}
	}
	return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_READY.String(), "series has no playable episode")
}

// checkAssetReady 校验资产已转码完成。
func (s *VisibilityService) checkAssetReady(ctx context.Context, assetID uuid.UUID) error {
	asset, err := s.assets.FindByID(ctx, nil, assetID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAssetNotFound) {
			return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_READY.String(), "video asset not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load asset").WithCause(err)
	}
	if asset.Status != po.AssetStatusReady {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_READY.String(),
			fmt.Sprintf("video asset is not ready: status=%s", asset.Status))
	}
	return nil
}

func (s *VisibilityService) setSeriesVisibility(ctx context.Context, seriesID uuid.UUID, visibility po.Visibility) (*vo.SeriesDetail, error) {
	var updated *po.Series
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		series, repoErr := s.series.UpdateSeries(txCtx, sess, repositories.UpdateSeriesInput{
			SeriesID:   seriesID,
			Visibility: &visibility,
		})
		if repoErr != nil {
			return repoErr
		}
		if err := s.enqueueVisibilityEvent(txCtx, sess, TitleTypeSeries, seriesID, visibility, series.UpdatedAt); err != nil {
			return err
		}
		updated = series
		return nil
	})
	if err != nil {
		return nil, s.classifyVisibilityErr(ctx, err, "series", seriesID)
	}

	s.log.WithContext(ctx).Infof("SetSeriesVisibility: series_id=%s visibility=%s", seriesID, visibility)
	return vo.NewSeriesDetail(updated), nil
}

func (s *VisibilityService) setMovieVisibility(ctx context.Context, movieID uuid.UUID, visibility po.Visibility) (*vo.MovieDetail, error) {
	var updated *po.Movie
	err := s.txManager.WithinTx(ctx, txmanager.TxOptions{}, func(txCtx context.Context, sess txmanager.Session) error {
		movie, repoErr := s.movies.Update(txCtx, sess, repositories.UpdateMovieInput{
			MovieID:    movieID,
			Visibility: &visibility,
		})
		if repoErr != nil {
			return repoErr
		}
		if err := s.enqueueVisibilityEvent(txCtx, sess, TitleTypeMovie, movieID, visibility, movie.UpdatedAt); err != nil {
			return err
		}
		updated = movie
		return nil
	})
	if err != nil {
		return nil, s.classifyVisibilityErr(ctx, err, "movie", movieID)
	}

	s.log.WithContext(ctx).Infof("SetMovieVisibility: movie_id=%s visibility=%s", movieID, visibility)
	return vo.NewMovieDetail(updated), nil
}

func (s *VisibilityService) enqueueVisibilityEvent(ctx context.Context, sess txmanager.Session, titleType string, titleID uuid.UUID, visibility po.Visibility, updatedAt time.Time) error {
	occurredAt := updatedAt.UTC()
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	event, buildErr := events.NewTitleVisibilityEvent(titleType, titleID, visibility, uuid.New(), occurredAt)
	if buildErr != nil {
		return fmt.Errorf("build title visibility event: %w", buildErr)
	}
	return enqueueOutbox(ctx, sess, s.outbox, event, occurredAt)
}

func (s *VisibilityService) classifyVisibilityErr(ctx context.Context, err error, kind string, titleID uuid.UUID) error {
	if stderrors.Is(err, repositories.ErrSeriesNotFound) || stderrors.Is(err, repositories.ErrMovieNotFound) {
		return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), kind+" not found")
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.GatewayTimeout(catalogv1.ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT.String(), "visibility update timeout")
	}
	s.log.WithContext(ctx).Errorf("set %s visibility failed: id=%s err=%v", kind, titleID, err)
	return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update visibility").WithCause(err)
}
