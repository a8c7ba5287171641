package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/models/vo"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// SeriesRepo 定义系列/季/集管理需要的持久化行为。
type SeriesRepo interface {
	CreateSeries(ctx context.Context, sess txmanager.Session, s *po.Series) (*po.Series, error)
	UpdateSeries(ctx context.Context, sess txmanager.Session, input repositories.UpdateSeriesInput) (*po.Series, error)
	FindSeriesByID(ctx context.Context, sess txmanager.Session, seriesID uuid.UUID) (*po.Series, error)
	ListSeries(ctx context.Context, limit, offset int) ([]*po.Series, error)
	DeleteSeries(ctx context.Context, sess txmanager.Session, seriesID uuid.UUID) error

	CreateSeason(ctx context.Context, sess txmanager.Session, s *po.Season) (*po.Season, error)
	ListSeasons(ctx context.Context, seriesID uuid.UUID) ([]*po.Season, error)
	DeleteSeason(ctx context.Context, sess txmanager.Session, seasonID uuid.UUID) error

	CreateEpisode(ctx context.Context, sess txmanager.Session, e *po.Episode) (*po.Episode, error)
	UpdateEpisode(ctx context.Context, sess txmanager.Session, input repositories.UpdateEpisodeInput) (*po.Episode, error)
	FindEpisodeByID(ctx context.Context, sess txmanager.Session, episodeID uuid.UUID) (*po.Episode, error)
	ListEpisodes(ctx context.Context, seasonID uuid.UUID) ([]*po.Episode, error)
	DeleteEpisode(ctx context.Context, sess txmanager.Session, episodeID uuid.UUID) error
}

// CreateSeriesInput 表示创建系列的输入。
type CreateSeriesInput struct {
	Title       string
	Description *string
	CoverURL    *string
	CategoryID  *uuid.UUID
	ReleaseAt   *time.Time
}

// UpdateSeriesInput 表示更新系列的可选字段。
type UpdateSeriesInput struct {
	SeriesID    uuid.UUID
	Title       *string
	Description *string
	CoverURL    *string
	CategoryID  *uuid.UUID
	ReleaseAt   *time.Time
}

// CreateEpisodeInput 表示创建单集的输入。
type CreateEpisodeInput struct {
	SeasonID      uuid.UUID
	AssetID       *uuid.UUID
	EpisodeNumber int32
	Title         string
	Description   *string
	IsFree        bool
}

// UpdateEpisodeInput 表示更新单集的可选字段。
// AssetID 为 nil 时保留既有视频引用，编辑元数据不会断开视频。
type UpdateEpisodeInput struct {
	EpisodeID     uuid.UUID
	AssetID       *uuid.UUID
	EpisodeNumber *int32
	Title         *string
	Description   *string
	IsFree        *bool
}

// SeriesService 封装短剧系列及其季/集结构的管理用例。
type SeriesService struct {
	repo SeriesRepo
	log  *log.Helper
}

// NewSeriesService 构造系列管理服务。
func NewSeriesService(repo SeriesRepo, logger log.Logger) *SeriesService {
	return &SeriesService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// CreateSeries 创建草稿态系列。
func (s *SeriesService) CreateSeries(ctx context.Context, input CreateSeriesInput) (*vo.SeriesDetail, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title is required")
	}

	series := &po.Series{
		SeriesID:    uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CoverURL:    input.CoverURL,
		CategoryID:  input.CategoryID,
		Visibility:  po.VisibilityDraft,
		ReleaseAt:   input.ReleaseAt,
	}
	created, err := s.repo.CreateSeries(ctx, nil, series)
	if err != nil {
		s.log.WithContext(ctx).Errorf("create series failed: title=%s err=%v", input.Title, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create series").WithCause(err)
	}

	s.log.WithContext(ctx).Infof("CreateSeries: series_id=%s title=%s", created.SeriesID, created.Title)
	return vo.NewSeriesDetail(created), nil
}

// UpdateSeries 更新系列元数据。可见性变更走 VisibilityService。
func (s *SeriesService) UpdateSeries(ctx context.Context, input UpdateSeriesInput) (*vo.SeriesDetail, error) {
	if input.SeriesID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "series_id is required")
	}
	updated, err := s.repo.UpdateSeries(ctx, nil, repositories.UpdateSeriesInput{
		SeriesID:    input.SeriesID,
		Title:       input.Title,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		CategoryID:  input.CategoryID,
		ReleaseAt:   input.ReleaseAt,
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "series not found")
		}
		s.log.WithContext(ctx).Errorf("update series failed: series_id=%s err=%v", input.SeriesID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update series").WithCause(err)
	}
	return vo.NewSeriesDetail(updated), nil
}

// GetSeries 查询单个系列。
func (s *SeriesService) GetSeries(ctx context.Context, seriesID uuid.UUID) (*vo.SeriesDetail, error) {
	series, err := s.repo.FindSeriesByID(ctx, nil, seriesID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "series not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to query series").WithCause(err)
	}
	return vo.NewSeriesDetail(series), nil
}

// ListSeries 分页列出系列。
func (s *SeriesService) ListSeries(ctx context.Context, limit, offset int) ([]*vo.SeriesDetail, error) {
	list, err := s.repo.ListSeries(ctx, limit, offset)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list series").WithCause(err)
	}
	out := make([]*vo.SeriesDetail, 0, len(list))
	for _, series := range list {
		out = append(out, vo.NewSeriesDetail(series))
	}
	return out, nil
}

// DeleteSeries 删除系列及其级联的季/集。
func (s *SeriesService) DeleteSeries(ctx context.Context, seriesID uuid.UUID) error {
	if err := s.repo.DeleteSeries(ctx, nil, seriesID); err != nil {
		if stderrors.Is(err, repositories.ErrSeriesNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "series not found")
		}
		s.log.WithContext(ctx).Errorf("delete series failed: series_id=%s err=%v", seriesID, err)
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete series").WithCause(err)
	}
	s.log.WithContext(ctx).Infof("DeleteSeries: series_id=%s", seriesID)
	return nil
}

// CreateSeason 在系列下创建季。
func (s *SeriesService) CreateSeason(ctx context.Context, seriesID uuid.UUID, seasonNumber int32, title *string) (*po.Season, error) {
	if seriesID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "series_id is required")
	}
	if seasonNumber <= 0 {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "season_number must be positive")
	}
	if _, err := s.repo.FindSeriesByID(ctx, nil, seriesID); err != nil {
		if stderrors.Is(err, repositories.ErrSeriesNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "series not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to load series").WithCause(err)
	}

	season, err := s.repo.CreateSeason(ctx, nil, &po.Season{
		SeasonID:     uuid.New(),
		SeriesID:     seriesID,
		SeasonNumber: seasonNumber,
		Title:        title,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create season failed: series_id=%s err=%v", seriesID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create season").WithCause(err)
	}
	return season, nil
}

// ListSeasons 列出系列下的季。
func (s *SeriesService) ListSeasons(ctx context.Context, seriesID uuid.UUID) ([]*po.Season, error) {
	seasons, err := s.repo.ListSeasons(ctx, seriesID)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list seasons").WithCause(err)
	}
	return seasons, nil
}

// DeleteSeason 删除季。
func (s *SeriesService) DeleteSeason(ctx context.Context, seasonID uuid.UUID) error {
	if err := s.repo.DeleteSeason(ctx, nil, seasonID); err != nil {
		if stderrors.Is(err, repositories.ErrSeasonNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "season not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete season").WithCause(err)
	}
	return nil
}

// CreateEpisode 在季下创建单集。
func (s *SeriesService) CreateEpisode(ctx context.Context, input CreateEpisodeInput) (*vo.EpisodeDetail, error) {
	if input.SeasonID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "season_id is required")
	}
	if input.EpisodeNumber <= 0 {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "episode_number must be positive")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title is required")
	}

	episode, err := s.repo.CreateEpisode(ctx, nil, &po.Episode{
		EpisodeID:     uuid.New(),
		SeasonID:      input.SeasonID,
		AssetID:       input.AssetID,
		EpisodeNumber: input.EpisodeNumber,
		Title:         strings.TrimSpace(input.Title),
		Description:   input.Description,
		IsFree:        input.IsFree,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create episode failed: season_id=%s err=%v", input.SeasonID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create episode").WithCause(err)
	}
	return vo.NewEpisodeDetail(episode), nil
}

// UpdateEpisode 更新单集元数据。
func (s *SeriesService) UpdateEpisode(ctx context.Context, input UpdateEpisodeInput) (*vo.EpisodeDetail, error) {
	if input.EpisodeID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "episode_id is required")
	}
	episode, err := s.repo.UpdateEpisode(ctx, nil, repositories.UpdateEpisodeInput{
		EpisodeID:     input.EpisodeID,
		AssetID:       input.AssetID,
		EpisodeNumber: input.EpisodeNumber,
		Title:         input.Title,
		Description:   input.Description,
		IsFree:        input.IsFree,
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrEpisodeNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "episode not found")
		}
		s.log.WithContext(ctx).Errorf("update episode failed: episode_id=%s err=%v", input.EpisodeID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update episode").WithCause(err)
	}
	return vo.NewEpisodeDetail(episode), nil
}

// ListEpisodes 列出季下的单集。
func (s *SeriesService) ListEpisodes(ctx context.Context, seasonID uuid.UUID) ([]*vo.EpisodeDetail, error) {
	episodes, err := s.repo.ListEpisodes(ctx, seasonID)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list episodes").WithCause(err)
	}
	out := make([]*vo.EpisodeDetail, 0, len(episodes))
	for _, episode := range episodes {
		out = append(out, vo.NewEpisodeDetail(episode))
	}
	return out, nil
}

// DeleteEpisode 删除单集。
func (s *SeriesService) DeleteEpisode(ctx context.Context, episodeID uuid.UUID) error {
	if err := s.repo.DeleteEpisode(ctx, nil, episodeID); err != nil {
		if stderrors.Is(err, repositories.ErrEpisodeNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "episode not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete episode").WithCause(err)
	}
	return nil
}
