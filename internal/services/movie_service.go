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

// MovieRepo 定义电影管理需要的持久化行为。
type MovieRepo interface {
	Create(ctx context.Context, sess txmanager.Session, m *po.Movie) (*po.Movie, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateMovieInput) (*po.Movie, error)
	FindByID(ctx context.Context, sess txmanager.Session, movieID uuid.UUID) (*po.Movie, error)
	List(ctx context.Context, limit, offset int) ([]*po.Movie, error)
	Delete(ctx context.Context, sess txmanager.Session, movieID uuid.UUID) error
}

// CreateMovieInput 表示创建电影的输入。
type CreateMovieInput struct {
	Title       string
	Description *string
	CoverURL    *string
	CategoryID  *uuid.UUID
	AssetID     *uuid.UUID
	ReleaseAt   *time.Time
}

// UpdateMovieInput 表示更新电影的可选字段。
type UpdateMovieInput struct {
	MovieID     uuid.UUID
	Title       *string
	Description *string
	CoverURL    *string
	CategoryID  *uuid.UUID
	AssetID     *uuid.UUID
	ReleaseAt   *time.Time
}

// MovieService 封装电影条目的管理用例。
type MovieService struct {
	repo MovieRepo
	log  *log.Helper
}

// NewMovieService 构造电影管理服务。
func NewMovieService(repo MovieRepo, logger log.Logger) *MovieService {
	return &MovieService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// CreateMovie 创建草稿态电影。
func (s *MovieService) CreateMovie(ctx context.Context, input CreateMovieInput) (*vo.MovieDetail, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title is required")
	}

	movie, err := s.repo.Create(ctx, nil, &po.Movie{
		MovieID:     uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CoverURL:    input.CoverURL,
		CategoryID:  input.CategoryID,
		AssetID:     input.AssetID,
		Visibility:  po.VisibilityDraft,
		ReleaseAt:   input.ReleaseAt,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create movie failed: title=%s err=%v", input.Title, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create movie").WithCause(err)
	}

	s.log.WithContext(ctx).Infof("CreateMovie: movie_id=%s title=%s", movie.MovieID, movie.Title)
	return vo.NewMovieDetail(movie), nil
}

// UpdateMovie 更新电影元数据。可见性变更走 VisibilityService。
func (s *MovieService) UpdateMovie(ctx context.Context, input UpdateMovieInput) (*vo.MovieDetail, error) {
	if input.MovieID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "movie_id is required")
	}
	movie, err := s.repo.Update(ctx, nil, repositories.UpdateMovieInput{
		MovieID:     input.MovieID,
		Title:       input.Title,
		Description: input.Description,
		CoverURL:    input.CoverURL,
		CategoryID:  input.CategoryID,
		AssetID:     input.AssetID,
		ReleaseAt:   input.ReleaseAt,
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrMovieNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "movie not found")
		}
		s.log.WithContext(ctx).Errorf("update movie failed: movie_id=%s err=%v", input.MovieID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update movie").WithCause(err)
	}
	return vo.NewMovieDetail(movie), nil
}

// GetMovie 查询单部电影。
func (s *MovieService) GetMovie(ctx context.Context, movieID uuid.UUID) (*vo.MovieDetail, error) {
	movie, err := s.repo.FindByID(ctx, nil, movieID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrMovieNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "movie not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to query movie").WithCause(err)
	}
	return vo.NewMovieDetail(movie), nil
}

// ListMovies 分页列出电影。
func (s *MovieService) ListMovies(ctx context.Context, limit, offset int) ([]*vo.MovieDetail, error) {
	movies, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list movies").WithCause(err)
	}
	out := make([]*vo.MovieDetail, 0, len(movies))
	for _, movie := range movies {
		out = append(out, vo.NewMovieDetail(movie))
	}
	return out, nil
}

// DeleteMovie 删除电影。
func (s *MovieService) DeleteMovie(ctx context.Context, movieID uuid.UUID) error {
	if err := s.repo.Delete(ctx, nil, movieID); err != nil {
		if stderrors.Is(err, repositories.ErrMovieNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "movie not found")
		}
		s.log.WithContext(ctx).Errorf("delete movie failed: movie_id=%s err=%v", movieID, err)
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete movie").WithCause(err)
	}
	s.log.WithContext(ctx).Infof("DeleteMovie: movie_id=%s", movieID)
	return nil
}
