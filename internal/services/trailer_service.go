package services

import (
	"context"
	stderrors "errors"
	"strings"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// TrailerRepo 定义预告片管理需要的持久化行为。
type TrailerRepo interface {
	Create(ctx context.Context, sess txmanager.Session, t *po.Trailer) (*po.Trailer, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateTrailerInput) (*po.Trailer, error)
	FindByID(ctx context.Context, sess txmanager.Session, trailerID uuid.UUID) (*po.Trailer, error)
	ListByOwner(ctx context.Context, ownerType po.TrailerOwnerType, ownerID uuid.UUID) ([]*po.Trailer, error)
	Delete(ctx context.Context, sess txmanager.Session, trailerID uuid.UUID) error
}

// CreateTrailerInput 表示创建预告片的输入。
type CreateTrailerInput struct {
	OwnerType po.TrailerOwnerType
	OwnerID   uuid.UUID
	AssetID   *uuid.UUID
	Title     string
}

// TrailerService 封装预告片挂载管理。
type TrailerService struct {
	repo TrailerRepo
	log  *log.Helper
}

// NewTrailerService 构造预告片服务。
func NewTrailerService(repo TrailerRepo, logger log.Logger) *TrailerService {
	return &TrailerService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// CreateTrailer 将预告片挂到系列或电影下。
func (s *TrailerService) CreateTrailer(ctx context.Context, input CreateTrailerInput) (*po.Trailer, error) {
	switch input.OwnerType {
	case po.TrailerOwnerSeries, po.TrailerOwnerMovie:
	default:
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "owner_type must be series or movie")
	}
	if input.OwnerID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "owner_id is required")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title is required")
	}

	trailer, err := s.repo.Create(ctx, nil, &po.Trailer{
		TrailerID: uuid.New(),
		OwnerType: input.OwnerType,
		OwnerID:   input.OwnerID,
		AssetID:   input.AssetID,
		Title:     strings.TrimSpace(input.Title),
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create trailer failed: owner=%s/%s err=%v", input.OwnerType, input.OwnerID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create trailer").WithCause(err)
	}
	return trailer, nil
}

// UpdateTrailerInput 表示更新预告片的可选字段，未提供的字段保持原值。
type UpdateTrailerInput struct {
	TrailerID uuid.UUID
	Title     *string
	AssetID   *uuid.UUID
}

// UpdateTrailer 更新预告片。不携带新视频时资产引用保持不变。
func (s *TrailerService) UpdateTrailer(ctx context.Context, input UpdateTrailerInput) (*po.Trailer, error) {
	if input.TrailerID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "trailer_id is required")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title must not be blank")
	}

	trailer, err := s.repo.Update(ctx, nil, repositories.UpdateTrailerInput{
		TrailerID: input.TrailerID,
		Title:     input.Title,
		AssetID:   input.AssetID,
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrTrailerNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "trailer not found")
		}
		s.log.WithContext(ctx).Errorf("update trailer failed: trailer_id=%s err=%v", input.TrailerID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update trailer").WithCause(err)
	}
	return trailer, nil
}

// GetTrailer 查询单条预告片。
func (s *TrailerService) GetTrailer(ctx context.Context, trailerID uuid.UUID) (*po.Trailer, error) {
	trailer, err := s.repo.FindByID(ctx, nil, trailerID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrTrailerNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "trailer not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to query trailer").WithCause(err)
	}
	return trailer, nil
}

// ListTrailers 列出某条目下的预告片。
func (s *TrailerService) ListTrailers(ctx context.Context, ownerType po.TrailerOwnerType, ownerID uuid.UUID) ([]*po.Trailer, error) {
	trailers, err := s.repo.ListByOwner(ctx, ownerType, ownerID)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list trailers").WithCause(err)
	}
	return trailers, nil
}

// DeleteTrailer 移除预告片挂载。
func (s *TrailerService) DeleteTrailer(ctx context.Context, trailerID uuid.UUID) error {
	if err := s.repo.Delete(ctx, nil, trailerID); err != nil {
		if stderrors.Is(err, repositories.ErrTrailerNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "trailer not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete trailer").WithCause(err)
	}
	return nil
}
