package services

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// AdRepo 定义广告素材管理需要的持久化行为。
type AdRepo interface {
	Create(ctx context.Context, sess txmanager.Session, a *po.AdCreative) (*po.AdCreative, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateAdInput) (*po.AdCreative, error)
	FindByID(ctx context.Context, sess txmanager.Session, adID uuid.UUID) (*po.AdCreative, error)
	List(ctx context.Context, limit, offset int) ([]*po.AdCreative, error)
	Delete(ctx context.Context, sess txmanager.Session, adID uuid.UUID) error
}

// CreateAdInput 表示创建广告素材的输入。
type CreateAdInput struct {
	Title     string
	Placement string
	CTAURL    *string
	AssetID   *uuid.UUID
	Active    bool
	StartsAt  *time.Time
	EndsAt    *time.Time
}

// UpdateAdInput 表示更新广告素材的可选字段。
type UpdateAdInput struct {
	AdID      uuid.UUID
	Title     *string
	Placement *string
	CTAURL    *string
	AssetID   *uuid.UUID
	Active    *bool
	StartsAt  *time.Time
	EndsAt    *time.Time
}

// AdService 封装广告素材与排期管理。
type AdService struct {
	repo AdRepo
	log  *log.Helper
}

// NewAdService 构造广告素材服务。
func NewAdService(repo AdRepo, logger log.Logger) *AdService {
	return &AdService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// CreateAd 创建广告素材。
func (s *AdService) CreateAd(ctx context.Context, input CreateAdInput) (*po.AdCreative, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title is required")
	}
	if strings.TrimSpace(input.Placement) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "placement is required")
	}
	if input.StartsAt != nil && input.EndsAt != nil && input.EndsAt.Before(*input.StartsAt) {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "ends_at must be after starts_at")
	}

	ad, err := s.repo.Create(ctx, nil, &po.AdCreative{
		AdID:      uuid.New(),
		Title:     strings.TrimSpace(input.Title),
		Placement: strings.TrimSpace(input.Placement),
		CTAURL:    input.CTAURL,
		AssetID:   input.AssetID,
		Active:    input.Active,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create ad failed: title=%s err=%v", input.Title, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create ad").WithCause(err)
	}
	return ad, nil
}

// UpdateAd 更新广告素材。
func (s *AdService) UpdateAd(ctx context.Context, input UpdateAdInput) (*po.AdCreative, error) {
	if input.AdID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "ad_id is required")
	}
	ad, err := s.repo.Update(ctx, nil, repositories.UpdateAdInput{
		AdID:      input.AdID,
		Title:     input.Title,
		Placement: input.Placement,
		CTAURL:    input.CTAURL,
		AssetID:   input.AssetID,
		Active:    input.Active,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
	})
	if err != nil {
		if stderrors.Is(err, repositories.ErrAdNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "ad not found")
		}
		s.log.WithContext(ctx).Errorf("update ad failed: ad_id=%s err=%v", input.AdID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update ad").WithCause(err)
	}
	return ad, nil
}

// GetAd 查询单条广告素材。
func (s *AdService) GetAd(ctx context.Context, adID uuid.UUID) (*po.AdCreative, error) {
	ad, err := s.repo.FindByID(ctx, nil, adID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAdNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "ad not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to query ad").WithCause(err)
	}
	return ad, nil
}

// ListAds 分页列出广告素材。
func (s *AdService) ListAds(ctx context.Context, limit, offset int) ([]*po.AdCreative, error) {
	ads, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list ads").WithCause(err)
	}
	return ads, nil
}

// DeleteAd 删除广告素材。
func (s *AdService) DeleteAd(ctx context.Context, adID uuid.UUID) error {
	if err := s.repo.Delete(ctx, nil, adID); err != nil {
		if stderrors.Is(err, repositories.ErrAdNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "ad not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete ad").WithCause(err)
	}
	return nil
}
