package services

import (
	"context"
	stderrors "errors"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/models/vo"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// AssetQueryRepo 定义读模型需要的查询行为。
type AssetQueryRepo interface {
	FindByID(ctx context.Context, sess txmanager.Session, assetID uuid.UUID) (*po.VideoAsset, error)
	ListByStatus(ctx context.Context, status po.AssetStatus, limit int) ([]*po.VideoAsset, error)
}

// AssetQueryService 封装视频资产读模型用例。
type AssetQueryService struct {
	repo AssetQueryRepo
	log  *log.Helper
}

// NewAssetQueryService 构造资产读模型服务。
func NewAssetQueryService(repo AssetQueryRepo, logger log.Logger) *AssetQueryService {
	return &AssetQueryService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// GetAsset 根据 ID 查询资产详情。
func (s *AssetQueryService) GetAsset(ctx context.Context, assetID uuid.UUID) (*vo.AssetDetail, error) {
	if assetID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "asset_id is required")
	}
	asset, err := s.repo.FindByID(ctx, nil, assetID)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAssetNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_ASSET_NOT_FOUND.String(), "asset not found")
		}
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.GatewayTimeout(catalogv1.ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT.String(), "query timeout")
		}
		s.log.WithContext(ctx).Errorf("get asset failed: asset_id=%s err=%v", assetID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to query asset").WithCause(err)
	}
	return vo.NewAssetDetail(asset), nil
}

// ListAssetsByStatus 按状态列出资产，供后台监控上传/转码队列。
func (s *AssetQueryService) ListAssetsByStatus(ctx context.Context, status po.AssetStatus, limit int) ([]*vo.AssetDetail, error) {
	switch status {
	case po.AssetStatusPendingUpload, po.AssetStatusUploading, po.AssetStatusProcessing, po.AssetStatusReady, po.AssetStatusFailed:
	default:
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid asset status")
	}

	assets, err := s.repo.ListByStatus(ctx, status, limit)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.GatewayTimeout(catalogv1.ErrorReason_ERROR_REASON_UPSTREAM_TIMEOUT.String(), "query timeout")
		}
		s.log.WithContext(ctx).Errorf("list assets failed: status=%s err=%v", status, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list assets").WithCause(err)
	}

	out := make([]*vo.AssetDetail, 0, len(assets))
	for _, asset := range assets {
		out = append(out, vo.NewAssetDetail(asset))
	}
	return out, nil
}
