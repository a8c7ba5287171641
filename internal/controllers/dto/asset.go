package dto

import (
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/services"

	"github.com/google/uuid"
)

// CreateAssetRequest 是创建资产的请求载荷。
type CreateAssetRequest struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
}

// ToInput 转换为服务层输入。
func (r CreateAssetRequest) ToInput() services.CreateAssetInput {
	return services.CreateAssetInput{
		Kind:  po.AssetKind(r.Kind),
		Title: r.Title,
	}
}

// UpdateAssetRequest 是更新资产元数据的请求载荷。
type UpdateAssetRequest struct {
	Title *string `json:"title"`
}

// ToInput 转换为服务层输入。
func (r UpdateAssetRequest) ToInput(assetID uuid.UUID) services.UpdateAssetInput {
	return services.UpdateAssetInput{
		AssetID: assetID,
		Title:   r.Title,
	}
}

// DeleteAssetRequest 是删除资产的可选请求载荷。
type DeleteAssetRequest struct {
	Reason *string `json:"reason"`
}

// ToInput 转换为服务层输入。
func (r DeleteAssetRequest) ToInput(assetID uuid.UUID) services.DeleteAssetInput {
	return services.DeleteAssetInput{
		AssetID: assetID,
		Reason:  r.Reason,
	}
}
