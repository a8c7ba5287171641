// Package views 负责将内部 VO/PO 对象转换为 HTTP JSON 响应。
// 该层作为传输层的序列化适配器，隔离业务逻辑与协议细节。
package views

import (
	"github.com/miravio/services-catalog/internal/models/vo"
)

// AssetResponse 包装单个资产详情。
type AssetResponse struct {
	Asset *vo.AssetDetail `json:"asset"`
}

// AssetListResponse 包装资产列表。
type AssetListResponse struct {
	Assets []*vo.AssetDetail `json:"assets"`
}

// IngestResponse 描述一次入库流水线的最终结果。
// TimedOut 为 true 表示转码轮询超时、元数据已保存但状态仍为 processing。
type IngestResponse struct {
	Asset    *vo.AssetDetail    `json:"asset"`
	Job      *vo.IngestProgress `json:"job"`
	TimedOut bool               `json:"timed_out"`
	Warning  string             `json:"warning,omitempty"`
}

// ProgressResponse 包装流水线进度。
type ProgressResponse struct {
	Progress *vo.IngestProgress `json:"progress"`
}

// NewAssetResponse 构造资产详情响应。
func NewAssetResponse(detail *vo.AssetDetail) *AssetResponse {
	return &AssetResponse{Asset: detail}
}

// NewAssetListResponse 构造资产列表响应。
func NewAssetListResponse(details []*vo.AssetDetail) *AssetListResponse {
	if details == nil {
		details = []*vo.AssetDetail{}
	}
	return &AssetListResponse{Assets: details}
}

// NewIngestResponse 构造入库结果响应。轮询超时时附带提示信息。
func NewIngestResponse(asset *vo.AssetDetail, job *vo.IngestProgress, timedOut bool) *IngestResponse {
	resp := &IngestResponse{Asset: asset, Job: job, TimedOut: timedOut}
	if timedOut {
		resp.Warning = "encode polling timed out; metadata saved, awaiting cdn callback"
	}
	return resp
}

// NewProgressResponse 构造进度响应。
func NewProgressResponse(progress *vo.IngestProgress) *ProgressResponse {
	return &ProgressResponse{Progress: progress}
}
