package controllers

import (
	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/metadata"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// AssetHandler 处理视频资产的增删改查 HTTP 请求。
type AssetHandler struct {
	*BaseHandler
	commands *services.AssetCommandService
	queries  *services.AssetQueryService
}

// NewAssetHandler 构造资产 Handler。
func NewAssetHandler(commands *services.AssetCommandService, queries *services.AssetQueryService, base *BaseHandler) *AssetHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &AssetHandler{BaseHandler: base, commands: commands, queries: queries}
}

// Register 挂载资产路由。
func (h *AssetHandler) Register(r *khttp.Router) {
	r.POST("/assets", wrapRoute("/catalog.v1.AssetService/CreateAsset", h.createAsset))
	r.GET("/assets", wrapRoute("/catalog.v1.AssetService/ListAssets", h.listAssets))
	r.GET("/assets/{asset_id}", wrapRoute("/catalog.v1.AssetService/GetAsset", h.getAsset))
	r.PATCH("/assets/{asset_id}", wrapRoute("/catalog.v1.AssetService/UpdateAsset", h.updateAsset))
	r.DELETE("/assets/{asset_id}", wrapRoute("/catalog.v1.AssetService/DeleteAsset", h.deleteAsset))
}

func (h *AssetHandler) createAsset(ctx khttp.Context) error {
	var req dto.CreateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	created, err := h.commands.CreateAsset(timeoutCtx, req.ToInput())
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewAssetResponse(created))
}

func (h *AssetHandler) listAssets(ctx khttp.Context) error {
	status := ctx.Query().Get("status")
	if status == "" {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "status query parameter is required")
	}
	page := dto.ParsePageQuery(ctx.Query())

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	assets, err := h.queries.ListAssetsByStatus(timeoutCtx, po.AssetStatus(status), page.Limit)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAssetListResponse(assets))
}

func (h *AssetHandler) getAsset(ctx khttp.Context) error {
	assetID, err := dto.ParseUUID("asset_id", ctx.Vars().Get("asset_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	detail, err := h.queries.GetAsset(timeoutCtx, assetID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAssetResponse(detail))
}

func (h *AssetHandler) updateAsset(ctx khttp.Context) error {
	assetID, err := dto.ParseUUID("asset_id", ctx.Vars().Get("asset_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateAssetRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	updated, err := h.commands.UpdateAsset(timeoutCtx, req.ToInput(assetID))
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAssetResponse(updated))
}

func (h *AssetHandler) deleteAsset(ctx khttp.Context) error {
	assetID, err := dto.ParseUUID("asset_id", ctx.Vars().Get("asset_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.DeleteAssetRequest
	// 删除请求体可选，绑定失败时按空载荷处理。
	_ = ctx.Bind(&req)

	meta := h.ExtractMetadata(ctx.Header())
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()
	timeoutCtx = metadata.Inject(timeoutCtx, meta)

	if err := h.commands.DeleteAsset(timeoutCtx, req.ToInput(assetID)); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
