package controllers

import (
	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// AdHandler 处理广告素材排期相关的 HTTP 请求。
type AdHandler struct {
	*BaseHandler
	svc *services.AdService
}

// NewAdHandler 构造广告 Handler。
func NewAdHandler(svc *services.AdService, base *BaseHandler) *AdHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &AdHandler{BaseHandler: base, svc: svc}
}

// Register 挂载广告路由。
func (h *AdHandler) Register(r *khttp.Router) {
	r.POST("/ads", wrapRoute("/catalog.v1.AdService/CreateAd", h.createAd))
	r.GET("/ads", wrapRoute("/catalog.v1.AdService/ListAds", h.listAds))
	r.GET("/ads/{ad_id}", wrapRoute("/catalog.v1.AdService/GetAd", h.getAd))
	r.PATCH("/ads/{ad_id}", wrapRoute("/catalog.v1.AdService/UpdateAd", h.updateAd))
	r.DELETE("/ads/{ad_id}", wrapRoute("/catalog.v1.AdService/DeleteAd", h.deleteAd))
}

func (h *AdHandler) createAd(ctx khttp.Context) error {
	var req dto.CreateAdRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput()
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	ad, err := h.svc.CreateAd(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewAdResponse(ad))
}

func (h *AdHandler) listAds(ctx khttp.Context) error {
	page := dto.ParsePageQuery(ctx.Query())

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	ads, err := h.svc.ListAds(timeoutCtx, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAdListResponse(ads))
}

func (h *AdHandler) getAd(ctx khttp.Context) error {
	adID, err := dto.ParseUUID("ad_id", ctx.Vars().Get("ad_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	ad, err := h.svc.GetAd(timeoutCtx, adID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAdResponse(ad))
}

func (h *AdHandler) updateAd(ctx khttp.Context) error {
	adID, err := dto.ParseUUID("ad_id", ctx.Vars().Get("ad_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateAdRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput(adID)
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	ad, err := h.svc.UpdateAd(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAdResponse(ad))
}

func (h *AdHandler) deleteAd(ctx khttp.Context) error {
	adID, err := dto.ParseUUID("ad_id", ctx.Vars().Get("ad_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteAd(timeoutCtx, adID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
