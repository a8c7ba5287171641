package controllers

import (
	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// TrailerHandler 处理预告片挂载相关的 HTTP 请求。
type TrailerHandler struct {
	*BaseHandler
	svc *services.TrailerService
}

// NewTrailerHandler 构造预告片 Handler。
func NewTrailerHandler(svc *services.TrailerService, base *BaseHandler) *TrailerHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &TrailerHandler{BaseHandler: base, svc: svc}
}

// Register 挂载预告片路由。
func (h *TrailerHandler) Register(r *khttp.Router) {
	r.POST("/trailers", wrapRoute("/catalog.v1.TrailerService/CreateTrailer", h.createTrailer))
	r.GET("/trailers", wrapRoute("/catalog.v1.TrailerService/ListTrailers", h.listTrailers))
	r.GET("/trailers/{trailer_id}", wrapRoute("/catalog.v1.TrailerService/GetTrailer", h.getTrailer))
	r.PATCH("/trailers/{trailer_id}", wrapRoute("/catalog.v1.TrailerService/UpdateTrailer", h.updateTrailer))
	r.DELETE("/trailers/{trailer_id}", wrapRoute("/catalog.v1.TrailerService/DeleteTrailer", h.deleteTrailer))
}

func (h *TrailerHandler) getTrailer(ctx khttp.Context) error {
	trailerID, err := dto.ParseUUID("trailer_id", ctx.Vars().Get("trailer_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	trailer, err := h.svc.GetTrailer(timeoutCtx, trailerID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewTrailerResponse(trailer))
}

func (h *TrailerHandler) updateTrailer(ctx khttp.Context) error {
	trailerID, err := dto.ParseUUID("trailer_id", ctx.Vars().Get("trailer_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateTrailerRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput(trailerID)
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	trailer, err := h.svc.UpdateTrailer(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewTrailerResponse(trailer))
}

func (h *TrailerHandler) createTrailer(ctx khttp.Context) error {
	var req dto.CreateTrailerRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput()
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	trailer, err := h.svc.CreateTrailer(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewTrailerResponse(trailer))
}

// listTrailers 按归属维度列出预告片，owner_type 与 owner_id 均为必填查询参数。
func (h *TrailerHandler) listTrailers(ctx khttp.Context) error {
	ownerType := ctx.Query().Get("owner_type")
	if ownerType == "" {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "owner_type query parameter is required")
	}
	ownerID, err := dto.ParseUUID("owner_id", ctx.Query().Get("owner_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	trailers, err := h.svc.ListTrailers(timeoutCtx, po.TrailerOwnerType(ownerType), ownerID)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewTrailerListResponse(trailers))
}

func (h *TrailerHandler) deleteTrailer(ctx khttp.Context) error {
	trailerID, err := dto.ParseUUID("trailer_id", ctx.Vars().Get("trailer_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteTrailer(timeoutCtx, trailerID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
