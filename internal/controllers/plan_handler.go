package controllers

import (
	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// PlanHandler 处理订阅套餐相关的 HTTP 请求。
type PlanHandler struct {
	*BaseHandler
	svc *services.PlanService
}

// NewPlanHandler 构造套餐 Handler。
func NewPlanHandler(svc *services.PlanService, base *BaseHandler) *PlanHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &PlanHandler{BaseHandler: base, svc: svc}
}

// Register 挂载套餐路由。
func (h *PlanHandler) Register(r *khttp.Router) {
	r.POST("/plans", wrapRoute("/catalog.v1.PlanService/CreatePlan", h.createPlan))
	r.GET("/plans", wrapRoute("/catalog.v1.PlanService/ListPlans", h.listPlans))
	r.PATCH("/plans/{plan_id}", wrapRoute("/catalog.v1.PlanService/UpdatePlan", h.updatePlan))
	r.DELETE("/plans/{plan_id}", wrapRoute("/catalog.v1.PlanService/DeletePlan", h.deletePlan))
}

func (h *PlanHandler) createPlan(ctx khttp.Context) error {
	var req dto.CreatePlanRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	plan, err := h.svc.CreatePlan(timeoutCtx, req.ToInput())
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewPlanResponse(plan))
}

func (h *PlanHandler) listPlans(ctx khttp.Context) error {
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	plans, err := h.svc.ListPlans(timeoutCtx)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewPlanListResponse(plans))
}

func (h *PlanHandler) updatePlan(ctx khttp.Context) error {
	planID, err := dto.ParseUUID("plan_id", ctx.Vars().Get("plan_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdatePlanRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	plan, err := h.svc.UpdatePlan(timeoutCtx, req.ToInput(planID))
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewPlanResponse(plan))
}

func (h *PlanHandler) deletePlan(ctx khttp.Context) error {
	planID, err := dto.ParseUUID("plan_id", ctx.Vars().Get("plan_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeletePlan(timeoutCtx, planID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
