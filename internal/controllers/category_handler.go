package controllers

import (
	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// CategoryHandler 处理内容分类相关的 HTTP 请求。
type CategoryHandler struct {
	*BaseHandler
	svc *services.CategoryService
}

// NewCategoryHandler 构造分类 Handler。
func NewCategoryHandler(svc *services.CategoryService, base *BaseHandler) *CategoryHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &CategoryHandler{BaseHandler: base, svc: svc}
}

// Register 挂载分类路由。
func (h *CategoryHandler) Register(r *khttp.Router) {
	r.POST("/categories", wrapRoute("/catalog.v1.CategoryService/CreateCategory", h.createCategory))
	r.GET("/categories", wrapRoute("/catalog.v1.CategoryService/ListCategories", h.listCategories))
	r.PATCH("/categories/{category_id}", wrapRoute("/catalog.v1.CategoryService/UpdateCategory", h.updateCategory))
	r.DELETE("/categories/{category_id}", wrapRoute("/catalog.v1.CategoryService/DeleteCategory", h.deleteCategory))
}

func (h *CategoryHandler) createCategory(ctx khttp.Context) error {
	var req dto.CreateCategoryRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	category, err := h.svc.CreateCategory(timeoutCtx, req.Name, req.Slug, req.SortOrder)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewCategoryResponse(category))
}

func (h *CategoryHandler) listCategories(ctx khttp.Context) error {
	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	categories, err := h.svc.ListCategories(timeoutCtx)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewCategoryListResponse(categories))
}

func (h *CategoryHandler) updateCategory(ctx khttp.Context) error {
	categoryID, err := dto.ParseUUID("category_id", ctx.Vars().Get("category_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateCategoryRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	category, err := h.svc.UpdateCategory(timeoutCtx, req.ToInput(categoryID))
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewCategoryResponse(category))
}

func (h *CategoryHandler) deleteCategory(ctx khttp.Context) error {
	categoryID, err := dto.ParseUUID("category_id", ctx.Vars().Get("category_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteCategory(timeoutCtx, categoryID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
