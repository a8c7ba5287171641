package controllers

import (
	"strings"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// AdminUserHandler 处理后台账号与页面权限相关的 HTTP 请求。
type AdminUserHandler struct {
	*BaseHandler
	svc *services.AdminUserService
}

// NewAdminUserHandler 构造后台账号 Handler。
func NewAdminUserHandler(svc *services.AdminUserService, base *BaseHandler) *AdminUserHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &AdminUserHandler{BaseHandler: base, svc: svc}
}

// Register 挂载后台账号路由。
func (h *AdminUserHandler) Register(r *khttp.Router) {
	r.POST("/admin-users", wrapRoute("/catalog.v1.AdminUserService/CreateAdminUser", h.createAdminUser))
	r.GET("/admin-users", wrapRoute("/catalog.v1.AdminUserService/ListAdminUsers", h.listAdminUsers))
	r.GET("/admin-users/by-email", wrapRoute("/catalog.v1.AdminUserService/GetAdminUserByEmail", h.getAdminUserByEmail))
	r.PATCH("/admin-users/{user_id}", wrapRoute("/catalog.v1.AdminUserService/UpdateAdminUser", h.updateAdminUser))
	r.DELETE("/admin-users/{user_id}", wrapRoute("/catalog.v1.AdminUserService/DeleteAdminUser", h.deleteAdminUser))
}

func (h *AdminUserHandler) createAdminUser(ctx khttp.Context) error {
	var req dto.CreateAdminUserRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	user, err := h.svc.CreateAdminUser(timeoutCtx, req.ToInput())
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewAdminUserResponse(user))
}

func (h *AdminUserHandler) listAdminUsers(ctx khttp.Context) error {
	page := dto.ParsePageQuery(ctx.Query())

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	users, err := h.svc.ListAdminUsers(timeoutCtx, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAdminUserListResponse(users))
}

// getAdminUserByEmail 供登录链路按邮箱定位账号。
func (h *AdminUserHandler) getAdminUserByEmail(ctx khttp.Context) error {
	email := strings.TrimSpace(ctx.Query().Get("email"))
	if email == "" {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "email query parameter is required")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	user, err := h.svc.GetAdminUserByEmail(timeoutCtx, email)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAdminUserResponse(user))
}

func (h *AdminUserHandler) updateAdminUser(ctx khttp.Context) error {
	userID, err := dto.ParseUUID("user_id", ctx.Vars().Get("user_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}
	var req dto.UpdateAdminUserRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	user, err := h.svc.UpdateAdminUser(timeoutCtx, req.ToInput(userID))
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewAdminUserResponse(user))
}

func (h *AdminUserHandler) deleteAdminUser(ctx khttp.Context) error {
	userID, err := dto.ParseUUID("user_id", ctx.Vars().Get("user_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.DeleteAdminUser(timeoutCtx, userID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
