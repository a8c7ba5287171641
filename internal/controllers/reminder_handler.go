package controllers

import (
	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/controllers/dto"
	"github.com/miravio/services-catalog/internal/services"
	"github.com/miravio/services-catalog/internal/views"

	"github.com/go-kratos/kratos/v2/errors"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
)

// ReminderHandler 处理上线提醒排期相关的 HTTP 请求。
type ReminderHandler struct {
	*BaseHandler
	svc *services.ReminderService
}

// NewReminderHandler 构造提醒 Handler。
func NewReminderHandler(svc *services.ReminderService, base *BaseHandler) *ReminderHandler {
	if base == nil {
		base = NewBaseHandler(HandlerTimeouts{})
	}
	return &ReminderHandler{BaseHandler: base, svc: svc}
}

// Register 挂载提醒路由。
func (h *ReminderHandler) Register(r *khttp.Router) {
	r.POST("/reminders", wrapRoute("/catalog.v1.ReminderService/ScheduleReminder", h.scheduleReminder))
	r.GET("/reminders/due", wrapRoute("/catalog.v1.ReminderService/ListDueReminders", h.listDueReminders))
	r.POST("/reminders/{reminder_id}/sent", wrapRoute("/catalog.v1.ReminderService/MarkReminderSent", h.markReminderSent))
	r.DELETE("/reminders/{reminder_id}", wrapRoute("/catalog.v1.ReminderService/CancelReminder", h.cancelReminder))
}

func (h *ReminderHandler) scheduleReminder(ctx khttp.Context) error {
	var req dto.ScheduleReminderRequest
	if err := ctx.Bind(&req); err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid request body")
	}
	input, err := req.ToInput()
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	reminder, err := h.svc.ScheduleReminder(timeoutCtx, input)
	if err != nil {
		return err
	}
	return ctx.Result(201, views.NewReminderResponse(reminder))
}

// listDueReminders 拉取到期未发送的提醒，供外部投递器消费。
func (h *ReminderHandler) listDueReminders(ctx khttp.Context) error {
	page := dto.ParsePageQuery(ctx.Query())

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeQuery)
	defer cancel()

	reminders, err := h.svc.ListDueReminders(timeoutCtx, page.Limit)
	if err != nil {
		return err
	}
	return ctx.Result(200, views.NewReminderListResponse(reminders))
}

func (h *ReminderHandler) markReminderSent(ctx khttp.Context) error {
	reminderID, err := dto.ParseUUID("reminder_id", ctx.Vars().Get("reminder_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.MarkReminderSent(timeoutCtx, reminderID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}

func (h *ReminderHandler) cancelReminder(ctx khttp.Context) error {
	reminderID, err := dto.ParseUUID("reminder_id", ctx.Vars().Get("reminder_id"))
	if err != nil {
		return errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), err.Error())
	}

	timeoutCtx, cancel := h.WithTimeout(ctx, HandlerTypeCommand)
	defer cancel()

	if err := h.svc.CancelReminder(timeoutCtx, reminderID); err != nil {
		return err
	}
	return ctx.Result(204, nil)
}
