package services

import (
	"context"
	stderrors "errors"
	"time"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// ReminderRepo 定义提醒排期管理需要的持久化行为。
type ReminderRepo interface {
	Create(ctx context.Context, sess txmanager.Session, m *po.Reminder) (*po.Reminder, error)
	FindByID(ctx context.Context, sess txmanager.Session, reminderID uuid.UUID) (*po.Reminder, error)
	ListPending(ctx context.Context, before time.Time, limit int) ([]*po.Reminder, error)
	MarkSent(ctx context.Context, sess txmanager.Session, reminderID uuid.UUID) error
	Delete(ctx context.Context, sess txmanager.Session, reminderID uuid.UUID) error
}

// ScheduleReminderInput 表示创建上线提醒的输入。
type ScheduleReminderInput struct {
	TitleType string
	TitleID   uuid.UUID
	Channel   po.ReminderChannel
	SendAt    time.Time
}

// ReminderService 封装上线提醒排期管理。
// 实际触达（推送/邮件）由下游系统消费排期完成，这里只负责排期本身。
type ReminderService struct {
	repo ReminderRepo
	now  func() time.Time
	log  *log.Helper
}

// NewReminderService 构造提醒排期服务。
func NewReminderService(repo ReminderRepo, logger log.Logger) *ReminderService {
	return &ReminderService{
		repo: repo,
		now:  time.Now,
		log:  log.NewHelper(logger),
	}
}

// ScheduleReminder 创建提醒排期。发送时间必须在未来。
func (s *ReminderService) ScheduleReminder(ctx context.Context, input ScheduleReminderInput) (*po.Reminder, error) {
	switch input.TitleType {
	case TitleTypeSeries, TitleTypeMovie:
	default:
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title_type must be series or movie")
	}
	if input.TitleID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "title_id is required")
	}
	switch input.Channel {
	case po.ReminderChannelPush, po.ReminderChannelEmail:
	default:
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "channel must be push or email")
	}
	if !input.SendAt.After(s.now()) {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "send_at must be in the future")
	}

	reminder, err := s.repo.Create(ctx, nil, &po.Reminder{
		ReminderID: uuid.New(),
		TitleType:  input.TitleType,
		TitleID:    input.TitleID,
		Channel:    input.Channel,
		SendAt:     input.SendAt.UTC(),
		Sent:       false,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("schedule reminder failed: title=%s/%s err=%v", input.TitleType, input.TitleID, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to schedule reminder").WithCause(err)
	}
	return reminder, nil
}

// ListDueReminders 返回到期未发送的提醒。
func (s *ReminderService) ListDueReminders(ctx context.Context, limit int) ([]*po.Reminder, error) {
	reminders, err := s.repo.ListPending(ctx, s.now(), limit)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list reminders").WithCause(err)
	}
	return reminders, nil
}

// MarkReminderSent 标记提醒已发送。
func (s *ReminderService) MarkReminderSent(ctx context.Context, reminderID uuid.UUID) error {
	if err := s.repo.MarkSent(ctx, nil, reminderID); err != nil {
		if stderrors.Is(err, repositories.ErrReminderNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "reminder not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to mark reminder sent").WithCause(err)
	}
	return nil
}

// CancelReminder 取消提醒排期。
func (s *ReminderService) CancelReminder(ctx context.Context, reminderID uuid.UUID) error {
	if err := s.repo.Delete(ctx, nil, reminderID); err != nil {
		if stderrors.Is(err, repositories.ErrReminderNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "reminder not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to cancel reminder").WithCause(err)
	}
	return nil
}
