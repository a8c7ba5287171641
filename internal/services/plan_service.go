package services

import (
	"context"
	stderrors "errors"
	"strings"

	catalogv1 "github.com/miravio/services-catalog/api/catalog/v1"
	"github.com/miravio/services-catalog/internal/models/po"
	"github.com/miravio/services-catalog/internal/repositories"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// PlanRepo 定义订阅套餐管理需要的持久化行为。
type PlanRepo interface {
	Create(ctx context.Context, sess txmanager.Session, p *po.Plan) (*po.Plan, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdatePlanInput) (*po.Plan, error)
	FindByID(ctx context.Context, sess txmanager.Session, planID uuid.UUID) (*po.Plan, error)
	List(ctx context.Context) ([]*po.Plan, error)
	Delete(ctx context.Context, sess txmanager.Session, planID uuid.UUID) error
}

// CreatePlanInput 表示创建套餐的输入。
type CreatePlanInput struct {
	Name         string
	PriceCents   int64
	Currency     string
	IntervalDays int32
	Perks        []string
	Active       bool
}

// PlanService 封装订阅套餐管理。
type PlanService struct {
	repo PlanRepo
	log  *log.Helper
}

// NewPlanService 构造套餐服务。
func NewPlanService(repo PlanRepo, logger log.Logger) *PlanService {
	return &PlanService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// CreatePlan 创建套餐。
func (s *PlanService) CreatePlan(ctx context.Context, input CreatePlanInput) (*po.Plan, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "name is required")
	}
	if input.PriceCents < 0 {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "price_cents must be non-negative")
	}
	if input.IntervalDays <= 0 {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "interval_days must be positive")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if len(currency) != 3 {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "currency must be a 3-letter code")
	}

	plan, err := s.repo.Create(ctx, nil, &po.Plan{
		PlanID:       uuid.New(),
		Name:         strings.TrimSpace(input.Name),
		PriceCents:   input.PriceCents,
		Currency:     currency,
		IntervalDays: input.IntervalDays,
		Perks:        input.Perks,
		Active:       input.Active,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create plan failed: name=%s err=%v", input.Name, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create plan").WithCause(err)
	}
	return plan, nil
}

// UpdatePlan 更新套餐。
func (s *PlanService) UpdatePlan(ctx context.Context, input repositories.UpdatePlanInput) (*po.Plan, error) {
	if input.PlanID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "plan_id is required")
	}
	plan, err := s.repo.Update(ctx, nil, input)
	if err != nil {
		if stderrors.Is(err, repositories.ErrPlanNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "plan not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update plan").WithCause(err)
	}
	return plan, nil
}

// ListPlans 返回全部套餐。
func (s *PlanService) ListPlans(ctx context.Context) ([]*po.Plan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list plans").WithCause(err)
	}
	return plans, nil
}

// DeletePlan 删除套餐。
func (s *PlanService) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	if err := s.repo.Delete(ctx, nil, planID); err != nil {
		if stderrors.Is(err, repositories.ErrPlanNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "plan not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete plan").WithCause(err)
	}
	return nil
}
