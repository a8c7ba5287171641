package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanRepository 负责 catalog.plans 表的读写。
type PlanRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewPlanRepository 构造订阅套餐仓储。
func NewPlanRepository(pool *pgxpool.Pool, logger log.Logger) *PlanRepository {
	return &PlanRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// Create 创建套餐记录。
func (r *PlanRepository) Create(ctx context.Context, sess txmanager.Session, p *po.Plan) (*po.Plan, error) {
	query := `
		INSERT INTO catalog.plans (plan_id, name, price_cents, currency, interval_days, perks, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		p.PlanID, p.Name, p.PriceCents, p.Currency, p.IntervalDays, p.Perks, p.Active,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Create plan failed: %v", err)
		return nil, fmt.Errorf("insert plan: %w", err)
	}
	return p, nil
}

// UpdatePlanInput 描述套餐的部分更新字段。
type UpdatePlanInput struct {
	PlanID       uuid.UUID
	Name         *string
	PriceCents   *int64
	Currency     *string
	IntervalDays *int32
	Perks        []string
	Active       *bool
}

// Update 部分更新套餐并返回最新实体。
func (r *PlanRepository) Update(ctx context.Context, sess txmanager.Session, input UpdatePlanInput) (*po.Plan, error) {
	query := `
		UPDATE catalog.plans
		SET
			name          = COALESCE($2, name),
			price_cents   = COALESCE($3, price_cents),
			currency      = COALESCE($4, currency),
			interval_days = COALESCE($5, interval_days),
			perks         = COALESCE($6, perks),
			active        = COALESCE($7, active),
			updated_at    = now()
		WHERE plan_id = $1
		RETURNING plan_id, name, price_cents, currency, interval_days, perks, active, created_at, updated_at
	`

	var p po.Plan
	err := querier(r.pool, sess).QueryRow(ctx, query,
		input.PlanID, input.Name, input.PriceCents, input.Currency, input.IntervalDays, input.Perks, input.Active,
	).Scan(
		&p.PlanID, &p.Name, &p.PriceCents, &p.Currency, &p.IntervalDays, &p.Perks, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		r.log.WithContext(ctx).Errorf("Update plan failed: %v", err)
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return &p, nil
}

// FindByID 根据 plan_id 查询。
func (r *PlanRepository) FindByID(ctx context.Context, sess txmanager.Session, planID uuid.UUID) (*po.Plan, error) {
	query := `
		SELECT plan_id, name, price_cents, currency, interval_days, perks, active, created_at, updated_at
		FROM catalog.plans
		WHERE plan_id = $1
	`

	var p po.Plan
	err := querier(r.pool, sess).QueryRow(ctx, query, planID).Scan(
		&p.PlanID, &p.Name, &p.PriceCents, &p.Currency, &p.IntervalDays, &p.Perks, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("query plan: %w", err)
	}
	return &p, nil
}

// List 返回全部套餐，按价格正序。
func (r *PlanRepository) List(ctx context.Context) ([]*po.Plan, error) {
	query := `
		SELECT plan_id, name, price_cents, currency, interval_days, perks, active, created_at, updated_at
		FROM catalog.plans
		ORDER BY price_cents ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var out []*po.Plan
	for rows.Next() {
		var p po.Plan
		if err := rows.Scan(
			&p.PlanID, &p.Name, &p.PriceCents, &p.Currency, &p.IntervalDays, &p.Perks, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plan rows: %w", err)
	}
	return out, nil
}

// Delete 删除套餐记录。
func (r *PlanRepository) Delete(ctx context.Context, sess txmanager.Session, planID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.plans WHERE plan_id = $1`, planID)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}
