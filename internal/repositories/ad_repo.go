package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdRepository 负责 catalog.ad_creatives 表的读写。
type AdRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewAdRepository 构造广告素材仓储。
func NewAdRepository(pool *pgxpool.Pool, logger log.Logger) *AdRepository {
	return &AdRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

const adColumns = `
	ad_id, title, placement, cta_url, asset_id, active, starts_at, ends_at, created_at, updated_at
`

// Create 创建广告素材记录。
func (r *AdRepository) Create(ctx context.Context, sess txmanager.Session, a *po.AdCreative) (*po.AdCreative, error) {
	query := `
		INSERT INTO catalog.ad_creatives (ad_id, title, placement, cta_url, asset_id, active, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		a.AdID, a.Title, a.Placement, a.CTAURL, a.AssetID, a.Active, a.StartsAt, a.EndsAt,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Create ad creative failed: %v", err)
		return nil, fmt.Errorf("insert ad creative: %w", err)
	}
	return a, nil
}

// UpdateAdInput 描述广告素材的部分更新字段。
type UpdateAdInput struct {
	AdID      uuid.UUID
	Title     *string
	Placement *string
	CTAURL    *string
	AssetID   *uuid.UUID
	Active    *bool
	StartsAt  *time.Time
	EndsAt    *time.Time
}

// Update 部分更新广告素材并返回最新实体。
func (r *AdRepository) Update(ctx context.Context, sess txmanager.Session, input UpdateAdInput) (*po.AdCreative, error) {
	query := `
		UPDATE catalog.ad_creatives
		SET
			title      = COALESCE($2, title),
			placement  = COALESCE($3, placement),
			cta_url    = COALESCE($4, cta_url),
			asset_id   = COALESCE($5, asset_id),
			active     = COALESCE($6, active),
			starts_at  = COALESCE($7, starts_at),
			ends_at    = COALESCE($8, ends_at),
			updated_at = now()
		WHERE ad_id = $1
		RETURNING ` + adColumns

	var a po.AdCreative
	err := querier(r.pool, sess).QueryRow(ctx, query,
		input.AdID, input.Title, input.Placement, input.CTAURL, input.AssetID, input.Active, input.StartsAt, input.EndsAt,
	).Scan(
		&a.AdID, &a.Title, &a.Placement, &a.CTAURL, &a.AssetID, &a.Active, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdNotFound
		}
		r.log.WithContext(ctx).Errorf("Update ad creative failed: %v", err)
		return nil, fmt.Errorf("update ad creative: %w", err)
	}
	return &a, nil
}

// FindByID 根据 ad_id 查询。
func (r *AdRepository) FindByID(ctx context.Context, sess txmanager.Session, adID uuid.UUID) (*po.AdCreative, error) {
	query := `SELECT ` + adColumns + ` FROM catalog.ad_creatives WHERE ad_id = $1`

	var a po.AdCreative
	err := querier(r.pool, sess).QueryRow(ctx, query, adID).Scan(
		&a.AdID, &a.Title, &a.Placement, &a.CTAURL, &a.AssetID, &a.Active, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdNotFound
		}
		return nil, fmt.Errorf("query ad creative: %w", err)
	}
	return &a, nil
}

// List 按创建时间倒序分页返回广告素材。
func (r *AdRepository) List(ctx context.Context, limit, offset int) ([]*po.AdCreative, error) {
	if limit <= 0 {
		limit = 50 // 默认限制
	}

	query := `SELECT ` + adColumns + ` FROM catalog.ad_creatives ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query ad creatives: %w", err)
	}
	defer rows.Close()

	var out []*po.AdCreative
	for rows.Next() {
		var a po.AdCreative
		if err := rows.Scan(
			&a.AdID, &a.Title, &a.Placement, &a.CTAURL, &a.AssetID, &a.Active, &a.StartsAt, &a.EndsAt, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ad creative row: %w", err)
		}
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ad creative rows: %w", err)
	}
	return out, nil
}

// Delete 删除广告素材记录。
func (r *AdRepository) Delete(ctx context.Context, sess txmanager.Session, adID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.ad_creatives WHERE ad_id = $1`, adID)
	if err != nil {
		return fmt.Errorf("delete ad creative: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdNotFound
	}
	return nil
}
