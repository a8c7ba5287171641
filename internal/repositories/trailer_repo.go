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

// TrailerRepository 负责 catalog.trailers 表的读写。
type TrailerRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewTrailerRepository 构造预告片仓储。
func NewTrailerRepository(pool *pgxpool.Pool, logger log.Logger) *TrailerRepository {
	return &TrailerRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// Create 创建预告片记录。
func (r *TrailerRepository) Create(ctx context.Context, sess txmanager.Session, t *po.Trailer) (*po.Trailer, error) {
	query := `
		INSERT INTO catalog.trailers (trailer_id, owner_type, owner_id, asset_id, title)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		t.TrailerID, t.OwnerType, t.OwnerID, t.AssetID, t.Title,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Create trailer failed: %v", err)
		return nil, fmt.Errorf("insert trailer: %w", err)
	}
	return t, nil
}

// UpdateTrailerInput 描述预告片的部分更新字段，归属关系不可变更。
type UpdateTrailerInput struct {
	TrailerID uuid.UUID
	Title     *string
	AssetID   *uuid.UUID
}

// Update 部分更新预告片并返回最新实体。
func (r *TrailerRepository) Update(ctx context.Context, sess txmanager.Session, input UpdateTrailerInput) (*po.Trailer, error) {
	query := `
		UPDATE catalog.trailers
		SET
			title      = COALESCE($2, title),
			asset_id   = COALESCE($3, asset_id),
			updated_at = now()
		WHERE trailer_id = $1
		RETURNING trailer_id, owner_type, owner_id, asset_id, title, created_at, updated_at
	`

	var t po.Trailer
	err := querier(r.pool, sess).QueryRow(ctx, query,
		input.TrailerID, input.Title, input.AssetID,
	).Scan(
		&t.TrailerID, &t.OwnerType, &t.OwnerID, &t.AssetID, &t.Title, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrailerNotFound
		}
		r.log.WithContext(ctx).Errorf("Update trailer failed: %v", err)
		return nil, fmt.Errorf("update trailer: %w", err)
	}
	return &t, nil
}

// FindByID 根据 trailer_id 查询。
func (r *TrailerRepository) FindByID(ctx context.Context, sess txmanager.Session, trailerID uuid.UUID) (*po.Trailer, error) {
	query := `
		SELECT trailer_id, owner_type, owner_id, asset_id, title, created_at, updated_at
		FROM catalog.trailers
		WHERE trailer_id = $1
	`

	var t po.Trailer
	err := querier(r.pool, sess).QueryRow(ctx, query, trailerID).Scan(
		&t.TrailerID, &t.OwnerType, &t.OwnerID, &t.AssetID, &t.Title, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTrailerNotFound
		}
		return nil, fmt.Errorf("query trailer: %w", err)
	}
	return &t, nil
}

// ListByOwner 返回条目下的全部预告片。
func (r *TrailerRepository) ListByOwner(ctx context.Context, ownerType po.TrailerOwnerType, ownerID uuid.UUID) ([]*po.Trailer, error) {
	query := `
		SELECT trailer_id, owner_type, owner_id, asset_id, title, created_at, updated_at
		FROM catalog.trailers
		WHERE owner_type = $1 AND owner_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerType, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query trailers: %w", err)
	}
	defer rows.Close()

	var out []*po.Trailer
	for rows.Next() {
		var t po.Trailer
		if err := rows.Scan(&t.TrailerID, &t.OwnerType, &t.OwnerID, &t.AssetID, &t.Title, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan trailer row: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trailer rows: %w", err)
	}
	return out, nil
}

// Delete 删除预告片记录。
func (r *TrailerRepository) Delete(ctx context.Context, sess txmanager.Session, trailerID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.trailers WHERE trailer_id = $1`, trailerID)
	if err != nil {
		return fmt.Errorf("delete trailer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTrailerNotFound
	}
	return nil
}
