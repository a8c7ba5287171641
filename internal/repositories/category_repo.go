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

// CategoryRepository 负责 catalog.categories 表的读写。
type CategoryRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewCategoryRepository 构造分类仓储。
func NewCategoryRepository(pool *pgxpool.Pool, logger log.Logger) *CategoryRepository {
	return &CategoryRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// Create 创建分类记录。
func (r *CategoryRepository) Create(ctx context.Context, sess txmanager.Session, c *po.Category) (*po.Category, error) {
	query := `
		INSERT INTO catalog.categories (category_id, name, slug, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query, c.CategoryID, c.Name, c.Slug, c.SortOrder).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Create category failed: %v", err)
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return c, nil
}

// UpdateCategoryInput 描述分类的部分更新字段。
type UpdateCategoryInput struct {
	CategoryID uuid.UUID
	Name       *string
	Slug       *string
	SortOrder  *int32
}

// Update 部分更新分类并返回最新实体。
func (r *CategoryRepository) Update(ctx context.Context, sess txmanager.Session, input UpdateCategoryInput) (*po.Category, error) {
	query := `
		UPDATE catalog.categories
		SET
			name       = COALESCE($2, name),
			slug       = COALESCE($3, slug),
			sort_order = COALESCE($4, sort_order),
			updated_at = now()
		WHERE category_id = $1
		RETURNING category_id, name, slug, sort_order, created_at, updated_at
	`

	var c po.Category
	err := querier(r.pool, sess).QueryRow(ctx, query, input.CategoryID, input.Name, input.Slug, input.SortOrder).Scan(
		&c.CategoryID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		r.log.WithContext(ctx).Errorf("Update category failed: %v", err)
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

// FindByID 根据 category_id 查询。
func (r *CategoryRepository) FindByID(ctx context.Context, sess txmanager.Session, categoryID uuid.UUID) (*po.Category, error) {
	query := `
		SELECT category_id, name, slug, sort_order, created_at, updated_at
		FROM catalog.categories
		WHERE category_id = $1
	`

	var c po.Category
	err := querier(r.pool, sess).QueryRow(ctx, query, categoryID).Scan(
		&c.CategoryID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("query category: %w", err)
	}
	return &c, nil
}

// List 按排序序号正序返回全部分类。
func (r *CategoryRepository) List(ctx context.Context) ([]*po.Category, error) {
	query := `
		SELECT category_id, name, slug, sort_order, created_at, updated_at
		FROM catalog.categories
		ORDER BY sort_order ASC, name ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var out []*po.Category
	for rows.Next() {
		var c po.Category
		if err := rows.Scan(&c.CategoryID, &c.Name, &c.Slug, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		out = append(out, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}
	return out, nil
}

// Delete 删除分类记录。
func (r *CategoryRepository) Delete(ctx context.Context, sess txmanager.Session, categoryID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.categories WHERE category_id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
