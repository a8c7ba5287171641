package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/miravio/services-catalog/internal/models/po"

	"github.com/bionicotaku/lingo-utils/txmanager"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminUserRepository 负责 catalog.admin_users 表的读写。
type AdminUserRepository struct {
	pool *pgxpool.Pool
	log  *log.Helper
}

// NewAdminUserRepository 构造后台账号仓储。
func NewAdminUserRepository(pool *pgxpool.Pool, logger log.Logger) *AdminUserRepository {
	return &AdminUserRepository{
		pool: pool,
		log:  log.NewHelper(logger),
	}
}

// Create 创建后台账号记录。
func (r *AdminUserRepository) Create(ctx context.Context, sess txmanager.Session, u *po.AdminUser) (*po.AdminUser, error) {
	query := `
		INSERT INTO catalog.admin_users (user_id, email, display_name, role, page_access, disabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := querier(r.pool, sess).QueryRow(ctx, query,
		u.UserID, strings.ToLower(u.Email), u.DisplayName, u.Role, u.PageAccess, u.Disabled,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		r.log.WithContext(ctx).Errorf("Create admin user failed: %v", err)
		return nil, fmt.Errorf("insert admin user: %w", err)
	}
	return u, nil
}

// UpdateAdminUserInput 描述后台账号的部分更新字段。
type UpdateAdminUserInput struct {
	UserID      uuid.UUID
	DisplayName *string
	Role        *po.AdminRole
	PageAccess  []string
	Disabled    *bool
}

// Update 部分更新后台账号并返回最新实体。
func (r *AdminUserRepository) Update(ctx context.Context, sess txmanager.Session, input UpdateAdminUserInput) (*po.AdminUser, error) {
	query := `
		UPDATE catalog.admin_users
		SET
			display_name = COALESCE($2, display_name),
			role         = COALESCE($3, role),
			page_access  = COALESCE($4, page_access),
			disabled     = COALESCE($5, disabled),
			updated_at   = now()
		WHERE user_id = $1
		RETURNING user_id, email, display_name, role, page_access, disabled, created_at, updated_at
	`

	var u po.AdminUser
	err := querier(r.pool, sess).QueryRow(ctx, query,
		input.UserID, input.DisplayName, input.Role, input.PageAccess, input.Disabled,
	).Scan(
		&u.UserID, &u.Email, &u.DisplayName, &u.Role, &u.PageAccess, &u.Disabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminUserNotFound
		}
		r.log.WithContext(ctx).Errorf("Update admin user failed: %v", err)
		return nil, fmt.Errorf("update admin user: %w", err)
	}
	return &u, nil
}

// FindByID 根据 user_id 查询。
func (r *AdminUserRepository) FindByID(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.AdminUser, error) {
	query := `
		SELECT user_id, email, display_name, role, page_access, disabled, created_at, updated_at
		FROM catalog.admin_users
		WHERE user_id = $1
	`

	var u po.AdminUser
	err := querier(r.pool, sess).QueryRow(ctx, query, userID).Scan(
		&u.UserID, &u.Email, &u.DisplayName, &u.Role, &u.PageAccess, &u.Disabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminUserNotFound
		}
		return nil, fmt.Errorf("query admin user: %w", err)
	}
	return &u, nil
}

// FindByEmail 根据邮箱查询（鉴权后定位账号）。
func (r *AdminUserRepository) FindByEmail(ctx context.Context, email string) (*po.AdminUser, error) {
	query := `
		SELECT user_id, email, display_name, role, page_access, disabled, created_at, updated_at
		FROM catalog.admin_users
		WHERE email = $1
	`

	var u po.AdminUser
	err := r.pool.QueryRow(ctx, query, strings.ToLower(email)).Scan(
		&u.UserID, &u.Email, &u.DisplayName, &u.Role, &u.PageAccess, &u.Disabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminUserNotFound
		}
		return nil, fmt.Errorf("query admin user by email: %w", err)
	}
	return &u, nil
}

// List 按创建时间倒序返回全部后台账号。
func (r *AdminUserRepository) List(ctx context.Context, limit, offset int) ([]*po.AdminUser, error) {
	if limit <= 0 {
		limit = 100 // 默认限制
	}

	query := `
		SELECT user_id, email, display_name, role, page_access, disabled, created_at, updated_at
		FROM catalog.admin_users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query admin users: %w", err)
	}
	defer rows.Close()

	var out []*po.AdminUser
	for rows.Next() {
		var u po.AdminUser
		if err := rows.Scan(
			&u.UserID, &u.Email, &u.DisplayName, &u.Role, &u.PageAccess, &u.Disabled, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan admin user row: %w", err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin user rows: %w", err)
	}
	return out, nil
}

// Delete 删除后台账号记录。
func (r *AdminUserRepository) Delete(ctx context.Context, sess txmanager.Session, userID uuid.UUID) error {
	tag, err := querier(r.pool, sess).Exec(ctx, `DELETE FROM catalog.admin_users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete admin user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAdminUserNotFound
	}
	return nil
}
