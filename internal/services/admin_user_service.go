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

// AdminUserRepo 定义后台账号管理需要的持久化行为。
type AdminUserRepo interface {
	Create(ctx context.Context, sess txmanager.Session, u *po.AdminUser) (*po.AdminUser, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateAdminUserInput) (*po.AdminUser, error)
	FindByID(ctx context.Context, sess txmanager.Session, userID uuid.UUID) (*po.AdminUser, error)
	FindByEmail(ctx context.Context, email string) (*po.AdminUser, error)
	List(ctx context.Context, limit, offset int) ([]*po.AdminUser, error)
	Delete(ctx context.Context, sess txmanager.Session, userID uuid.UUID) error
}

// CreateAdminUserInput 表示创建后台账号的输入。
type CreateAdminUserInput struct {
	Email       string
	DisplayName string
	Role        po.AdminRole
	PageAccess  []string
}

// AdminUserService 封装后台账号与页面访问控制管理。
type AdminUserService struct {
	repo AdminUserRepo
	log  *log.Helper
}

// NewAdminUserService 构造后台账号服务。
func NewAdminUserService(repo AdminUserRepo, logger log.Logger) *AdminUserService {
	return &AdminUserService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// CreateAdminUser 创建后台账号。
func (s *AdminUserService) CreateAdminUser(ctx context.Context, input CreateAdminUserInput) (*po.AdminUser, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "a valid email is required")
	}
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "display_name is required")
	}
	switch input.Role {
	case po.AdminRoleOwner, po.AdminRoleEditor, po.AdminRoleOperator:
	default:
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "invalid role")
	}

	user, err := s.repo.Create(ctx, nil, &po.AdminUser{
		UserID:      uuid.New(),
		Email:       email,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Role:        input.Role,
		PageAccess:  input.PageAccess,
		Disabled:    false,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create admin user failed: email=%s err=%v", email, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create admin user").WithCause(err)
	}

	s.log.WithContext(ctx).Infof("CreateAdminUser: user_id=%s role=%s", user.UserID, user.Role)
	return user, nil
}

// UpdateAdminUser 更新后台账号（角色、页面权限、停用状态）。
func (s *AdminUserService) UpdateAdminUser(ctx context.Context, input repositories.UpdateAdminUserInput) (*po.AdminUser, error) {
	if input.UserID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "user_id is required")
	}
	user, err := s.repo.Update(ctx, nil, input)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAdminUserNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "admin user not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update admin user").WithCause(err)
	}
	return user, nil
}

// GetAdminUserByEmail 根据邮箱查询账号，鉴权通过后定位登录用户。
func (s *AdminUserService) GetAdminUserByEmail(ctx context.Context, email string) (*po.AdminUser, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if stderrors.Is(err, repositories.ErrAdminUserNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "admin user not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to query admin user").WithCause(err)
	}
	return user, nil
}

// ListAdminUsers 分页列出后台账号。
func (s *AdminUserService) ListAdminUsers(ctx context.Context, limit, offset int) ([]*po.AdminUser, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list admin users").WithCause(err)
	}
	return users, nil
}

// DeleteAdminUser 删除后台账号。
func (s *AdminUserService) DeleteAdminUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.Delete(ctx, nil, userID); err != nil {
		if stderrors.Is(err, repositories.ErrAdminUserNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "admin user not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete admin user").WithCause(err)
	}
	return nil
}
