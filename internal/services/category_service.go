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

// CategoryRepo 定义分类管理需要的持久化行为。
type CategoryRepo interface {
	Create(ctx context.Context, sess txmanager.Session, c *po.Category) (*po.Category, error)
	Update(ctx context.Context, sess txmanager.Session, input repositories.UpdateCategoryInput) (*po.Category, error)
	FindByID(ctx context.Context, sess txmanager.Session, categoryID uuid.UUID) (*po.Category, error)
	List(ctx context.Context) ([]*po.Category, error)
	Delete(ctx context.Context, sess txmanager.Session, categoryID uuid.UUID) error
}

// CategoryService 封装内容分类管理。
type CategoryService struct {
	repo CategoryRepo
	log  *log.Helper
}

// NewCategoryService 构造分类服务。
func NewCategoryService(repo CategoryRepo, logger log.Logger) *CategoryService {
	return &CategoryService{
		repo: repo,
		log:  log.NewHelper(logger),
	}
}

// CreateCategory 创建分类。slug 会被统一为小写。
func (s *CategoryService) CreateCategory(ctx context.Context, name, slug string, sortOrder int32) (*po.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "name is required")
	}
	if strings.TrimSpace(slug) == "" {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "slug is required")
	}

	category, err := s.repo.Create(ctx, nil, &po.Category{
		CategoryID: uuid.New(),
		Name:       strings.TrimSpace(name),
		Slug:       strings.ToLower(strings.TrimSpace(slug)),
		SortOrder:  sortOrder,
	})
	if err != nil {
		s.log.WithContext(ctx).Errorf("create category failed: slug=%s err=%v", slug, err)
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to create category").WithCause(err)
	}
	return category, nil
}

// UpdateCategory 更新分类。
func (s *CategoryService) UpdateCategory(ctx context.Context, input repositories.UpdateCategoryInput) (*po.Category, error) {
	if input.CategoryID == uuid.Nil {
		return nil, errors.BadRequest(catalogv1.ErrorReason_ERROR_REASON_INVALID_ARGUMENT.String(), "category_id is required")
	}
	category, err := s.repo.Update(ctx, nil, input)
	if err != nil {
		if stderrors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "category not found")
		}
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to update category").WithCause(err)
	}
	return category, nil
}

// ListCategories 按排序序号返回全部分类。
func (s *CategoryService) ListCategories(ctx context.Context) ([]*po.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to list categories").WithCause(err)
	}
	return categories, nil
}

// DeleteCategory 删除分类。
func (s *CategoryService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if err := s.repo.Delete(ctx, nil, categoryID); err != nil {
		if stderrors.Is(err, repositories.ErrCategoryNotFound) {
			return errors.NotFound(catalogv1.ErrorReason_ERROR_REASON_TITLE_NOT_FOUND.String(), "category not found")
		}
		return errors.InternalServer(catalogv1.ErrorReason_ERROR_REASON_INTERNAL.String(), "failed to delete category").WithCause(err)
	}
	return nil
}
