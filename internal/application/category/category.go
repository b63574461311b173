// Package category 分类管理用例
package category

import (
	"context"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
)

// CategoryDTO 分类响应DTO
type CategoryDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func toDTO(c *category.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// CategoryUseCase 分类增删改查
// 分类列表全量缓存;改名/删除会影响图书列表中的分类名,同时失效图书列表
type CategoryUseCase struct {
	service category.Service
	cache   appbook.ListCache
}

// NewCategoryUseCase 创建用例
func NewCategoryUseCase(service category.Service, cache appbook.ListCache) *CategoryUseCase {
	return &CategoryUseCase{service: service, cache: cache}
}

// Create 新增分类
func (uc *CategoryUseCase) Create(ctx context.Context, name, description string) (*CategoryDTO, error) {
	c, err := uc.service.CreateCategory(ctx, name, description)
	if err != nil {
		return nil, err
	}
	appbook.Invalidate(ctx, uc.cache, appbook.NamespaceCategories)
	dto := toDTO(c)
	return &dto, nil
}

// Update 修改分类
func (uc *CategoryUseCase) Update(ctx context.Context, id uint, name, description string) (*CategoryDTO, error) {
	c, err := uc.service.UpdateCategory(ctx, id, name, description)
	if err != nil {
		return nil, err
	}
	appbook.Invalidate(ctx, uc.cache, appbook.NamespaceCategories, appbook.NamespaceBooks)
	dto := toDTO(c)
	return &dto, nil
}

// Delete 删除分类,所属图书变为未分类
func (uc *CategoryUseCase) Delete(ctx context.Context, id uint) error {
	if err := uc.service.DeleteCategory(ctx, id); err != nil {
		return err
	}
	appbook.Invalidate(ctx, uc.cache, appbook.NamespaceCategories, appbook.NamespaceBooks)
	return nil
}

// Get 分类详情
func (uc *CategoryUseCase) Get(ctx context.Context, id uint) (*CategoryDTO, error) {
	c, err := uc.service.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(c)
	return &dto, nil
}

// List 全部分类,按名称排序
func (uc *CategoryUseCase) List(ctx context.Context) ([]CategoryDTO, error) {
	var cached []CategoryDTO
	if hit, err := uc.cache.Get(ctx, appbook.NamespaceCategories, "all", &cached); err != nil {
		logger.WithError(err).Warn("读取分类列表缓存失败")
	} else if hit {
		return cached, nil
	}

	categories, err := uc.service.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		list[i] = toDTO(c)
	}

	if err := uc.cache.Set(ctx, appbook.NamespaceCategories, "all", list); err != nil {
		logger.WithError(err).Warn("写入分类列表缓存失败")
	}
	return list, nil
}
