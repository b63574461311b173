package category

import (
	"context"
	"errors"
)

// Service 分类领域服务
type Service interface {
	CreateCategory(ctx context.Context, name, description string) (*Category, error)
	GetCategory(ctx context.Context, id uint) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, name, description string) (*Category, error)
	DeleteCategory(ctx context.Context, id uint) error
	ListCategories(ctx context.Context) ([]*Category, error)

	// Resolve 按名称(不区分大小写)查找分类,不存在则创建
	// 用于表格导入;多次调用结果一致
	Resolve(ctx context.Context, name string) (*Category, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateCategory 创建分类
// 名称唯一性由NameKey唯一索引保证,这里先查一次以返回友好错误
func (s *service) CreateCategory(ctx context.Context, name, description string) (*Category, error) {
	c, err := NewCategory(name, description)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByNameKey(ctx, c.NameKey)
	if err == nil && existing != nil {
		return nil, ErrCategoryDuplicate
	}
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) GetCategory(ctx context.Context, id uint) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateCategory 修改分类
// 改名后与其他分类冲突时返回ErrCategoryDuplicate
func (s *service) UpdateCategory(ctx context.Context, id uint, name, description string) (*Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Rename(name, description); err != nil {
		return nil, err
	}

	other, err := s.repo.FindByNameKey(ctx, c.NameKey)
	if err == nil && other.ID != c.ID {
		return nil, ErrCategoryDuplicate
	}
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

// Resolve 查找或创建分类
// 1. 按NameKey查找,命中直接复用
// 2. 未命中则创建
// 3. 创建时遇到唯一索引冲突(另一个导入刚创建了同名分类),重新查找一次
func (s *service) Resolve(ctx context.Context, name string) (*Category, error) {
	key := NameKey(name)
	if key == "" {
		return nil, ErrNameRequired
	}

	existing, err := s.repo.FindByNameKey(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	c, err := NewCategory(name, "")
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrCategoryDuplicate) {
			return s.repo.FindByNameKey(ctx, key)
		}
		return nil, err
	}
	return c, nil
}
