package category

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// Create 创建分类,NameKey冲突时返回ErrCategoryDuplicate
	Create(ctx context.Context, c *Category) error

	FindByID(ctx context.Context, id uint) (*Category, error)

	// FindByNameKey 按折叠后的名称查找,不存在返回ErrCategoryNotFound
	FindByNameKey(ctx context.Context, key string) (*Category, error)

	Update(ctx context.Context, c *Category) error

	// Delete 删除分类,所属图书的category_id置空
	Delete(ctx context.Context, id uint) error

	// List 按名称排序返回全部分类
	List(ctx context.Context) ([]*Category, error)
}
