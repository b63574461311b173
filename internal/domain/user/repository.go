package user

import (
	"context"
)

// Repository 操作员仓储接口
// 实现在infrastructure/persistence层，domain层不依赖GORM
type Repository interface {
	// Create 创建操作员
	// 邮箱已存在时返回errors.ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 不存在时返回errors.ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 不存在时返回errors.ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update 更新操作员信息
	Update(ctx context.Context, user *User) error

	// Count 操作员总数
	Count(ctx context.Context) (int64, error)
}
