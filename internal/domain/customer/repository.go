package customer

import (
	"context"
)

// Repository 客户仓储接口
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, id uint) (*Customer, error)
	Update(ctx context.Context, c *Customer) error

	// Delete 删除客户,历史销售单的customer_id置空
	Delete(ctx context.Context, id uint) error

	// List 按姓名排序分页查询,keyword匹配姓名/邮箱/电话/CPF
	List(ctx context.Context, keyword string, page, pageSize int) ([]*Customer, int64, error)

	Count(ctx context.Context) (int64, error)
}
