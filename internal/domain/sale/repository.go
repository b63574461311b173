package sale

import (
	"context"
	"time"
)

// Repository 销售单仓储接口
// 新建销售单按"写销售单 → 写明细 → 扣库存"分步执行,
// 因此头与明细的写入/删除分别暴露,供编排层组合补偿
type Repository interface {
	// Create 只写入销售单头,回填ID
	Create(ctx context.Context, s *Sale) error

	// CreateItems 批量写入明细,回填明细ID与SaleID
	CreateItems(ctx context.Context, saleID uint, items []Item) error

	// Delete 删除销售单头(补偿用)
	Delete(ctx context.Context, id uint) error

	// DeleteItems 删除销售单的全部明细(补偿用)
	DeleteItems(ctx context.Context, saleID uint) error

	// FindByID 查询销售单(含明细、客户名、书名)
	FindByID(ctx context.Context, id uint) (*Sale, error)

	// UpdateStatus 更新状态
	UpdateStatus(ctx context.Context, id uint, status Status) error

	// List 按创建时间倒序分页,含客户名
	List(ctx context.Context, page, pageSize int) ([]*Sale, int64, error)

	// Recent 最近n笔销售单,含客户名
	Recent(ctx context.Context, n int) ([]*Sale, error)

	// Summary 已完成销售单的数量与总金额
	Summary(ctx context.Context) (count int64, revenue int64, err error)

	// ListCompletedSince 查询since之后的已完成销售单(含明细与书名),按时间升序
	ListCompletedSince(ctx context.Context, since time.Time) ([]*Sale, error)
}
