package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN精确查找
	// ISBN不唯一,存在多本时返回最早创建的一本
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// FindByIDs 批量查询(销售单计算金额时使用)
	FindByIDs(ctx context.Context, ids []uint) ([]*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// List 分页查询,按书名排序
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Count 图书总数(仪表盘)
	Count(ctx context.Context) (int64, error)

	// UpdateStock 原子更新库存
	// delta为正数表示增加,负数表示减少;扣减时库存不足返回ErrInsufficientStock
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 搜索书名、作者、ISBN
	CategoryID *uint  // 按分类过滤
	InStock    bool   // 只返回有库存的图书(新建销售时使用)
}
