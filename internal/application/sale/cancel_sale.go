package sale

import (
	"context"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

// Transactor 事务执行器
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SaleCancelledEvent 销售单取消事件
type SaleCancelledEvent struct {
	SaleID     uint   `json:"sale_id"`
	SaleNo     string `json:"sale_no"`
	OperatorID uint   `json:"operator_id"`
	Total      int64  `json:"total"`
}

// CancelSaleUseCase 取消销售单
// 状态更新与库存恢复在同一事务内完成
type CancelSaleUseCase struct {
	sales     sale.Repository
	inventory Inventory
	tx        Transactor
	cache     appbook.ListCache
	publisher mq.EventPublisher
}

// NewCancelSaleUseCase 创建用例
func NewCancelSaleUseCase(
	sales sale.Repository,
	inventory Inventory,
	tx Transactor,
	cache appbook.ListCache,
	publisher mq.EventPublisher,
) *CancelSaleUseCase {
	return &CancelSaleUseCase{sales: sales, inventory: inventory, tx: tx, cache: cache, publisher: publisher}
}

// Execute 取消销售单,只有已完成的销售单可以取消
func (uc *CancelSaleUseCase) Execute(ctx context.Context, operatorID, saleID uint) (*SaleDTO, error) {
	var s *sale.Sale
	err := uc.tx.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		if s, err = uc.sales.FindByID(txCtx, saleID); err != nil {
			return err
		}
		if err := s.Cancel(); err != nil {
			return err
		}
		if err := uc.sales.UpdateStatus(txCtx, s.ID, s.Status); err != nil {
			return err
		}
		for _, it := range s.Items {
			if err := uc.inventory.UpdateStock(txCtx, it.BookID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appbook.Invalidate(ctx, uc.cache, appbook.NamespaceBooks)
	mq.PublishQuietly(ctx, uc.publisher, mq.RoutingSaleCancelled, SaleCancelledEvent{
		SaleID:     s.ID,
		SaleNo:     s.SaleNo,
		OperatorID: operatorID,
		Total:      s.Total,
	})
	logger.WithFields(map[string]interface{}{
		"sale_id":     s.ID,
		"sale_no":     s.SaleNo,
		"operator_id": operatorID,
	}).Info("销售单已取消")

	out := ToDTO(s)
	return &out, nil
}

// GetSaleUseCase 销售单详情
type GetSaleUseCase struct {
	sales sale.Repository
}

// NewGetSaleUseCase 创建用例
func NewGetSaleUseCase(sales sale.Repository) *GetSaleUseCase {
	return &GetSaleUseCase{sales: sales}
}

// Execute 查询销售单(含明细)
func (uc *GetSaleUseCase) Execute(ctx context.Context, id uint) (*SaleDTO, error) {
	s, err := uc.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToDTO(s)
	return &out, nil
}

// ListSalesResponse 分页结果
type ListSalesResponse struct {
	List     []SaleDTO `json:"list"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// ListSalesUseCase 销售单列表,按创建时间倒序
type ListSalesUseCase struct {
	sales sale.Repository
}

// NewListSalesUseCase 创建用例
func NewListSalesUseCase(sales sale.Repository) *ListSalesUseCase {
	return &ListSalesUseCase{sales: sales}
}

// Execute 分页查询
func (uc *ListSalesUseCase) Execute(ctx context.Context, page, pageSize int) (*ListSalesResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	sales, total, err := uc.sales.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]SaleDTO, len(sales))
	for i, s := range sales {
		list[i] = ToDTO(s)
	}
	return &ListSalesResponse{List: list, Total: total, Page: page, PageSize: pageSize}, nil
}
