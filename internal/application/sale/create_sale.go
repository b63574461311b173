package sale

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/customer"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
	"github.com/xiebiao/bookstore-admin/pkg/saga"
	"github.com/xiebiao/bookstore-admin/pkg/tracing"
)

// sagaTimeout 新建销售单的整体超时
const sagaTimeout = 30 * time.Second

// Inventory 图书库存
type Inventory interface {
	FindByIDs(ctx context.Context, ids []uint) ([]*book.Book, error)
	UpdateStock(ctx context.Context, id uint, delta int) error
}

// CustomerFinder 查询客户
type CustomerFinder interface {
	FindByID(ctx context.Context, id uint) (*customer.Customer, error)
}

// CreateSaleRequest 新建销售单请求
type CreateSaleRequest struct {
	UserID        uint // 操作员(从JWT中提取)
	CustomerID    *uint
	PaymentMethod sale.PaymentMethod
	Notes         string
	Items         []sale.Line
}

// SaleCreatedEvent 销售单创建事件
type SaleCreatedEvent struct {
	SaleID uint   `json:"sale_id"`
	SaleNo string `json:"sale_no"`
	UserID uint   `json:"user_id"`
	Total  int64  `json:"total"`
	Items  int    `json:"items"`
}

// CreateSaleUseCase 新建销售单
type CreateSaleUseCase struct {
	sales     sale.Repository
	inventory Inventory
	customers CustomerFinder
	cache     appbook.ListCache
	publisher mq.EventPublisher
	now       func() time.Time
}

// NewCreateSaleUseCase 创建用例
func NewCreateSaleUseCase(
	sales sale.Repository,
	inventory Inventory,
	customers CustomerFinder,
	cache appbook.ListCache,
	publisher mq.EventPublisher,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		sales:     sales,
		inventory: inventory,
		customers: customers,
		cache:     cache,
		publisher: publisher,
		now:       time.Now,
	}
}

// Execute 执行新建销售单
//
// 1. 合并同一本书的多行,按当前价格计算金额,校验库存
// 2. 写销售单 → 写明细 → 逐本扣减库存,任一步失败逆序补偿
// 3. 成功后失效图书列表缓存,发布sale.created事件
//
// 预检查库存只为返回友好的错误信息;并发下由UpdateStock的原子扣减兜底,
// 扣减失败时已扣减的库存被补偿恢复
func (uc *CreateSaleUseCase) Execute(ctx context.Context, req CreateSaleRequest) (dto *SaleDTO, err error) {
	ctx, span := tracing.StartSpan(ctx, "sale", "CreateSale")
	defer func() { tracing.EndSpan(span, err) }()

	start := time.Now()
	defer func() { metrics.ObserveSale(err == nil, time.Since(start)) }()

	lines, err := sale.MergeLines(req.Items)
	if err != nil {
		return nil, err
	}
	if !req.PaymentMethod.Valid() {
		return nil, sale.ErrInvalidPaymentMethod
	}
	if req.CustomerID != nil {
		if _, err := uc.customers.FindByID(ctx, *req.CustomerID); err != nil {
			return nil, err
		}
	}

	items, err := uc.priceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	s, err := sale.NewSale(sale.GenerateSaleNo(uc.now()), req.CustomerID, req.UserID, req.PaymentMethod, req.Notes, items)
	if err != nil {
		return nil, err
	}

	flow := saga.NewSaga("create-sale", sagaTimeout)
	flow.AddStep("写入销售单",
		func(ctx context.Context) error { return uc.sales.Create(ctx, s) },
		func(ctx context.Context) error { return uc.sales.Delete(ctx, s.ID) },
	)
	flow.AddStep("写入明细",
		func(ctx context.Context) error { return uc.sales.CreateItems(ctx, s.ID, s.Items) },
		func(ctx context.Context) error { return uc.sales.DeleteItems(ctx, s.ID) },
	)
	for _, l := range lines {
		l := l
		flow.AddStep(fmt.Sprintf("扣减库存#%d", l.BookID),
			func(ctx context.Context) error { return uc.inventory.UpdateStock(ctx, l.BookID, -l.Quantity) },
			func(ctx context.Context) error { return uc.inventory.UpdateStock(ctx, l.BookID, l.Quantity) },
		)
	}

	if err := flow.Execute(ctx); err != nil {
		logger.WithFields(map[string]interface{}{
			"sale_no":       s.SaleNo,
			"compensations": flow.Compensated(),
		}).WithError(err).Warn("新建销售单失败,已补偿")
		if cerr := flow.CompensationError(); cerr != nil {
			return nil, apperrors.Wrap(cerr, "销售单补偿失败,请联系管理员")
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sale.no", s.SaleNo),
		attribute.Int64("sale.total", s.Total),
		attribute.Int("sale.items", len(s.Items)),
	)

	appbook.Invalidate(ctx, uc.cache, appbook.NamespaceBooks)
	mq.PublishQuietly(ctx, uc.publisher, mq.RoutingSaleCreated, SaleCreatedEvent{
		SaleID: s.ID,
		SaleNo: s.SaleNo,
		UserID: s.UserID,
		Total:  s.Total,
		Items:  len(s.Items),
	})

	logger.WithFields(map[string]interface{}{
		"sale_id": s.ID,
		"sale_no": s.SaleNo,
		"total":   s.Total,
		"user_id": s.UserID,
	}).Info("销售单已创建")

	out := ToDTO(s)
	return &out, nil
}

// priceLines 按当前价格生成明细,校验图书存在且库存充足
func (uc *CreateSaleUseCase) priceLines(ctx context.Context, lines []sale.Line) ([]sale.Item, error) {
	ids := make([]uint, len(lines))
	for i, l := range lines {
		ids[i] = l.BookID
	}

	books, err := uc.inventory.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*book.Book, len(books))
	for _, b := range books {
		byID[b.ID] = b
	}

	items := make([]sale.Item, len(lines))
	for i, l := range lines {
		b, ok := byID[l.BookID]
		if !ok {
			return nil, apperrors.WithCode(apperrors.ErrCodeBookNotFound, book.ErrBookNotFound,
				fmt.Sprintf("图书不存在(ID:%d)", l.BookID))
		}
		if b.Stock < l.Quantity {
			return nil, apperrors.WithCode(apperrors.ErrCodeInsufficientStock, book.ErrInsufficientStock,
				fmt.Sprintf("图书《%s》库存不足,当前库存:%d,需要:%d", b.Title, b.Stock, l.Quantity))
		}
		items[i] = sale.Item{
			BookID:    b.ID,
			BookTitle: b.Title,
			Quantity:  l.Quantity,
			UnitPrice: b.Price,
		}
	}
	return items, nil
}
