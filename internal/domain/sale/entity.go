package sale

import (
	"sort"
	"strings"
	"time"
)

// Status 销售单状态
// 门店现场结账,创建即完成;取消后库存回滚
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "已完成"
	case StatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// PaymentMethod 支付方式
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentPix        PaymentMethod = "pix"
)

// Valid 是否为支持的支付方式
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix:
		return true
	}
	return false
}

// Sale 销售单(聚合根)
// 1. Items是聚合内的子实体,只能通过Sale访问
// 2. Total冗余存储,等于所有明细Subtotal之和
// 3. CustomerID可选(散客)
type Sale struct {
	ID            uint
	SaleNo        string
	CustomerID    *uint
	CustomerName  string // 只读,查询时关联填充
	UserID        uint   // 操作员
	Total         int64  // 总金额(分)
	PaymentMethod PaymentMethod
	Status        Status
	Notes         string
	Items         []Item
	CreatedAt     time.Time
}

// Item 销售明细
// UnitPrice记录成交时的单价快照,之后改价不影响历史销售
type Item struct {
	ID        uint
	SaleID    uint
	BookID    uint
	BookTitle string // 只读,查询时关联填充
	Quantity  int
	UnitPrice int64
	Subtotal  int64
	CreatedAt time.Time
}

// Line 购物车中的一行
type Line struct {
	BookID   uint
	Quantity int
}

// MergeLines 合并同一本书的多行并校验数量
// 返回结果按BookID排序,保证扣减库存的顺序稳定
func MergeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	qty := make(map[uint]int, len(lines))
	for _, l := range lines {
		if l.BookID == 0 || l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		qty[l.BookID] += l.Quantity
	}

	merged := make([]Line, 0, len(qty))
	for id, q := range qty {
		merged = append(merged, Line{BookID: id, Quantity: q})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].BookID < merged[j].BookID })
	return merged, nil
}

// NewSale 创建销售单(工厂方法)
// items的UnitPrice由调用方按当前图书价格填入,这里计算小计与总额
func NewSale(saleNo string, customerID *uint, userID uint, method PaymentMethod, notes string, items []Item) (*Sale, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}

	now := time.Now()
	s := &Sale{
		SaleNo:        saleNo,
		CustomerID:    customerID,
		UserID:        userID,
		PaymentMethod: method,
		Status:        StatusCompleted,
		Notes:         strings.TrimSpace(notes),
		Items:         make([]Item, len(items)),
		CreatedAt:     now,
	}
	for i, it := range items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		it.Subtotal = it.UnitPrice * int64(it.Quantity)
		it.CreatedAt = now
		s.Items[i] = it
	}
	s.Total = s.CalculateTotal()
	return s, nil
}

// CalculateTotal 根据明细计算总额
func (s *Sale) CalculateTotal() int64 {
	var total int64
	for _, it := range s.Items {
		total += it.UnitPrice * int64(it.Quantity)
	}
	return total
}

// transitions 合法的状态转换
var transitions = map[Status][]Status{
	StatusCompleted: {StatusCancelled},
	StatusCancelled: {},
}

// CanTransitionTo 检查是否可以转换到目标状态
func (s *Sale) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s.Status] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Cancel 取消销售单(领域行为)
func (s *Sale) Cancel() error {
	if !s.CanTransitionTo(StatusCancelled) {
		return ErrInvalidStatusTransition
	}
	s.Status = StatusCancelled
	return nil
}
