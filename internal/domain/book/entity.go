package book

import (
	"strings"
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 价格使用int64存储"分"为单位(避免浮点数精度问题)
// 2. ISBN可为空且不唯一(表格导入不做去重)
// 3. CategoryID、PublicationYear可选,使用指针区分"未设置"与零值
type Book struct {
	ID              uint
	Title           string
	Author          string
	ISBN            string
	CategoryID      *uint
	CategoryName    string // 只读,列表查询时关联填充
	Price           int64  // 价格(单位:分)
	Stock           int    // 库存数量
	Publisher       string
	PublicationYear *int
	CoverURL        string
	Description     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Attributes 创建/更新图书时的可编辑字段
type Attributes struct {
	Title           string
	Author          string
	ISBN            string
	CategoryID      *uint
	Price           int64
	Stock           int
	Publisher       string
	PublicationYear *int
	CoverURL        string
	Description     string
}

// NewBook 创建新图书(工厂方法)
// 业务规则:
// - 书名、作者不能为空
// - 价格、库存不能为负数
// - 出版年份(若有)在1000-2100之间
func NewBook(attrs Attributes) (*Book, error) {
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	b := &Book{CreatedAt: now, UpdatedAt: now}
	b.apply(attrs)
	return b, nil
}

// Update 整体更新可编辑字段
func (b *Book) Update(attrs Attributes) error {
	if err := attrs.validate(); err != nil {
		return err
	}
	b.apply(attrs)
	b.UpdatedAt = time.Now()
	return nil
}

func (b *Book) apply(attrs Attributes) {
	b.Title = strings.TrimSpace(attrs.Title)
	b.Author = strings.TrimSpace(attrs.Author)
	b.ISBN = strings.TrimSpace(attrs.ISBN)
	b.CategoryID = attrs.CategoryID
	b.Price = attrs.Price
	b.Stock = attrs.Stock
	b.Publisher = strings.TrimSpace(attrs.Publisher)
	b.PublicationYear = attrs.PublicationYear
	b.CoverURL = strings.TrimSpace(attrs.CoverURL)
	b.Description = strings.TrimSpace(attrs.Description)
}

func (a Attributes) validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrTitleRequired
	}
	if strings.TrimSpace(a.Author) == "" {
		return ErrAuthorRequired
	}
	if a.Price < 0 {
		return ErrInvalidPrice
	}
	if a.Stock < 0 {
		return ErrInvalidStock
	}
	if a.PublicationYear != nil && (*a.PublicationYear < MinPublicationYear || *a.PublicationYear > MaxPublicationYear) {
		return ErrInvalidYear
	}
	return nil
}

// 出版年份合法区间
const (
	MinPublicationYear = 1000
	MaxPublicationYear = 2100
)

// DecrStock 扣减库存(用于销售)
// 业务规则:扣减后库存不能为负数
func (b *Book) DecrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Stock < quantity {
		return ErrInsufficientStock
	}
	b.Stock -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// IncrStock 增加库存(用于取消销售、补货)
func (b *Book) IncrStock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.Stock += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// InStock 是否有库存
func (b *Book) InStock() bool {
	return b.Stock > 0
}
