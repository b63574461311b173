package book

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
)

// BookRequest 新增/修改图书请求DTO
// Price为元,保存时四舍五入到分
type BookRequest struct {
	Title           string
	Author          string
	ISBN            string
	CategoryID      *uint
	Price           decimal.Decimal
	Stock           int
	Publisher       string
	PublicationYear *int
	CoverURL        string
	Description     string
}

// attributes 转为领域属性
// ISBN合法时保存规范化形式,保证ISBN查询能精确命中本地目录
func (r BookRequest) attributes() book.Attributes {
	return book.Attributes{
		Title:           r.Title,
		Author:          r.Author,
		ISBN:            lookup.CleanISBN(r.ISBN),
		CategoryID:      r.CategoryID,
		Price:           r.Price.Shift(2).Round(0).IntPart(),
		Stock:           r.Stock,
		Publisher:       r.Publisher,
		PublicationYear: r.PublicationYear,
		CoverURL:        r.CoverURL,
		Description:     r.Description,
	}
}

// BookDTO 图书响应DTO
type BookDTO struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	CategoryID      *uint  `json:"category_id"`
	CategoryName    string `json:"category_name,omitempty"`
	Price           int64  `json:"price"`         // 分
	PriceDisplay    string `json:"price_display"` // 元,两位小数
	Stock           int    `json:"stock"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationYear *int   `json:"publication_year,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	Description     string `json:"description,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// ToDTO 领域实体转为DTO
func ToDTO(b *book.Book) BookDTO {
	return BookDTO{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		CategoryID:      b.CategoryID,
		CategoryName:    b.CategoryName,
		Price:           b.Price,
		PriceDisplay:    FormatPrice(b.Price),
		Stock:           b.Stock,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		CoverURL:        b.CoverURL,
		Description:     b.Description,
		CreatedAt:       b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// FormatPrice 分 → 元,如4990 → "49.90"
func FormatPrice(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
