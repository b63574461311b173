package lookup

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
)

// 数据来源标识
const (
	SourceLocal       = "local"
	SourceGoogleBooks = "google_books"
	SourceScraper     = "scraper"
)

// ExternalBookData 各数据源统一后的图书数据,不落库
type ExternalBookData struct {
	Title           string           `json:"title"`
	Author          string           `json:"author"`
	ISBN            string           `json:"isbn"`
	Description     string           `json:"description,omitempty"`
	Publisher       string           `json:"publisher,omitempty"`
	PublicationYear *int             `json:"publication_year,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	CoverImage      string           `json:"cover_image,omitempty"`

	// Source 产生该数据的数据源
	Source string `json:"source"`
	// ExistingBookID 本地目录命中时的图书ID
	ExistingBookID *uint `json:"existing_book_id,omitempty"`
}

// FromBook 本地目录中的图书转为统一结构
func FromBook(b *book.Book) *ExternalBookData {
	price := decimal.New(b.Price, -2)
	id := b.ID
	return &ExternalBookData{
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Description:     b.Description,
		Publisher:       b.Publisher,
		PublicationYear: b.PublicationYear,
		Price:           &price,
		CoverImage:      b.CoverURL,
		Source:          SourceLocal,
		ExistingBookID:  &id,
	}
}

// PriceCents 价格转为分,未提供时为0
func (d *ExternalBookData) PriceCents() int64 {
	if d.Price == nil {
		return 0
	}
	return d.Price.Shift(2).Round(0).IntPart()
}
