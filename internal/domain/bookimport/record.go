// Package bookimport 表格导入解析
//
// 解析结果是中间数据,不直接落库:
// 确认导入时由应用层逐条映射为book.Book,并在映射前解析分类。
package bookimport

import (
	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
)

// ImportedBookRecord 解析出的一行图书数据
// 字段名沿用表格模板的葡语列名;可选字段为nil表示表格中未提供或无法解析
type ImportedBookRecord struct {
	Titulo    string           `json:"titulo"`
	Autor     string           `json:"autor"`
	ISBN      *string          `json:"isbn,omitempty"`
	Editora   *string          `json:"editora,omitempty"`
	Ano       *int             `json:"ano,omitempty"`
	Preco     *decimal.Decimal `json:"preco,omitempty"`
	Estoque   *int             `json:"estoque,omitempty"`
	Categoria *string          `json:"categoria,omitempty"`
	Descricao *string          `json:"descricao,omitempty"`
}

// Result 解析结果
// Success恒等于len(Books);Errors至少包含Failed条行级错误,另可能有表级错误
type Result struct {
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []string             `json:"errors"`
	Books   []ImportedBookRecord `json:"books"`
}

// NewResult 创建空结果
func NewResult() *Result {
	return &Result{Errors: []string{}, Books: []ImportedBookRecord{}}
}

// FileError 文件级失败:只有一条错误,计数全为0
func FileError(err error) *Result {
	r := NewResult()
	r.Errors = append(r.Errors, msgFileError+err.Error())
	return r
}

// PriceCents 价格转为分,四舍五入;未提供时为0
func (r ImportedBookRecord) PriceCents() int64 {
	if r.Preco == nil {
		return 0
	}
	return r.Preco.Shift(2).Round(0).IntPart()
}

// CategoryName 分类名,未提供时为空串
func (r ImportedBookRecord) CategoryName() string {
	return deref(r.Categoria)
}

// Attributes 映射为图书属性,价格和库存缺省为0
// categoryID由调用方解析分类后传入;isbn由调用方清洗后传入
func (r ImportedBookRecord) Attributes(isbn string, categoryID *uint) book.Attributes {
	stock := 0
	if r.Estoque != nil {
		stock = *r.Estoque
	}

	return book.Attributes{
		Title:           r.Titulo,
		Author:          r.Autor,
		ISBN:            isbn,
		CategoryID:      categoryID,
		Price:           r.PriceCents(),
		Stock:           stock,
		Publisher:       deref(r.Editora),
		PublicationYear: r.Ano,
		Description:     deref(r.Descricao),
	}
}

// RawISBN 表格中的原始ISBN,未提供时为空串
func (r ImportedBookRecord) RawISBN() string {
	return deref(r.ISBN)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
