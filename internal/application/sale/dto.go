// Package sale 销售单用例
package sale

import (
	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
)

// SaleItemDTO 销售明细
type SaleItemDTO struct {
	BookID           uint   `json:"book_id"`
	BookTitle        string `json:"book_title"`
	Quantity         int    `json:"quantity"`
	UnitPrice        int64  `json:"unit_price"`
	Subtotal         int64  `json:"subtotal"`
	SubtotalDisplay  string `json:"subtotal_display"`
	UnitPriceDisplay string `json:"unit_price_display"`
}

// SaleDTO 销售单响应DTO
type SaleDTO struct {
	ID            uint          `json:"id"`
	SaleNo        string        `json:"sale_no"`
	CustomerID    *uint         `json:"customer_id,omitempty"`
	CustomerName  string        `json:"customer_name,omitempty"`
	UserID        uint          `json:"user_id"`
	Total         int64         `json:"total"`
	TotalDisplay  string        `json:"total_display"`
	PaymentMethod string        `json:"payment_method"`
	Status        string        `json:"status"`
	StatusText    string        `json:"status_text"`
	Notes         string        `json:"notes,omitempty"`
	Items         []SaleItemDTO `json:"items,omitempty"`
	CreatedAt     string        `json:"created_at"`
}

// ToDTO 转换为响应DTO
func ToDTO(s *sale.Sale) SaleDTO {
	dto := SaleDTO{
		ID:            s.ID,
		SaleNo:        s.SaleNo,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		UserID:        s.UserID,
		Total:         s.Total,
		TotalDisplay:  appbook.FormatPrice(s.Total),
		PaymentMethod: string(s.PaymentMethod),
		Status:        string(s.Status),
		StatusText:    s.Status.String(),
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, it := range s.Items {
		dto.Items = append(dto.Items, SaleItemDTO{
			BookID:           it.BookID,
			BookTitle:        it.BookTitle,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			UnitPriceDisplay: appbook.FormatPrice(it.UnitPrice),
			Subtotal:         it.Subtotal,
			SubtotalDisplay:  appbook.FormatPrice(it.Subtotal),
		})
	}
	return dto
}
