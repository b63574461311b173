package dto

// CreateSaleRequest 新建销售单
type CreateSaleRequest struct {
	CustomerID    *uint                   `json:"customer_id" example:"1"`
	PaymentMethod string                  `json:"payment_method" binding:"required,oneof=cash credit_card debit_card pix" example:"pix"`
	Notes         string                  `json:"notes" binding:"max=1000"`
	Items         []CreateSaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateSaleItemRequest 销售明细
type CreateSaleItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=999" example:"2"`
}
