package dto

import "github.com/shopspring/decimal"

// BookRequest 新增/修改图书
// price为元(两位小数),服务端转换为分
type BookRequest struct {
	Title           string          `json:"title" binding:"required,max=255" example:"Dom Casmurro"`
	Author          string          `json:"author" binding:"required,max=255" example:"Machado de Assis"`
	ISBN            string          `json:"isbn" binding:"max=20" example:"9788535902773"`
	CategoryID      *uint           `json:"category_id" example:"1"`
	Price           decimal.Decimal `json:"price" swaggertype:"number" example:"49.90"`
	Stock           int             `json:"stock" binding:"min=0" example:"10"`
	Publisher       string          `json:"publisher" binding:"max=255" example:"Companhia das Letras"`
	PublicationYear *int            `json:"publication_year" example:"2008"`
	CoverURL        string          `json:"cover_url" binding:"omitempty,url,max=500"`
	Description     string          `json:"description" binding:"max=5000"`
}

// ListBooksQuery 图书列表查询参数
type ListBooksQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword    string `form:"keyword" binding:"omitempty,max=100" example:"Machado"`
	CategoryID *uint  `form:"category_id"`
	InStock    bool   `form:"in_stock"`
}

// CategoryRequest 新增/修改分类
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100" example:"Ficção"`
	Description string `json:"description" binding:"max=500"`
}

// CustomerRequest 新增/修改客户
type CustomerRequest struct {
	Name    string `json:"name" binding:"required,max=255" example:"Ana Souza"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Phone   string `json:"phone" binding:"max=20"`
	CPF     string `json:"cpf" binding:"max=14" example:"123.456.789-09"`
	Address string `json:"address" binding:"max=500"`
}

// PageQuery 通用分页参数
type PageQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
}
