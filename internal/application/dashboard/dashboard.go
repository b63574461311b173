// Package dashboard 首页统计
package dashboard

import (
	"context"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	appsale "github.com/xiebiao/bookstore-admin/internal/application/sale"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
)

// RecentSalesLimit 首页展示的最近销售单数量
const RecentSalesLimit = 5

// Counter 计数
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// SalesSource 销售统计
type SalesSource interface {
	Summary(ctx context.Context) (count int64, revenue int64, err error)
	Recent(ctx context.Context, n int) ([]*sale.Sale, error)
}

// Response 首页数据
type Response struct {
	TotalBooks          int64             `json:"total_books"`
	TotalCustomers      int64             `json:"total_customers"`
	TotalSales          int64             `json:"total_sales"`
	TotalRevenue        int64             `json:"total_revenue"`
	TotalRevenueDisplay string            `json:"total_revenue_display"`
	RecentSales         []appsale.SaleDTO `json:"recent_sales"`
}

// UseCase 首页统计用例
type UseCase struct {
	books     Counter
	customers Counter
	sales     SalesSource
}

// NewUseCase 创建用例
func NewUseCase(books, customers Counter, sales SalesSource) *UseCase {
	return &UseCase{books: books, customers: customers, sales: sales}
}

// Execute 汇总图书数、客户数、已完成销售的数量与营收,以及最近5笔销售
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	books, err := uc.books.Count(ctx)
	if err != nil {
		return nil, err
	}
	customers, err := uc.customers.Count(ctx)
	if err != nil {
		return nil, err
	}
	count, revenue, err := uc.sales.Summary(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := uc.sales.Recent(ctx, RecentSalesLimit)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		TotalBooks:          books,
		TotalCustomers:      customers,
		TotalSales:          count,
		TotalRevenue:        revenue,
		TotalRevenueDisplay: appbook.FormatPrice(revenue),
		RecentSales:         make([]appsale.SaleDTO, len(recent)),
	}
	for i, s := range recent {
		resp.RecentSales[i] = appsale.ToDTO(s)
		resp.RecentSales[i].Items = nil
	}
	return resp, nil
}
