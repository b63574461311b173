// Package report 销售报表用例
package report

import (
	"context"
	"io"
	"time"

	"github.com/xiebiao/bookstore-admin/internal/domain/report"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/spreadsheet"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
)

// SalesSource 查询已完成的销售单
type SalesSource interface {
	ListCompletedSince(ctx context.Context, since time.Time) ([]*sale.Sale, error)
}

// SalesReportUseCase 周期销售报表
type SalesReportUseCase struct {
	sales SalesSource
	loc   *time.Location
	now   func() time.Time
}

// NewSalesReportUseCase 创建用例,按loc时区的自然日分组(nil为本地时区)
func NewSalesReportUseCase(sales SalesSource, loc *time.Location) *SalesReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &SalesReportUseCase{sales: sales, loc: loc, now: time.Now}
}

// Execute 生成报表,period为空按month处理
func (uc *SalesReportUseCase) Execute(ctx context.Context, period string) (*report.SalesReport, error) {
	p, err := report.ParsePeriod(period)
	if err != nil {
		return nil, err
	}

	now := uc.now().In(uc.loc)
	from := p.Since(now)
	sales, err := uc.sales.ListCompletedSince(ctx, from)
	if err != nil {
		return nil, err
	}
	return report.Build(p, from, now, sales, uc.loc), nil
}

// Export 生成报表并写出xlsx,返回下载文件名
func (uc *SalesReportUseCase) Export(ctx context.Context, period string, w io.Writer) (string, error) {
	r, err := uc.Execute(ctx, period)
	if err != nil {
		return "", err
	}
	if err := spreadsheet.WriteSalesReport(w, r); err != nil {
		return "", err
	}

	logger.WithFields(map[string]interface{}{
		"period": r.Period,
		"sales":  r.TotalSales,
	}).Info("销售报表已导出")
	return spreadsheet.SalesReportFileName(r), nil
}
