// Package report 销售报表聚合
//
// 报表只统计已完成的销售单,取消的销售单不计入营收。
// 聚合在内存中完成:单门店一年的销售量在万级,无需下推到SQL。
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// Period 统计周期
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// TopBooksLimit 畅销榜条数
const TopBooksLimit = 10

// ErrInvalidPeriod 周期参数错误
var ErrInvalidPeriod = apperrors.New(apperrors.ErrCodeInvalidParams, "统计周期必须为week、month或year")

// ParsePeriod 解析周期参数,空值按month处理
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodMonth, nil
	case PeriodWeek, PeriodMonth, PeriodYear:
		return Period(s), nil
	}
	return "", ErrInvalidPeriod
}

// Since 返回周期起点:一周前、一个月前或一年前的同一时刻
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// DayTotal 单日营收
type DayTotal struct {
	Date  string `json:"date"` // 2006-01-02
	Count int    `json:"count"`
	Total int64  `json:"total"`
}

// TopBook 畅销书
type TopBook struct {
	BookID   uint   `json:"book_id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
	Revenue  int64  `json:"revenue"`
}

// SalesReport 周期销售报表(金额单位:分)
type SalesReport struct {
	Period        Period     `json:"period"`
	From          time.Time  `json:"from"`
	To            time.Time  `json:"to"`
	TotalSales    int        `json:"total_sales"`
	TotalRevenue  int64      `json:"total_revenue"`
	AverageTicket int64      `json:"average_ticket"`
	ByDay         []DayTotal `json:"by_day"`
	TopBooks      []TopBook  `json:"top_books"`
}

// Build 聚合销售单
// 1. 汇总数量、营收,平均客单价四舍五入到分
// 2. 按loc时区的自然日分组,日期升序
// 3. 按书汇总明细,营收降序取前10(营收相同按BookID升序)
func Build(period Period, from, to time.Time, sales []*sale.Sale, loc *time.Location) *SalesReport {
	if loc == nil {
		loc = time.Local
	}

	r := &SalesReport{
		Period:   period,
		From:     from,
		To:       to,
		ByDay:    []DayTotal{},
		TopBooks: []TopBook{},
	}

	days := make(map[string]*DayTotal)
	books := make(map[uint]*TopBook)

	for _, s := range sales {
		if s.Status != sale.StatusCompleted {
			continue
		}
		r.TotalSales++
		r.TotalRevenue += s.Total

		day := s.CreatedAt.In(loc).Format("2006-01-02")
		d, ok := days[day]
		if !ok {
			d = &DayTotal{Date: day}
			days[day] = d
		}
		d.Count++
		d.Total += s.Total

		for _, it := range s.Items {
			b, ok := books[it.BookID]
			if !ok {
				b = &TopBook{BookID: it.BookID, Title: it.BookTitle}
				books[it.BookID] = b
			}
			b.Quantity += it.Quantity
			b.Revenue += it.Subtotal
		}
	}

	if r.TotalSales > 0 {
		r.AverageTicket = decimal.NewFromInt(r.TotalRevenue).
			Div(decimal.NewFromInt(int64(r.TotalSales))).
			Round(0).
			IntPart()
	}

	for _, d := range days {
		r.ByDay = append(r.ByDay, *d)
	}
	sort.Slice(r.ByDay, func(i, j int) bool { return r.ByDay[i].Date < r.ByDay[j].Date })

	for _, b := range books {
		r.TopBooks = append(r.TopBooks, *b)
	}
	sort.Slice(r.TopBooks, func(i, j int) bool {
		if r.TopBooks[i].Revenue != r.TopBooks[j].Revenue {
			return r.TopBooks[i].Revenue > r.TopBooks[j].Revenue
		}
		return r.TopBooks[i].BookID < r.TopBooks[j].BookID
	})
	if len(r.TopBooks) > TopBooksLimit {
		r.TopBooks = r.TopBooks[:TopBooksLimit]
	}

	return r
}
