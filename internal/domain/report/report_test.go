package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	p, err = ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("decade")
	assert.Same(t, ErrInvalidPeriod, err)
}

func TestPeriod_Since(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 24, 12, 0, 0, 0, time.UTC), PeriodWeek.Since(now))
	assert.Equal(t, time.Date(2023, 3, 31, 12, 0, 0, 0, time.UTC), PeriodYear.Since(now))
	// 3月31日减一个月按Go的AddDate规则归一化为3月2日
	assert.Equal(t, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC), PeriodMonth.Since(now))
}

func TestBuild(t *testing.T) {
	loc := time.UTC
	day1 := time.Date(2024, 1, 10, 9, 0, 0, 0, loc)
	day2 := time.Date(2024, 1, 11, 15, 0, 0, 0, loc)

	sales := []*sale.Sale{
		{Status: sale.StatusCompleted, Total: 1000, CreatedAt: day1, Items: []sale.Item{
			{BookID: 1, BookTitle: "A", Quantity: 1, Subtotal: 1000},
		}},
		{Status: sale.StatusCompleted, Total: 2001, CreatedAt: day1.Add(time.Hour), Items: []sale.Item{
			{BookID: 2, BookTitle: "B", Quantity: 1, Subtotal: 2001},
		}},
		{Status: sale.StatusCancelled, Total: 99999, CreatedAt: day2, Items: []sale.Item{
			{BookID: 3, BookTitle: "C", Quantity: 9, Subtotal: 99999},
		}},
		{Status: sale.StatusCompleted, Total: 500, CreatedAt: day2, Items: []sale.Item{
			{BookID: 1, BookTitle: "A", Quantity: 1, Subtotal: 500},
		}},
	}

	r := Build(PeriodWeek, day1, day2, sales, loc)

	t.Run("汇总不含已取消", func(t *testing.T) {
		assert.Equal(t, 3, r.TotalSales)
		assert.Equal(t, int64(3501), r.TotalRevenue)
		assert.Equal(t, int64(1167), r.AverageTicket, "3501/3=1167.0")
	})

	t.Run("按日分组", func(t *testing.T) {
		require.Len(t, r.ByDay, 2)
		assert.Equal(t, DayTotal{Date: "2024-01-10", Count: 2, Total: 3001}, r.ByDay[0])
		assert.Equal(t, DayTotal{Date: "2024-01-11", Count: 1, Total: 500}, r.ByDay[1])
	})

	t.Run("畅销榜按营收降序", func(t *testing.T) {
		require.Len(t, r.TopBooks, 2)
		assert.Equal(t, uint(2), r.TopBooks[0].BookID)
		assert.Equal(t, TopBook{BookID: 1, Title: "A", Quantity: 2, Revenue: 1500}, r.TopBooks[1])
	})
}

func TestBuild_Empty(t *testing.T) {
	r := Build(PeriodMonth, time.Now(), time.Now(), nil, nil)
	assert.Zero(t, r.TotalSales)
	assert.Zero(t, r.AverageTicket)
	assert.NotNil(t, r.ByDay)
	assert.NotNil(t, r.TopBooks)
}

func TestBuild_TopBooksLimit(t *testing.T) {
	var sales []*sale.Sale
	for i := 1; i <= 15; i++ {
		sales = append(sales, &sale.Sale{
			Status: sale.StatusCompleted, Total: int64(i * 100), CreatedAt: time.Now(),
			Items: []sale.Item{{BookID: uint(i), BookTitle: fmt.Sprintf("B%d", i), Quantity: 1, Subtotal: int64(i * 100)}},
		})
	}

	r := Build(PeriodYear, time.Now(), time.Now(), sales, time.UTC)
	require.Len(t, r.TopBooks, TopBooksLimit)
	assert.Equal(t, uint(15), r.TopBooks[0].BookID)
	assert.Equal(t, uint(6), r.TopBooks[9].BookID)
}
