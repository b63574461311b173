package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
)

type fixedCount int64

func (c fixedCount) Count(context.Context) (int64, error) { return int64(c), nil }

type failingCount struct{}

func (failingCount) Count(context.Context) (int64, error) { return 0, errors.New("db down") }

type stubSales struct {
	recentN int
}

func (s *stubSales) Summary(context.Context) (int64, int64, error) { return 3, 15000, nil }

func (s *stubSales) Recent(_ context.Context, n int) ([]*sale.Sale, error) {
	s.recentN = n
	return []*sale.Sale{
		{ID: 3, SaleNo: "VD3", CustomerName: "Ana", Status: sale.StatusCompleted, Total: 5000, Items: []sale.Item{{BookID: 1}}},
	}, nil
}

func TestDashboard(t *testing.T) {
	sales := &stubSales{}
	got, err := NewUseCase(fixedCount(12), fixedCount(4), sales).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(12), got.TotalBooks)
	assert.Equal(t, int64(4), got.TotalCustomers)
	assert.Equal(t, int64(3), got.TotalSales)
	assert.Equal(t, "150.00", got.TotalRevenueDisplay)
	assert.Equal(t, RecentSalesLimit, sales.recentN)
	require.Len(t, got.RecentSales, 1)
	assert.Equal(t, "Ana", got.RecentSales[0].CustomerName)
	assert.Nil(t, got.RecentSales[0].Items)
}

func TestDashboard_Error(t *testing.T) {
	_, err := NewUseCase(failingCount{}, fixedCount(0), &stubSales{}).Execute(context.Background())
	assert.Error(t, err)
}
