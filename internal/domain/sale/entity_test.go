package sale

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLines(t *testing.T) {
	t.Run("同一本书合并数量", func(t *testing.T) {
		got, err := MergeLines([]Line{{BookID: 2, Quantity: 1}, {BookID: 1, Quantity: 2}, {BookID: 2, Quantity: 3}})
		require.NoError(t, err)
		assert.Equal(t, []Line{{BookID: 1, Quantity: 2}, {BookID: 2, Quantity: 4}}, got)
	})

	t.Run("空购物车", func(t *testing.T) {
		_, err := MergeLines(nil)
		assert.Same(t, ErrEmptyCart, err)
	})

	t.Run("数量非法", func(t *testing.T) {
		_, err := MergeLines([]Line{{BookID: 1, Quantity: 0}})
		assert.Same(t, ErrInvalidQuantity, err)
	})
}

func TestNewSale(t *testing.T) {
	items := []Item{
		{BookID: 1, Quantity: 2, UnitPrice: 4990},
		{BookID: 2, Quantity: 1, UnitPrice: 3500},
	}

	s, err := NewSale("VD1", nil, 7, PaymentPix, " troco ", items)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, s.Status)
	assert.Equal(t, int64(9980), s.Items[0].Subtotal)
	assert.Equal(t, int64(13480), s.Total)
	assert.Equal(t, "troco", s.Notes)

	t.Run("不支持的支付方式", func(t *testing.T) {
		_, err := NewSale("VD1", nil, 7, PaymentMethod("boleto"), "", items)
		assert.Same(t, ErrInvalidPaymentMethod, err)
	})
}

func TestSale_Cancel(t *testing.T) {
	s := &Sale{Status: StatusCompleted}
	require.NoError(t, s.Cancel())
	assert.Equal(t, StatusCancelled, s.Status)

	assert.Same(t, ErrInvalidStatusTransition, s.Cancel(), "已取消的销售单不能再次取消")
}

func TestGenerateSaleNo(t *testing.T) {
	no := GenerateSaleNo(time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^VD20240115103045\d{4}$`), no)
}
