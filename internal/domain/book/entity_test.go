package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewBook(t *testing.T) {
	t.Run("字段去除首尾空白", func(t *testing.T) {
		b, err := NewBook(Attributes{
			Title:  "  Dom Casmurro ",
			Author: "Machado de Assis",
			ISBN:   " 9788535902773 ",
			Price:  4990,
			Stock:  3,
		})
		require.NoError(t, err)
		assert.Equal(t, "Dom Casmurro", b.Title)
		assert.Equal(t, "9788535902773", b.ISBN)
		assert.False(t, b.CreatedAt.IsZero())
	})

	cases := []struct {
		name  string
		attrs Attributes
		want  error
	}{
		{"书名为空", Attributes{Author: "X"}, ErrTitleRequired},
		{"作者为空", Attributes{Title: "A", Author: "  "}, ErrAuthorRequired},
		{"负价格", Attributes{Title: "A", Author: "X", Price: -1}, ErrInvalidPrice},
		{"负库存", Attributes{Title: "A", Author: "X", Stock: -1}, ErrInvalidStock},
		{"年份过小", Attributes{Title: "A", Author: "X", PublicationYear: intPtr(999)}, ErrInvalidYear},
		{"年份过大", Attributes{Title: "A", Author: "X", PublicationYear: intPtr(2101)}, ErrInvalidYear},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBook(tc.attrs)
			assert.Same(t, tc.want, err)
		})
	}

	t.Run("价格和库存允许为0", func(t *testing.T) {
		_, err := NewBook(Attributes{Title: "A", Author: "X"})
		assert.NoError(t, err)
	})
}

func TestBook_Stock(t *testing.T) {
	b, err := NewBook(Attributes{Title: "A", Author: "X", Stock: 2})
	require.NoError(t, err)

	assert.Same(t, ErrInvalidQuantity, b.DecrStock(0))
	assert.Same(t, ErrInsufficientStock, b.DecrStock(3))
	require.NoError(t, b.DecrStock(2))
	assert.False(t, b.InStock())

	require.NoError(t, b.IncrStock(5))
	assert.Equal(t, 5, b.Stock)
	assert.Same(t, ErrInvalidQuantity, b.IncrStock(-1))
}
