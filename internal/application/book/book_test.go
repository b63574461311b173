package book

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("ISBN规范化且价格转为分", func(t *testing.T) {
		books := new(mockBookService)
		categories := new(mockCategoryService)
		cache := new(mockListCache)
		pub := new(mockPublisher)

		catID := uint(3)
		categories.On("GetCategory", ctx, catID).Return(&category.Category{ID: catID}, nil)
		books.On("CreateBook", ctx, mock.MatchedBy(func(a book.Attributes) bool {
			return a.ISBN == "9788535902773" && a.Price == 4990 && *a.CategoryID == catID
		})).Return(&book.Book{ID: 7, Title: "Dom Casmurro", ISBN: "9788535902773", Price: 4990}, nil)
		cache.On("Invalidate", ctx, NamespaceBooks).Return(nil)
		pub.On("Publish", ctx, mq.RoutingBookCreated, mock.Anything).Return(nil)

		uc := NewCreateBookUseCase(books, categories, cache, pub)
		got, err := uc.Execute(ctx, 1, BookRequest{
			Title:      "Dom Casmurro",
			Author:     "Machado de Assis",
			ISBN:       "978-85-359-0277-3",
			CategoryID: &catID,
			Price:      decimal.RequireFromString("49.899"),
		})
		require.NoError(t, err)

		assert.Equal(t, uint(7), got.ID)
		assert.Equal(t, "49.90", got.PriceDisplay)
		books.AssertExpectations(t)
		cache.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("分类不存在", func(t *testing.T) {
		books := new(mockBookService)
		categories := new(mockCategoryService)
		catID := uint(99)
		categories.On("GetCategory", ctx, catID).Return(nil, category.ErrCategoryNotFound)

		uc := NewCreateBookUseCase(books, categories, new(mockListCache), mq.NoopPublisher{})
		_, err := uc.Execute(ctx, 1, BookRequest{Title: "T", Author: "A", CategoryID: &catID})
		assert.ErrorIs(t, err, category.ErrCategoryNotFound)
		books.AssertNotCalled(t, "CreateBook", mock.Anything, mock.Anything)
	})

	t.Run("事件发布失败不影响结果", func(t *testing.T) {
		books := new(mockBookService)
		cache := new(mockListCache)
		pub := new(mockPublisher)
		books.On("CreateBook", ctx, mock.Anything).Return(&book.Book{ID: 1}, nil)
		cache.On("Invalidate", ctx, NamespaceBooks).Return(errors.New("redis down"))
		pub.On("Publish", ctx, mq.RoutingBookCreated, mock.Anything).Return(errors.New("amqp closed"))

		_, err := NewCreateBookUseCase(books, new(mockCategoryService), cache, pub).
			Execute(ctx, 1, BookRequest{Title: "T", Author: "A"})
		assert.NoError(t, err)
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	books := new(mockBookService)
	cache := new(mockListCache)

	books.On("DeleteBook", ctx, uint(5)).Return(book.ErrBookNotFound).Once()
	err := NewDeleteBookUseCase(books, cache).Execute(ctx, 5)
	assert.ErrorIs(t, err, book.ErrBookNotFound)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)

	books.On("DeleteBook", ctx, uint(6)).Return(nil)
	cache.On("Invalidate", ctx, NamespaceBooks).Return(nil)
	require.NoError(t, NewDeleteBookUseCase(books, cache).Execute(ctx, 6))
	cache.AssertExpectations(t)
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("缓存未命中时查询并回填", func(t *testing.T) {
		books := new(mockBookService)
		cache := new(mockListCache)

		cache.On("Get", ctx, NamespaceBooks, mock.Anything, mock.Anything).Return(false, nil)
		books.On("ListBooks", ctx, book.ListParams{Page: 1, PageSize: 100, Keyword: "dom", InStock: true}).
			Return([]*book.Book{{ID: 1, Title: "Dom Casmurro", Description: "long", Price: 100}}, int64(101), nil)
		cache.On("Set", ctx, NamespaceBooks, mock.Anything, mock.Anything).Return(nil)

		resp, err := NewListBooksUseCase(books, cache).Execute(ctx, ListBooksRequest{PageSize: 500, Keyword: "dom", InStock: true})
		require.NoError(t, err)

		assert.Equal(t, 2, resp.TotalPages)
		require.Len(t, resp.List, 1)
		assert.Empty(t, resp.List[0].Description, "列表不返回描述")
		assert.Equal(t, "1.00", resp.List[0].PriceDisplay)
		cache.AssertExpectations(t)
	})

	t.Run("缓存命中不查询", func(t *testing.T) {
		books := new(mockBookService)
		cache := new(mockListCache)
		cache.On("Get", ctx, NamespaceBooks, mock.Anything, mock.Anything).Return(true, nil)

		_, err := NewListBooksUseCase(books, cache).Execute(ctx, ListBooksRequest{})
		require.NoError(t, err)
		books.AssertNotCalled(t, "ListBooks", mock.Anything, mock.Anything)
	})

	t.Run("缓存键区分查询参数", func(t *testing.T) {
		id := uint(2)
		a := ListBooksRequest{Page: 1, PageSize: 20}.cacheKey()
		b := ListBooksRequest{Page: 1, PageSize: 20, CategoryID: &id}.cacheKey()
		c := ListBooksRequest{Page: 1, PageSize: 20, InStock: true}.cacheKey()
		assert.NotEqual(t, a, b)
		assert.NotEqual(t, a, c)
	})
}

func TestLookupISBN(t *testing.T) {
	ctx := context.Background()
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, "9788535902773").
		Return(&lookup.ExternalBookData{Title: "Dom Casmurro", ISBN: "9788535902773", Source: lookup.SourceGoogleBooks}, nil)
	resolver.On("Resolve", mock.Anything, "123").Return(nil, lookup.ErrInvalidISBN)

	uc := NewLookupISBNUseCase(resolver)

	got, err := uc.Execute(ctx, "9788535902773")
	require.NoError(t, err)
	assert.Equal(t, lookup.SourceGoogleBooks, got.Source)

	_, err = uc.Execute(ctx, "123")
	assert.ErrorIs(t, err, lookup.ErrInvalidISBN)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "0.00", FormatPrice(0))
	assert.Equal(t, "49.90", FormatPrice(4990))
	assert.Equal(t, "1234.05", FormatPrice(123405))
}
