package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/internal/domain/customer"
	"github.com/xiebiao/bookstore-admin/internal/domain/sale"
	"github.com/xiebiao/bookstore-admin/internal/domain/user"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

func newCustomer(name string) *customer.Customer {
	return &customer.Customer{Name: name, CreatedAt: time.Now()}
}

func mustBook(t *testing.T, repo book.Repository, title, isbn string, price int64, stock int) *book.Book {
	t.Helper()
	b, err := book.NewBook(book.Attributes{Title: title, Author: "Autor", ISBN: isbn, Price: price, Stock: stock})
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBookRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	first := mustBook(t, repo, "Dom Casmurro", "9788535902773", 4990, 3)
	mustBook(t, repo, "Dom Casmurro (2ª ed.)", "9788535902773", 5990, 0)
	mustBook(t, repo, "Iracema", "", 2000, 5)

	t.Run("ISBN重复时返回最早的一本", func(t *testing.T) {
		got, err := repo.FindByISBN(ctx, "9788535902773")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)

		_, err = repo.FindByISBN(ctx, "0000000000")
		assert.Same(t, book.ErrBookNotFound, err)
	})

	t.Run("列表按书名排序并支持过滤", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, "Dom Casmurro", books[0].Title)
		assert.Equal(t, "Iracema", books[2].Title)

		books, total, err = repo.List(ctx, book.ListParams{Page: 1, PageSize: 10, Keyword: "casmurro", InStock: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, first.ID, books[0].ID)
	})

	t.Run("库存原子更新", func(t *testing.T) {
		require.NoError(t, repo.UpdateStock(ctx, first.ID, -3))
		assert.Same(t, book.ErrInsufficientStock, repo.UpdateStock(ctx, first.ID, -1))
		assert.Same(t, book.ErrBookNotFound, repo.UpdateStock(ctx, 999, 1))

		got, err := repo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, got.Stock)
	})

	t.Run("软删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, first.ID))
		_, err := repo.FindByID(ctx, first.ID)
		assert.Same(t, book.ErrBookNotFound, err)
		assert.Same(t, book.ErrBookNotFound, repo.Delete(ctx, first.ID))

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})
}

// saleDuringEdit 读取图书后立即卖出2本,模拟编辑期间的并发销售
type saleDuringEdit struct {
	book.Repository
	sold bool
}

func (r *saleDuringEdit) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	b, err := r.Repository.FindByID(ctx, id)
	if err == nil && !r.sold {
		r.sold = true
		if err := r.Repository.UpdateStock(ctx, id, -2); err != nil {
			return nil, err
		}
	}
	return b, err
}

func TestBookUpdate_KeepsConcurrentStockChanges(t *testing.T) {
	db := newTestDB(t)
	repo := NewBookRepository(db)
	ctx := context.Background()

	t.Run("Update不改写库存", func(t *testing.T) {
		b := mustBook(t, repo, "Iracema", "", 2000, 5)
		b.Stock = 99
		b.Title = "Iracema (ed. revista)"
		require.NoError(t, repo.Update(ctx, b))

		got, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Iracema (ed. revista)", got.Title)
		assert.Equal(t, 5, got.Stock)
	})

	t.Run("编辑期间的销售不丢失", func(t *testing.T) {
		b := mustBook(t, repo, "Dom Casmurro", "", 4990, 5)
		svc := book.NewService(&saleDuringEdit{Repository: repo})

		// 表单上把库存从5改为8(补货3本),保存前已卖出2本
		got, err := svc.UpdateBook(ctx, b.ID, book.Attributes{Title: "Dom Casmurro", Author: "Machado", Price: 4990, Stock: 8})
		require.NoError(t, err)
		assert.Equal(t, 6, got.Stock)
		assert.Equal(t, "Machado", got.Author)
		t.Log("✅ 库存按差额调整,并发销售的扣减保留")
	})
}

func TestCategoryRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewCategoryRepository(db)
	books := NewBookRepository(db)
	ctx := context.Background()

	c, err := category.NewCategory("Ficção", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))

	t.Run("折叠后同名视为重复", func(t *testing.T) {
		dup, err := category.NewCategory("FICÇÃO", "")
		require.NoError(t, err)
		assert.Same(t, category.ErrCategoryDuplicate, repo.Create(ctx, dup))

		got, err := repo.FindByNameKey(ctx, category.NameKey("fIcÇãO"))
		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
	})

	t.Run("删除分类后图书解除关联", func(t *testing.T) {
		b, err := book.NewBook(book.Attributes{Title: "T", Author: "A", CategoryID: &c.ID})
		require.NoError(t, err)
		require.NoError(t, books.Create(ctx, b))

		got, err := books.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ficção", got.CategoryName)

		require.NoError(t, repo.Delete(ctx, c.ID))
		got, err = books.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)

		_, err = repo.FindByID(ctx, c.ID)
		assert.Same(t, category.ErrCategoryNotFound, err)
	})
}

func TestCustomerRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewCustomerRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Carlos", "Ana", "Bruno"} {
		require.NoError(t, repo.Create(ctx, newCustomer(name)))
	}

	list, total, err := repo.List(ctx, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana", list[0].Name)

	list, total, err = repo.List(ctx, "CAR", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Carlos", list[0].Name)

	assert.Same(t, customer.ErrCustomerNotFound, repo.Delete(ctx, 999))
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := user.NewUser("op@example.com", "hash", "店员", user.RoleOperator)
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	dup := user.NewUser("op@example.com", "hash", "店员2", user.RoleOperator)
	assert.Same(t, apperrors.ErrEmailDuplicate, repo.Create(ctx, dup))

	got, err := repo.FindByEmail(ctx, "op@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleOperator, got.Role)

	_, err = repo.FindByID(ctx, 999)
	assert.Same(t, apperrors.ErrUserNotFound, err)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSaleRepository(t *testing.T) {
	db := newTestDB(t)
	books := NewBookRepository(db)
	customers := NewCustomerRepository(db)
	repo := NewSaleRepository(db)
	ctx := context.Background()

	b := mustBook(t, books, "Dom Casmurro", "", 4990, 10)
	c := newCustomer("Ana")
	require.NoError(t, customers.Create(ctx, c))

	s, err := sale.NewSale("VD1", &c.ID, 1, sale.PaymentPix, "", []sale.Item{{BookID: b.ID, Quantity: 2, UnitPrice: 4990}})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, s))
	require.NoError(t, repo.CreateItems(ctx, s.ID, s.Items))
	assert.NotZero(t, s.Items[0].ID)

	cancelled, err := sale.NewSale("VD2", nil, 1, sale.PaymentCash, "", []sale.Item{{BookID: b.ID, Quantity: 1, UnitPrice: 4990}})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, cancelled))
	require.NoError(t, repo.UpdateStatus(ctx, cancelled.ID, sale.StatusCancelled))

	t.Run("查询含客户名和书名", func(t *testing.T) {
		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana", got.CustomerName)
		require.Len(t, got.Items, 1)
		assert.Equal(t, "Dom Casmurro", got.Items[0].BookTitle)
		assert.Equal(t, int64(9980), got.Total)
	})

	t.Run("图书删除后仍保留书名", func(t *testing.T) {
		require.NoError(t, books.Delete(ctx, b.ID))
		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dom Casmurro", got.Items[0].BookTitle)
	})

	t.Run("统计只含已完成", func(t *testing.T) {
		count, revenue, err := repo.Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, int64(9980), revenue)

		list, err := repo.ListCompletedSince(ctx, time.Now().Add(-time.Hour))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, s.ID, list[0].ID)
	})

	t.Run("列表倒序", func(t *testing.T) {
		list, total, err := repo.List(ctx, 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, list, 2)

		recent, err := repo.Recent(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, recent, 1)
	})

	t.Run("删除客户后销售单保留", func(t *testing.T) {
		require.NoError(t, customers.Delete(ctx, c.ID))
		got, err := repo.FindByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CustomerID)
		assert.Empty(t, got.CustomerName)
	})

	t.Run("补偿删除", func(t *testing.T) {
		require.NoError(t, repo.DeleteItems(ctx, s.ID))
		require.NoError(t, repo.Delete(ctx, s.ID))
		_, err := repo.FindByID(ctx, s.ID)
		assert.Same(t, sale.ErrSaleNotFound, err)
	})
}
