package category

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateCategory(ctx context.Context, name, description string) (*category.Category, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockService) GetCategory(ctx context.Context, id uint) (*category.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockService) UpdateCategory(ctx context.Context, id uint, name, description string) (*category.Category, error) {
	args := m.Called(ctx, id, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

func (m *mockService) DeleteCategory(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) ListCategories(ctx context.Context) ([]*category.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *mockService) Resolve(ctx context.Context, name string) (*category.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

// recordingCache 记录失效的命名空间
type recordingCache struct {
	appbook.NoopListCache
	invalidated []string
}

func (c *recordingCache) Invalidate(_ context.Context, ns string) error {
	c.invalidated = append(c.invalidated, ns)
	return nil
}

func TestCategoryUseCase_Invalidation(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("新增只失效分类列表", func(t *testing.T) {
		svc := new(mockService)
		cache := &recordingCache{}
		svc.On("CreateCategory", ctx, "Ficção", "").Return(&category.Category{ID: 1, Name: "Ficção", CreatedAt: now}, nil)

		got, err := NewCategoryUseCase(svc, cache).Create(ctx, "Ficção", "")
		require.NoError(t, err)
		assert.Equal(t, "Ficção", got.Name)
		assert.Equal(t, []string{appbook.NamespaceCategories}, cache.invalidated)
	})

	t.Run("删除同时失效图书列表", func(t *testing.T) {
		svc := new(mockService)
		cache := &recordingCache{}
		svc.On("DeleteCategory", ctx, uint(1)).Return(nil)

		require.NoError(t, NewCategoryUseCase(svc, cache).Delete(ctx, 1))
		assert.ElementsMatch(t, []string{appbook.NamespaceCategories, appbook.NamespaceBooks}, cache.invalidated)
	})

	t.Run("重名", func(t *testing.T) {
		svc := new(mockService)
		cache := &recordingCache{}
		svc.On("UpdateCategory", ctx, uint(1), "Romance", "").Return(nil, category.ErrCategoryDuplicate)

		_, err := NewCategoryUseCase(svc, cache).Update(ctx, 1, "Romance", "")
		assert.ErrorIs(t, err, category.ErrCategoryDuplicate)
		assert.Empty(t, cache.invalidated)
	})
}

func TestCategoryUseCase_List(t *testing.T) {
	ctx := context.Background()
	svc := new(mockService)
	svc.On("ListCategories", ctx).Return([]*category.Category{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, nil)

	list, err := NewCategoryUseCase(svc, appbook.NoopListCache{}).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[1].Name)
}
