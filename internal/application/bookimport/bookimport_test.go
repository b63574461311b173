package bookimport

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/bookimport"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/internal/infrastructure/spreadsheet"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

type mockBooks struct {
	mock.Mock
}

func (m *mockBooks) CreateBook(ctx context.Context, attrs book.Attributes) (*book.Book, error) {
	args := m.Called(ctx, attrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*book.Book), args.Error(1)
}

type mockCategories struct {
	mock.Mock
}

func (m *mockCategories) Resolve(ctx context.Context, name string) (*category.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*category.Category), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	return m.Called(ctx, routingKey, payload).Error(0)
}

type memoryJobStore struct {
	mu   sync.Mutex
	jobs map[string]bookimport.Job
	save int
}

func (s *memoryJobStore) Save(_ context.Context, job *bookimport.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = *job
	s.save++
	return nil
}

func (s *memoryJobStore) Get(_ context.Context, id string) (*bookimport.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, bookimport.ErrJobNotFound
	}
	return &job, nil
}

func strPtr(s string) *string { return &s }

func TestParseSheet(t *testing.T) {
	ctx := context.Background()

	t.Run("解析模板文件", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, spreadsheet.WriteImportTemplate(&buf))

		result := NewParseSheetUseCase(10 << 20).Execute(ctx, &buf)
		assert.Equal(t, 1, result.Success)
		assert.Zero(t, result.Failed)
		assert.Empty(t, result.Errors)
	})

	t.Run("损坏的文件", func(t *testing.T) {
		result := NewParseSheetUseCase(0).Execute(ctx, strings.NewReader("not an xlsx"))
		assert.Zero(t, result.Success)
		assert.Zero(t, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.True(t, strings.HasPrefix(result.Errors[0], "Erro ao processar arquivo: "))
	})

	t.Run("超过大小限制", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, spreadsheet.WriteImportTemplate(&buf))

		result := NewParseSheetUseCase(100).Execute(ctx, &buf)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "tamanho máximo")
	})
}

func TestCommitImport(t *testing.T) {
	ctx := context.Background()

	records := []bookimport.ImportedBookRecord{
		{Titulo: "A", Autor: "X", ISBN: strPtr("978-85-359-0277-3"), Categoria: strPtr("Ficção")},
		{Titulo: "B", Autor: "Y", Categoria: strPtr("FICÇÃO")},
		{Titulo: "C", Autor: "Z", Categoria: strPtr("Poesia")},
	}

	books := new(mockBooks)
	categories := new(mockCategories)
	cache := new(mockListCache)
	pub := new(mockPublisher)

	fiction := uint(1)
	categories.On("Resolve", mock.Anything, "Ficção").Return(&category.Category{ID: fiction}, nil).Once()
	categories.On("Resolve", mock.Anything, "Poesia").Return(nil, errors.New("db timeout"))

	books.On("CreateBook", mock.Anything, mock.MatchedBy(func(a book.Attributes) bool {
		return a.Title == "A" && a.ISBN == "9788535902773" && a.CategoryID != nil && *a.CategoryID == fiction && a.Price == 0 && a.Stock == 0
	})).Return(&book.Book{ID: 1}, nil)
	books.On("CreateBook", mock.Anything, mock.MatchedBy(func(a book.Attributes) bool {
		return a.Title == "B" && *a.CategoryID == fiction
	})).Return(nil, errors.New("duplicate"))
	books.On("CreateBook", mock.Anything, mock.MatchedBy(func(a book.Attributes) bool {
		return a.Title == "C" && a.CategoryID == nil
	})).Return(&book.Book{ID: 3}, nil)

	cache.On("Invalidate", mock.Anything, appbook.NamespaceBooks).Return(nil)
	cache.On("Invalidate", mock.Anything, appbook.NamespaceCategories).Return(nil)
	pub.On("Publish", mock.Anything, mq.RoutingImportCompleted, mock.MatchedBy(func(e ImportCompletedEvent) bool {
		return e.Total == 3 && e.Success == 2 && e.Failed == 1
	})).Return(nil)

	var progress [][2]int
	result, err := NewCommitImportUseCase(books, categories, cache, pub).Execute(ctx, 9, records, func(current, total int) {
		progress = append(progress, [2]int{current, total})
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `"B"`)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)

	categories.AssertNumberOfCalls(t, "Resolve", 2)
	cache.AssertExpectations(t)
	pub.AssertExpectations(t)
	t.Log("✅ 单条失败不影响其余记录,分类大小写不敏感复用")
}

func TestCommitImport_CallerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	books := new(mockBooks)
	cache := new(mockListCache)

	// 第一条写入后调用方断开
	books.On("CreateBook", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			cancel()
			assert.NoError(t, args.Get(0).(context.Context).Err())
		}).
		Return(&book.Book{ID: 1}, nil)
	cache.On("Invalidate", mock.Anything, appbook.NamespaceBooks).Return(nil).Once()
	cache.On("Invalidate", mock.Anything, appbook.NamespaceCategories).Return(nil).Once()

	result, err := NewCommitImportUseCase(books, new(mockCategories), cache, mq.NoopPublisher{}).
		Execute(ctx, 1, []bookimport.ImportedBookRecord{
			{Titulo: "A", Autor: "X"},
			{Titulo: "B", Autor: "Y"},
			{Titulo: "C", Autor: "Z"},
		}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Success)
	assert.Empty(t, result.Errors)
	books.AssertNumberOfCalls(t, "CreateBook", 3)
	cache.AssertExpectations(t)
	t.Log("✅ 导入开始后调用方取消不会中断,仍刷新缓存并返回汇总")
}

func TestImportJob(t *testing.T) {
	ctx := context.Background()

	books := new(mockBooks)
	books.On("CreateBook", mock.Anything, mock.Anything).Return(&book.Book{ID: 1}, nil)
	committer := NewCommitImportUseCase(books, new(mockCategories), appbook.NoopListCache{}, mq.NoopPublisher{})

	store := &memoryJobStore{jobs: map[string]bookimport.Job{}}
	start := NewStartImportJobUseCase(committer, store)

	job, err := start.Execute(ctx, 7, []bookimport.ImportedBookRecord{
		{Titulo: "A", Autor: "X"},
		{Titulo: "B", Autor: "Y"},
	})
	require.NoError(t, err)
	assert.Equal(t, bookimport.JobPending, job.Status)

	start.Wait()

	got, err := NewGetImportJobUseCase(store).Execute(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, bookimport.JobCompleted, got.Status)
	assert.Equal(t, 2, got.Success)
	assert.Equal(t, 2, got.Processed)
	assert.Equal(t, uint(7), got.CreatedBy)
	assert.NotNil(t, got.FinishedAt)

	_, err = NewGetImportJobUseCase(store).Execute(ctx, "missing")
	assert.ErrorIs(t, err, bookimport.ErrJobNotFound)
}

type mockListCache struct {
	mock.Mock
}

func (m *mockListCache) Get(ctx context.Context, ns, params string, dest interface{}) (bool, error) {
	args := m.Called(ctx, ns, params, dest)
	return args.Bool(0), args.Error(1)
}

func (m *mockListCache) Set(ctx context.Context, ns, params string, value interface{}) error {
	return m.Called(ctx, ns, params, value).Error(0)
}

func (m *mockListCache) Invalidate(ctx context.Context, ns string) error {
	return m.Called(ctx, ns).Error(0)
}
