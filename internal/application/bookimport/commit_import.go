package bookimport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	appbook "github.com/xiebiao/bookstore-admin/internal/application/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/bookimport"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
	"github.com/xiebiao/bookstore-admin/pkg/tracing"
)

// ProgressFunc 每处理完一条记录回调一次
type ProgressFunc func(current, total int)

// BookCreator 写入图书
type BookCreator interface {
	CreateBook(ctx context.Context, attrs book.Attributes) (*book.Book, error)
}

// CategoryResolver 按名称查找或创建分类
type CategoryResolver interface {
	Resolve(ctx context.Context, name string) (*category.Category, error)
}

// CommitResult 导入结果
type CommitResult struct {
	Total   int      `json:"total"`
	Success int      `json:"success"`
	Errors  []string `json:"errors"`
}

// ImportCompletedEvent 导入完成事件
type ImportCompletedEvent struct {
	JobID      string `json:"job_id,omitempty"`
	OperatorID uint   `json:"operator_id"`
	Total      int    `json:"total"`
	Success    int    `json:"success"`
	Failed     int    `json:"failed"`
}

// CommitImportUseCase 确认导入
// 1. 逐条顺序写入,每条完成后回调进度
// 2. 分类按名称解析(不区分大小写),失败时记录日志,图书不设分类
// 3. 单条写入失败记录错误后继续
// 4. 结束后失效图书/分类列表缓存,发布导入完成事件
// 同一进程内的导入串行执行
type CommitImportUseCase struct {
	books      BookCreator
	categories CategoryResolver
	cache      appbook.ListCache
	publisher  mq.EventPublisher

	mu sync.Mutex
}

// NewCommitImportUseCase 创建用例
func NewCommitImportUseCase(
	books BookCreator,
	categories CategoryResolver,
	cache appbook.ListCache,
	publisher mq.EventPublisher,
) *CommitImportUseCase {
	return &CommitImportUseCase{
		books:      books,
		categories: categories,
		cache:      cache,
		publisher:  publisher,
	}
}

// Execute 导入记录
// 开始后不可取消:调用方ctx取消(如客户端断开)时仍处理完全部记录,刷新缓存并返回汇总
func (uc *CommitImportUseCase) Execute(
	ctx context.Context,
	operatorID uint,
	records []bookimport.ImportedBookRecord,
	progress ProgressFunc,
) (result *CommitResult, err error) {
	ctx = context.WithoutCancel(ctx)
	ctx, span := tracing.StartSpan(ctx, "import", "CommitImport")
	defer func() { tracing.EndSpan(span, err) }()

	uc.mu.Lock()
	defer uc.mu.Unlock()

	start := time.Now()
	total := len(records)
	result = &CommitResult{Total: total, Errors: []string{}}
	resolved := make(map[string]*uint)

	for i, rec := range records {
		categoryID := uc.resolveCategory(ctx, rec.CategoryName(), resolved)
		attrs := rec.Attributes(lookup.CleanISBN(rec.RawISBN()), categoryID)

		if _, err := uc.books.CreateBook(ctx, attrs); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Erro ao importar \"%s\": %s", rec.Titulo, err.Error()))
			logger.WithFields(map[string]interface{}{
				"index": i,
				"title": rec.Titulo,
			}).WithError(err).Warn("导入图书失败")
		} else {
			result.Success++
		}

		if progress != nil {
			progress(i+1, total)
		}
	}

	failed := total - result.Success
	metrics.AddImportRows("commit", "imported", result.Success)
	metrics.AddImportRows("commit", "failed", failed)
	span.SetAttributes(attribute.Int("import.total", total), attribute.Int("import.success", result.Success))

	appbook.Invalidate(ctx, uc.cache, appbook.NamespaceBooks, appbook.NamespaceCategories)
	mq.PublishQuietly(ctx, uc.publisher, mq.RoutingImportCompleted, ImportCompletedEvent{
		JobID:      jobIDFrom(ctx),
		OperatorID: operatorID,
		Total:      total,
		Success:    result.Success,
		Failed:     failed,
	})

	logger.WithFields(map[string]interface{}{
		"operator_id": operatorID,
		"total":       total,
		"success":     result.Success,
		"failed":      failed,
		"elapsed":     time.Since(start).String(),
	}).Info("表格导入完成")

	return result, nil
}

// resolveCategory 解析分类ID,同一批次内按名称复用结果
func (uc *CommitImportUseCase) resolveCategory(ctx context.Context, name string, resolved map[string]*uint) *uint {
	if name == "" {
		return nil
	}
	key := category.NameKey(name)
	if id, ok := resolved[key]; ok {
		return id
	}

	c, err := uc.categories.Resolve(ctx, name)
	if err != nil {
		logger.WithField("category", name).WithError(err).Warn("解析分类失败,图书不设分类")
		return nil
	}
	id := c.ID
	resolved[key] = &id
	return &id
}

type jobIDKey struct{}

func withJobID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, jobIDKey{}, id)
}

func jobIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(jobIDKey{}).(string)
	return id
}
