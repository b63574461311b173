package book

import (
	"context"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/internal/domain/category"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/mq"
)

// BookCreatedEvent 新增图书事件
type BookCreatedEvent struct {
	BookID     uint   `json:"book_id"`
	Title      string `json:"title"`
	ISBN       string `json:"isbn,omitempty"`
	OperatorID uint   `json:"operator_id"`
}

// CreateBookUseCase 新增图书用例
// 常见流程:ISBN查询 → 前端回填表单 → 提交新增
type CreateBookUseCase struct {
	bookService     book.Service
	categoryService category.Service
	cache           ListCache
	publisher       mq.EventPublisher
}

// NewCreateBookUseCase 创建用例
func NewCreateBookUseCase(
	bookService book.Service,
	categoryService category.Service,
	cache ListCache,
	publisher mq.EventPublisher,
) *CreateBookUseCase {
	return &CreateBookUseCase{
		bookService:     bookService,
		categoryService: categoryService,
		cache:           cache,
		publisher:       publisher,
	}
}

// Execute 新增图书
// 1. 指定了分类时校验分类存在
// 2. 领域服务校验并持久化
// 3. 失效图书列表缓存,发布事件
func (uc *CreateBookUseCase) Execute(ctx context.Context, operatorID uint, req BookRequest) (*BookDTO, error) {
	if err := checkCategory(ctx, uc.categoryService, req.CategoryID); err != nil {
		return nil, err
	}

	b, err := uc.bookService.CreateBook(ctx, req.attributes())
	if err != nil {
		return nil, err
	}

	Invalidate(ctx, uc.cache, NamespaceBooks)
	mq.PublishQuietly(ctx, uc.publisher, mq.RoutingBookCreated, BookCreatedEvent{
		BookID:     b.ID,
		Title:      b.Title,
		ISBN:       b.ISBN,
		OperatorID: operatorID,
	})

	logger.WithFields(map[string]interface{}{
		"book_id":     b.ID,
		"operator_id": operatorID,
	}).Info("新增图书")

	dto := ToDTO(b)
	return &dto, nil
}

// UpdateBookUseCase 修改图书用例
type UpdateBookUseCase struct {
	bookService     book.Service
	categoryService category.Service
	cache           ListCache
}

// NewUpdateBookUseCase 创建用例
func NewUpdateBookUseCase(bookService book.Service, categoryService category.Service, cache ListCache) *UpdateBookUseCase {
	return &UpdateBookUseCase{bookService: bookService, categoryService: categoryService, cache: cache}
}

// Execute 整体更新可编辑字段
func (uc *UpdateBookUseCase) Execute(ctx context.Context, id uint, req BookRequest) (*BookDTO, error) {
	if err := checkCategory(ctx, uc.categoryService, req.CategoryID); err != nil {
		return nil, err
	}

	b, err := uc.bookService.UpdateBook(ctx, id, req.attributes())
	if err != nil {
		return nil, err
	}

	Invalidate(ctx, uc.cache, NamespaceBooks)
	dto := ToDTO(b)
	return &dto, nil
}

// DeleteBookUseCase 删除图书用例
type DeleteBookUseCase struct {
	bookService book.Service
	cache       ListCache
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(bookService book.Service, cache ListCache) *DeleteBookUseCase {
	return &DeleteBookUseCase{bookService: bookService, cache: cache}
}

// Execute 删除图书
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id uint) error {
	if err := uc.bookService.DeleteBook(ctx, id); err != nil {
		return err
	}
	Invalidate(ctx, uc.cache, NamespaceBooks)
	return nil
}

// GetBookUseCase 图书详情用例
type GetBookUseCase struct {
	bookService book.Service
}

// NewGetBookUseCase 创建用例
func NewGetBookUseCase(bookService book.Service) *GetBookUseCase {
	return &GetBookUseCase{bookService: bookService}
}

// Execute 查询图书详情
func (uc *GetBookUseCase) Execute(ctx context.Context, id uint) (*BookDTO, error) {
	b, err := uc.bookService.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToDTO(b)
	return &dto, nil
}

func checkCategory(ctx context.Context, categories category.Service, id *uint) error {
	if id == nil {
		return nil
	}
	_, err := categories.GetCategory(ctx, *id)
	return err
}
