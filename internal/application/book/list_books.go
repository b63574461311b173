package book

import (
	"context"
	"fmt"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
)

// ListBooksUseCase 图书列表查询用例
// 结果按查询参数缓存,任意图书写操作后整体失效
type ListBooksUseCase struct {
	bookService book.Service
	cache       ListCache
}

// NewListBooksUseCase 创建列表查询用例
func NewListBooksUseCase(bookService book.Service, cache ListCache) *ListBooksUseCase {
	return &ListBooksUseCase{
		bookService: bookService,
		cache:       cache,
	}
}

// ListBooksRequest 列表查询请求DTO
type ListBooksRequest struct {
	Page       int    // 页码(从1开始)
	PageSize   int    // 每页数量
	Keyword    string // 搜索书名、作者、ISBN
	CategoryID *uint  // 按分类过滤
	InStock    bool   // 只返回有库存的图书(新建销售单时使用)
}

// ListBooksResponse 列表查询响应DTO
type ListBooksResponse struct {
	List       []BookDTO `json:"list"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Execute 执行列表查询
// 1. 参数默认值与范围限制(page默认1, pageSize默认20,最大100)
// 2. 读缓存,命中直接返回
// 3. 查询并回填缓存
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = 20
	}
	if req.PageSize > 100 {
		req.PageSize = 100
	}

	key := req.cacheKey()
	var cached ListBooksResponse
	if hit, err := uc.cache.Get(ctx, NamespaceBooks, key, &cached); err != nil {
		logger.WithError(err).Warn("读取图书列表缓存失败")
	} else if hit {
		return &cached, nil
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:       req.Page,
		PageSize:   req.PageSize,
		Keyword:    req.Keyword,
		CategoryID: req.CategoryID,
		InStock:    req.InStock,
	})
	if err != nil {
		return nil, err
	}

	list := make([]BookDTO, len(books))
	for i, b := range books {
		list[i] = ToDTO(b)
		// 列表不返回描述
		list[i].Description = ""
	}

	totalPages := int(total) / req.PageSize
	if int(total)%req.PageSize != 0 {
		totalPages++
	}

	resp := &ListBooksResponse{
		List:       list,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}

	if err := uc.cache.Set(ctx, NamespaceBooks, key, resp); err != nil {
		logger.WithError(err).Warn("写入图书列表缓存失败")
	}
	return resp, nil
}

func (r ListBooksRequest) cacheKey() string {
	category := "all"
	if r.CategoryID != nil {
		category = fmt.Sprint(*r.CategoryID)
	}
	return fmt.Sprintf("p=%d&s=%d&q=%s&c=%s&in=%t", r.Page, r.PageSize, r.Keyword, category, r.InStock)
}
