package bookapi

import (
	"context"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
)

// CachedSource 缓存数据源的成功结果,缓存读写失败不影响查询
type CachedSource struct {
	src   lookup.Source
	cache lookup.Cache
}

// NewCachedSource 包装数据源
func NewCachedSource(src lookup.Source, cache lookup.Cache) *CachedSource {
	return &CachedSource{src: src, cache: cache}
}

func (c *CachedSource) Name() string { return c.src.Name() }

// Lookup 先查缓存,未命中时查询数据源并回填
// 缓存按isbn + 数据源区分,不同数据源的结果互不覆盖
func (c *CachedSource) Lookup(ctx context.Context, isbn string) (*lookup.ExternalBookData, error) {
	key := c.src.Name() + ":" + isbn

	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		logger.WithError(err).WithField("isbn", isbn).Warn("读取ISBN查询缓存失败")
	} else if cached != nil {
		return cached, nil
	}

	data, err := c.src.Lookup(ctx, isbn)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, data); err != nil {
		logger.WithError(err).WithField("isbn", isbn).Warn("写入ISBN查询缓存失败")
	}
	return data, nil
}
