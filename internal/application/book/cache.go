package book

import (
	"context"

	"github.com/xiebiao/bookstore-admin/pkg/logger"
)

// 列表缓存命名空间
const (
	NamespaceBooks      = "books"
	NamespaceCategories = "categories"
)

// ListCache 列表查询缓存
// 写操作后按命名空间整体失效
type ListCache interface {
	Get(ctx context.Context, ns, params string, dest interface{}) (bool, error)
	Set(ctx context.Context, ns, params string, value interface{}) error
	Invalidate(ctx context.Context, ns string) error
}

// NoopListCache 不缓存(Redis未启用时使用)
type NoopListCache struct{}

func (NoopListCache) Get(context.Context, string, string, interface{}) (bool, error) {
	return false, nil
}
func (NoopListCache) Set(context.Context, string, string, interface{}) error { return nil }
func (NoopListCache) Invalidate(context.Context, string) error             { return nil }

// Invalidate 失效指定命名空间,失败只记录日志(缓存有TTL兜底)
func Invalidate(ctx context.Context, cache ListCache, namespaces ...string) {
	if cache == nil {
		return
	}
	for _, ns := range namespaces {
		if err := cache.Invalidate(ctx, ns); err != nil {
			logger.WithField("namespace", ns).WithError(err).Warn("列表缓存失效失败")
		}
	}
}
