package lookup

import (
	"context"
)

// Cache 外部查询结果缓存
// 只缓存外部数据源的成功结果;本地命中和未找到都不缓存
type Cache interface {
	// Get 未命中时返回(nil, nil)
	Get(ctx context.Context, isbn string) (*ExternalBookData, error)
	Set(ctx context.Context, isbn string, data *ExternalBookData) error
}
