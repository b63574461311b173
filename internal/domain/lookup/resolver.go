// Package lookup ISBN查询
//
// 查询顺序:本地图书目录 → 外部数据源(按配置顺序,第一个成功的结果胜出)。
// 本地命中直接返回,不发起任何网络请求。
package lookup

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/bookstore-admin/internal/domain/book"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// Source 外部数据源
// 约定:
//   - 没有结果返回ErrNotFound
//   - 缺少凭证返回ErrSourceNotConfigured
//   - 其他错误均视为数据源不可用
type Source interface {
	Name() string
	Lookup(ctx context.Context, isbn string) (*ExternalBookData, error)
}

// LocalCatalog 本地图书目录,未找到返回book.ErrBookNotFound
type LocalCatalog interface {
	FindByISBN(ctx context.Context, isbn string) (*book.Book, error)
}

// Resolver ISBN解析器
type Resolver struct {
	local   LocalCatalog
	sources []Source
}

// NewResolver 创建解析器,sources按优先级排列
func NewResolver(local LocalCatalog, sources ...Source) *Resolver {
	return &Resolver{local: local, sources: sources}
}

// Sources 已注册的外部数据源名称
func (r *Resolver) Sources() []string {
	names := make([]string, 0, len(r.sources))
	for _, s := range r.sources {
		names = append(names, s.Name())
	}
	return names
}

// Resolve 查询ISBN
// 1. 规范化并校验长度,不合法返回ErrInvalidISBN
// 2. 本地目录精确匹配,命中直接返回
// 3. 依次尝试外部数据源:未配置的跳过,不可用的记录日志后尝试下一个
// 4. 都没有结果返回ErrBookNotFound;没有一个数据源完成配置返回ErrLookupNotConfigured
func (r *Resolver) Resolve(ctx context.Context, raw string) (*ExternalBookData, error) {
	isbn, err := ValidateISBN(raw)
	if err != nil {
		return nil, err
	}

	if r.local != nil {
		start := time.Now()
		b, err := r.local.FindByISBN(ctx, isbn)
		switch {
		case err == nil:
			metrics.ObserveLookup(SourceLocal, "hit", time.Since(start))
			return FromBook(b), nil
		case errors.Is(err, book.ErrBookNotFound):
			metrics.ObserveLookup(SourceLocal, "miss", time.Since(start))
		default:
			metrics.ObserveLookup(SourceLocal, "error", time.Since(start))
			return nil, err
		}
	}

	usable := 0
	for _, src := range r.sources {
		data, err := src.Lookup(ctx, isbn)
		if err == nil {
			if data.Source == "" {
				data.Source = src.Name()
			}
			if data.ISBN == "" {
				data.ISBN = isbn
			}
			return data, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		switch {
		case errors.Is(err, ErrSourceNotConfigured):
			logger.WithField("source", src.Name()).Debug("数据源未配置,跳过")
		case errors.Is(err, ErrNotFound):
			usable++
		default:
			usable++
			logger.WithFields(map[string]interface{}{
				"source": src.Name(),
				"isbn":   isbn,
			}).WithError(err).Warn("数据源不可用,尝试下一个")
		}
	}

	if usable == 0 {
		return nil, ErrLookupNotConfigured
	}
	return nil, ErrBookNotFound
}
