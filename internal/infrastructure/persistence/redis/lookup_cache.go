package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// LookupCache ISBN外部查询结果缓存,Key:lookup:isbn:{isbn}
type LookupCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLookupCache 创建查询缓存
func NewLookupCache(client *redis.Client, ttl time.Duration) *LookupCache {
	return &LookupCache{client: client, ttl: ttl}
}

func lookupKey(isbn string) string { return "lookup:isbn:" + isbn }

// Get 未命中返回(nil, nil)
func (c *LookupCache) Get(ctx context.Context, isbn string) (*lookup.ExternalBookData, error) {
	raw, err := c.client.Get(ctx, lookupKey(isbn)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "读取ISBN缓存失败")
	}

	var data lookup.ExternalBookData
	if err := json.Unmarshal(raw, &data); err != nil {
		// 格式损坏的缓存当作未命中
		return nil, nil
	}
	return &data, nil
}

func (c *LookupCache) Set(ctx context.Context, isbn string, data *lookup.ExternalBookData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return apperrors.Wrap(err, "序列化ISBN缓存失败")
	}
	if err := c.client.Set(ctx, lookupKey(isbn), raw, c.ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "写入ISBN缓存失败")
	}
	return nil
}
