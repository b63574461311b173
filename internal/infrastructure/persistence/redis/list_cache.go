package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// ListCache 列表查询缓存
// 每个命名空间一个版本号(cache:{ns}:version),失效时版本号+1,旧Key自然过期;
// Key:cache:{ns}:v{version}:{sha1(params)}
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache 创建列表缓存
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

func (c *ListCache) key(ctx context.Context, ns, params string) (string, error) {
	version, err := c.client.Get(ctx, "cache:"+ns+":version").Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	sum := sha1.Sum([]byte(params))
	return fmt.Sprintf("cache:%s:v%d:%s", ns, version, hex.EncodeToString(sum[:])), nil
}

// Get 命中时反序列化到dest并返回true
func (c *ListCache) Get(ctx context.Context, ns, params string, dest interface{}) (bool, error) {
	key, err := c.key(ctx, ns, params)
	if err != nil {
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "读取列表缓存失败")
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "读取列表缓存失败")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *ListCache) Set(ctx context.Context, ns, params string, value interface{}) error {
	key, err := c.key(ctx, ns, params)
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "写入列表缓存失败")
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrap(err, "序列化列表缓存失败")
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "写入列表缓存失败")
	}
	return nil
}

// Invalidate 使命名空间下的全部缓存失效
func (c *ListCache) Invalidate(ctx context.Context, ns string) error {
	if err := c.client.Incr(ctx, "cache:"+ns+":version").Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "刷新列表缓存失败")
	}
	return nil
}
