package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

const scraperTokenKey = "settings:scraper_token"

// ScraperTokenSetting 已保存的抓取服务Token
type ScraperTokenSetting struct {
	Token     string
	UpdatedBy uint
	UpdatedAt time.Time
}

// SettingsStore 运行时设置
// 抓取服务Token保存在这里,优先级高于配置文件/环境变量
type SettingsStore struct {
	client *redis.Client
}

// NewSettingsStore 创建设置存储
func NewSettingsStore(client *redis.Client) *SettingsStore {
	return &SettingsStore{client: client}
}

// SetScraperToken 保存Token(不过期)
func (s *SettingsStore) SetScraperToken(ctx context.Context, token string, userID uint) error {
	err := s.client.HSet(ctx, scraperTokenKey, map[string]interface{}{
		"token":      strings.TrimSpace(token),
		"updated_by": userID,
		"updated_at": time.Now().Unix(),
	}).Err()
	if err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "保存抓取服务Token失败")
	}
	return nil
}

// ScraperToken 未设置时返回(nil, nil)
func (s *SettingsStore) ScraperToken(ctx context.Context) (*ScraperTokenSetting, error) {
	var v struct {
		Token     string `redis:"token"`
		UpdatedBy uint   `redis:"updated_by"`
		UpdatedAt int64  `redis:"updated_at"`
	}
	if err := s.client.HGetAll(ctx, scraperTokenKey).Scan(&v); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "读取抓取服务Token失败")
	}
	if v.Token == "" {
		return nil, nil
	}
	return &ScraperTokenSetting{Token: v.Token, UpdatedBy: v.UpdatedBy, UpdatedAt: time.Unix(v.UpdatedAt, 0)}, nil
}

// DeleteScraperToken 删除Token,回退到配置文件/环境变量
func (s *SettingsStore) DeleteScraperToken(ctx context.Context) error {
	if err := s.client.Del(ctx, scraperTokenKey).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "删除抓取服务Token失败")
	}
	return nil
}

// Token 作为凭证链中的第一个来源
func (s *SettingsStore) Token(ctx context.Context) (string, error) {
	setting, err := s.ScraperToken(ctx)
	if err != nil || setting == nil {
		return "", err
	}
	return setting.Token, nil
}
