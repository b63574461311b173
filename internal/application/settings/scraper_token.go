// Package settings 运行时设置用例
package settings

import (
	"context"
	"strings"
	"time"

	redisstore "github.com/xiebiao/bookstore-admin/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
)

// Token来源
const (
	SourceStore  = "store"  // 管理后台保存
	SourceConfig = "config" // 配置文件/环境变量
)

// ErrTokenRequired Token为空
var ErrTokenRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "Token不能为空")

// TokenStore 抓取服务Token存储
type TokenStore interface {
	SetScraperToken(ctx context.Context, token string, userID uint) error
	ScraperToken(ctx context.Context) (*redisstore.ScraperTokenSetting, error)
	DeleteScraperToken(ctx context.Context) error
}

// TokenStatus Token状态,不返回明文
type TokenStatus struct {
	Configured  bool       `json:"configured"`
	Source      string     `json:"source,omitempty"`
	MaskedToken string     `json:"masked_token,omitempty"`
	UpdatedBy   uint       `json:"updated_by,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ScraperTokenUseCase 抓取服务Token的查看/保存/删除
// 保存的Token优先于配置文件中的Token
type ScraperTokenUseCase struct {
	store    TokenStore
	fallback string
}

// NewScraperTokenUseCase 创建用例,fallback为配置文件中的Token
func NewScraperTokenUseCase(store TokenStore, fallback string) *ScraperTokenUseCase {
	return &ScraperTokenUseCase{store: store, fallback: strings.TrimSpace(fallback)}
}

// Status 查看当前生效的Token
func (uc *ScraperTokenUseCase) Status(ctx context.Context) (*TokenStatus, error) {
	saved, err := uc.store.ScraperToken(ctx)
	if err != nil {
		return nil, err
	}
	if saved != nil && saved.Token != "" {
		at := saved.UpdatedAt
		return &TokenStatus{
			Configured:  true,
			Source:      SourceStore,
			MaskedToken: MaskToken(saved.Token),
			UpdatedBy:   saved.UpdatedBy,
			UpdatedAt:   &at,
		}, nil
	}
	if uc.fallback != "" {
		return &TokenStatus{Configured: true, Source: SourceConfig, MaskedToken: MaskToken(uc.fallback)}, nil
	}
	return &TokenStatus{}, nil
}

// Set 保存Token
func (uc *ScraperTokenUseCase) Set(ctx context.Context, userID uint, token string) (*TokenStatus, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrTokenRequired
	}
	if err := uc.store.SetScraperToken(ctx, token, userID); err != nil {
		return nil, err
	}
	logger.WithField("user_id", userID).Info("抓取服务Token已更新")
	return uc.Status(ctx)
}

// Delete 删除保存的Token,回退到配置文件
func (uc *ScraperTokenUseCase) Delete(ctx context.Context, userID uint) (*TokenStatus, error) {
	if err := uc.store.DeleteScraperToken(ctx); err != nil {
		return nil, err
	}
	logger.WithField("user_id", userID).Info("抓取服务Token已删除")
	return uc.Status(ctx)
}

// MaskToken 只保留末4位
func MaskToken(token string) string {
	const visible = 4
	if len(token) <= visible {
		return "****"
	}
	return "****" + token[len(token)-visible:]
}
