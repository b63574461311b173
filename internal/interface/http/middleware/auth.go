package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/jwt"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

// Context中的键
const (
	ctxUserID    = "user_id"
	ctxEmail     = "email"
	ctxName      = "name"
	ctxRole      = "role"
	ctxTokenID   = "token_id"
	ctxExpiresAt = "token_expires_at"
)

// TokenBlacklist 已登出的Token
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, jti string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token
// 2. 校验签名与类型(只接受Access Token)
// 3. 检查jti黑名单
// 4. 将操作员信息注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseAccessToken(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		if m.blacklist != nil && claims.ID != "" {
			revoked, err := m.blacklist.IsInBlacklist(c.Request.Context(), claims.ID)
			if err != nil {
				logger.WithError(err).Error("检查Token黑名单失败")
				response.ErrorWithCode(c, apperrors.ErrCodeInternal, "验证Token失败")
				c.Abort()
				return
			}
			if revoked {
				response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
				c.Abort()
				return
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxName, claims.Name)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxTokenID, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(ctxExpiresAt, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

// GetUserID 当前登录操作员ID,未登录为0
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetEmail 当前登录操作员邮箱
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetRole 当前登录操作员角色
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// GetTokenID 当前Access Token的jti
func GetTokenID(c *gin.Context) string {
	return c.GetString(ctxTokenID)
}

// GetTokenExpiresAt 当前Access Token的过期时间
func GetTokenExpiresAt(c *gin.Context) time.Time {
	return c.GetTime(ctxExpiresAt)
}

// MustGetUserID 用于已经通过RequireAuth的Handler
func MustGetUserID(c *gin.Context) uint {
	userID := GetUserID(c)
	if userID == 0 {
		panic("user_id not found in context")
	}
	return userID
}
