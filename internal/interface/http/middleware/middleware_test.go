package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-admin/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
	"github.com/xiebiao/bookstore-admin/pkg/jwt"
	"github.com/xiebiao/bookstore-admin/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryBlacklist map[string]bool

func (m memoryBlacklist) IsInBlacklist(_ context.Context, jti string) (bool, error) {
	return m[jti], nil
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRequireAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := manager.GenerateToken(jwt.Identity{UserID: 7, Email: "op@livraria.com", Role: "admin"})
	require.NoError(t, err)
	claims, err := manager.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)

	blacklist := memoryBlacklist{}
	r := gin.New()
	r.GET("/me", NewAuthMiddleware(manager, blacklist).RequireAuth(), func(c *gin.Context) {
		response.Success(c, gin.H{
			"user_id":  GetUserID(c),
			"email":    GetEmail(c),
			"role":     GetRole(c),
			"token_id": GetTokenID(c),
		})
	})

	call := func(header string) response.Response {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return decode(t, w)
	}

	t.Run("有效Token", func(t *testing.T) {
		resp := call("Bearer " + pair.AccessToken)
		require.Equal(t, 0, resp.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(7), data["user_id"])
		assert.Equal(t, "admin", data["role"])
		assert.Equal(t, claims.ID, data["token_id"])
	})

	t.Run("缺少Token", func(t *testing.T) {
		assert.Equal(t, apperrors.ErrCodeUnauthorized, call("").Code)
	})

	t.Run("格式错误", func(t *testing.T) {
		assert.Equal(t, apperrors.ErrCodeInvalidToken, call("Token "+pair.AccessToken).Code)
	})

	t.Run("Refresh Token不能访问接口", func(t *testing.T) {
		assert.Equal(t, apperrors.ErrCodeInvalidToken, call("Bearer "+pair.RefreshToken).Code)
	})

	t.Run("已登出", func(t *testing.T) {
		blacklist[claims.ID] = true
		defer delete(blacklist, claims.ID)
		assert.Equal(t, apperrors.ErrCodeTokenExpired, call("Bearer "+pair.AccessToken).Code)
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(), Logger())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, apperrors.ErrCodeInternal, decode(t, w).Code)
}

func TestCORS(t *testing.T) {
	cfg := config.CORSConfig{
		Enabled:          true,
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           600,
	}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("预检请求", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("不允许的Origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("非跨域请求", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
