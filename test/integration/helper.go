//go:build integration

// Package integration 针对运行中的服务(默认localhost:8080)的端到端测试
//
// 运行方式:
//
//	docker compose up -d && go run ./cmd/api
//	go test -tags=integration -v ./test/integration/...
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间,ISBN外部查询较慢
	Timeout = 60 * time.Second
)

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginData 登录响应数据
type LoginData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID   uint   `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

// BookData 图书响应数据
type BookData struct {
	ID           uint   `json:"id"`
	ISBN         string `json:"isbn"`
	Title        string `json:"title"`
	Price        int64  `json:"price"`
	PriceDisplay string `json:"price_display"`
	Stock        int    `json:"stock"`
	CategoryName string `json:"category_name"`
}

// SaleData 销售单响应数据
type SaleData struct {
	ID           uint   `json:"id"`
	SaleNo       string `json:"sale_no"`
	Total        int64  `json:"total"`
	TotalDisplay string `json:"total_display"`
	Status       string `json:"status"`
}

var client = &http.Client{Timeout: Timeout}

// Do 发送请求并解析统一响应
func Do(t *testing.T, method, url string, body io.Reader, contentType, token string) *Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	require.NoError(t, json.Unmarshal(raw, &result), "解析JSON响应失败: %s", string(raw))
	return &result
}

// PostJSON 发送JSON请求
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()
	body, err := json.Marshal(data)
	require.NoError(t, err, "JSON序列化失败")
	return Do(t, http.MethodPost, url, bytes.NewReader(body), "application/json", token)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url, token string) *Response {
	t.Helper()
	return Do(t, http.MethodGet, url, nil, "", token)
}

// Upload 以multipart上传文件,字段名file
func Upload(t *testing.T, url, filename string, content []byte, token string) *Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return Do(t, http.MethodPost, url, &buf, mw.FormDataContentType(), token)
}

// Download 下载文件,返回内容与Content-Disposition
func Download(t *testing.T, url, token string) ([]byte, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return raw, resp.Header.Get("Content-Disposition")
}

// Decode 解析Data
func Decode(t *testing.T, resp *Response, v interface{}) {
	t.Helper()
	require.Equal(t, 0, resp.Code, "请求失败: %s", resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, v), "解析响应数据失败")
}

var seq int64

// GenerateTestEmail 生成唯一的测试邮箱
func GenerateTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d_%d@test.com", prefix, time.Now().UnixNano(), atomic.AddInt64(&seq, 1))
}

// GenerateTestISBN 生成唯一且校验位正确的ISBN-13
func GenerateTestISBN() string {
	body := fmt.Sprintf("978%09d", (time.Now().UnixNano()/1000+atomic.AddInt64(&seq, 1))%1000000000)
	sum := 0
	for i, r := range body {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return fmt.Sprintf("%s%d", body, (10-sum%10)%10)
}

// RegisterTestUser 注册并登录,返回Token
func RegisterTestUser(t *testing.T, nickname string) (email string, login LoginData) {
	t.Helper()
	email = GenerateTestEmail(nickname)
	resp := PostJSON(t, BaseURL+"/users/register", map[string]string{
		"email":    email,
		"password": "Test1234",
		"nickname": nickname,
	}, "")
	require.Equal(t, 0, resp.Code, "注册失败: %s", resp.Message)

	resp = PostJSON(t, BaseURL+"/users/login", map[string]string{
		"email":    email,
		"password": "Test1234",
	}, "")
	Decode(t, resp, &login)
	return email, login
}

// CreateTestBook 新增测试图书
func CreateTestBook(t *testing.T, token, title string, price string, stock int) BookData {
	t.Helper()
	resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
		"title":  title,
		"author": "Autor de Teste",
		"isbn":   GenerateTestISBN(),
		"price":  json.Number(price),
		"stock":  stock,
	}, token)

	var b BookData
	Decode(t, resp, &b)
	return b
}
