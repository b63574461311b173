// Package bookapi 外部图书数据源的HTTP客户端
//
//	GoogleBooks:公共元数据API,按ISBN检索
//	ApifyClient:抓取任务服务(提交 → 轮询 → 取结果),驱动逻辑在lookup.JobRunner
//	GuardedSource/CachedSource:熔断与缓存装饰器
package bookapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// StatusError 非2xx响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status code: %d: %s", e.StatusCode, e.Body)
}

// retryable 429和5xx可以重试
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// requester 限流 + 重试的HTTP调用
type requester struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func newRequester(timeout time.Duration, rps float64, maxRetries int) *requester {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &requester{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// do 发送请求并把JSON响应解码到target
// newReq每次重试重新构造请求,保证body可重复读取
// 退避:1s, 2s, 4s...
func (r *requester) do(ctx context.Context, newReq func() (*http.Request, error), target interface{}) error {
	var lastErr error
	for i := 0; i <= r.maxRetries; i++ {
		if i > 0 {
			backoff := r.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := newReq()
		if err != nil {
			return err
		}

		err = r.send(req, target)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		var se *StatusError
		if errors.As(err, &se) && !se.retryable() {
			return err
		}
	}
	if r.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", r.maxRetries, lastErr)
}

func (r *requester) send(req *http.Request, target interface{}) error {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if target == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(target)
}
