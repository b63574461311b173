package bookapi

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/pkg/circuitbreaker"
)

type stubSource struct {
	name  string
	data  *lookup.ExternalBookData
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Lookup(context.Context, string) (*lookup.ExternalBookData, error) {
	s.calls++
	return s.data, s.err
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string]*lookup.ExternalBookData
	err   error
}

func (m *memoryCache) Get(_ context.Context, key string) (*lookup.ExternalBookData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.items[key], nil
}

func (m *memoryCache) Set(_ context.Context, key string, data *lookup.ExternalBookData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.items[key] = data
	return nil
}

func TestGuardedSource(t *testing.T) {
	ctx := context.Background()

	t.Run("连续失败后熔断", func(t *testing.T) {
		src := &stubSource{name: "flaky-open", err: errors.New("connection refused")}
		g := NewGuardedSource(src, BreakerConfig{ConsecutiveFailures: 2, Timeout: time.Hour})

		for i := 0; i < 2; i++ {
			_, err := g.Lookup(ctx, "8535902775")
			assert.Error(t, err)
		}
		assert.Equal(t, circuitbreaker.StateOpen, g.State())

		_, err := g.Lookup(ctx, "8535902775")
		assert.ErrorIs(t, err, lookup.ErrSourceUnavailable)
		assert.Equal(t, 2, src.calls, "熔断后不再调用下游")
	})

	t.Run("未找到不计为失败", func(t *testing.T) {
		src := &stubSource{name: "empty", err: lookup.ErrNotFound}
		g := NewGuardedSource(src, BreakerConfig{ConsecutiveFailures: 1, Timeout: time.Hour})

		for i := 0; i < 3; i++ {
			_, err := g.Lookup(ctx, "8535902775")
			assert.ErrorIs(t, err, lookup.ErrNotFound)
		}
		assert.Equal(t, circuitbreaker.StateClosed, g.State())
		assert.Equal(t, 3, src.calls)
	})

	t.Run("未配置不计为失败", func(t *testing.T) {
		src := &stubSource{name: "unconfigured", err: lookup.ErrSourceNotConfigured}
		g := NewGuardedSource(src, BreakerConfig{ConsecutiveFailures: 1, Timeout: time.Hour})

		_, err := g.Lookup(ctx, "8535902775")
		assert.ErrorIs(t, err, lookup.ErrSourceNotConfigured)
		_, err = g.Lookup(ctx, "8535902775")
		assert.ErrorIs(t, err, lookup.ErrSourceNotConfigured)
		assert.Equal(t, circuitbreaker.StateClosed, g.State())
	})
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()

	t.Run("成功结果回填缓存", func(t *testing.T) {
		src := &stubSource{name: "google_books", data: &lookup.ExternalBookData{Title: "T"}}
		cache := &memoryCache{items: map[string]*lookup.ExternalBookData{}}
		c := NewCachedSource(src, cache)

		for i := 0; i < 3; i++ {
			got, err := c.Lookup(ctx, "8535902775")
			require.NoError(t, err)
			assert.Equal(t, "T", got.Title)
		}
		assert.Equal(t, 1, src.calls)
		assert.Contains(t, cache.items, "google_books:8535902775")
	})

	t.Run("未找到不缓存", func(t *testing.T) {
		src := &stubSource{name: "google_books", err: lookup.ErrNotFound}
		cache := &memoryCache{items: map[string]*lookup.ExternalBookData{}}
		c := NewCachedSource(src, cache)

		_, err := c.Lookup(ctx, "8535902775")
		assert.ErrorIs(t, err, lookup.ErrNotFound)
		assert.Empty(t, cache.items)
	})

	t.Run("缓存故障时直接查询", func(t *testing.T) {
		src := &stubSource{name: "google_books", data: &lookup.ExternalBookData{Title: "T"}}
		c := NewCachedSource(src, &memoryCache{err: errors.New("redis down")})

		got, err := c.Lookup(ctx, "8535902775")
		require.NoError(t, err)
		assert.Equal(t, "T", got.Title)
	})
}
