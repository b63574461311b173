package bookapi

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xiebiao/bookstore-admin/internal/domain/lookup"
	"github.com/xiebiao/bookstore-admin/pkg/circuitbreaker"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// BreakerConfig 熔断参数
type BreakerConfig struct {
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	ConsecutiveFailures uint32
}

// GuardedSource 熔断保护的数据源,同时记录查询指标
type GuardedSource struct {
	src lookup.Source
	cb  *circuitbreaker.CircuitBreaker
}

// NewGuardedSource 包装数据源
// 未找到、未配置、调用方取消不计为失败
func NewGuardedSource(src lookup.Source, cfg BreakerConfig) *GuardedSource {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	cb := circuitbreaker.NewCircuitBreaker(src.Name(), circuitbreaker.Config{
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, lookup.ErrNotFound) ||
				errors.Is(err, lookup.ErrSourceNotConfigured) ||
				errors.Is(err, context.Canceled)
		},
	})
	cb.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		metrics.SetBreakerState(name, int(to))
		logger.WithFields(map[string]interface{}{
			"source": name,
			"from":   from.String(),
			"to":     to.String(),
		}).Warn("数据源熔断状态变化")
	})
	metrics.SetBreakerState(src.Name(), int(circuitbreaker.StateClosed))

	return &GuardedSource{src: src, cb: cb}
}

func (g *GuardedSource) Name() string { return g.src.Name() }

// State 当前熔断状态
func (g *GuardedSource) State() circuitbreaker.State { return g.cb.State() }

// Lookup 熔断打开时不调用下游,返回ErrSourceUnavailable
func (g *GuardedSource) Lookup(ctx context.Context, isbn string) (*lookup.ExternalBookData, error) {
	start := time.Now()

	var data *lookup.ExternalBookData
	err := g.cb.Execute(func() error {
		var err error
		data, err = g.src.Lookup(ctx, isbn)
		return err
	})

	elapsed := time.Since(start)
	switch {
	case err == nil:
		metrics.ObserveLookup(g.Name(), "hit", elapsed)
	case errors.Is(err, lookup.ErrNotFound):
		metrics.ObserveLookup(g.Name(), "miss", elapsed)
	case errors.Is(err, lookup.ErrSourceNotConfigured):
		metrics.ObserveLookup(g.Name(), "skipped", elapsed)
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.ObserveLookup(g.Name(), "skipped", elapsed)
		return nil, fmt.Errorf("%w: %s熔断中", lookup.ErrSourceUnavailable, g.Name())
	default:
		metrics.ObserveLookup(g.Name(), "error", elapsed)
	}
	return data, err
}
