package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	errUnavailable = errors.New("service unavailable")
	errNotFound    = errors.New("book not found")
)

func newTestBreaker(timeout time.Duration) *CircuitBreaker {
	return NewCircuitBreaker("google_books", Config{
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
	})
}

func fail() error { return errUnavailable }

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_OpenState(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errUnavailable)
	}
	require.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断时不应调用下游")
}

func TestCircuitBreaker_NotFoundIsNotFailure(t *testing.T) {
	cb := newTestBreaker(time.Minute)

	for i := 0; i < 10; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errNotFound }), errNotFound, "业务错误原样返回")
	}

	assert.Equal(t, StateClosed, cb.State(), "未找到不应触发熔断")
	assert.Equal(t, uint32(0), cb.Counts().TotalFailures)
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	t.Run("探测成功恢复为CLOSED", func(t *testing.T) {
		cb := newTestBreaker(50 * time.Millisecond)
		for i := 0; i < 3; i++ {
			_ = cb.Execute(fail)
		}
		time.Sleep(80 * time.Millisecond)
		require.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(func() error { return nil }))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败回到OPEN", func(t *testing.T) {
		cb := newTestBreaker(50 * time.Millisecond)
		for i := 0; i < 3; i++ {
			_ = cb.Execute(fail)
		}
		time.Sleep(80 * time.Millisecond)

		_ = cb.Execute(fail)
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("半开状态只放行MaxRequests个请求", func(t *testing.T) {
		cb := newTestBreaker(50 * time.Millisecond)
		for i := 0; i < 3; i++ {
			_ = cb.Execute(fail)
		}
		time.Sleep(80 * time.Millisecond)

		release := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(func() error {
				<-release
				return nil
			})
		}()

		// 等待探测请求占用名额
		require.Eventually(t, func() bool { return cb.Counts().Requests == 1 }, time.Second, 5*time.Millisecond)
		assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpenState)

		close(release)
		wg.Wait()
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := newTestBreaker(30 * time.Millisecond)

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		assert.Equal(t, "google_books", name)
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	for i := 0; i < 3; i++ {
		_ = cb.Execute(fail)
	}
	time.Sleep(50 * time.Millisecond)
	_ = cb.Execute(func() error { return nil })

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
}

func TestCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker("scraper", Config{Timeout: time.Minute})

	for i := 0; i < 4; i++ {
		_ = cb.Execute(fail)
	}
	assert.Equal(t, StateClosed, cb.State(), "默认阈值为连续失败5次")

	_ = cb.Execute(fail)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCounts_FailureRate(t *testing.T) {
	c := Counts{}
	assert.Zero(t, c.FailureRate())

	c = Counts{Requests: 4, TotalFailures: 1}
	assert.InDelta(t, 0.25, c.FailureRate(), 1e-9)
}
