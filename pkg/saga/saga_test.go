package saga

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordStep 返回记录执行轨迹的Action/Compensate
func recordStep(trace *[]string, name string, fail error) (func(context.Context) error, func(context.Context) error) {
	action := func(ctx context.Context) error {
		if fail != nil {
			return fail
		}
		*trace = append(*trace, name)
		return nil
	}
	compensate := func(ctx context.Context) error {
		*trace = append(*trace, "undo:"+name)
		return nil
	}
	return action, compensate
}

func TestSaga_Execute_Success(t *testing.T) {
	var trace []string
	s := NewSaga("create-sale", 5*time.Second)

	a, c := recordStep(&trace, "写入销售单", nil)
	s.AddStep("写入销售单", a, c)
	a, c = recordStep(&trace, "写入明细", nil)
	s.AddStep("写入明细", a, c)

	require.NoError(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"写入销售单", "写入明细"}, trace)
	assert.Equal(t, 0, s.Compensated())
	t.Log("✅ 所有步骤按顺序执行")
}

func TestSaga_Execute_FailureAndCompensate(t *testing.T) {
	var trace []string
	stockErr := errors.New("库存不足")
	s := NewSaga("create-sale", 5*time.Second)

	a, c := recordStep(&trace, "写入销售单", nil)
	s.AddStep("写入销售单", a, c)
	a, c = recordStep(&trace, "扣减库存#1", nil)
	s.AddStep("扣减库存#1", a, c)
	a, c = recordStep(&trace, "扣减库存#2", stockErr)
	s.AddStep("扣减库存#2", a, c)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, stockErr, "应保留失败步骤的原始错误")
	assert.Contains(t, err.Error(), "扣减库存#2")

	// 失败步骤自身不补偿，已完成步骤逆序补偿
	assert.Equal(t, []string{"写入销售单", "扣减库存#1", "undo:扣减库存#1", "undo:写入销售单"}, trace)
	assert.Equal(t, 2, s.Compensated())
	assert.NoError(t, s.CompensationError())
}

func TestSaga_Execute_Timeout(t *testing.T) {
	compensated := false
	s := NewSaga("slow", 50*time.Millisecond)

	s.AddStep("慢速步骤",
		func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		func(ctx context.Context) error {
			compensated = true
			assert.NoError(t, ctx.Err(), "补偿Context不应继承超时")
			return nil
		},
	)
	s.AddStep("后续步骤", func(ctx context.Context) error {
		t.Error("超时后不应继续执行")
		return nil
	}, nil)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, compensated)
}

func TestSaga_CompensationFailureContinues(t *testing.T) {
	var trace []string
	s := NewSaga("create-sale", 0)

	s.AddStep("步骤1", func(ctx context.Context) error { return nil }, func(ctx context.Context) error {
		trace = append(trace, "undo:1")
		return nil
	})
	s.AddStep("步骤2", func(ctx context.Context) error { return nil }, func(ctx context.Context) error {
		return errors.New("restore failed")
	})
	s.AddStep("步骤3", func(ctx context.Context) error { return errors.New("boom") }, nil)

	require.Error(t, s.Execute(context.Background()))
	assert.Equal(t, []string{"undo:1"}, trace, "补偿失败后仍需继续执行前面的补偿")
	assert.ErrorContains(t, s.CompensationError(), "步骤2: restore failed")
}

func TestSaga_NilActionAndCompensate(t *testing.T) {
	s := NewSaga("noop", time.Second)
	s.AddStep("空步骤", nil, nil)
	s.AddStep("失败", func(ctx context.Context) error { return errors.New("x") }, nil)

	require.Error(t, s.Execute(context.Background()))
	assert.Equal(t, 0, s.Compensated())
}
