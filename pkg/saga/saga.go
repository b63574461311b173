// Package saga 实现按步骤补偿的长流程编排
//
// 核心思想：
// 1. 将一个业务流程拆分为多个本地短操作
// 2. 每个操作有对应的补偿操作
// 3. 某步失败时按逆序执行已完成步骤的补偿
//
// 本服务中用于新建销售单：写销售单 → 写明细 → 逐本扣减库存。
// 扣减第N本失败时，恢复前N-1本库存并删除明细与销售单。
package saga

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xiebiao/bookstore-admin/pkg/logger"
	"github.com/xiebiao/bookstore-admin/pkg/metrics"
)

// Step 表示Saga中的一个步骤
// Action与Compensate都可以为nil；补偿需支持重复执行
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// Saga 表示一次编排执行
type Saga struct {
	name     string
	steps    []Step
	executed []Step
	timeout  time.Duration

	compensated        int
	compensationErrors []error
}

// NewSaga 创建Saga
//
// 示例：
//
//	s := saga.NewSaga("create-sale", 30*time.Second)
//	s.AddStep("写入销售单", createSale, deleteSale)
//	s.AddStep("扣减库存", decrementStock, restoreStock)
//	err := s.Execute(ctx)
func NewSaga(name string, timeout time.Duration) *Saga {
	return &Saga{
		name:    name,
		steps:   make([]Step, 0),
		timeout: timeout,
	}
}

// AddStep 添加步骤，按添加顺序执行，按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行Saga
//
// 1. 按顺序执行每个步骤的Action
// 2. 超时或某步失败时，逆序执行已完成步骤的Compensate
// 3. 返回的错误包装了失败步骤的原始错误，可用errors.Is/As判断
//
// 补偿使用独立的Context，避免调用方超时导致补偿也无法执行。
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(context.WithoutCancel(ctx))
			metrics.ObserveSaga(false, s.compensated)
			return fmt.Errorf("saga[%s]超时: %w", s.name, err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				s.compensate(context.WithoutCancel(ctx))
				metrics.ObserveSaga(false, s.compensated)
				return fmt.Errorf("saga[%s]步骤[%d:%s]执行失败: %w", s.name, i, step.Name, err)
			}
		}

		s.executed = append(s.executed, step)
	}

	metrics.ObserveSaga(true, 0)
	return nil
}

// compensate 逆序执行补偿
// 某个补偿失败时记录日志并继续执行剩余补偿
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}

		s.compensated++
		if err := step.Compensate(ctx); err != nil {
			s.compensationErrors = append(s.compensationErrors, fmt.Errorf("%s: %w", step.Name, err))
			logger.WithFields(map[string]interface{}{
				"saga": s.name,
				"step": step.Name,
			}).WithError(err).Error("补偿失败，需人工介入")
		}
	}

	s.executed = nil
}

// Compensated 返回已执行的补偿次数
func (s *Saga) Compensated() int {
	return s.compensated
}

// CompensationError 返回所有补偿失败的聚合错误，全部成功时为nil
func (s *Saga) CompensationError() error {
	return errors.Join(s.compensationErrors...)
}
