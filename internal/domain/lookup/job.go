package lookup

import (
	"context"
	"fmt"
	"time"
)

// RunStatus 抓取服务返回的任务状态
type RunStatus string

const (
	RunReady     RunStatus = "READY"
	RunRunning   RunStatus = "RUNNING"
	RunSucceeded RunStatus = "SUCCEEDED"
	RunFailed    RunStatus = "FAILED"
	RunAborted   RunStatus = "ABORTED"
	RunTimedOut  RunStatus = "TIMED-OUT"
)

// JobState 轮询状态机的状态
// SUBMITTED → POLLING → SUCCEEDED | FAILED | ABORTED | TIMED_OUT
type JobState string

const (
	JobSubmitted JobState = "SUBMITTED"
	JobPolling   JobState = "POLLING"
	JobSucceeded JobState = "SUCCEEDED"
	JobFailed    JobState = "FAILED"
	JobAborted   JobState = "ABORTED"
	JobTimedOut  JobState = "TIMED_OUT"
)

// Terminal 是否终态
func (s JobState) Terminal() bool {
	switch s {
	case JobSucceeded, JobFailed, JobAborted, JobTimedOut:
		return true
	}
	return false
}

// JobRun 已提交的抓取任务
type JobRun struct {
	ID        string
	DatasetID string
	Status    RunStatus
}

// ScrapedItem 抓取结果中的一条商品
type ScrapedItem struct {
	Title        string
	Description  string
	ImageURL     string
	BulletPoints []string
	Price        *float64
}

// JobClient 抓取服务接口(提交 → 查询状态 → 取结果)
type JobClient interface {
	Submit(ctx context.Context, token, query string) (*JobRun, error)
	Status(ctx context.Context, token, runID string) (RunStatus, error)
	Items(ctx context.Context, token, datasetID string) ([]ScrapedItem, error)
}

// Sleeper 轮询间隔等待,测试中替换为不等待的实现
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SleeperFunc 函数适配Sleeper
type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// ContextSleeper 真实等待,ctx取消时提前返回
var ContextSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})

// 轮询默认值
const (
	DefaultPollInterval = 3 * time.Second
	DefaultMaxAttempts  = 30
)

// JobOutcome 一次任务执行的结果
type JobOutcome struct {
	State    JobState
	Attempts int // 状态查询次数
	Items    []ScrapedItem
	Err      error // 状态查询失败时的原因
}

// JobRunner 驱动抓取任务的状态机
type JobRunner struct {
	client       JobClient
	sleeper      Sleeper
	pollInterval time.Duration
	maxAttempts  int
}

// NewJobRunner 创建任务执行器,pollInterval/maxAttempts非正数时使用默认值
func NewJobRunner(client JobClient, sleeper Sleeper, pollInterval time.Duration, maxAttempts int) *JobRunner {
	if sleeper == nil {
		sleeper = ContextSleeper
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &JobRunner{client: client, sleeper: sleeper, pollInterval: pollInterval, maxAttempts: maxAttempts}
}

// Run 提交任务并轮询到终态
// 提交失败、ctx取消返回error;任务本身失败通过JobOutcome.State体现
// 状态查询失败立即结束轮询,按FAILED处理
// 达到最大轮询次数仍未结束为TIMED_OUT
func (r *JobRunner) Run(ctx context.Context, token, query string) (*JobOutcome, error) {
	run, err := r.client.Submit(ctx, token, query)
	if err != nil {
		return nil, fmt.Errorf("提交抓取任务失败: %w", err)
	}

	out := &JobOutcome{State: JobSubmitted}
	status := run.Status

	for out.State = stateOf(status); !out.State.Terminal(); out.State = stateOf(status) {
		if out.Attempts >= r.maxAttempts {
			out.State = JobTimedOut
			break
		}

		if err := r.sleeper.Sleep(ctx, r.pollInterval); err != nil {
			return nil, err
		}
		out.Attempts++

		status, err = r.client.Status(ctx, token, run.ID)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			out.State = JobFailed
			out.Err = err
			break
		}
	}

	if out.State != JobSucceeded {
		return out, nil
	}

	items, err := r.client.Items(ctx, token, run.DatasetID)
	if err != nil {
		return nil, fmt.Errorf("获取抓取结果失败: %w", err)
	}
	out.Items = items
	return out, nil
}

// stateOf 服务端状态映射为状态机状态,非终态一律为POLLING
func stateOf(s RunStatus) JobState {
	switch s {
	case RunSucceeded:
		return JobSucceeded
	case RunFailed:
		return JobFailed
	case RunAborted:
		return JobAborted
	case RunTimedOut:
		return JobTimedOut
	}
	return JobPolling
}
