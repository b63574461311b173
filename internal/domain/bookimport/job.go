package bookimport

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// JobStatus 异步导入任务状态
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ErrJobNotFound 任务不存在或已过期
var ErrJobNotFound = apperrors.New(apperrors.ErrCodeJobNotFound, "导入任务不存在或已过期")

// Job 异步导入任务的进度快照
type Job struct {
	ID         string     `json:"id"`
	Status     JobStatus  `json:"status"`
	Total      int        `json:"total"`
	Processed  int        `json:"processed"`
	Success    int        `json:"success"`
	Failed     int        `json:"failed"`
	Errors     []string   `json:"errors"`
	CreatedBy  uint       `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// NewJob 创建待执行任务
func NewJob(total int, createdBy uint) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    JobPending,
		Total:     total,
		Errors:    []string{},
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Progress 更新进度
func (j *Job) Progress(current, total int) {
	j.Status = JobProcessing
	j.Processed = current
	j.Total = total
	j.UpdatedAt = time.Now()
}

// Finish 记录最终结果
// 部分失败仍视为completed,只有整批无法执行时才是failed
func (j *Job) Finish(success int, errs []string) {
	now := time.Now()
	j.Status = JobCompleted
	j.Processed = j.Total
	j.Success = success
	j.Failed = len(errs)
	j.Errors = errs
	j.UpdatedAt = now
	j.FinishedAt = &now
}

// Fail 整批失败
func (j *Job) Fail(err error) {
	now := time.Now()
	j.Status = JobFailed
	j.Errors = append(j.Errors, err.Error())
	j.UpdatedAt = now
	j.FinishedAt = &now
}

// JobStore 任务进度存储
type JobStore interface {
	Save(ctx context.Context, job *Job) error
	// Get 不存在返回ErrJobNotFound
	Get(ctx context.Context, id string) (*Job, error)
}
