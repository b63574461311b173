package bookimport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xiebiao/bookstore-admin/internal/domain/bookimport"
	"github.com/xiebiao/bookstore-admin/pkg/logger"
)

// progressSaveInterval 进度写入存储的最小间隔,最后一条总会写入
const progressSaveInterval = 500 * time.Millisecond

// StartImportJobUseCase 异步导入
// 立即返回任务,后台goroutine执行导入并把进度写入JobStore
type StartImportJobUseCase struct {
	committer *CommitImportUseCase
	store     bookimport.JobStore

	// 后台任务使用独立的ctx,不随HTTP请求结束而取消
	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewStartImportJobUseCase 创建用例
func NewStartImportJobUseCase(committer *CommitImportUseCase, store bookimport.JobStore) *StartImportJobUseCase {
	return &StartImportJobUseCase{
		committer: committer,
		store:     store,
		baseCtx:   context.Background(),
	}
}

// Execute 创建任务并在后台执行
func (uc *StartImportJobUseCase) Execute(ctx context.Context, operatorID uint, records []bookimport.ImportedBookRecord) (*bookimport.Job, error) {
	job := bookimport.NewJob(len(records), operatorID)
	if err := uc.store.Save(ctx, job); err != nil {
		return nil, err
	}

	snapshot := *job
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		uc.run(job, records)
	}()

	return &snapshot, nil
}

// Wait 等待所有后台任务结束(优雅退出时调用)
func (uc *StartImportJobUseCase) Wait() {
	uc.wg.Wait()
}

func (uc *StartImportJobUseCase) run(job *bookimport.Job, records []bookimport.ImportedBookRecord) {
	ctx := withJobID(uc.baseCtx, job.ID)
	log := logger.WithField("job_id", job.ID)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("导入任务异常退出")
			job.Fail(panicError{r})
			uc.save(ctx, job)
		}
	}()

	var lastSave time.Time
	result, err := uc.committer.Execute(ctx, job.CreatedBy, records, func(current, total int) {
		job.Progress(current, total)
		if current == total || time.Since(lastSave) >= progressSaveInterval {
			uc.save(ctx, job)
			lastSave = time.Now()
		}
	})
	if err != nil {
		log.WithError(err).Error("导入任务失败")
		job.Fail(err)
		uc.save(ctx, job)
		return
	}

	job.Finish(result.Success, result.Errors)
	uc.save(ctx, job)
	log.WithField("success", result.Success).Info("导入任务完成")
}

func (uc *StartImportJobUseCase) save(ctx context.Context, job *bookimport.Job) {
	if err := uc.store.Save(ctx, job); err != nil {
		logger.WithField("job_id", job.ID).WithError(err).Warn("保存导入进度失败")
	}
}

// GetImportJobUseCase 查询异步导入进度
type GetImportJobUseCase struct {
	store bookimport.JobStore
}

// NewGetImportJobUseCase 创建用例
func NewGetImportJobUseCase(store bookimport.JobStore) *GetImportJobUseCase {
	return &GetImportJobUseCase{store: store}
}

// Execute 查询任务,不存在或已过期返回ErrJobNotFound
func (uc *GetImportJobUseCase) Execute(ctx context.Context, id string) (*bookimport.Job, error) {
	return uc.store.Get(ctx, id)
}

type panicError struct {
	value interface{}
}

func (e panicError) Error() string {
	return fmt.Sprintf("erro inesperado: %v", e.value)
}
