package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/bookstore-admin/internal/domain/bookimport"
	apperrors "github.com/xiebiao/bookstore-admin/pkg/errors"
)

// ImportJobStore 异步导入任务进度,Key:import:job:{id}
type ImportJobStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewImportJobStore 创建任务存储,ttl为任务结束后保留时长
func NewImportJobStore(client *redis.Client, ttl time.Duration) *ImportJobStore {
	return &ImportJobStore{client: client, ttl: ttl}
}

func jobKey(id string) string { return "import:job:" + id }

func (s *ImportJobStore) Save(ctx context.Context, job *bookimport.Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return apperrors.Wrap(err, "序列化导入任务失败")
	}
	if err := s.client.Set(ctx, jobKey(job.ID), raw, s.ttl).Err(); err != nil {
		return apperrors.WithCode(apperrors.ErrCodeRedisError, err, "保存导入任务失败")
	}
	return nil
}

func (s *ImportJobStore) Get(ctx context.Context, id string) (*bookimport.Job, error) {
	raw, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, bookimport.ErrJobNotFound
		}
		return nil, apperrors.WithCode(apperrors.ErrCodeRedisError, err, "读取导入任务失败")
	}

	var job bookimport.Job
	if err := json.Unmarshal(raw, &job); err != nil {
		return nil, apperrors.Wrap(err, "解析导入任务失败")
	}
	return &job, nil
}
