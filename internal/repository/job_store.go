package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"po-analytics/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrJobNotFound is returned for unknown or expired report jobs
var ErrJobNotFound = errors.New("report job not found")

// JobStore records report job status so the web process can poll what the worker did
type JobStore interface {
	Save(ctx context.Context, job *models.ReportJob, ttl time.Duration) error
	Get(ctx context.Context, id string) (*models.ReportJob, error)
}

func jobKey(id string) string {
	return fmt.Sprintf("report:job:%s", id)
}

type RedisJobStore struct {
	client *redis.Client
}

func NewRedisJobStore(client *redis.Client) *RedisJobStore {
	return &RedisJobStore{client: client}
}

func (s *RedisJobStore) Save(ctx context.Context, job *models.ReportJob, ttl time.Duration) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, jobKey(job.ID), payload, ttl).Err()
}

func (s *RedisJobStore) Get(ctx context.Context, id string) (*models.ReportJob, error) {
	payload, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	var job models.ReportJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// MemoryJobStore backs job status in tests and single-process runs
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]models.ReportJob
}

func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]models.ReportJob)}
}

func (s *MemoryJobStore) Save(_ context.Context, job *models.ReportJob, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs[job.ID] = *job
	return nil
}

func (s *MemoryJobStore) Get(_ context.Context, id string) (*models.ReportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, ErrJobNotFound
	}
	return &job, nil
}
