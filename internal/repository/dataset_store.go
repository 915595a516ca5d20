package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"po-analytics/internal/analysis"

	"github.com/redis/go-redis/v9"
)

// DatasetStore holds parsed workbooks between the upload and the analysis requests
type DatasetStore interface {
	Save(ctx context.Context, code string, ds *analysis.Dataset, ttl time.Duration) error
	Load(ctx context.Context, code string) (*analysis.Dataset, error)
	Delete(ctx context.Context, code string) error
}

type storedDataset struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func datasetKey(code string) string {
	return fmt.Sprintf("dataset:%s", code)
}

// RedisDatasetStore keeps datasets as JSON values that expire with the session
type RedisDatasetStore struct {
	client *redis.Client
}

func NewRedisDatasetStore(client *redis.Client) *RedisDatasetStore {
	return &RedisDatasetStore{client: client}
}

func (s *RedisDatasetStore) Save(ctx context.Context, code string, ds *analysis.Dataset, ttl time.Duration) error {
	payload, err := json.Marshal(storedDataset{Columns: ds.Columns, Rows: ds.Rows})
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	return s.client.Set(ctx, datasetKey(code), payload, ttl).Err()
}

func (s *RedisDatasetStore) Load(ctx context.Context, code string) (*analysis.Dataset, error) {
	payload, err := s.client.Get(ctx, datasetKey(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var stored storedDataset
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return analysis.NewDataset(stored.Columns, stored.Rows), nil
}

func (s *RedisDatasetStore) Delete(ctx context.Context, code string) error {
	return s.client.Del(ctx, datasetKey(code)).Err()
}

type memoryEntry struct {
	dataset   *analysis.Dataset
	expiresAt time.Time
}

// MemoryDatasetStore is the single-process fallback used when Redis is unavailable
type MemoryDatasetStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryDatasetStore() *MemoryDatasetStore {
	return &MemoryDatasetStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryDatasetStore) Save(_ context.Context, code string, ds *analysis.Dataset, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[code] = memoryEntry{dataset: ds, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryDatasetStore) Load(_ context.Context, code string) (*analysis.Dataset, error) {
	s.mu.RLock()
	entry, ok := s.entries[code]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.now().After(entry.expiresAt) {
		_ = s.Delete(context.Background(), code)
		return nil, ErrSessionNotFound
	}
	return entry.dataset, nil
}

func (s *MemoryDatasetStore) Delete(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, code)
	return nil
}

// Sweep drops every expired entry and returns how many were removed
func (s *MemoryDatasetStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for code, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, code)
			removed++
		}
	}
	return removed
}
