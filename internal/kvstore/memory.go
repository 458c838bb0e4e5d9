package kvstore

import (
	"context"
	"sync"
)

// MemoryStore はプロセス内のmapに値を保持するStore。
// テストおよび STORE_BACKEND=memory で使用する。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
	quota   int64
}

// NewMemoryStore はMemoryStoreを生成する。quotaが0以下の場合は容量無制限。
func NewMemoryStore(quota int64) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]string),
		quota:   quota,
	}
}

// Get は指定キーの値を取得する。
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	return v, ok, nil
}

// Set は指定キーに値を書き込む。上限を超える場合はErrQuotaExceededを返す。
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fitsQuota(s.entries, s.quota, key, value) {
		return ErrQuotaExceeded
	}
	s.entries[key] = value
	return nil
}

// Delete は指定キーを削除する。
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Ping は常にnilを返す。
func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
