package repository

import (
	"context"
	"sync"
	"time"
)

// mockStore はkvstore.Storeのモック。
type mockStore struct {
	getFn    func(ctx context.Context, key string) (string, bool, error)
	setFn    func(ctx context.Context, key, value string) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockStore) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return "", false, nil
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Ping(_ context.Context) error { return nil }

// mockMetrics は永続化失敗の記録だけを保持するMetricsCollectorのモック。
type mockMetrics struct {
	mu       sync.Mutex
	failures []string
}

func (m *mockMetrics) RecordPersistenceFailure(operation, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, operation+":"+key)
}

func (m *mockMetrics) RecordAuthAttempt(string, string)       {}
func (m *mockMetrics) RecordCustomerOperation(string, string) {}
func (m *mockMetrics) RecordAppointmentRequested(string)      {}
func (m *mockMetrics) RecordHTTPStatus(int)                   {}
func (m *mockMetrics) RecordRequestLatency(time.Duration)     {}
