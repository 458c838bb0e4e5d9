package middleware

import (
	"sync"
	"time"

	"github.com/hitoshi/custdesk/internal/model"
)

// --- モック定義 ---

type mockCurrentUser struct {
	user *model.User
}

func (m *mockCurrentUser) CurrentUser() *model.User {
	return m.user
}

type mockMetrics struct {
	mu        sync.Mutex
	statuses  []int
	latencies []time.Duration
}

func (m *mockMetrics) RecordAuthAttempt(action, result string) {}
func (m *mockMetrics) RecordCustomerOperation(operation, result string) {}
func (m *mockMetrics) RecordPersistenceFailure(operation, key string) {}
func (m *mockMetrics) RecordAppointmentRequested(service string) {}

func (m *mockMetrics) RecordHTTPStatus(statusCode int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, statusCode)
}

func (m *mockMetrics) RecordRequestLatency(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies = append(m.latencies, duration)
}
