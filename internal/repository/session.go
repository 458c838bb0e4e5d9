package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hitoshi/custdesk/internal/kvstore"
	"github.com/hitoshi/custdesk/internal/metrics"
	"github.com/hitoshi/custdesk/internal/model"
)

// CurrentUserSlot はログイン中ユーザーを1つのJSONオブジェクトとして保存する枠。
// ユーザーコレクションとの整合性は検証しない。
type CurrentUserSlot struct {
	store   kvstore.Store
	metrics metrics.MetricsCollector
}

// NewCurrentUserSlot はCurrentUserSlotを生成する。mcはnilでもよい。
func NewCurrentUserSlot(store kvstore.Store, mc metrics.MetricsCollector) *CurrentUserSlot {
	return &CurrentUserSlot{store: store, metrics: mc}
}

// Load は保存されたユーザーを返す。未保存または解析できない場合はnilを返す。
func (s *CurrentUserSlot) Load(ctx context.Context) *model.User {
	raw, ok, err := s.store.Get(ctx, KeyCurrentUser)
	if err != nil {
		s.failed(ctx, "load", "failed to read current user", err)
		return nil
	}
	if !ok {
		return nil
	}

	var user *model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.failed(ctx, "load", "failed to parse current user", err)
		return nil
	}
	return user
}

// Save はユーザーを保存する。nilの場合は保存枠を削除する。
func (s *CurrentUserSlot) Save(ctx context.Context, user *model.User) error {
	if user == nil {
		if err := s.store.Delete(ctx, KeyCurrentUser); err != nil {
			s.failed(ctx, "save", "failed to clear current user", err)
			return fmt.Errorf("failed to clear current user: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(user)
	if err != nil {
		s.failed(ctx, "save", "failed to encode current user", err)
		return fmt.Errorf("failed to encode current user: %w", err)
	}
	if err := s.store.Set(ctx, KeyCurrentUser, string(data)); err != nil {
		s.failed(ctx, "save", "failed to save current user", err)
		return fmt.Errorf("failed to save current user: %w", err)
	}
	return nil
}

func (s *CurrentUserSlot) failed(ctx context.Context, op, msg string, err error) {
	slog.WarnContext(ctx, msg, slog.String("error", err.Error()))
	if s.metrics != nil {
		s.metrics.RecordPersistenceFailure(op, KeyCurrentUser)
	}
}

// compile-time interface check
var (
	_ UserRepository        = (*Collection[model.User])(nil)
	_ CustomerRepository    = (*Collection[model.Customer])(nil)
	_ AppointmentRepository = (*Collection[model.Appointment])(nil)
	_ MessageRepository     = (*Collection[model.ContactMessage])(nil)
	_ SessionRepository     = (*CurrentUserSlot)(nil)
)
