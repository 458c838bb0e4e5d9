// Package customer は顧客コレクションの追加・更新・削除・検索を提供する。
//
// コレクションは起動時に1回だけ読み込み、以後はメモリ上の状態を正として
// 変更のたびに全体を保存する。
package customer

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/custdesk/internal/idgen"
	"github.com/hitoshi/custdesk/internal/metrics"
	"github.com/hitoshi/custdesk/internal/model"
	"github.com/hitoshi/custdesk/internal/repository"
)

// IDGenerator は顧客IDの生成インターフェース。
type IDGenerator interface {
	GenerateUpper(prefix string) string
}

// Service は顧客コレクションを管理する。
type Service struct {
	mu        sync.Mutex
	repo      repository.CustomerRepository
	ids       IDGenerator
	metrics   metrics.MetricsCollector
	now       func() time.Time
	customers []model.Customer
}

// NewService はServiceを生成し、リポジトリからコレクションを読み込む。
// mcはnilでもよい。
func NewService(ctx context.Context, repo repository.CustomerRepository, mc metrics.MetricsCollector) *Service {
	customers := repo.Load(ctx)
	slog.InfoContext(ctx, "customers loaded", slog.Int("count", len(customers)))

	return &Service{
		repo:      repo,
		ids:       idgen.New(),
		metrics:   mc,
		now:       time.Now,
		customers: customers,
	}
}

// Add は顧客を登録する。保存に失敗した場合はfalseを返す。
// 保存に失敗してもメモリ上の追加は取り消さない。
func (s *Service) Add(ctx context.Context, form model.CustomerForm) (model.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := form.Apply(model.Customer{
		ID:        s.ids.GenerateUpper(idgen.PrefixCustomer),
		CreatedAt: now,
		UpdatedAt: now,
	})
	s.customers = append(s.customers, c)

	ok := s.saveLocked(ctx, "add", c.ID)
	return c, ok
}

// Update は指定IDの顧客の可変項目を置き換え、UpdatedAtを更新する。
// 該当する顧客がいなくてもコレクションを変更せずtrueを返す。
// 保存に失敗した場合のみfalseを返す。
func (s *Service) Update(ctx context.Context, id string, form model.CustomerForm) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for i, c := range s.customers {
		if c.ID == id {
			updated := form.Apply(c)
			updated.UpdatedAt = now
			s.customers[i] = updated
		}
	}

	return s.saveLocked(ctx, "update", id)
}

// Delete は指定IDの顧客を取り除く。
// 該当する顧客がいなくてもtrueを返す。保存に失敗した場合のみfalseを返す。
func (s *Service) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]model.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.customers = kept

	return s.saveLocked(ctx, "delete", id)
}

// GetByID は指定IDの顧客を返す。見つからない場合はfalse。
func (s *Service) GetByID(id string) (model.Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return model.Customer{}, false
}

// Search は名前・メールアドレス・担当者名の大文字小文字を区別しない部分一致、
// または電話番号の部分一致で顧客を絞り込む。
// 空白のみのクエリは全件を登録順で返す。
func (s *Service) Search(query string) []model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.copyLocked()
	}

	result := []model.Customer{}
	for _, c := range s.customers {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(strings.ToLower(c.ContactPerson), q) ||
			strings.Contains(c.Phone, q) {
			result = append(result, c)
		}
	}
	return result
}

// List は全顧客のコピーを登録順で返す。
func (s *Service) List() []model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.copyLocked()
}

// Stats はダッシュボード用の集計値を返す。
// AddedThisWeekはnowの7日前より後に登録された顧客数。
func (s *Service) Stats(now time.Time) model.CustomerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	weekAgo := now.AddDate(0, 0, -7)
	stats := model.CustomerStats{Total: len(s.customers)}
	for _, c := range s.customers {
		if c.CreatedAt.After(weekAgo) {
			stats.AddedThisWeek++
		}
	}
	return stats
}

// Flush はメモリ上のコレクションを保存する。終了時に呼び出す。
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.repo.Save(ctx, s.customers)
}

func (s *Service) copyLocked() []model.Customer {
	out := make([]model.Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// saveLocked はコレクションを保存し、結果をログとメトリクスに記録する。
func (s *Service) saveLocked(ctx context.Context, op, id string) bool {
	err := s.repo.Save(ctx, s.customers)
	ok := err == nil
	if s.metrics != nil {
		s.metrics.RecordCustomerOperation(op, metrics.Result(ok))
	}
	if !ok {
		slog.ErrorContext(ctx, "customer operation not persisted",
			slog.String("operation", op),
			slog.String("customer_id", id),
			slog.String("error", err.Error()),
		)
		return false
	}
	slog.InfoContext(ctx, "customer operation persisted",
		slog.String("operation", op),
		slog.String("customer_id", id),
	)
	return true
}
