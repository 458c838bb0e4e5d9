package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hitoshi/custdesk/internal/kvstore"
	"github.com/hitoshi/custdesk/internal/metrics"
)

// Collection はキーバリューストアの1キーにJSON配列として保存されるコレクション。
type Collection[T any] struct {
	store   kvstore.Store
	key     string
	metrics metrics.MetricsCollector
}

// NewCollection はCollectionを生成する。mcはnilでもよい。
func NewCollection[T any](store kvstore.Store, key string, mc metrics.MetricsCollector) *Collection[T] {
	return &Collection[T]{store: store, key: key, metrics: mc}
}

// Key はコレクションのストアキーを返す。
func (c *Collection[T]) Key() string {
	return c.key
}

// Load はコレクション全体を読み込む。
// 読み込みや解析に失敗した場合はログに記録して空のスライスを返す。
func (c *Collection[T]) Load(ctx context.Context) []T {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		c.loadFailed(ctx, "failed to read collection", err)
		return []T{}
	}
	if !ok {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.loadFailed(ctx, "failed to parse collection", err)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save はコレクション全体をJSONにエンコードして書き込む。
// nilは空配列として保存する。
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		c.saveFailed(ctx, err)
		return fmt.Errorf("failed to encode collection %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, string(data)); err != nil {
		c.saveFailed(ctx, err)
		return fmt.Errorf("failed to save collection %s: %w", c.key, err)
	}
	return nil
}

func (c *Collection[T]) loadFailed(ctx context.Context, msg string, err error) {
	slog.WarnContext(ctx, msg,
		slog.String("key", c.key),
		slog.String("error", err.Error()),
	)
	if c.metrics != nil {
		c.metrics.RecordPersistenceFailure("load", c.key)
	}
}

func (c *Collection[T]) saveFailed(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "failed to save collection",
		slog.String("key", c.key),
		slog.String("error", err.Error()),
	)
	if c.metrics != nil {
		c.metrics.RecordPersistenceFailure("save", c.key)
	}
}
