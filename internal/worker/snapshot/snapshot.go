// Package snapshot はメモリ上のコレクションを定期的にストアへ書き戻すジョブを提供する。
// 各操作は都度保存するが、ストアの一時的な障害で保存に失敗した状態を
// 次のサイクルで書き戻す。終了時の最終保存にも使う。
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Flusher はメモリ上の状態をストアへ保存するサービス。
type Flusher interface {
	Flush(ctx context.Context) error
}

// Target は保存対象のサービスとログ用の名前の組。
type Target struct {
	Name    string
	Flusher Flusher
}

// Job は登録されたサービスの状態を保存するジョブ。
type Job struct {
	targets []Target
	logger  *slog.Logger
}

// NewJob は新しいJobを生成する。targetsは登録順に保存される。
func NewJob(logger *slog.Logger, targets ...Target) *Job {
	return &Job{
		targets: targets,
		logger:  logger,
	}
}

// Run は全サービスの状態を保存する。
// 失敗したサービスがあっても残りの保存は続け、失敗をまとめて返す。
func (j *Job) Run(ctx context.Context) error {
	start := time.Now()

	var errs []error
	for _, t := range j.targets {
		if err := t.Flusher.Flush(ctx); err != nil {
			j.logger.Error("状態の保存に失敗しました",
				slog.String("target", t.Name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
		}
	}

	j.logger.Info("状態の保存が完了しました",
		slog.Int("target_count", len(j.targets)),
		slog.Int("failed_count", len(errs)),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)

	return errors.Join(errs...)
}

// Start は指定間隔のティッカーでRunを繰り返す。
// 起動直後はストアから読み込んだ直後のため実行しない。
// コンテキストがキャンセルされるまで実行を継続する。
func (j *Job) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("定期保存ジョブを開始しました",
		slog.Duration("interval", interval),
	)

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("定期保存ジョブを停止しました")
			return
		case <-ticker.C:
			// 失敗はRun内でログ済み
			_ = j.Run(ctx)
		}
	}
}
