// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// 有効期限を過ぎたセッションを定期バッチで削除する。期限切れ
// セッションは検索クエリの段階で弾かれるため、このジョブは
// ストア容量の回収のみを目的とする。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionDeleter は期限切れセッションの削除を抽象化するインターフェース。
// repository.SessionRepositoryの部分集合。
type SessionDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// PurgeMetrics は削除件数の記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。nilの場合は記録しない。
type PurgeMetrics interface {
	RecordSessionsPurged(count int64)
}

// SweepJob は期限切れセッションの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type SweepJob struct {
	sessions SessionDeleter
	logger   *slog.Logger
	metrics  PurgeMetrics
}

// NewSweepJob は新しいSweepJobを生成する。
func NewSweepJob(sessions SessionDeleter, logger *slog.Logger, metrics PurgeMetrics) *SweepJob {
	return &SweepJob{
		sessions: sessions,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run は期限切れセッションを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *SweepJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.sessions.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordSessionsPurged(deletedCount)
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunLoop は指定間隔でRunを繰り返し実行する。
// コンテキストのキャンセルで停止する。サーバー起動時に
// バックグラウンドゴルーチンとして呼び出される。
func (j *SweepJob) RunLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil && ctx.Err() == nil {
				j.logger.Warn("セッションクリーンアップをスキップして次回に再試行します",
					slog.String("error", err.Error()),
				)
			}
		case <-ctx.Done():
			return
		}
	}
}
