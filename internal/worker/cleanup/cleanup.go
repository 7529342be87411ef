// Package cleanup は期限切れセッションの自動削除ジョブを提供する。
// expires_atを過ぎたセッションを定期バッチで削除する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SessionDeleter は期限切れセッションの削除に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionDeleter interface {
	// DeleteExpired はbeforeより前に期限切れになったセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// MetricsRecorder は削除件数のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordSessionsCleaned(count int64)
}

// CleanupJob は期限切れセッションの自動削除ジョブ。
// 定期実行のバッチジョブとして設計されており、冪等な削除処理を保証する。
type CleanupJob struct {
	sessions SessionDeleter
	logger   *slog.Logger
	metrics  MetricsRecorder // nilの場合はメトリクスを記録しない
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(sessions SessionDeleter, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		sessions: sessions,
		logger:   logger,
	}
}

// WithMetrics はメトリクスレコーダーを設定したCleanupJobを返す。
func (j *CleanupJob) WithMetrics(metrics MetricsRecorder) *CleanupJob {
	j.metrics = metrics
	return j
}

// Run は期限切れセッションを削除する。
// 冪等: 削除対象がない場合でもエラーにならない。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := j.sessions.DeleteExpired(ctx, start)
	if err != nil {
		j.logger.Error("セッションクリーンアップジョブの実行に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("セッションクリーンアップの実行に失敗: %w", err)
	}

	if j.metrics != nil {
		j.metrics.RecordSessionsCleaned(deletedCount)
	}

	duration := time.Since(start)
	j.logger.Info("セッションクリーンアップジョブが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// RunPeriodic は指定間隔でRunを繰り返し実行する。
// コンテキストのキャンセルで停止する。個々の実行の失敗はログに記録し、
// ループは継続する。
func (j *CleanupJob) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	j.logger.Info("セッションクリーンアップワーカーを開始します",
		slog.String("interval", interval.String()),
	)

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				// Runの中でログ済み。次の間隔で再試行する。
				continue
			}
		case <-ctx.Done():
			j.logger.Info("セッションクリーンアップワーカーを停止します")
			return
		}
	}
}
