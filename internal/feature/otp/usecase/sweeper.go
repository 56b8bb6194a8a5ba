package usecase

import (
	"context"
	"log/slog"
	"time"
)

// SweepTask は期限切れレコードを削除し、その件数を返します。
type SweepTask struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Sweeper はコンテキストがキャンセルされるまで定期的に掃除タスクを実行します。
type Sweeper struct {
	interval time.Duration
	tasks    []SweepTask
}

// NewSweeper はSweeperを生成します。interval が0以下なら5分です。
func NewSweeper(interval time.Duration, tasks ...SweepTask) *Sweeper {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Sweeper{interval: interval, tasks: tasks}
}

// Run は即座に1回、その後は interval ごとに掃除します（ブロックします）。
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.SweepOnce(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// SweepOnce は各タスクを1回ずつ実行します。失敗はログに残し、残りのタスクは続行します。
func (s *Sweeper) SweepOnce(ctx context.Context) {
	for _, task := range s.tasks {
		n, err := task.Run(ctx)
		if err != nil {
			slog.Warn("sweep failed", "task", task.Name, "error", err)
			continue
		}
		if n > 0 {
			slog.Info("sweep removed expired records", "task", task.Name, "count", n)
		}
	}
}
