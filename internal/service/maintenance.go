package service

import (
	"context"
	"log/slog"
	"time"
)

const DefaultPurgeInterval = time.Hour

// RunPurgeLoop calls PurgeInvalidChecks once immediately and then every
// interval until ctx is done. Failures are logged and retried on the next tick.
func RunPurgeLoop(ctx context.Context, checks HabitChecksServiceI, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		purged, err := checks.PurgeInvalidChecks(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Error("purging invalid checks failed", slog.String("error", err.Error()))
		} else if purged > 0 {
			slog.Info("purged checks dated before their habit", slog.Int64("count", purged))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
