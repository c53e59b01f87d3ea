package worker

import (
	"context"
	"time"

	"digitask/internal/service"

	"github.com/rs/zerolog/log"
)

// CleanupCron periodically trims the location trail to the retention window.
// The purge is idempotent, so overlapping runs (or the standalone cleanup
// binary) are harmless.
type CleanupCron struct {
	tracking  service.TrackingService
	interval  time.Duration
	retention time.Duration
}

func NewCleanupCron(tracking service.TrackingService, interval, retention time.Duration) *CleanupCron {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if retention <= 0 {
		retention = service.HistoryRetention
	}
	return &CleanupCron{tracking: tracking, interval: interval, retention: retention}
}

// Start runs one sweep immediately, then ticks until ctx is cancelled.
func (c *CleanupCron) Start(ctx context.Context) {
	go func() {
		c.sweep(ctx)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep(ctx)
			}
		}
	}()
	log.Info().Dur("interval", c.interval).Dur("retention", c.retention).Msg("history cleanup cron started")
}

func (c *CleanupCron) sweep(ctx context.Context) {
	deleted, err := c.tracking.PurgeHistory(ctx, c.retention)
	if err != nil {
		log.Error().Err(err).Msg("history purge failed")
		return
	}
	log.Info().Int64("deleted", deleted).Msg("history purge complete")
}
