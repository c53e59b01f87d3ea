// Command cleanup runs a one-shot retention sweep over the location trail.
// Intended for cron or manual use alongside the in-process scheduler.
package main

import (
	"context"
	"flag"
	"time"

	"digitask/internal/config"
	"digitask/internal/infra"
	"digitask/internal/model"

	"github.com/rs/zerolog/log"
)

func main() {
	days := flag.Int("days", 0, "retention window in days (0 = configured default)")
	dryRun := flag.Bool("dry-run", false, "count matching rows without deleting")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	retentionDays := cfg.HistoryRetentionDays
	if *days > 0 {
		retentionDays = *days
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	ctx := context.Background()

	if *dryRun {
		var count int64
		if err := db.WithContext(ctx).Model(&model.LocationHistory{}).Where("timestamp < ?", cutoff).Count(&count).Error; err != nil {
			log.Fatal().Err(err).Msg("count failed")
		}
		log.Info().Int64("rows", count).Time("cutoff", cutoff).Msg("dry run: rows eligible for purge")
		return
	}

	res := db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&model.LocationHistory{})
	if res.Error != nil {
		log.Fatal().Err(res.Error).Msg("purge failed")
	}
	log.Info().Int64("deleted", res.RowsAffected).Time("cutoff", cutoff).Msg("history purge complete")
}
