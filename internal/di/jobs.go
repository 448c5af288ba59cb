package di

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/internal/config"
	"github.com/aristath/perfstats/internal/reliability"
	"github.com/aristath/perfstats/internal/scheduler"
)

const (
	pruneCacheSchedule = "0 30 3 * * *" // 03:30 daily
	walCheckSchedule   = "0 0 * * * *"  // hourly
	backupSchedule     = "0 0 4 * * *"  // 04:00 daily
)

// RegisterJobs creates the scheduler and registers the maintenance jobs. The
// scheduler is not started.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)

	warm := scheduler.NewWarmCacheJob(container.PriceService, cfg.Scheduler.Watchlist, cfg.Scheduler.LookbackDays)
	warm.SetLogger(log.With().Str("job", warm.Name()).Logger())
	if len(cfg.Scheduler.Watchlist) > 0 && !cfg.OfflineMode {
		if err := sched.AddJob(cfg.Scheduler.WarmCacheSchedule, warm); err != nil {
			return err
		}
	} else {
		sched.Register(warm)
	}

	maxAge := time.Duration(cfg.Scheduler.CacheMaxAgeDays) * 24 * time.Hour
	prune := scheduler.NewPruneCacheJob(container.PriceCache, container.PricesDB, maxAge)
	prune.SetLogger(log.With().Str("job", prune.Name()).Logger())
	if err := sched.AddJob(pruneCacheSchedule, prune); err != nil {
		return err
	}

	wal := scheduler.NewCheckWALCheckpointsJob(container.PricesDB)
	wal.SetLogger(log.With().Str("job", wal.Name()).Logger())
	if err := sched.AddJob(walCheckSchedule, wal); err != nil {
		return err
	}

	if container.Uploader != nil {
		backup := reliability.NewBackupJob(reliability.NewBackupService(
			container.PricesDB, container.Uploader, filepath.Join(cfg.DataDir, "backup-staging"), log))
		if err := sched.AddJob(backupSchedule, backup); err != nil {
			return err
		}
	}

	container.Scheduler = sched
	return nil
}
