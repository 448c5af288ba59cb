package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// CachePruner is satisfied by *prices.Cache
type CachePruner interface {
	Prune(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Vacuumer is satisfied by *database.DB
type Vacuumer interface {
	Vacuum(ctx context.Context) error
}

// PruneCacheJob drops cache entries older than maxAge and vacuums the
// database when anything was removed.
type PruneCacheJob struct {
	log    zerolog.Logger
	cache  CachePruner
	db     Vacuumer
	maxAge time.Duration
}

// NewPruneCacheJob creates a new PruneCacheJob. db may be nil to skip VACUUM.
func NewPruneCacheJob(cache CachePruner, db Vacuumer, maxAge time.Duration) *PruneCacheJob {
	return &PruneCacheJob{
		log:    zerolog.Nop(),
		cache:  cache,
		db:     db,
		maxAge: maxAge,
	}
}

// SetLogger sets the logger for the job
func (j *PruneCacheJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *PruneCacheJob) Name() string {
	return "prune_cache"
}

// Run executes the prune cache job
func (j *PruneCacheJob) Run(ctx context.Context) error {
	if j.maxAge <= 0 {
		j.log.Debug().Msg("Cache pruning disabled")
		return nil
	}

	removed, err := j.cache.Prune(ctx, j.maxAge)
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}

	j.log.Info().
		Int64("removed", removed).
		Dur("max_age", j.maxAge).
		Msg("Cache prune completed")

	if removed == 0 || j.db == nil {
		return nil
	}
	if err := j.db.Vacuum(ctx); err != nil {
		return fmt.Errorf("failed to vacuum after prune: %w", err)
	}
	return nil
}
