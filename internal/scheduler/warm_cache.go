package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// PriceWarmer is satisfied by *prices.Service
type PriceWarmer interface {
	FetchMany(ctx context.Context, tickers []string, startDate, endDate string, freq tiingo.Frequency) (map[string]series.PriceSeries, map[string]error)
}

// WarmCacheJob prefetches daily prices for the watchlist so reports over the
// default lookback window are served from the cache.
type WarmCacheJob struct {
	log          zerolog.Logger
	prices       PriceWarmer
	watchlist    []string
	lookbackDays int
	now          func() time.Time
}

// NewWarmCacheJob creates a new WarmCacheJob
func NewWarmCacheJob(prices PriceWarmer, watchlist []string, lookbackDays int) *WarmCacheJob {
	return &WarmCacheJob{
		log:          zerolog.Nop(),
		prices:       prices,
		watchlist:    watchlist,
		lookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// SetLogger sets the logger for the job
func (j *WarmCacheJob) SetLogger(log zerolog.Logger) {
	j.log = log
}

// Name returns the job name
func (j *WarmCacheJob) Name() string {
	return "warm_cache"
}

// Window returns the start and end dates the job fetches
func (j *WarmCacheJob) Window() (string, string) {
	end := j.now().UTC()
	start := end.AddDate(0, 0, -j.lookbackDays)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}

// Run executes the warm cache job. It fails only when every ticker failed.
func (j *WarmCacheJob) Run(ctx context.Context) error {
	if len(j.watchlist) == 0 {
		j.log.Debug().Msg("Watchlist is empty, nothing to warm")
		return nil
	}

	start, end := j.Window()
	fetched, failures := j.prices.FetchMany(ctx, j.watchlist, start, end, tiingo.Daily)

	for ticker, err := range failures {
		j.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to warm ticker")
	}
	j.log.Info().
		Int("warmed", len(fetched)).
		Int("failed", len(failures)).
		Str("start", start).
		Str("end", end).
		Msg("Cache warm completed")

	if len(fetched) == 0 {
		return fmt.Errorf("failed to warm any of %d tickers", len(j.watchlist))
	}
	return nil
}
