package prices

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/internal/utils"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// ErrOfflineMiss is returned in offline mode when the range is not cached
var ErrOfflineMiss = errors.New("offline mode enabled and no cached prices found")

// maxConcurrentFetches bounds parallel requests to the API in FetchMany
const maxConcurrentFetches = 4

// Fetcher is the upstream price source
type Fetcher interface {
	FetchPrices(ctx context.Context, ticker, startDate, endDate string, freq tiingo.Frequency) (series.PriceSeries, error)
}

// Service reads prices through the cache
type Service struct {
	cache   *Cache
	fetcher Fetcher
	offline bool
	log     zerolog.Logger
}

// NewService creates a price service. fetcher may be nil in offline mode.
func NewService(cache *Cache, fetcher Fetcher, offline bool, log zerolog.Logger) *Service {
	return &Service{
		cache:   cache,
		fetcher: fetcher,
		offline: offline,
		log:     log.With().Str("component", "prices").Logger(),
	}
}

// Cache exposes the underlying cache for maintenance jobs
func (s *Service) Cache() *Cache {
	return s.cache
}

// Fetch returns the series for a ticker and date range. A cache hit is
// returned as-is; otherwise the request is validated, fetched and cached.
func (s *Service) Fetch(ctx context.Context, ticker, startDate, endDate string, freq tiingo.Frequency) (series.PriceSeries, error) {
	ticker = utils.NormalizeTicker(ticker)

	cached, ok, err := s.cache.Get(ctx, ticker, startDate, endDate, freq)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Cache read failed, falling back to API")
	}
	if ok {
		s.log.Debug().Str("ticker", ticker).Str("start", startDate).Str("end", endDate).Msg("Cache hit")
		return cached, nil
	}

	if s.offline || s.fetcher == nil {
		return series.PriceSeries{}, fmt.Errorf("%w: %s", ErrOfflineMiss, CacheKey(ticker, startDate, endDate))
	}

	s.log.Debug().Str("ticker", ticker).Str("start", startDate).Str("end", endDate).Msg("Fetching prices")
	ps, err := s.fetcher.FetchPrices(ctx, ticker, startDate, endDate, freq)
	if err != nil {
		return series.PriceSeries{}, err
	}

	if err := s.cache.Put(ctx, ps, startDate, endDate, freq); err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("Failed to cache prices")
	}
	return ps, nil
}

// FetchMany fetches several tickers concurrently. Tickers that fail are
// logged and reported in the second map instead of aborting the batch.
func (s *Service) FetchMany(ctx context.Context, tickers []string, startDate, endDate string, freq tiingo.Frequency) (map[string]series.PriceSeries, map[string]error) {
	defer utils.OperationTimer("prices.fetch_many", s.log)()

	var (
		mu       sync.Mutex
		result   = make(map[string]series.PriceSeries, len(tickers))
		failures = make(map[string]error)
	)

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for _, ticker := range tickers {
		ticker := ticker
		g.Go(func() error {
			ps, err := s.Fetch(ctx, ticker, startDate, endDate, freq)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.log.Error().Err(err).Str("ticker", ticker).Msg("Skipping ticker")
				failures[utils.NormalizeTicker(ticker)] = err
				return nil
			}
			result[ps.Ticker()] = ps
			return nil
		})
	}
	_ = g.Wait()

	return result, failures
}
