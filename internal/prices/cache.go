// Package prices serves price series to the analytics layer, reading through
// a SQLite response cache in front of the Tiingo client.
package prices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/internal/database"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// cachedSeries is the msgpack payload stored per cache row
type cachedSeries struct {
	Ticker string    `msgpack:"ticker"`
	Dates  []string  `msgpack:"dates"`
	Prices []float64 `msgpack:"prices"`
}

// CacheStats summarises the cache contents
type CacheStats struct {
	Entries int   `json:"entries"`
	Tickers int   `json:"tickers"`
	Points  int64 `json:"points"`
}

// Cache stores fetched series keyed by ticker_startDate_endDate and frequency
type Cache struct {
	db  *database.DB
	log zerolog.Logger
	now func() time.Time
}

// NewCache wraps a migrated "prices" database
func NewCache(db *database.DB, log zerolog.Logger) *Cache {
	return &Cache{
		db:  db,
		log: log.With().Str("component", "price_cache").Logger(),
		now: time.Now,
	}
}

// CacheKey builds the ticker_startDate_endDate key
func CacheKey(ticker, startDate, endDate string) string {
	return ticker + "_" + startDate + "_" + endDate
}

// Get returns the cached series, with ok=false on a miss
func (c *Cache) Get(ctx context.Context, ticker, startDate, endDate string, freq tiingo.Frequency) (series.PriceSeries, bool, error) {
	var payload []byte
	err := c.db.Conn().QueryRowContext(ctx,
		`SELECT payload FROM price_cache WHERE cache_key = ? AND frequency = ?`,
		CacheKey(ticker, startDate, endDate), string(freq),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return series.PriceSeries{}, false, nil
	}
	if err != nil {
		return series.PriceSeries{}, false, fmt.Errorf("failed to read cache for %s: %w", ticker, err)
	}

	var cached cachedSeries
	if err := msgpack.Unmarshal(payload, &cached); err != nil {
		return series.PriceSeries{}, false, fmt.Errorf("failed to decode cached series for %s: %w", ticker, err)
	}

	ps, err := series.New(cached.Ticker, cached.Dates, cached.Prices)
	if err != nil {
		return series.PriceSeries{}, false, fmt.Errorf("corrupt cached series for %s: %w", ticker, err)
	}
	return ps, true, nil
}

// Put stores (or replaces) a series for the requested range
func (c *Cache) Put(ctx context.Context, ps series.PriceSeries, startDate, endDate string, freq tiingo.Frequency) error {
	payload, err := msgpack.Marshal(cachedSeries{
		Ticker: ps.Ticker(),
		Dates:  ps.Dates(),
		Prices: ps.Prices(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode series for %s: %w", ps.Ticker(), err)
	}

	_, err = c.db.Conn().ExecContext(ctx, `
		INSERT INTO price_cache (cache_key, frequency, ticker, start_date, end_date, points, payload, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(cache_key, frequency) DO UPDATE SET
			points = excluded.points,
			payload = excluded.payload,
			fetched_at = excluded.fetched_at`,
		CacheKey(ps.Ticker(), startDate, endDate), string(freq), ps.Ticker(),
		startDate, endDate, ps.Len(), payload, c.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to cache series for %s: %w", ps.Ticker(), err)
	}
	return nil
}

// Prune deletes entries fetched more than maxAge ago. A non-positive maxAge
// keeps everything.
func (c *Cache) Prune(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, nil
	}

	cutoff := c.now().Add(-maxAge).Unix()
	res, err := c.db.Conn().ExecContext(ctx, `DELETE FROM price_cache WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune price cache: %w", err)
	}

	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned rows: %w", err)
	}

	c.log.Info().Int64("removed", removed).Dur("max_age", maxAge).Msg("Pruned price cache")
	return removed, nil
}

// Stats counts entries, distinct tickers and stored points
func (c *Cache) Stats(ctx context.Context) (CacheStats, error) {
	var st CacheStats
	err := c.db.Conn().QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT ticker), COALESCE(SUM(points), 0) FROM price_cache`,
	).Scan(&st.Entries, &st.Tickers, &st.Points)
	if err != nil {
		return CacheStats{}, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return st, nil
}
