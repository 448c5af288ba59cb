package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/internal/utils"
	"github.com/aristath/perfstats/pkg/logger"
	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// PriceSource is satisfied by *prices.Service
type PriceSource interface {
	Fetch(ctx context.Context, ticker, startDate, endDate string, freq tiingo.Frequency) (series.PriceSeries, error)
	FetchMany(ctx context.Context, tickers []string, startDate, endDate string, freq tiingo.Frequency) (map[string]series.PriceSeries, map[string]error)
}

// Range is a ticker-independent price window
type Range struct {
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Frequency tiingo.Frequency `json:"frequency"`
}

func (r Range) frequency() tiingo.Frequency {
	if r.Frequency == "" {
		return tiingo.Daily
	}
	return r.Frequency
}

// ReportRequest asks for a single-asset report
type ReportRequest struct {
	Ticker    string  `json:"ticker"`
	Benchmark string  `json:"benchmark,omitempty"`
	Range     Range   `json:"range"`
	Options   Options `json:"options"`
}

// Service fetches prices and runs the analytics on them
type Service struct {
	prices   PriceSource
	defaults Options
	log      zerolog.Logger
}

// NewService creates an analytics service. Zero fields of defaults fall
// back to DefaultOptions.
func NewService(prices PriceSource, defaults Options, log zerolog.Logger) *Service {
	return &Service{
		prices:   prices,
		defaults: defaults.withDefaults(DefaultOptions),
		log:      logger.Component(log, "analytics"),
	}
}

// Defaults returns the options applied to requests that leave fields unset.
func (s *Service) Defaults() Options {
	return s.defaults
}

// Report fetches the asset (and benchmark, if any) and builds its report.
func (s *Service) Report(ctx context.Context, req ReportRequest) (*Report, error) {
	if utils.NormalizeTicker(req.Ticker) == "" {
		return nil, stats.InvalidArgument("ticker is required")
	}
	if err := req.Options.validate(); err != nil {
		return nil, err
	}

	timer := utils.NewTimer("analytics.report", s.log)
	defer timer.Stop()

	freq := req.Range.frequency()
	asset, err := s.prices.Fetch(ctx, req.Ticker, req.Range.Start, req.Range.End, freq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", req.Ticker, err)
	}

	var benchmark *series.PriceSeries
	if utils.NormalizeTicker(req.Benchmark) != "" {
		b, err := s.prices.Fetch(ctx, req.Benchmark, req.Range.Start, req.Range.End, freq)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch benchmark %s: %w", req.Benchmark, err)
		}
		benchmark = &b
	}

	report, err := BuildReport(asset, benchmark, req.Options.withDefaults(s.defaults))
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("ticker", report.Ticker).
		Str("benchmark", report.Benchmark).
		Int("points", report.Points).
		Int("warnings", len(report.Warnings)).
		Msg("Report built")
	return report, nil
}

// Matrices fetches the tickers and builds covariance and correlation
// matrices over those that could be fetched. Failures become warnings.
func (s *Service) Matrices(ctx context.Context, tickers []string, rng Range) (*Matrices, error) {
	tickers = normalizeAll(tickers)
	if len(tickers) == 0 {
		return nil, stats.InvalidArgument("at least one ticker is required")
	}

	timer := utils.NewTimer("analytics.matrices", s.log)
	defer func() { timer.StopWithFields(map[string]interface{}{"tickers": len(tickers)}) }()

	fetched, failures := s.prices.FetchMany(ctx, tickers, rng.Start, rng.End, rng.frequency())

	assets := make([]series.PriceSeries, 0, len(tickers))
	for _, t := range tickers {
		if ps, ok := fetched[t]; ok {
			assets = append(assets, ps)
		}
	}
	if len(assets) == 0 {
		return nil, failureError(failures)
	}

	m, err := BuildMatrices(assets)
	if err != nil {
		return nil, err
	}
	for _, t := range sortedKeys(failures) {
		m.Warnings = append(m.Warnings, fmt.Sprintf("%s: %v", t, failures[t]))
	}
	return m, nil
}

// Portfolio fetches every ticker and summarizes the weighted basket. Unlike
// Matrices, a single failed ticker fails the request since the weights would
// no longer line up.
func (s *Service) Portfolio(ctx context.Context, tickers []string, weights []float64, rng Range, riskFreeRate float64) (*Portfolio, error) {
	if len(tickers) == 0 {
		return nil, stats.InvalidArgument("at least one ticker is required")
	}
	if len(weights) != len(tickers) {
		return nil, stats.InvalidArgument("got %d weights for %d tickers", len(weights), len(tickers))
	}
	if err := checkRate(riskFreeRate); err != nil {
		return nil, err
	}

	normalized := make([]string, len(tickers))
	for i, t := range tickers {
		normalized[i] = utils.NormalizeTicker(t)
	}

	fetched, failures := s.prices.FetchMany(ctx, normalized, rng.Start, rng.End, rng.frequency())
	if len(failures) > 0 {
		return nil, failureError(failures)
	}

	assets := make([]series.PriceSeries, len(normalized))
	for i, t := range normalized {
		ps, ok := fetched[t]
		if !ok {
			return nil, fmt.Errorf("failed to fetch %s: %w", t, tiingo.ErrNoData)
		}
		assets[i] = ps
	}

	return BuildPortfolio(assets, weights, riskFreeRate)
}

// failureError returns the first failure in ticker order, keeping its chain
// intact for errors.Is.
func failureError(failures map[string]error) error {
	keys := sortedKeys(failures)
	if len(keys) == 0 {
		return fmt.Errorf("no prices fetched: %w", tiingo.ErrNoData)
	}
	return fmt.Errorf("failed to fetch %s: %w", keys[0], failures[keys[0]])
}

func sortedKeys(m map[string]error) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalizeAll(tickers []string) []string {
	return utils.ParseTickers(strings.Join(tickers, ","))
}
