// Package tiingo fetches end-of-day and intraday prices from the Tiingo REST API.
package tiingo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/pkg/stats/series"
)

// DefaultBaseURL is the public Tiingo API endpoint
const DefaultBaseURL = "https://api.tiingo.com"

// Frequency selects the Tiingo endpoint
type Frequency string

const (
	// Daily uses the end-of-day endpoint and adjusted closes
	Daily Frequency = "daily"
	// Intraday uses the IEX endpoint resampled to 5 minutes
	Intraday Frequency = "intraday"
)

var (
	// ErrInvalidRequest is returned before any network call for bad tickers,
	// dates, frequencies or a missing token.
	ErrInvalidRequest = errors.New("invalid tiingo request")
	// ErrNoData is returned when Tiingo answers with an empty result.
	ErrNoData = errors.New("tiingo returned no data")
)

// Client is a Tiingo API client
type Client struct {
	client      *http.Client
	baseURL     string
	token       string
	maxAttempts int
	retryWait   time.Duration
	log         zerolog.Logger
}

// Option customises a Client
type Option func(*Client)

// WithBaseURL points the client at another host (tests, proxies)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the default 30s-timeout http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRetry sets the number of attempts and the pause between them
func WithRetry(attempts int, wait time.Duration) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
		c.retryWait = wait
	}
}

// NewClient creates a new Tiingo client
func NewClient(token string, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     DefaultBaseURL,
		token:       token,
		maxAttempts: 3,
		retryWait:   2 * time.Second,
		log:         log.With().Str("client", "tiingo").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateDate reports whether s looks like YYYY-MM-DD with a month in 1-12
// and a day in 1-31. Calendar validity (Feb 30) is not checked.
func ValidateDate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i, r := range s {
		if i == 4 || i == 7 {
			continue
		}
		if r < '0' || r > '9' {
			return false
		}
	}

	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

// ValidateRequest checks ticker, dates and frequency
func ValidateRequest(ticker, startDate, endDate string, freq Frequency) error {
	if ticker == "" || startDate == "" || endDate == "" {
		return fmt.Errorf("%w: ticker and dates must not be empty", ErrInvalidRequest)
	}
	if !ValidateDate(startDate) || !ValidateDate(endDate) {
		return fmt.Errorf("%w: dates must be valid and in YYYY-MM-DD format, got %q and %q", ErrInvalidRequest, startDate, endDate)
	}
	if freq != Daily && freq != Intraday {
		return fmt.Errorf("%w: unsupported frequency %q", ErrInvalidRequest, freq)
	}
	return nil
}

// BuildURL returns the request URL for a ticker and date range
func (c *Client) BuildURL(ticker, startDate, endDate string, freq Frequency) (string, error) {
	params := url.Values{}
	params.Set("startDate", startDate)
	params.Set("endDate", endDate)

	var path string
	switch freq {
	case Daily:
		path = "/tiingo/daily/" + url.PathEscape(ticker) + "/prices"
	case Intraday:
		path = "/iex/" + url.PathEscape(ticker)
		params.Set("resampleFreq", "5min")
		params.Set("columns", "open,close")
	default:
		return "", fmt.Errorf("%w: unsupported frequency %q", ErrInvalidRequest, freq)
	}
	params.Set("token", c.token)

	return c.baseURL + path + "?" + params.Encode(), nil
}

// FetchRaw validates the request and downloads the raw JSON body, retrying
// transport errors, 429 and 5xx responses.
func (c *Client) FetchRaw(ctx context.Context, ticker, startDate, endDate string, freq Frequency) ([]byte, error) {
	if err := ValidateRequest(ticker, startDate, endDate, freq); err != nil {
		return nil, err
	}
	if c.token == "" {
		return nil, fmt.Errorf("%w: no API token configured", ErrInvalidRequest)
	}

	reqURL, err := c.BuildURL(ticker, startDate, endDate, freq)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, retryable, err := c.get(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxAttempts {
			break
		}

		c.log.Warn().Err(err).
			Str("ticker", ticker).
			Int("attempt", attempt).
			Dur("wait", c.retryWait).
			Msg("Tiingo request failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryWait):
		}
	}

	return nil, fmt.Errorf("fetch %s %s..%s: %w", ticker, startDate, endDate, lastErr)
}

// FetchPrices downloads and parses a price series
func (c *Client) FetchPrices(ctx context.Context, ticker, startDate, endDate string, freq Frequency) (series.PriceSeries, error) {
	body, err := c.FetchRaw(ctx, ticker, startDate, endDate, freq)
	if err != nil {
		return series.PriceSeries{}, err
	}
	return ParseResponse(ticker, body, freq)
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("tiingo returned status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, false, nil
}

type priceRow struct {
	Date     *string  `json:"date"`
	AdjClose *float64 `json:"adjClose"`
	Close    *float64 `json:"close"`
}

// ParseResponse turns a Tiingo JSON array into a PriceSeries. Daily rows use
// adjClose and intraday rows use close. Rows missing either field are skipped.
func ParseResponse(ticker string, body []byte, freq Frequency) (series.PriceSeries, error) {
	var rows []priceRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return series.PriceSeries{}, fmt.Errorf("failed to parse tiingo response for %s: %w", ticker, err)
	}
	if len(rows) == 0 {
		return series.PriceSeries{}, fmt.Errorf("%w for %s", ErrNoData, ticker)
	}

	dates := make([]string, 0, len(rows))
	prices := make([]float64, 0, len(rows))
	for _, row := range rows {
		price := row.AdjClose
		if freq == Intraday {
			price = row.Close
		}
		if row.Date == nil || price == nil {
			continue
		}
		dates = append(dates, *row.Date)
		prices = append(prices, *price)
	}

	return series.New(ticker, dates, prices)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
