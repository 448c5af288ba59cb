package testing

import (
	"time"

	"github.com/aristath/perfstats/pkg/stats/series"
)

// TradingDates returns n consecutive calendar dates starting 2024-01-02
func TradingDates(n int) []string {
	dates := make([]string, n)
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates
}

// NewSeriesFixture builds a dated series from prices
func NewSeriesFixture(ticker string, prices ...float64) series.PriceSeries {
	ps, err := series.New(ticker, TradingDates(len(prices)), prices)
	if err != nil {
		panic(err)
	}
	return ps
}
