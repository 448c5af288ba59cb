package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/aristath/perfstats/internal/analytics"
	"github.com/aristath/perfstats/internal/export"
	"github.com/aristath/perfstats/pkg/stats/series"
)

const (
	dateColumnWidth  = 12
	priceColumnWidth = 10
)

// printPriceTable prints one row per date seen in any series and one column
// per ticker. Missing prices are shown as N/A.
func printPriceTable(w io.Writer, assets []series.PriceSeries) {
	byTicker := make([]map[string]float64, len(assets))
	seen := make(map[string]struct{})
	for i, a := range assets {
		byTicker[i] = make(map[string]float64, a.Len())
		for j, d := range a.Dates() {
			byTicker[i][d] = a.PriceAt(j)
			seen[d] = struct{}{}
		}
	}

	dates := make([]string, 0, len(seen))
	for d := range seen {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	fmt.Fprintf(w, "%-*s", dateColumnWidth, "Date")
	for _, a := range assets {
		fmt.Fprintf(w, "%*s", priceColumnWidth, a.Ticker())
	}
	fmt.Fprintln(w)

	for _, d := range dates {
		fmt.Fprintf(w, "%-*s", dateColumnWidth, d)
		for i := range assets {
			if p, ok := byTicker[i][d]; ok {
				fmt.Fprintf(w, "%*.2f", priceColumnWidth, p)
			} else {
				fmt.Fprintf(w, "%*s", priceColumnWidth, "N/A")
			}
		}
		fmt.Fprintln(w)
	}
}

func printMatrix(w io.Writer, tickers []string, m [][]float64) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(tickers, "\t"))
	for i, row := range m {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprintf("%.6f", v)
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", tickers[i], strings.Join(cells, "\t"))
	}
	tw.Flush()
}

func printReport(w io.Writer, r *analytics.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	title := r.Ticker
	if r.Benchmark != "" {
		title += " vs " + r.Benchmark
	}
	fmt.Fprintf(tw, "%s\t%s .. %s (%d points)\n", title, r.Start, r.End, r.Points)
	for _, name := range analytics.MetricOrder {
		if v, ok := r.Metrics[name]; ok {
			fmt.Fprintf(tw, "%s\t%s\n", name, export.FormatValue(v.Float()))
		}
	}
	for _, warning := range r.Warnings {
		fmt.Fprintf(tw, "warning\t%s\n", warning)
	}
	return tw.Flush()
}

func printPortfolio(w io.Writer, p *analytics.Portfolio) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ticker\tweight\tmean_return")
	for i, t := range p.Tickers {
		fmt.Fprintf(tw, "%s\t%g\t%s\n", t, p.Weights[i], export.FormatValue(p.MeanReturns[i]))
	}
	fmt.Fprintf(tw, "expected_return\t\t%s\n", export.FormatValue(p.ExpectedReturn))
	fmt.Fprintf(tw, "variance\t\t%s\n", export.FormatValue(p.Variance))
	fmt.Fprintf(tw, "volatility\t\t%s\n", export.FormatValue(p.Volatility.Float()))
	fmt.Fprintf(tw, "sharpe\t\t%s\n", export.FormatValue(p.Sharpe.Float()))
	return tw.Flush()
}
