package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aristath/perfstats/internal/analytics"
	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/internal/di"
	"github.com/aristath/perfstats/internal/export"
	"github.com/aristath/perfstats/internal/utils"
	"github.com/aristath/perfstats/pkg/stats/series"
)

func rangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Bool("intraday", false, "use 5-minute intraday prices")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func readRange(cmd *cobra.Command) analytics.Range {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	intraday, _ := cmd.Flags().GetBool("intraday")

	freq := tiingo.Daily
	if intraday {
		freq = tiingo.Intraday
	}
	return analytics.Range{Start: start, End: end, Frequency: freq}
}

// --- Report Command ---

var reportCmd = &cobra.Command{
	Use:   "report [ticker]",
	Short: "Compute the full metric panel for a ticker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		benchmark, _ := cmd.Flags().GetString("benchmark")
		window, _ := cmd.Flags().GetInt("window")
		rf, _ := cmd.Flags().GetFloat64("rf")
		asJSON, _ := cmd.Flags().GetBool("json")
		out, _ := cmd.Flags().GetString("export")
		table, _ := cmd.Flags().GetString("table")

		req := analytics.ReportRequest{
			Ticker:    args[0],
			Benchmark: benchmark,
			Range:     readRange(cmd),
			Options:   analytics.Options{RollingWindow: window, RiskFreeRate: rf},
		}

		return withContainer(cmd.Context(), func(c *di.Container) error {
			report, err := c.AnalyticsService.Report(cmd.Context(), req)
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeExport(out, table, report); err != nil {
					return err
				}
				log.Info().Str("file", out).Msg("Report exported")
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(os.Stdout, report)
		})
	},
}

func init() {
	rangeFlags(reportCmd)
	reportCmd.Flags().String("benchmark", "", "benchmark ticker for beta, alpha and capture ratios")
	reportCmd.Flags().Int("window", 0, "rolling window (default from ROLLING_WINDOW)")
	reportCmd.Flags().Float64("rf", 0, "per-period risk-free rate")
	reportCmd.Flags().Bool("json", false, "print the report as JSON")
	reportCmd.Flags().String("export", "", "write the report to a .csv or .xlsx file")
	reportCmd.Flags().String("table", "series", "table to export: series or metrics")
}

func writeExport(path, table string, report *analytics.Report) error {
	var headers []string
	var columns [][]float64
	switch table {
	case "", "series":
		headers, columns = analytics.SeriesColumns(report)
	case "metrics":
		headers, columns = analytics.MetricColumns(report)
	default:
		return fmt.Errorf("unknown table %q", table)
	}

	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return export.WriteXLSX(path, headers, columns)
	}
	return export.WriteCSV(path, headers, columns)
}

// --- Matrix Command ---

var matrixCmd = &cobra.Command{
	Use:   "matrix [tickers]",
	Short: "Print the price table and the covariance and correlation matrices",
	Long:  "Tickers are comma separated, e.g. perfstats matrix SPY,QQQ,TLT --start 2024-01-01 --end 2024-12-31",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickers := utils.ParseTickers(args[0])
		if len(tickers) == 0 {
			return fmt.Errorf("no tickers given")
		}
		showPrices, _ := cmd.Flags().GetBool("prices")
		rng := readRange(cmd)

		return withContainer(cmd.Context(), func(c *di.Container) error {
			if showPrices {
				fetched, failures := c.PriceService.FetchMany(cmd.Context(), tickers, rng.Start, rng.End, rng.Frequency)
				for t, err := range failures {
					log.Warn().Err(err).Str("ticker", t).Msg("Skipping ticker")
				}
				assets := make([]series.PriceSeries, 0, len(tickers))
				for _, t := range tickers {
					if ps, ok := fetched[t]; ok {
						assets = append(assets, ps)
					}
				}
				printPriceTable(os.Stdout, assets)
				fmt.Println()
			}

			m, err := c.AnalyticsService.Matrices(cmd.Context(), tickers, rng)
			if err != nil {
				return err
			}
			for _, w := range m.Warnings {
				log.Warn().Msg(w)
			}

			fmt.Println("Covariance")
			printMatrix(os.Stdout, m.Tickers, m.Covariance)
			fmt.Println()
			fmt.Println("Correlation")
			printMatrix(os.Stdout, m.Tickers, m.Correlation)
			return nil
		})
	},
}

func init() {
	rangeFlags(matrixCmd)
	matrixCmd.Flags().Bool("prices", false, "also print the date by ticker price table")
}

// --- Portfolio Command ---

var portfolioCmd = &cobra.Command{
	Use:   "portfolio [tickers] [weights]",
	Short: "Expected return, variance and Sharpe ratio of a weighted basket",
	Long:  "Tickers and weights are comma separated and matched by position, e.g. perfstats portfolio SPY,TLT 0.6,0.4",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tickers := strings.Split(args[0], ",")
		weights, err := parseWeights(args[1])
		if err != nil {
			return err
		}
		rf, _ := cmd.Flags().GetFloat64("rf")

		return withContainer(cmd.Context(), func(c *di.Container) error {
			p, err := c.AnalyticsService.Portfolio(cmd.Context(), tickers, weights, readRange(cmd), rf)
			if err != nil {
				return err
			}
			return printPortfolio(os.Stdout, p)
		})
	},
}

func init() {
	rangeFlags(portfolioCmd)
	portfolioCmd.Flags().Float64("rf", 0, "per-period risk-free rate")
}

func parseWeights(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	weights := make([]float64, len(parts))
	for i, p := range parts {
		w, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weight %q: %w", p, err)
		}
		weights[i] = w
	}
	return weights, nil
}
