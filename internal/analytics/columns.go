package analytics

// SeriesColumns lays the report series out as export columns. Columns start
// at their first value and are not shifted to line up by date.
func SeriesColumns(r *Report) ([]string, [][]float64) {
	headers := []string{"price", "return", "cumulative", "rolling_volatility", "rolling_sharpe", "rolling_sortino", "sma", "ema"}
	columns := [][]float64{
		r.Series.Prices.Floats(),
		r.Series.Returns.Floats(),
		r.Series.Cumulative.Floats(),
		r.Series.RollingVolatility.Floats(),
		r.Series.RollingSharpe.Floats(),
		r.Series.RollingSortino.Floats(),
		r.Series.SMA.Floats(),
		r.Series.EMA.Floats(),
	}
	return headers, columns
}

// MetricColumns renders the scalar metrics as a one-row table in display
// order. Omitted metrics are skipped.
func MetricColumns(r *Report) ([]string, [][]float64) {
	var (
		headers []string
		columns [][]float64
	)
	for _, name := range MetricOrder {
		v, ok := r.Metrics[name]
		if !ok {
			continue
		}
		headers = append(headers, name)
		columns = append(columns, []float64{v.Float()})
	}
	return headers, columns
}

// MatrixColumns renders a square matrix with one column per ticker.
func MatrixColumns(tickers []string, m [][]float64) ([]string, [][]float64) {
	headers := append([]string(nil), tickers...)
	columns := make([][]float64, len(tickers))
	for j := range tickers {
		col := make([]float64, len(m))
		for i := range m {
			if j < len(m[i]) {
				col[i] = m[i][j]
			}
		}
		columns[j] = col
	}
	return headers, columns
}
