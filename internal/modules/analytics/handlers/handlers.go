// Package handlers provides HTTP handlers for performance analytics.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/internal/analytics"
	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/internal/export"
	"github.com/aristath/perfstats/internal/prices"
	"github.com/aristath/perfstats/pkg/stats"
)

// Handler handles analytics HTTP requests
type Handler struct {
	service  *analytics.Service
	uploader export.Uploader
	log      zerolog.Logger
}

// NewHandler creates a new analytics handler. uploader may be nil, in which
// case upload requests are rejected.
func NewHandler(service *analytics.Service, uploader export.Uploader, log zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		uploader: uploader,
		log:      log.With().Str("handler", "analytics").Logger(),
	}
}

// MatricesRequest is the body of POST /api/analytics/matrices
type MatricesRequest struct {
	Tickers []string        `json:"tickers"`
	Range   analytics.Range `json:"range"`
}

// PortfolioRequest is the body of POST /api/analytics/portfolio
type PortfolioRequest struct {
	Tickers      []string        `json:"tickers"`
	Weights      []float64       `json:"weights"`
	Range        analytics.Range `json:"range"`
	RiskFreeRate float64         `json:"risk_free_rate"`
}

// ExportRequest is the body of POST /api/analytics/export
type ExportRequest struct {
	analytics.ReportRequest
	Format string `json:"format"` // csv (default) or xlsx
	Table  string `json:"table"`  // series (default) or metrics
	Upload bool   `json:"upload"`
}

// HandleGetReport handles GET /api/analytics/report/{ticker}
func (h *Handler) HandleGetReport(w http.ResponseWriter, r *http.Request, ticker string) {
	q := r.URL.Query()
	req := analytics.ReportRequest{
		Ticker:    ticker,
		Benchmark: q.Get("benchmark"),
		Range: analytics.Range{
			Start:     q.Get("start"),
			End:       q.Get("end"),
			Frequency: tiingo.Frequency(q.Get("frequency")),
		},
	}
	if v := q.Get("window"); v != "" {
		if window, err := strconv.Atoi(v); err == nil && window > 0 {
			req.Options.RollingWindow = window
		}
	}
	if v := q.Get("rf"); v != "" {
		rf, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.writeError(w, stats.InvalidArgument("invalid rf %q", v))
			return
		}
		req.Options.RiskFreeRate = rf
	}

	h.report(w, r, req)
}

// HandlePostReport handles POST /api/analytics/report
func (h *Handler) HandlePostReport(w http.ResponseWriter, r *http.Request) {
	var req analytics.ReportRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.report(w, r, req)
}

func (h *Handler) report(w http.ResponseWriter, r *http.Request, req analytics.ReportRequest) {
	report, err := h.service.Report(r.Context(), req)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to build report")
		h.writeError(w, err)
		return
	}
	h.writeData(w, report)
}

// HandleMatrices handles POST /api/analytics/matrices
func (h *Handler) HandleMatrices(w http.ResponseWriter, r *http.Request) {
	var req MatricesRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.service.Matrices(r.Context(), req.Tickers, req.Range)
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", req.Tickers).Msg("Failed to build matrices")
		h.writeError(w, err)
		return
	}
	h.writeData(w, m)
}

// HandlePortfolio handles POST /api/analytics/portfolio
func (h *Handler) HandlePortfolio(w http.ResponseWriter, r *http.Request) {
	var req PortfolioRequest
	if !h.decode(w, r, &req) {
		return
	}

	p, err := h.service.Portfolio(r.Context(), req.Tickers, req.Weights, req.Range, req.RiskFreeRate)
	if err != nil {
		h.log.Error().Err(err).Strs("tickers", req.Tickers).Msg("Failed to build portfolio")
		h.writeError(w, err)
		return
	}
	h.writeData(w, p)
}

// HandleExport handles POST /api/analytics/export. The file is streamed back
// unless upload is set, in which case its storage location is returned.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !h.decode(w, r, &req) {
		return
	}

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		h.writeError(w, stats.InvalidArgument("%v", err))
		return
	}
	if req.Upload && h.uploader == nil {
		h.writeError(w, stats.InvalidArgument("uploads are not configured"))
		return
	}

	report, err := h.service.Report(r.Context(), req.ReportRequest)
	if err != nil {
		h.log.Error().Err(err).Str("ticker", req.Ticker).Msg("Failed to build report for export")
		h.writeError(w, err)
		return
	}

	var headers []string
	var columns [][]float64
	switch req.Table {
	case "", "series":
		headers, columns = analytics.SeriesColumns(report)
	case "metrics":
		headers, columns = analytics.MetricColumns(report)
	default:
		h.writeError(w, stats.InvalidArgument("unknown table %q", req.Table))
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, format, headers, columns); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode export")
		h.writeError(w, err)
		return
	}

	name := format.FileName(fmt.Sprintf("%s-%s", report.Ticker, report.ID))
	if req.Upload {
		location, err := h.uploader.Upload(r.Context(), name, format.ContentType(), &buf)
		if err != nil {
			h.log.Error().Err(err).Str("file", name).Msg("Failed to upload export")
			h.writeError(w, err)
			return
		}
		h.writeData(w, map[string]interface{}{
			"file":     name,
			"location": location,
		})
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.log.Error().Err(err).Msg("Failed to write export")
	}
}

// StatusFor maps service errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case errors.Is(err, stats.ErrInvalidArgument),
		errors.Is(err, stats.ErrDomain),
		errors.Is(err, tiingo.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, tiingo.ErrNoData),
		errors.Is(err, prices.ErrOfflineMiss):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeError(w, stats.InvalidArgument("invalid request body: %v", err))
		return false
	}
	return true
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	h.writeJSON(w, StatusFor(err), map[string]interface{}{
		"error": err.Error(),
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
