package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all analytics routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/analytics", func(r chi.Router) {
		r.Get("/report/{ticker}", func(w http.ResponseWriter, r *http.Request) {
			ticker := chi.URLParam(r, "ticker")
			h.HandleGetReport(w, r, ticker)
		})
		r.Post("/report", h.HandlePostReport)
		r.Post("/matrices", h.HandleMatrices)
		r.Post("/portfolio", h.HandlePortfolio)
		r.Post("/export", h.HandleExport)
	})
}
