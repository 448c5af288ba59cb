package server

import (
	"net/http"
)

// Version is set at build time
var Version = "dev"

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": Version,
		"service": "perfstats",
	}

	writeJSON(s.log, w, http.StatusOK, response)
}
