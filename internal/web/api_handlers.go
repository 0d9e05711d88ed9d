package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/evcraddock/listing-explorer/internal/listing"
	"github.com/evcraddock/listing-explorer/internal/report"
)

// apiError writes a JSON error response.
func apiError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	resp := map[string]string{"error": msg}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

// apiJSON writes a JSON response with the given status code.
func apiJSON(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"encode failed"}`, http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	apiJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// handleAPIListings returns the filtered listings and their map points.
func (s *Server) handleAPIListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t, err := s.source.Table()
	if err != nil {
		apiError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	c, err := parseCriteria(r.URL.Query(), listing.NewControls(t).Defaults)
	if err != nil {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	sel, err := report.Select(t, c)
	if errors.Is(err, listing.ErrInvalidCriteria) {
		apiError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		apiError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	apiJSON(w, sel, http.StatusOK)
}

// handleAPISummary returns the full page model.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		apiError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	t, err := s.source.Table()
	if err != nil {
		apiError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	apiJSON(w, report.Build(t), http.StatusOK)
}
