package api

import (
	"net/http"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/storage"
)

// handleGetFilters handles GET /api/prefs/filters - The saved board filters
func (s *Server) handleGetFilters(w http.ResponseWriter, r *http.Request) {
	if s.filters == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Preference store unavailable", nil)
		return
	}

	filters, err := s.filters.LoadFilters(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, filters)
}

// handlePutFilters handles PUT /api/prefs/filters - Replace the board filters
func (s *Server) handlePutFilters(w http.ResponseWriter, r *http.Request) {
	if s.filters == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Preference store unavailable", nil)
		return
	}

	var filters storage.BoardFilters
	if err := parseJSONBody(r, &filters); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if filters.MinOdds != nil && filters.MaxOdds != nil && *filters.MinOdds > *filters.MaxOdds {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "minOdds must not exceed maxOdds", nil)
		return
	}

	if err := s.filters.SaveFilters(r.Context(), filters); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, filters)
}
