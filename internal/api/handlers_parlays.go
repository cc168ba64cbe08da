package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
)

// handleSubmitParlay handles POST /api/parlays - Freeze the betslip into a
// tracked parlay. Explicit legs in the body override the live slip.
func (s *Server) handleSubmitParlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Legs      []models.BetslipLeg `json:"legs,omitempty"`
		Source    string              `json:"source,omitempty"`
		Stake     float64             `json:"stake,omitempty"`
		ClearSlip bool                `json:"clearSlip,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	legs := req.Legs
	if len(legs) == 0 {
		legs = s.ledger.Legs()
	}

	parlay, err := s.parlayService.Submit(r.Context(), legs, req.Source, req.Stake)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if req.ClearSlip {
		s.ledger.Clear()
	}

	respondJSON(w, http.StatusCreated, parlay)
}

// handleListParlays handles GET /api/parlays - Tracked parlays, newest first
func (s *Server) handleListParlays(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 50
	if limitStr := query.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	offset := 0
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	parlays, err := s.parlayService.List(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"parlays": parlays,
		"count":   len(parlays),
		"limit":   limit,
		"offset":  offset,
	})
}

// handleGetParlay handles GET /api/parlays/:id - One tracked parlay snapshot
func (s *Server) handleGetParlay(w http.ResponseWriter, r *http.Request) {
	parlayID := mux.Vars(r)["id"]
	if parlayID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Parlay ID required", nil)
		return
	}

	parlay, err := s.parlayService.Get(r.Context(), parlayID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, parlay)
}

// handleParlayProgress handles GET /api/parlays/:id/progress - Live leg states
func (s *Server) handleParlayProgress(w http.ResponseWriter, r *http.Request) {
	parlayID := mux.Vars(r)["id"]
	if parlayID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Parlay ID required", nil)
		return
	}

	progress, err := s.parlayService.Progress(r.Context(), parlayID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, progress)
}
