package api

import (
	"net/http"
	"strconv"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/odds"
)

// handleConvertOdds handles GET /api/odds/convert - Convert between American
// and decimal odds. Exactly one of ?american= or ?decimal= must be given.
func (s *Server) handleConvertOdds(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	americanStr := query.Get("american")
	decimalStr := query.Get("decimal")

	if (americanStr == "") == (decimalStr == "") {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Provide exactly one of 'american' or 'decimal'", nil)
		return
	}

	if americanStr != "" {
		american, err := strconv.Atoi(americanStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "'american' must be an integer", nil)
			return
		}
		decimal, err := odds.ToDecimal(american)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"american": american,
			"decimal":  decimal,
		})
		return
	}

	decimal, err := strconv.ParseFloat(decimalStr, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "'decimal' must be a number", nil)
		return
	}
	american, err := odds.ToAmerican(decimal)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"american": american,
		"decimal":  decimal,
	})
}

// handlePriceParlay handles POST /api/odds/parlay - Price a set of leg odds
// without submitting anything. Fewer than two legs prices as null.
func (s *Server) handlePriceParlay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LegOdds []int    `json:"legOdds"`
		Stake   *float64 `json:"stake,omitempty"`
	}

	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	price, err := odds.PriceParlay(req.LegOdds)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"legs":  len(req.LegOdds),
		"price": price,
	}
	if price != nil {
		stake := odds.DefaultStake
		if req.Stake != nil && *req.Stake > 0 {
			stake = *req.Stake
		}
		response["stake"] = stake
		response["payout"] = odds.Payout(price.American, stake)
	}

	respondJSON(w, http.StatusOK, response)
}
