package api

import (
	"net/http"
	"strconv"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/odds"
)

// betslipView is the JSON shape of the current betslip. The parlay price is
// null while the slip holds fewer than two legs.
type betslipView struct {
	Legs   []models.BetslipLeg `json:"legs"`
	Count  int                 `json:"count"`
	Price  *odds.ParlayPrice   `json:"price"`
	Payout *float64            `json:"payout,omitempty"`
}

func (s *Server) betslipView() (*betslipView, error) {
	legs := s.ledger.Legs()
	price, err := odds.PriceParlay(s.ledger.Odds())
	if err != nil {
		return nil, err
	}

	view := &betslipView{
		Legs:  legs,
		Count: len(legs),
		Price: price,
	}
	if price != nil {
		payout := odds.Payout(price.American, odds.DefaultStake)
		view.Payout = &payout
	}
	return view, nil
}

// handleGetBetslip handles GET /api/betslip - The current slip with its price
func (s *Server) handleGetBetslip(w http.ResponseWriter, r *http.Request) {
	view, err := s.betslipView()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

// handleToggleLeg handles POST /api/betslip/toggle - Add or remove a selection
func (s *Server) handleToggleLeg(w http.ResponseWriter, r *http.Request) {
	var leg models.BetslipLeg
	if err := parseJSONBody(r, &leg); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	if leg.GameID == "" || leg.Player == "" || leg.Market == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "gameId, player and market are required", nil)
		return
	}
	if leg.ID == "" {
		leg.ID = models.LegID(leg.GameID, leg.Player, leg.Market, leg.Side, leg.Line)
	}

	added := s.ledger.Toggle(leg)

	view, err := s.betslipView()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"added":   added,
		"legId":   leg.ID,
		"betslip": view,
	})
}

// handleClearBetslip handles DELETE /api/betslip - Remove all selections
func (s *Server) handleClearBetslip(w http.ResponseWriter, r *http.Request) {
	s.ledger.Clear()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"cleared": true,
	})
}

// handleExportBetslip handles GET /api/betslip/export - Plain text share sheet
func (s *Server) handleExportBetslip(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, s.ledger.ExportText())
}

// handlePriceBetslip handles GET /api/betslip/price - Price the current slip
// at an optional ?stake= without submitting it
func (s *Server) handlePriceBetslip(w http.ResponseWriter, r *http.Request) {
	stake := odds.DefaultStake
	if stakeStr := r.URL.Query().Get("stake"); stakeStr != "" {
		parsed, err := strconv.ParseFloat(stakeStr, 64)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "'stake' must be a positive number", nil)
			return
		}
		stake = parsed
	}

	price, err := odds.PriceParlay(s.ledger.Odds())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	response := map[string]interface{}{
		"legs":  s.ledger.Len(),
		"stake": stake,
		"price": price,
	}
	if price != nil {
		response["payout"] = odds.Payout(price.American, stake)
	}

	respondJSON(w, http.StatusOK, response)
}
