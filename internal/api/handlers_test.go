package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

func sampleLegBody(id string) []byte {
	leg := models.BetslipLeg{
		ID:      id,
		GameID:  "game-1",
		Player:  "LeBron James",
		Market:  "pts",
		Side:    types.SideOver,
		Line:    27.5,
		Odds:    -110,
		Matchup: "BOS @ LAL",
	}
	body, _ := json.Marshal(leg)
	return body
}

// TestToggleLeg_AddAndRemove tests the toggle round trip
func TestToggleLeg_AddAndRemove(t *testing.T) {
	server, deps := createTestServer()

	req := httptest.NewRequest("POST", "/api/betslip/toggle", bytes.NewReader(sampleLegBody("leg-1")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var toggleResp struct {
		Added   bool        `json:"added"`
		LegID   string      `json:"legId"`
		Betslip betslipView `json:"betslip"`
	}
	if err := json.NewDecoder(w.Body).Decode(&toggleResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !toggleResp.Added {
		t.Error("Expected leg to be added")
	}
	if toggleResp.Betslip.Count != 1 {
		t.Errorf("Expected 1 leg, got %d", toggleResp.Betslip.Count)
	}
	if toggleResp.Betslip.Price != nil {
		t.Error("Expected no parlay price for a single leg")
	}

	// The same selection toggles back off
	req = httptest.NewRequest("POST", "/api/betslip/toggle", bytes.NewReader(sampleLegBody("leg-1")))
	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if err := json.NewDecoder(w.Body).Decode(&toggleResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if toggleResp.Added {
		t.Error("Expected leg to be removed")
	}
	if deps.ledger.Len() != 0 {
		t.Errorf("Expected empty ledger, got %d legs", deps.ledger.Len())
	}
}

// TestToggleLeg_InvalidJSON tests handling of malformed JSON
func TestToggleLeg_InvalidJSON(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("POST", "/api/betslip/toggle", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

// TestToggleLeg_MissingFields tests rejection of incomplete selections
func TestToggleLeg_MissingFields(t *testing.T) {
	server, _ := createTestServer()

	body, _ := json.Marshal(models.BetslipLeg{ID: "leg-1", Odds: -110})
	req := httptest.NewRequest("POST", "/api/betslip/toggle", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

// TestGetBetslip_TwoLegsPriced tests that a two-leg slip carries a price
func TestGetBetslip_TwoLegsPriced(t *testing.T) {
	server, deps := createTestServer()

	deps.ledger.Toggle(models.BetslipLeg{ID: "a", GameID: "g1", Player: "A", Market: "pts", Odds: -110})
	deps.ledger.Toggle(models.BetslipLeg{ID: "b", GameID: "g1", Player: "B", Market: "reb", Odds: 150})

	req := httptest.NewRequest("GET", "/api/betslip", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var view betslipView
	if err := json.NewDecoder(w.Body).Decode(&view); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if view.Price == nil {
		t.Fatal("Expected a parlay price for two legs")
	}
	if view.Price.American != 377 {
		t.Errorf("Expected +377, got %d", view.Price.American)
	}
	if view.Payout == nil || math.Abs(*view.Payout-47.7) > 0.01 {
		t.Errorf("Expected payout near 47.70, got %v", view.Payout)
	}
}

// TestClearBetslip tests removing all selections
func TestClearBetslip(t *testing.T) {
	server, deps := createTestServer()
	deps.ledger.Toggle(models.BetslipLeg{ID: "a", GameID: "g1", Player: "A", Market: "pts", Odds: -110})

	req := httptest.NewRequest("DELETE", "/api/betslip", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deps.ledger.Len() != 0 {
		t.Errorf("Expected empty ledger, got %d legs", deps.ledger.Len())
	}
}

// TestExportBetslip tests the plain text share endpoint
func TestExportBetslip(t *testing.T) {
	server, deps := createTestServer()
	deps.ledger.Toggle(models.BetslipLeg{
		ID: "a", GameID: "g1", Player: "LeBron James", Market: "pts",
		Side: types.SideOver, Line: 27.5, Odds: -110, Matchup: "BOS @ LAL",
	})

	req := httptest.NewRequest("GET", "/api/betslip/export", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain content type, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "LeBron James") {
		t.Errorf("Expected export to mention the player, got %q", w.Body.String())
	}
}

// TestPriceBetslip tests pricing the slip at a custom stake
func TestPriceBetslip(t *testing.T) {
	server, deps := createTestServer()
	deps.ledger.Toggle(models.BetslipLeg{ID: "a", GameID: "g1", Player: "A", Market: "pts", Odds: -110})
	deps.ledger.Toggle(models.BetslipLeg{ID: "b", GameID: "g1", Player: "B", Market: "reb", Odds: 150})

	req := httptest.NewRequest("GET", "/api/betslip/price?stake=100", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Legs   int                     `json:"legs"`
		Stake  float64                 `json:"stake"`
		Price  *struct{ American int } `json:"price"`
		Payout float64                 `json:"payout"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Price == nil || resp.Price.American != 377 {
		t.Errorf("Expected +377, got %+v", resp.Price)
	}
	if math.Abs(resp.Payout-477.0) > 0.5 {
		t.Errorf("Expected payout near 477, got %v", resp.Payout)
	}
}

// TestPriceBetslip_BadStake tests rejection of a non-positive stake
func TestPriceBetslip_BadStake(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/betslip/price?stake=-5", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

// TestSubmitParlay_FromSlip tests submitting the live betslip
func TestSubmitParlay_FromSlip(t *testing.T) {
	server, deps := createTestServer()
	deps.ledger.Toggle(models.BetslipLeg{ID: "a", GameID: "g1", Player: "A", Market: "pts", Odds: -110})
	deps.ledger.Toggle(models.BetslipLeg{ID: "b", GameID: "g1", Player: "B", Market: "reb", Odds: 150})

	body, _ := json.Marshal(map[string]interface{}{"stake": 25, "clearSlip": true})
	req := httptest.NewRequest("POST", "/api/parlays", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(deps.parlays.submitted) != 1 || len(deps.parlays.submitted[0]) != 2 {
		t.Fatalf("Expected one submission with 2 legs, got %v", deps.parlays.submitted)
	}
	if deps.ledger.Len() != 0 {
		t.Error("Expected slip to be cleared after submission")
	}
}

// TestSubmitParlay_EmptySlip tests submitting with nothing selected
func TestSubmitParlay_EmptySlip(t *testing.T) {
	server, _ := createTestServer()

	body, _ := json.Marshal(map[string]interface{}{})
	req := httptest.NewRequest("POST", "/api/parlays", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

// TestConvertOdds tests the odds conversion endpoint
func TestConvertOdds(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected int
	}{
		{
			name:     "american to decimal",
			query:    "?american=150",
			expected: http.StatusOK,
		},
		{
			name:     "decimal to american",
			query:    "?decimal=2.5",
			expected: http.StatusOK,
		},
		{
			name:     "both params",
			query:    "?american=150&decimal=2.5",
			expected: http.StatusBadRequest,
		},
		{
			name:     "neither param",
			query:    "",
			expected: http.StatusBadRequest,
		},
		{
			name:     "zero american",
			query:    "?american=0",
			expected: http.StatusBadRequest,
		},
		{
			name:     "decimal at one",
			query:    "?decimal=1.0",
			expected: http.StatusBadRequest,
		},
		{
			name:     "non-numeric american",
			query:    "?american=abc",
			expected: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := createTestServer()

			req := httptest.NewRequest("GET", "/api/odds/convert"+tt.query, nil)
			w := httptest.NewRecorder()
			server.router.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("Expected status %d, got %d: %s", tt.expected, w.Code, w.Body.String())
			}
		})
	}
}

// TestConvertOdds_Values tests a known conversion result
func TestConvertOdds_Values(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/odds/convert?american=150", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	var resp struct {
		American int     `json:"american"`
		Decimal  float64 `json:"decimal"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if math.Abs(resp.Decimal-2.5) > 1e-9 {
		t.Errorf("Expected decimal 2.5, got %v", resp.Decimal)
	}
}

// TestPriceParlayEndpoint tests ad hoc parlay pricing
func TestPriceParlayEndpoint(t *testing.T) {
	server, _ := createTestServer()

	body, _ := json.Marshal(map[string]interface{}{"legOdds": []int{-110, 150}})
	req := httptest.NewRequest("POST", "/api/odds/parlay", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Legs   int                     `json:"legs"`
		Price  *struct{ American int } `json:"price"`
		Payout float64                 `json:"payout"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Price == nil || resp.Price.American != 377 {
		t.Errorf("Expected +377, got %+v", resp.Price)
	}
	if math.Abs(resp.Payout-47.7) > 0.01 {
		t.Errorf("Expected payout near 47.70, got %v", resp.Payout)
	}
}

// TestPriceParlayEndpoint_SingleLeg tests that one leg has no parlay price
func TestPriceParlayEndpoint_SingleLeg(t *testing.T) {
	server, _ := createTestServer()

	body, _ := json.Marshal(map[string]interface{}{"legOdds": []int{-110}})
	req := httptest.NewRequest("POST", "/api/odds/parlay", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Price *struct{ American int } `json:"price"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Price != nil {
		t.Errorf("Expected null price, got %+v", resp.Price)
	}
}

// TestFilters_RoundTrip tests saving and loading board filters
func TestFilters_RoundTrip(t *testing.T) {
	server, _ := createTestServer()

	minOdds, maxOdds := -200, 300
	body, _ := json.Marshal(map[string]interface{}{
		"markets":     []string{"pts", "reb"},
		"minOdds":     minOdds,
		"maxOdds":     maxOdds,
		"hideNoPrice": true,
	})

	req := httptest.NewRequest("PUT", "/api/prefs/filters", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	req = httptest.NewRequest("GET", "/api/prefs/filters", nil)
	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	var filters struct {
		Markets     []string `json:"markets"`
		MinOdds     *int     `json:"minOdds"`
		HideNoPrice bool     `json:"hideNoPrice"`
	}
	if err := json.NewDecoder(w.Body).Decode(&filters); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(filters.Markets) != 2 || !filters.HideNoPrice {
		t.Errorf("Unexpected filters: %+v", filters)
	}
	if filters.MinOdds == nil || *filters.MinOdds != -200 {
		t.Errorf("Expected minOdds -200, got %v", filters.MinOdds)
	}
}

// TestFilters_InvalidRange tests rejection of an inverted odds range
func TestFilters_InvalidRange(t *testing.T) {
	server, _ := createTestServer()

	body, _ := json.Marshal(map[string]interface{}{"minOdds": 300, "maxOdds": -200})
	req := httptest.NewRequest("PUT", "/api/prefs/filters", bytes.NewReader(body))
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
