package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/betslip"
	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/service"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/storage"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// mockBoardService returns a canned board for known games
type mockBoardService struct {
	boards map[string]*service.GameBoard
}

func (m *mockBoardService) Board(_ context.Context, gameID string, _ service.QuarterAverages) (*service.GameBoard, error) {
	board, ok := m.boards[gameID]
	if !ok {
		return nil, apperrors.NewGameNotFoundError(gameID)
	}
	return board, nil
}

// mockParlayService stores parlays in memory and records submissions
type mockParlayService struct {
	parlays   map[string]*models.TrackedParlaySnapshot
	submitted [][]models.BetslipLeg
}

func newMockParlayService() *mockParlayService {
	return &mockParlayService{parlays: make(map[string]*models.TrackedParlaySnapshot)}
}

func (m *mockParlayService) Submit(_ context.Context, legs []models.BetslipLeg, source string, stake float64) (*models.TrackedParlaySnapshot, error) {
	if len(legs) == 0 {
		return nil, apperrors.NewEmptyParlayError()
	}
	m.submitted = append(m.submitted, legs)

	tracked := make([]models.TrackedLeg, len(legs))
	for i, leg := range legs {
		tracked[i] = models.TrackedLeg{LegID: leg.ID, GameID: leg.GameID, Odds: leg.Odds}
	}
	parlay := &models.TrackedParlaySnapshot{
		ParlayID:  "parlay-1",
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Stake:     stake,
		Legs:      tracked,
	}
	m.parlays[parlay.ParlayID] = parlay
	return parlay, nil
}

func (m *mockParlayService) Get(_ context.Context, parlayID string) (*models.TrackedParlaySnapshot, error) {
	parlay, ok := m.parlays[parlayID]
	if !ok {
		return nil, apperrors.NewParlayNotFoundError(parlayID)
	}
	return parlay, nil
}

func (m *mockParlayService) List(_ context.Context, limit, offset int) ([]*models.TrackedParlaySnapshot, error) {
	out := make([]*models.TrackedParlaySnapshot, 0, len(m.parlays))
	for _, p := range m.parlays {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockParlayService) Progress(_ context.Context, parlayID string) (*models.ParlayProgress, error) {
	parlay, ok := m.parlays[parlayID]
	if !ok {
		return nil, apperrors.NewParlayNotFoundError(parlayID)
	}
	return &models.ParlayProgress{Parlay: *parlay, Status: types.ParlaySweating}, nil
}

// mockGameController tracks activation without starting any pollers
type mockGameController struct {
	mu     sync.Mutex
	active map[string]bool
}

func newMockGameController() *mockGameController {
	return &mockGameController{active: make(map[string]bool)}
}

func (m *mockGameController) Activate(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active[gameID] = true
}

func (m *mockGameController) Deactivate(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.active, gameID)
}

func (m *mockGameController) ActiveGames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	games := make([]string, 0, len(m.active))
	for gameID := range m.active {
		games = append(games, gameID)
	}
	sort.Strings(games)
	return games
}

func (m *mockGameController) IsActive(gameID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active[gameID]
}

// mockScores serves score snapshots from a map
type mockScores struct {
	scores map[string]models.GameSnapshot
}

func (m *mockScores) Score(gameID string) (models.GameSnapshot, bool) {
	score, ok := m.scores[gameID]
	return score, ok
}

// mockScoreboard serves a canned provider slate
type mockScoreboard struct {
	games []models.GameSnapshot
}

func (m *mockScoreboard) FetchScoreboard(_ context.Context) ([]models.GameSnapshot, error) {
	return m.games, nil
}

// mockFiltersStore keeps the board filters in memory
type mockFiltersStore struct {
	filters storage.BoardFilters
}

func (m *mockFiltersStore) SaveFilters(_ context.Context, filters storage.BoardFilters) error {
	m.filters = filters
	return nil
}

func (m *mockFiltersStore) LoadFilters(_ context.Context) (storage.BoardFilters, error) {
	return m.filters, nil
}

type testServerDeps struct {
	board   *mockBoardService
	parlays *mockParlayService
	games   *mockGameController
	scores  *mockScores
	ledger  *betslip.Ledger
	filters *mockFiltersStore
}

func createTestServer() (*Server, *testServerDeps) {
	config := &ServerConfig{
		Host:         "localhost",
		Port:         "8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ClientRPS:    1000,
		ClientBurst:  1000,
	}

	deps := &testServerDeps{
		board:   &mockBoardService{boards: make(map[string]*service.GameBoard)},
		parlays: newMockParlayService(),
		games:   newMockGameController(),
		scores:  &mockScores{scores: make(map[string]models.GameSnapshot)},
		ledger:  betslip.NewLedger(nil, logging.NewLogger(logging.LevelError, logging.FormatText)),
		filters: &mockFiltersStore{},
	}

	server := &Server{
		router:        mux.NewRouter(),
		boardService:  deps.board,
		parlayService: deps.parlays,
		games:         deps.games,
		scores:        deps.scores,
		ledger:        deps.ledger,
		filters:       deps.filters,
		config:        config,
		logger:        logging.NewLogger(logging.LevelError, logging.FormatText),
	}
	server.setupRouter()
	return server, deps
}

// TestHealthEndpoint tests the health check endpoint
func TestHealthEndpoint(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", response["status"])
	}
}

// TestActivateAndListGames tests the game activation lifecycle
func TestActivateAndListGames(t *testing.T) {
	server, deps := createTestServer()

	home, away := 10, 12
	deps.scores.scores["game-1"] = models.GameSnapshot{
		GameID:    "game-1",
		Home:      models.TeamSide{Abbr: "LAL", Score: &home},
		Away:      models.TeamSide{Abbr: "BOS", Score: &away},
		Period:    "Q1",
		Clock:     "4:10",
		GameState: types.GameStateInProgress,
	}

	req := httptest.NewRequest("POST", "/api/games/game-1/activate", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !deps.games.IsActive("game-1") {
		t.Error("Expected game-1 to be active")
	}

	req = httptest.NewRequest("GET", "/api/games", nil)
	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	var listResp struct {
		Games []activeGameEntry `json:"games"`
		Count int               `json:"count"`
	}
	if err := json.NewDecoder(w.Body).Decode(&listResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if listResp.Count != 1 {
		t.Fatalf("Expected 1 active game, got %d", listResp.Count)
	}
	if listResp.Games[0].Matchup != "BOS @ LAL" {
		t.Errorf("Expected matchup 'BOS @ LAL', got '%s'", listResp.Games[0].Matchup)
	}
}

// TestDeactivateGame tests stopping a game's polling
func TestDeactivateGame(t *testing.T) {
	server, deps := createTestServer()
	deps.games.Activate("game-1")

	req := httptest.NewRequest("DELETE", "/api/games/game-1", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if deps.games.IsActive("game-1") {
		t.Error("Expected game-1 to be inactive")
	}
}

// TestDeactivateGame_NotActive tests deactivating an inactive game
func TestDeactivateGame_NotActive(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("DELETE", "/api/games/game-9", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// TestGameBoard_Success tests fetching an assembled board
func TestGameBoard_Success(t *testing.T) {
	server, deps := createTestServer()
	deps.board.boards["game-1"] = &service.GameBoard{Matchup: "BOS @ LAL"}

	req := httptest.NewRequest("GET", "/api/games/game-1/board", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var board service.GameBoard
	if err := json.NewDecoder(w.Body).Decode(&board); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if board.Matchup != "BOS @ LAL" {
		t.Errorf("Expected matchup 'BOS @ LAL', got '%s'", board.Matchup)
	}
}

// TestGameBoard_NotFound tests the board for an unknown game
func TestGameBoard_NotFound(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/games/missing/board", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if errResp.Error.Code != "GAME_NOT_FOUND" {
		t.Errorf("Expected code GAME_NOT_FOUND, got %s", errResp.Error.Code)
	}
}

// TestScoreboard_Unavailable tests the scoreboard with no feed wired
func TestScoreboard_Unavailable(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/scoreboard", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

// TestScoreboard_AnnotatesActiveGames tests the provider slate view
func TestScoreboard_AnnotatesActiveGames(t *testing.T) {
	server, deps := createTestServer()
	server.scoreboard = &mockScoreboard{games: []models.GameSnapshot{
		{GameID: "game-1", Home: models.TeamSide{Abbr: "LAL"}, Away: models.TeamSide{Abbr: "BOS"}, GameState: types.GameStateScheduled},
		{GameID: "game-2", Home: models.TeamSide{Abbr: "DEN"}, Away: models.TeamSide{Abbr: "MIA"}, GameState: types.GameStateInProgress},
	}}
	deps.games.Activate("game-2")

	req := httptest.NewRequest("GET", "/api/scoreboard", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp struct {
		Games []struct {
			GameID  string `json:"gameId"`
			Matchup string `json:"matchup"`
			Active  bool   `json:"active"`
		} `json:"games"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.Games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(resp.Games))
	}
	if resp.Games[0].Active || !resp.Games[1].Active {
		t.Errorf("Expected only game-2 active, got %+v", resp.Games)
	}
	if resp.Games[1].Matchup != "MIA @ DEN" {
		t.Errorf("Expected matchup 'MIA @ DEN', got '%s'", resp.Games[1].Matchup)
	}
}

// TestGetParlay_NotFound tests fetching an unknown parlay
func TestGetParlay_NotFound(t *testing.T) {
	server, _ := createTestServer()

	req := httptest.NewRequest("GET", "/api/parlays/nope", nil)
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
