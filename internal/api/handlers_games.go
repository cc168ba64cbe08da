package api

import (
	"net/http"
	"sort"

	"github.com/gorilla/mux"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
)

// activeGameEntry is one row of the active games list. Score fields are
// absent until the first score poll for the game lands.
type activeGameEntry struct {
	GameID  string           `json:"gameId"`
	Matchup string           `json:"matchup,omitempty"`
	Home    *models.TeamSide `json:"home,omitempty"`
	Away    *models.TeamSide `json:"away,omitempty"`
	Period  string           `json:"period,omitempty"`
	Clock   string           `json:"clock,omitempty"`
	State   string           `json:"state,omitempty"`
}

// handleScoreboard handles GET /api/scoreboard - The provider's current
// slate of games, annotated with which ones are actively polled
func (s *Server) handleScoreboard(w http.ResponseWriter, r *http.Request) {
	if s.scoreboard == nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Scoreboard feed unavailable", nil)
		return
	}

	games, err := s.scoreboard.FetchScoreboard(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	type scoreboardEntry struct {
		models.GameSnapshot
		Matchup string `json:"matchup"`
		Active  bool   `json:"active"`
	}
	entries := make([]scoreboardEntry, 0, len(games))
	for _, game := range games {
		entries = append(entries, scoreboardEntry{
			GameSnapshot: game,
			Matchup:      game.Matchup(),
			Active:       s.games.IsActive(game.GameID),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": entries,
		"count": len(entries),
	})
}

// handleListGames handles GET /api/games - List actively polled games
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	gameIDs := s.games.ActiveGames()
	sort.Strings(gameIDs)

	entries := make([]activeGameEntry, 0, len(gameIDs))
	for _, gameID := range gameIDs {
		entry := activeGameEntry{GameID: gameID}
		if score, ok := s.scores.Score(gameID); ok {
			entry.Matchup = score.Matchup()
			entry.Home = &score.Home
			entry.Away = &score.Away
			entry.Period = score.Period
			entry.Clock = score.Clock
			entry.State = string(score.GameState)
		}
		entries = append(entries, entry)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"games": entries,
		"count": len(entries),
	})
}

// handleActivateGame handles POST /api/games/:id/activate - Start polling a game
func (s *Server) handleActivateGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if gameID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Game ID required", nil)
		return
	}

	s.games.Activate(gameID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"gameId": gameID,
		"active": true,
	})
}

// handleDeactivateGame handles DELETE /api/games/:id - Stop polling a game
func (s *Server) handleDeactivateGame(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if gameID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Game ID required", nil)
		return
	}

	if !s.games.IsActive(gameID) {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, "Game is not active", nil)
		return
	}

	s.games.Deactivate(gameID)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"gameId": gameID,
		"active": false,
	})
}

// handleGameBoard handles GET /api/games/:id/board - The assembled live board
func (s *Server) handleGameBoard(w http.ResponseWriter, r *http.Request) {
	gameID := mux.Vars(r)["id"]
	if gameID == "" {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Game ID required", nil)
		return
	}

	board, err := s.boardService.Board(r.Context(), gameID, s.averages)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}
