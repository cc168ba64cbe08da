// Package service composes the engine, store and storage layers into the
// operations the API exposes.
package service

import (
	"context"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/config"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/engine"
	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// GameStateReader is the slice of the game state store the board needs
type GameStateReader interface {
	Score(gameID string) (models.GameSnapshot, bool)
	Odds(gameID string) ([]models.OddsBoardEntry, bool)
	BoxScore(gameID string) ([]models.PlayerBoxScoreStat, bool)
	PropMarkets(gameID string) []models.PropMarketSnapshot
	HasGame(gameID string) bool
}

// BoardService assembles the live board view for a game: score, odds,
// matched players with their markets, milestones and pace projections.
type BoardService struct {
	store GameStateReader
	cfg   config.EngineConfig
}

// NewBoardService creates a new board service
func NewBoardService(store GameStateReader, cfg config.EngineConfig) *BoardService {
	return &BoardService{store: store, cfg: cfg}
}

// PlayerBoardEntry is one matched player's row on the board
type PlayerBoardEntry struct {
	PlayerID *int64              `json:"playerId,omitempty"`
	Name     string              `json:"name"`
	Team     string              `json:"team"`
	Matched  types.MatchMethod   `json:"matched"`
	Minutes  string              `json:"minutes,omitempty"`
	Markets  []PlayerMarketEntry `json:"markets"`
}

// PlayerMarketEntry is one market on a player's board row
type PlayerMarketEntry struct {
	View      engine.MarketView           `json:"view"`
	Pace      *engine.PaceProjection      `json:"pace,omitempty"`
	Remaining *engine.RemainingProjection `json:"remaining,omitempty"`
}

// GameBoard is the full live view of one game
type GameBoard struct {
	Game      models.GameSnapshot     `json:"game"`
	Matchup   string                  `json:"matchup"`
	ScoreLine string                  `json:"scoreLine"`
	Odds      []models.OddsBoardEntry `json:"odds"`
	Players   []PlayerBoardEntry      `json:"players"`
	Unmatched int                     `json:"unmatchedMarkets"`
}

// QuarterAverages looks up a player's historical per-quarter averages for
// the remaining-game projection. A lookup returning false leaves that
// projection off the entry.
type QuarterAverages interface {
	QuarterAverages(ctx context.Context, playerName, market string) (avgQ3, avgQ4 float64, ok bool)
}

// Board assembles the live board for one game
func (s *BoardService) Board(ctx context.Context, gameID string, averages QuarterAverages) (*GameBoard, error) {
	if !s.store.HasGame(gameID) {
		return nil, apperrors.NewGameNotFoundError(gameID)
	}

	score, _ := s.store.Score(gameID)
	odds, _ := s.store.Odds(gameID)
	players, _ := s.store.BoxScore(gameID)
	markets := s.store.PropMarkets(gameID)

	matched, unmatched := engine.MatchPlayers(players, markets)

	board := &GameBoard{
		Game:      score,
		Matchup:   score.Matchup(),
		ScoreLine: score.ScoreLine(),
		Odds:      odds,
		Players:   make([]PlayerBoardEntry, 0, len(matched)),
		Unmatched: len(unmatched),
	}

	for _, m := range matched {
		entry := PlayerBoardEntry{
			PlayerID: m.Player.PlayerID,
			Name:     m.Player.Name,
			Team:     m.Player.Team,
			Matched:  m.Method,
			Minutes:  m.Player.Minutes,
			Markets:  make([]PlayerMarketEntry, 0, len(m.Markets)),
		}

		for _, market := range m.Markets {
			current := m.Player.Stat(market.MarketKey)
			marketEntry := PlayerMarketEntry{
				View: engine.SelectMilestones(market, current, s.cfg.MaxMilestones),
				Pace: engine.ProjectPace(score.Period, score.Clock, score.GameState, current),
			}

			if main := marketEntry.View.MainLine; averages != nil && main != nil {
				if avgQ3, avgQ4, found := averages.QuarterAverages(ctx, m.Player.Name, market.MarketKey); found {
					marketEntry.Remaining = engine.ProjectRemaining(
						score.Period, score.GameState, current, avgQ3, avgQ4, main.Line,
					)
				}
			}

			entry.Markets = append(entry.Markets, marketEntry)
		}

		board.Players = append(board.Players, entry)
	}

	return board, nil
}
