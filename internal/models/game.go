// Package models provides domain models for the prop analyzer system.
package models

import (
	"fmt"
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// TeamSide holds one side of a game's scoreboard.
// Score is nil when the feed omitted it; render as an em dash.
type TeamSide struct {
	Abbr  string `json:"abbr"`
	Score *int   `json:"score,omitempty"`
}

// GameSnapshot is one arrival of the live score feed for a game.
// It is immutable once ingested and superseded wholesale by newer arrivals.
type GameSnapshot struct {
	GameID    string          `json:"gameId"`
	Home      TeamSide        `json:"home"`
	Away      TeamSide        `json:"away"`
	Period    string          `json:"period"` // "Q1".."Q4", "OT", or raw feed value
	Clock     string          `json:"clock"`  // "MM:SS" remaining in the period
	GameState types.GameState `json:"gameState"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// IsFinal reports whether the game has been reported final
func (g *GameSnapshot) IsFinal() bool {
	return g.GameState == types.GameStateFinal
}

// Matchup returns the display label for the game, e.g. "BOS @ LAL"
func (g *GameSnapshot) Matchup() string {
	return fmt.Sprintf("%s @ %s", g.Away.Abbr, g.Home.Abbr)
}

// ScoreLine renders the live score for display, e.g. "BOS 64 @ LAL 68".
// Missing scores render as the unknown placeholder.
func (g *GameSnapshot) ScoreLine() string {
	return fmt.Sprintf("%s %s @ %s %s",
		g.Away.Abbr, FormatScore(g.Away.Score),
		g.Home.Abbr, FormatScore(g.Home.Score))
}

// OddsBoardEntry is one book's row of live game odds.
// All numeric fields are nullable: a book can publish a partial row and the
// missing fields are shown as unknown rather than dropping the row.
type OddsBoardEntry struct {
	Book           string   `json:"book"`
	SpreadHome     *float64 `json:"spread_home,omitempty"`
	SpreadHomeOdds *int     `json:"spread_home_odds,omitempty"`
	SpreadAway     *float64 `json:"spread_away,omitempty"`
	SpreadAwayOdds *int     `json:"spread_away_odds,omitempty"`
	Total          *float64 `json:"total,omitempty"`
	OverOdds       *int     `json:"over,omitempty"`
	UnderOdds      *int     `json:"under,omitempty"`
}

// TotalLabel renders the book's total market, e.g. "O/U 224.5 -110/-110".
// A partial row keeps its shape with placeholders for the missing fields.
func (e *OddsBoardEntry) TotalLabel() string {
	return fmt.Sprintf("O/U %s %s/%s", FormatLine(e.Total), FormatOdds(e.OverOdds), FormatOdds(e.UnderOdds))
}

// UnknownField is the placeholder rendered for a missing numeric field
const UnknownField = "—"

// FormatOdds renders American odds with an explicit sign, or the unknown
// placeholder when nil.
func FormatOdds(odds *int) string {
	if odds == nil {
		return UnknownField
	}
	if *odds > 0 {
		return fmt.Sprintf("+%d", *odds)
	}
	return fmt.Sprintf("%d", *odds)
}

// FormatLine renders a line value, or the unknown placeholder when nil.
func FormatLine(line *float64) string {
	if line == nil {
		return UnknownField
	}
	return fmt.Sprintf("%g", *line)
}

// FormatScore renders a score, or the unknown placeholder when nil.
func FormatScore(score *int) string {
	if score == nil {
		return UnknownField
	}
	return fmt.Sprintf("%d", *score)
}
