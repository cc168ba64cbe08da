package models

import (
	"fmt"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// BetslipLeg is one user-selected prop line.
// ID is the composite selection key; two selections with the same id are the
// same leg regardless of odds drift between them.
type BetslipLeg struct {
	ID       string        `json:"id"`
	GameID   string        `json:"gameId"`
	PlayerID *int64        `json:"playerId,omitempty"`
	Player   string        `json:"player"`
	Market   string        `json:"market"`
	Side     types.BetSide `json:"side"`
	Line     float64       `json:"line"`
	Odds     int           `json:"odds"` // American
	Matchup  string        `json:"matchup"`
}

// LegID builds the composite selection key for a leg
func LegID(gameID, player, market string, side types.BetSide, line float64) string {
	return fmt.Sprintf("%s|%s|%s|%s|%g", gameID, player, market, side, line)
}

// SideMarker returns the single-letter side marker used by the text export
func (l BetslipLeg) SideMarker() string {
	switch l.Side {
	case types.SideOver:
		return "O"
	case types.SideUnder:
		return "U"
	default:
		return "M"
	}
}

// ExportLine renders the leg in the copy/export format:
// "{player} {market} {O|U} {line} {odds}"
func (l BetslipLeg) ExportLine() string {
	return fmt.Sprintf("%s %s %s %g %s", l.Player, l.Market, l.SideMarker(), l.Line, FormatOdds(&l.Odds))
}
