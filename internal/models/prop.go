package models

import (
	"fmt"
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// PropLine is one threshold record within a prop market.
// Over/under lines price both sides; milestone lines carry a single price.
// Missing prices are nil and surface as unknown, never as zero.
type PropLine struct {
	LineType   types.LineType `json:"lineType"`
	Line       float64        `json:"line"`
	OverOdds   *int           `json:"overOdds,omitempty"`
	UnderOdds  *int           `json:"underOdds,omitempty"`
	Price      *int           `json:"price,omitempty"`
	SnapshotTs time.Time      `json:"snapshotTs"`
}

// Key identifies the reconciliation slot a line occupies within its market.
// Two arrivals with equal keys describe the same line and are merged by
// snapshot timestamp; arrivals with different keys coexist.
func (l PropLine) Key() string {
	return fmt.Sprintf("%s:%g", l.LineType, l.Line)
}

// HasPrice reports whether the line carries a resolvable price for display
func (l PropLine) HasPrice() bool {
	switch l.LineType {
	case types.LineTypeMilestone:
		return l.Price != nil
	default:
		return l.OverOdds != nil || l.UnderOdds != nil
	}
}

// PropMarketSnapshot is the current set of lines for one
// (game, player, market) triple as assembled from the prop feed.
//
// PropPlayerKey is the market feed's own player identifier and is not
// guaranteed to equal the box-score player id; PlayerID and PlayerName are
// the identity hints the feed supplied, either of which may be absent.
type PropMarketSnapshot struct {
	GameID        string     `json:"gameId"`
	PropPlayerKey string     `json:"propPlayerKey"`
	PlayerID      *int64     `json:"playerId,omitempty"`
	PlayerName    string     `json:"playerName,omitempty"`
	MarketKey     string     `json:"market"`
	Lines         []PropLine `json:"lines"`
}

// MainLine returns the over/under line for the market, preferring the
// freshest snapshot when late reconciliation left more than one.
func (m *PropMarketSnapshot) MainLine() (PropLine, bool) {
	var main PropLine
	found := false
	for _, l := range m.Lines {
		if l.LineType != types.LineTypeOverUnder {
			continue
		}
		if !found || l.SnapshotTs.After(main.SnapshotTs) {
			main = l
			found = true
		}
	}
	return main, found
}
