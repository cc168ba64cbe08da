package models

import (
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// TrackedLeg is the frozen copy of a leg's terms captured at submission.
// Runtime progress is derived separately and never written back here.
type TrackedLeg struct {
	LegID      string        `json:"legId"`
	GameID     string        `json:"gameId"`
	PlayerID   *int64        `json:"playerId,omitempty"`
	PlayerName string        `json:"playerName"`
	Market     string        `json:"market"`
	Side       types.BetSide `json:"side"`
	Line       float64       `json:"line"`
	Odds       int           `json:"odds"`
}

// TrackedParlaySnapshot is an immutable record of a submitted parlay.
// ParlayOdds and Payout are nil for single-leg submissions: with fewer than
// two legs a parlay price is not applicable, which is distinct from zero.
type TrackedParlaySnapshot struct {
	ParlayID   string       `json:"parlayId"`
	CreatedAt  time.Time    `json:"createdAt"`
	Source     string       `json:"source"`
	Stake      float64      `json:"stake"`
	ParlayOdds *int         `json:"parlayOdds,omitempty"`
	Payout     *float64     `json:"payout,omitempty"`
	Legs       []TrackedLeg `json:"legs"`
}

// LegRuntimeState is the derived live progress of one tracked leg.
// It is recomputed from the latest box score on every read and never stored.
type LegRuntimeState struct {
	LegID    string          `json:"legId"`
	Current  float64         `json:"current"`
	Progress float64         `json:"progress"` // 0..1
	Status   types.LegStatus `json:"status"`
	IsFinal  bool            `json:"isFinal"`
	Period   string          `json:"period"`
	Clock    string          `json:"clock"`
}

// ParlayProgress pairs a tracked parlay with its derived runtime state
type ParlayProgress struct {
	Parlay TrackedParlaySnapshot `json:"parlay"`
	Legs   []LegRuntimeState     `json:"legs"`
	Status types.ParlayStatus    `json:"status"`
}
