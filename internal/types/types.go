// Package types provides common type definitions for the prop analyzer system.
package types

// GameState represents the live state of a game as reported by the score feed
type GameState string

const (
	// GameStateScheduled represents a game that has not tipped off yet
	GameStateScheduled GameState = "scheduled"
	// GameStateInProgress represents a game currently being played
	GameStateInProgress GameState = "in_progress"
	// GameStateHalftime represents the halftime break
	GameStateHalftime GameState = "halftime"
	// GameStateFinal represents a completed game
	GameStateFinal GameState = "final"
)

// LineType distinguishes standard over/under lines from milestone lines
type LineType string

const (
	// LineTypeOverUnder represents a standard over/under prop line
	LineTypeOverUnder LineType = "over_under"
	// LineTypeMilestone represents a threshold market (e.g. "25+ points")
	LineTypeMilestone LineType = "milestone"
)

// BetSide represents the side of a prop selection
type BetSide string

const (
	// SideOver represents the over side of an over/under line
	SideOver BetSide = "over"
	// SideUnder represents the under side of an over/under line
	SideUnder BetSide = "under"
	// SideMilestone represents a milestone selection (single-price market)
	SideMilestone BetSide = "milestone"
)

// MatchMethod records how a prop-market group was bound to a box-score player
type MatchMethod string

const (
	// MatchedByID means the market feed's numeric player id matched exactly
	MatchedByID MatchMethod = "matched_by_id"
	// MatchedByName means the bind fell back to a case-insensitive name match
	MatchedByName MatchMethod = "matched_by_name"
	// Unmatched means no box-score player could be resolved for the group
	Unmatched MatchMethod = "unmatched"
)

// MilestoneState classifies a milestone line relative to the live stat
type MilestoneState string

const (
	// MilestoneHit means the threshold has been reached
	MilestoneHit MilestoneState = "hit"
	// MilestoneClose means the threshold is exactly one unit away
	MilestoneClose MilestoneState = "close"
	// MilestonePending means the threshold is more than one unit away
	MilestonePending MilestoneState = "pending"
)

// LegStatus represents the live settlement outlook of a tracked leg
type LegStatus string

const (
	// LegPending means the leg would not currently settle either way
	LegPending LegStatus = "pending"
	// LegWinning means the leg would currently settle as a win
	LegWinning LegStatus = "winning"
	// LegLosing means the leg has mathematically failed
	LegLosing LegStatus = "losing"
	// LegPushed means the leg sits exactly on the line where a push applies
	LegPushed LegStatus = "pushed"
)

// ParlayStatus is the aggregate status across all legs of a tracked parlay
type ParlayStatus string

const (
	// ParlayDanger means at least one leg is losing
	ParlayDanger ParlayStatus = "danger"
	// ParlayWon means every leg is final and none lost
	ParlayWon ParlayStatus = "won"
	// ParlayAllWinning means every leg is currently winning but not yet final
	ParlayAllWinning ParlayStatus = "all_winning"
	// ParlaySweating means at least one leg is still undecided
	ParlaySweating ParlayStatus = "sweating"
)

// ProjectionBasis names the historical-average basis used for a projection
type ProjectionBasis string

const (
	// BasisSecondHalf blends the third- and fourth-quarter historical averages
	BasisSecondHalf ProjectionBasis = "2H"
	// BasisFourthQuarter uses the fourth-quarter historical average only
	BasisFourthQuarter ProjectionBasis = "4Q"
)

// ServiceError represents a structured error response
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}
