package engine

import (
	"strconv"
	"strings"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

const (
	regulationMinutes = 48.0
	quarterMinutes    = 12.0
	halftimeElapsed   = 24.0

	// Below this completion fraction a run-rate extrapolation is mostly
	// noise, so no projection is produced.
	minProjectableProgress = 0.05
)

// PaceProjection is the run-rate extrapolation: if the player keeps scoring
// at the current rate, where do they land.
type PaceProjection struct {
	ElapsedMinutes float64 `json:"elapsedMinutes"`
	Progress       float64 `json:"progress"`
	ProjectedPace  float64 `json:"projectedPace"`
}

// RemainingProjection is the historical-average extrapolation: current stat
// plus the typical production for the rest of the game.
type RemainingProjection struct {
	Basis            types.ProjectionBasis `json:"basis"`
	RemainingAverage float64               `json:"remainingAverage"`
	ProjectedTotal   float64               `json:"projectedTotal"`
	DeltaVsLine      float64               `json:"deltaVsLine"`
}

// parseClock parses a "MM:SS" remaining-time clock into minutes
func parseClock(clock string) (float64, bool) {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	mm, err := strconv.Atoi(parts[0])
	if err != nil || mm < 0 {
		return 0, false
	}
	ss, err := strconv.Atoi(parts[1])
	if err != nil || ss < 0 || ss > 59 {
		return 0, false
	}
	return float64(mm) + float64(ss)/60, true
}

// quarterIndex normalizes the feed's period label to a zero-based quarter.
// Feeds disagree on the label format, so several spellings are accepted;
// anything unrecognized (including overtime) yields no bucket.
func quarterIndex(period string) (int, bool) {
	switch strings.ToUpper(strings.TrimSpace(period)) {
	case "1", "Q1", "1ST":
		return 0, true
	case "2", "Q2", "2ND":
		return 1, true
	case "3", "Q3", "3RD":
		return 2, true
	case "4", "Q4", "4TH":
		return 3, true
	default:
		return -1, false
	}
}

// ElapsedMinutes computes regulation minutes played from the period label
// and the remaining clock. The halftime state is authoritative: it forces
// exactly 24 minutes regardless of what the stale period and clock say.
func ElapsedMinutes(period, clock string, state types.GameState) (float64, bool) {
	if state == types.GameStateHalftime {
		return halftimeElapsed, true
	}
	quarter, ok := quarterIndex(period)
	if !ok {
		return 0, false
	}
	remaining, ok := parseClock(clock)
	if !ok || remaining > quarterMinutes {
		return 0, false
	}
	return float64(quarter)*quarterMinutes + (quarterMinutes - remaining), true
}

// ProjectPace extrapolates the current stat to a full-game run rate.
// Returns nil when game time cannot be derived or too little has elapsed
// for the rate to mean anything.
func ProjectPace(period, clock string, state types.GameState, current float64) *PaceProjection {
	elapsed, ok := ElapsedMinutes(period, clock, state)
	if !ok {
		return nil
	}
	progress := elapsed / regulationMinutes
	if progress <= minProjectableProgress {
		return nil
	}
	return &PaceProjection{
		ElapsedMinutes: elapsed,
		Progress:       progress,
		ProjectedPace:  current / progress,
	}
}

// ProjectRemaining estimates the final stat from the player's historical
// per-quarter averages: a blended second-half average when the game is at
// halftime or in the third quarter, the fourth-quarter average alone once
// the fourth starts. Earlier phases have no remaining-average basis and
// return nil.
func ProjectRemaining(period string, state types.GameState, current, avgQ3, avgQ4, line float64) *RemainingProjection {
	var basis types.ProjectionBasis
	var remaining float64

	quarter, hasQuarter := quarterIndex(period)
	switch {
	case state == types.GameStateHalftime || (hasQuarter && quarter == 2):
		basis = types.BasisSecondHalf
		remaining = avgQ3 + avgQ4
	case hasQuarter && quarter == 3:
		basis = types.BasisFourthQuarter
		remaining = avgQ4
	default:
		return nil
	}

	total := current + remaining
	return &RemainingProjection{
		Basis:            basis,
		RemainingAverage: remaining,
		ProjectedTotal:   total,
		DeltaVsLine:      total - line,
	}
}
