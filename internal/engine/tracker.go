package engine

import (
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// LegObservation is the latest live reading for one tracked leg: the stat
// value for the leg's market plus the game phase it was read in. A leg with
// no observation yet (player not in the box score, game not started) is
// evaluated as pending at zero.
type LegObservation struct {
	Current float64
	Period  string
	Clock   string
	IsFinal bool
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// LegProgress maps a leg's current stat onto a 0..1 completion fraction.
// Over and milestone legs progress toward the line; under legs start at 1
// and erode as the stat climbs toward the line.
func LegProgress(current, line float64, side types.BetSide) float64 {
	if line <= 0 {
		return 1
	}
	switch side {
	case types.SideUnder:
		return clamp01((line - current) / line)
	default:
		return clamp01(current / line)
	}
}

// LegStatus classifies how a leg would settle right now. An under leg whose
// stat already exceeds the line has mathematically failed and is losing
// even with the game still live; exact equality on an over/under line is a
// push. Milestone legs win at or above the line and cannot push.
func LegStatus(current, line float64, side types.BetSide, isFinal bool) types.LegStatus {
	switch side {
	case types.SideOver:
		switch {
		case current > line:
			return types.LegWinning
		case current == line:
			return types.LegPushed
		case isFinal:
			return types.LegLosing
		default:
			return types.LegPending
		}
	case types.SideUnder:
		switch {
		case current > line:
			return types.LegLosing
		case current == line:
			return types.LegPushed
		case isFinal:
			return types.LegWinning
		default:
			return types.LegPending
		}
	default: // milestone
		switch {
		case current >= line:
			return types.LegWinning
		case isFinal:
			return types.LegLosing
		default:
			return types.LegPending
		}
	}
}

// EvaluateLeg derives the runtime state of one tracked leg from its latest
// observation.
func EvaluateLeg(leg models.TrackedLeg, obs LegObservation) models.LegRuntimeState {
	return models.LegRuntimeState{
		LegID:    leg.LegID,
		Current:  obs.Current,
		Progress: LegProgress(obs.Current, leg.Line, leg.Side),
		Status:   LegStatus(obs.Current, leg.Line, leg.Side, obs.IsFinal),
		IsFinal:  obs.IsFinal,
		Period:   obs.Period,
		Clock:    obs.Clock,
	}
}

// AggregateStatus rolls leg states up to a parlay-level status. A pushed
// leg does not lose the parlay; it counts with the winners for aggregation.
func AggregateStatus(legs []models.LegRuntimeState) types.ParlayStatus {
	if len(legs) == 0 {
		return types.ParlaySweating
	}
	allFinal := true
	allWinning := true
	for _, leg := range legs {
		if leg.Status == types.LegLosing {
			return types.ParlayDanger
		}
		if !leg.IsFinal {
			allFinal = false
		}
		if leg.Status != types.LegWinning && leg.Status != types.LegPushed {
			allWinning = false
		}
	}
	switch {
	case allFinal && allWinning:
		return types.ParlayWon
	case allWinning:
		return types.ParlayAllWinning
	default:
		return types.ParlaySweating
	}
}

// TrackParlay derives the full runtime progress of a tracked parlay.
// observe returns the latest observation for a leg; false means no data
// has arrived for that leg yet.
func TrackParlay(parlay models.TrackedParlaySnapshot, observe func(models.TrackedLeg) (LegObservation, bool)) models.ParlayProgress {
	states := make([]models.LegRuntimeState, 0, len(parlay.Legs))
	for _, leg := range parlay.Legs {
		obs, ok := observe(leg)
		if !ok {
			obs = LegObservation{}
		}
		states = append(states, EvaluateLeg(leg, obs))
	}
	return models.ParlayProgress{
		Parlay: parlay,
		Legs:   states,
		Status: AggregateStatus(states),
	}
}
