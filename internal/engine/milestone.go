package engine

import (
	"sort"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// MilestoneLine is one milestone threshold classified against the player's
// current live stat value.
type MilestoneLine struct {
	Line      float64              `json:"line"`
	Price     *int                 `json:"price,omitempty"`
	Remaining float64              `json:"remaining"`
	State     types.MilestoneState `json:"state"`
}

// MarketView is the display-ready shape of one prop market: the main
// over/under line plus the next milestone thresholds above the player's
// current stat.
type MarketView struct {
	MarketKey  string           `json:"market"`
	Current    float64          `json:"current"`
	MainLine   *models.PropLine `json:"mainLine,omitempty"`
	Milestones []MilestoneLine  `json:"milestones"`
}

// ClassifyMilestone classifies a threshold against the current stat value.
// The close rule is exact equality on the remaining amount: remaining of
// exactly 1 is close, 1.5 is pending. This mirrors how milestone markets
// are quoted on whole-number thresholds.
func ClassifyMilestone(line, current float64) types.MilestoneState {
	remaining := line - current
	switch {
	case remaining <= 0:
		return types.MilestoneHit
	case remaining == 1:
		return types.MilestoneClose
	default:
		return types.MilestonePending
	}
}

// SelectMilestones builds the market view for one matched market: the main
// over/under line and up to maxMilestones priced thresholds strictly above
// the current stat, ascending.
func SelectMilestones(market models.PropMarketSnapshot, current float64, maxMilestones int) MarketView {
	view := MarketView{
		MarketKey:  market.MarketKey,
		Current:    current,
		Milestones: []MilestoneLine{},
	}

	if main, ok := market.MainLine(); ok {
		view.MainLine = &main
	}

	candidates := make([]models.PropLine, 0, len(market.Lines))
	for _, l := range market.Lines {
		if l.LineType != types.LineTypeMilestone {
			continue
		}
		if l.Line <= current || !l.HasPrice() {
			continue
		}
		candidates = append(candidates, l)
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Line < candidates[j].Line
	})
	if maxMilestones > 0 && len(candidates) > maxMilestones {
		candidates = candidates[:maxMilestones]
	}

	for _, l := range candidates {
		view.Milestones = append(view.Milestones, MilestoneLine{
			Line:      l.Line,
			Price:     l.Price,
			Remaining: l.Line - current,
			State:     ClassifyMilestone(l.Line, current),
		})
	}
	return view
}
