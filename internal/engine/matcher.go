package engine

import (
	"sort"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// MatchedPlayer binds one box-score player to the prop markets that refer to
// them. Method records how the binding was established so downstream
// surfaces can flag name-only matches.
type MatchedPlayer struct {
	Method  types.MatchMethod
	Player  models.PlayerBoxScoreStat
	Markets []models.PropMarketSnapshot
}

// UnmatchedMarket is a prop market no box-score player could be bound to.
// These are reported rather than silently dropped so callers can decide
// whether to surface them without live stats.
type UnmatchedMarket struct {
	Market models.PropMarketSnapshot
}

// MatchPlayers binds prop markets to box-score players. Identity resolution
// tries the numeric player ID first and falls back to a case-insensitive
// name comparison; markets that bind neither way come back in the second
// return value tagged unmatched.
//
// Markets are scanned in propPlayerKey order so the binding for a duplicate
// name is deterministic across calls: the first box-score row that matches
// wins. Output follows box-score order, one record per bound player, with
// that player's markets merged.
func MatchPlayers(players []models.PlayerBoxScoreStat, markets []models.PropMarketSnapshot) ([]MatchedPlayer, []UnmatchedMarket) {
	ordered := append([]models.PropMarketSnapshot(nil), markets...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].PropPlayerKey != ordered[j].PropPlayerKey {
			return ordered[i].PropPlayerKey < ordered[j].PropPlayerKey
		}
		return ordered[i].MarketKey < ordered[j].MarketKey
	})

	type binding struct {
		method  types.MatchMethod
		markets []models.PropMarketSnapshot
	}
	bound := make(map[int]*binding) // box-score index
	var unmatched []UnmatchedMarket

	for _, market := range ordered {
		idx, method := resolvePlayer(players, market)
		if method == types.Unmatched {
			unmatched = append(unmatched, UnmatchedMarket{Market: market})
			continue
		}
		b, ok := bound[idx]
		if !ok {
			b = &binding{method: method}
			bound[idx] = b
		}
		// An ID binding for any of the player's markets upgrades the record
		if method == types.MatchedByID {
			b.method = types.MatchedByID
		}
		b.markets = append(b.markets, market)
	}

	result := make([]MatchedPlayer, 0, len(bound))
	for i, player := range players {
		b, ok := bound[i]
		if !ok {
			continue
		}
		result = append(result, MatchedPlayer{
			Method:  b.method,
			Player:  player,
			Markets: b.markets,
		})
	}
	return result, unmatched
}

// resolvePlayer finds the box-score row a market belongs to
func resolvePlayer(players []models.PlayerBoxScoreStat, market models.PropMarketSnapshot) (int, types.MatchMethod) {
	if market.PlayerID != nil {
		for i := range players {
			if players[i].PlayerID != nil && *players[i].PlayerID == *market.PlayerID {
				return i, types.MatchedByID
			}
		}
	}
	if market.PlayerName != "" {
		for i := range players {
			if players[i].NameMatches(market.PlayerName) {
				return i, types.MatchedByName
			}
		}
	}
	return -1, types.Unmatched
}
