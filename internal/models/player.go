package models

import "strings"

// Stat keys used by the box-score feed for counting stats
const (
	StatPoints   = "pts"
	StatRebounds = "reb"
	StatAssists  = "ast"
	StatThrees   = "fg3m"
	StatSteals   = "stl"
	StatBlocks   = "blk"
)

// PlayerBoxScoreStat is one player's live box-score row.
// PlayerID may be absent or disagree with the prop feed's identifier for the
// same person; name matching is the fallback.
type PlayerBoxScoreStat struct {
	PlayerID *int64             `json:"playerId,omitempty"`
	Name     string             `json:"name"`
	Team     string             `json:"team"`
	Stats    map[string]float64 `json:"stats"` // pts, reb, ast, ...
	Minutes  string             `json:"minutes"`
	Period   string             `json:"period"`
	Clock    string             `json:"clock"`
}

// Stat returns the live value for a market's stat key, 0 when absent
func (p *PlayerBoxScoreStat) Stat(key string) float64 {
	return p.Stats[key]
}

// NameMatches reports whether the player's display name matches the given
// name ignoring case and surrounding whitespace.
func (p *PlayerBoxScoreStat) NameMatches(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}
