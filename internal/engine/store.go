// Package engine implements the live-game reconciliation engine: the game
// state store, the player-prop matcher, milestone selection, pace
// projection, and tracked-leg progress.
package engine

import (
	"fmt"
	"sync"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
)

// GameStateStore holds the most recent reconciled view of live scores, game
// odds, box scores, and prop markets for the games currently being polled.
//
// The store is an explicit dependency-injected container: all writes go
// through the Ingest entrypoints and all reads return copies. Score, odds
// and box-score feeds are atomic per arrival and replace the prior value
// wholesale; prop markets reconcile per line, because individual lines
// inside one market update independently and can arrive out of order.
type GameStateStore struct {
	mu        sync.RWMutex
	scores    map[string]models.GameSnapshot
	odds      map[string][]models.OddsBoardEntry
	boxScores map[string][]models.PlayerBoxScoreStat
	props     map[string]map[string]models.PropMarketSnapshot // gameID -> marketKey
}

// NewGameStateStore creates an empty store
func NewGameStateStore() *GameStateStore {
	return &GameStateStore{
		scores:    make(map[string]models.GameSnapshot),
		odds:      make(map[string][]models.OddsBoardEntry),
		boxScores: make(map[string][]models.PlayerBoxScoreStat),
		props:     make(map[string]map[string]models.PropMarketSnapshot),
	}
}

// MergeLine is the last-write-wins merge for two arrivals of the same
// (line, lineType) slot: the incoming record replaces the stored one only
// when its snapshot timestamp is strictly newer. Equal or older timestamps
// keep the stored record, so replayed and out-of-order arrivals are inert.
func MergeLine(existing, incoming models.PropLine) models.PropLine {
	if incoming.SnapshotTs.After(existing.SnapshotTs) {
		return incoming
	}
	return existing
}

// marketSlot identifies a prop market within a game
func marketSlot(propPlayerKey, marketKey string) string {
	return fmt.Sprintf("%s|%s", propPlayerKey, marketKey)
}

// IngestScore replaces the stored score snapshot for the game
func (s *GameStateStore) IngestScore(snapshot models.GameSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores[snapshot.GameID] = snapshot
}

// IngestOdds replaces the stored odds board for the game
func (s *GameStateStore) IngestOdds(gameID string, entries []models.OddsBoardEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.odds[gameID] = append([]models.OddsBoardEntry(nil), entries...)
}

// IngestBoxScore replaces the stored box score for the game
func (s *GameStateStore) IngestBoxScore(gameID string, players []models.PlayerBoxScoreStat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boxScores[gameID] = append([]models.PlayerBoxScoreStat(nil), players...)
}

// IngestPropMarket reconciles an arrival of a prop market into the store.
// Lines are merged per (line, lineType) slot via MergeLine; lines the
// arrival does not mention are retained untouched.
func (s *GameStateStore) IngestPropMarket(snapshot models.PropMarketSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	markets, ok := s.props[snapshot.GameID]
	if !ok {
		markets = make(map[string]models.PropMarketSnapshot)
		s.props[snapshot.GameID] = markets
	}

	slot := marketSlot(snapshot.PropPlayerKey, snapshot.MarketKey)
	existing, ok := markets[slot]
	if !ok {
		markets[slot] = snapshot
		return
	}

	merged := existing
	// Identity hints ride along with the freshest arrival
	if snapshot.PlayerID != nil {
		merged.PlayerID = snapshot.PlayerID
	}
	if snapshot.PlayerName != "" {
		merged.PlayerName = snapshot.PlayerName
	}

	byKey := make(map[string]int, len(merged.Lines))
	for i, line := range merged.Lines {
		byKey[line.Key()] = i
	}

	for _, incoming := range snapshot.Lines {
		if i, ok := byKey[incoming.Key()]; ok {
			merged.Lines[i] = MergeLine(merged.Lines[i], incoming)
		} else {
			merged.Lines = append(merged.Lines, incoming)
			byKey[incoming.Key()] = len(merged.Lines) - 1
		}
	}

	markets[slot] = merged
}

// Score returns the latest score snapshot for the game
func (s *GameStateStore) Score(gameID string) (models.GameSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.scores[gameID]
	return snapshot, ok
}

// Odds returns the latest odds board for the game
func (s *GameStateStore) Odds(gameID string) ([]models.OddsBoardEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, ok := s.odds[gameID]
	if !ok {
		return nil, false
	}
	return append([]models.OddsBoardEntry(nil), entries...), true
}

// BoxScore returns the latest box score for the game
func (s *GameStateStore) BoxScore(gameID string) ([]models.PlayerBoxScoreStat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players, ok := s.boxScores[gameID]
	if !ok {
		return nil, false
	}
	return append([]models.PlayerBoxScoreStat(nil), players...), true
}

// PropMarkets returns all reconciled prop markets for the game
func (s *GameStateStore) PropMarkets(gameID string) []models.PropMarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markets := s.props[gameID]
	result := make([]models.PropMarketSnapshot, 0, len(markets))
	for _, m := range markets {
		copied := m
		copied.Lines = append([]models.PropLine(nil), m.Lines...)
		result = append(result, copied)
	}
	return result
}

// PropMarket returns one reconciled prop market for the game
func (s *GameStateStore) PropMarket(gameID, propPlayerKey, marketKey string) (models.PropMarketSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	markets, ok := s.props[gameID]
	if !ok {
		return models.PropMarketSnapshot{}, false
	}
	m, ok := markets[marketSlot(propPlayerKey, marketKey)]
	if !ok {
		return models.PropMarketSnapshot{}, false
	}
	m.Lines = append([]models.PropLine(nil), m.Lines...)
	return m, true
}

// HasGame reports whether any data is held for the game
func (s *GameStateStore) HasGame(gameID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.scores[gameID]; ok {
		return true
	}
	if _, ok := s.odds[gameID]; ok {
		return true
	}
	if _, ok := s.boxScores[gameID]; ok {
		return true
	}
	_, ok := s.props[gameID]
	return ok
}

// EvictGame drops all data for a game that left the active polling set
func (s *GameStateStore) EvictGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.scores, gameID)
	delete(s.odds, gameID)
	delete(s.boxScores, gameID)
	delete(s.props, gameID)
}
