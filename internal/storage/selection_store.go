package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
)

// Redis keys for user state
const (
	keyBetslipLegs   = "betslip:legs"
	keyBoardFilters  = "prefs:filters"
	keyTrackedParlay = "parlays:tracked:" // + parlayId
)

// trackedParlayTTL bounds how long a cached parlay snapshot outlives its
// games; the Postgres row remains the durable record.
const trackedParlayTTL = 48 * time.Hour

// SelectionStore persists the betslip ledger, board filter preferences and
// a read-through cache of tracked parlay snapshots in Redis.
type SelectionStore struct {
	cache *RedisCache
}

// NewSelectionStore creates a selection store on the given Redis cache
func NewSelectionStore(cache *RedisCache) *SelectionStore {
	return &SelectionStore{cache: cache}
}

// SaveLegs replaces the persisted betslip with the given snapshot
func (s *SelectionStore) SaveLegs(ctx context.Context, legs []models.BetslipLeg) error {
	if len(legs) == 0 {
		if err := s.cache.Del(ctx, keyBetslipLegs); err != nil {
			return apperrors.NewCacheError("clear betslip", err)
		}
		return nil
	}

	data, err := json.Marshal(legs)
	if err != nil {
		return apperrors.NewCacheError("marshal betslip", err)
	}
	if err := s.cache.Set(ctx, keyBetslipLegs, data, 0); err != nil {
		return apperrors.NewCacheError("save betslip", err)
	}
	return nil
}

// LoadLegs returns the persisted betslip, empty when none was saved
func (s *SelectionStore) LoadLegs(ctx context.Context) ([]models.BetslipLeg, error) {
	data, err := s.cache.Get(ctx, keyBetslipLegs)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewCacheError("load betslip", err)
	}

	var legs []models.BetslipLeg
	if err := json.Unmarshal([]byte(data), &legs); err != nil {
		return nil, apperrors.NewCacheError("unmarshal betslip", err)
	}
	return legs, nil
}

// BoardFilters is the user's saved board filter preferences
type BoardFilters struct {
	Markets     []string `json:"markets,omitempty"`
	MinOdds     *int     `json:"minOdds,omitempty"`
	MaxOdds     *int     `json:"maxOdds,omitempty"`
	HideNoPrice bool     `json:"hideNoPrice,omitempty"`
}

// SaveFilters persists the board filter preferences
func (s *SelectionStore) SaveFilters(ctx context.Context, filters BoardFilters) error {
	data, err := json.Marshal(filters)
	if err != nil {
		return apperrors.NewCacheError("marshal filters", err)
	}
	if err := s.cache.Set(ctx, keyBoardFilters, data, 0); err != nil {
		return apperrors.NewCacheError("save filters", err)
	}
	return nil
}

// LoadFilters returns the saved board filters, zero value when unset
func (s *SelectionStore) LoadFilters(ctx context.Context) (BoardFilters, error) {
	var filters BoardFilters
	data, err := s.cache.Get(ctx, keyBoardFilters)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return filters, nil
		}
		return filters, apperrors.NewCacheError("load filters", err)
	}
	if err := json.Unmarshal([]byte(data), &filters); err != nil {
		return filters, apperrors.NewCacheError("unmarshal filters", err)
	}
	return filters, nil
}

// CacheParlay stores a tracked parlay snapshot for fast progress reads
func (s *SelectionStore) CacheParlay(ctx context.Context, parlay *models.TrackedParlaySnapshot) error {
	data, err := json.Marshal(parlay)
	if err != nil {
		return apperrors.NewCacheError("marshal parlay", err)
	}
	if err := s.cache.Set(ctx, keyTrackedParlay+parlay.ParlayID, data, trackedParlayTTL); err != nil {
		return apperrors.NewCacheError("cache parlay", err)
	}
	return nil
}

// GetCachedParlay returns a cached parlay snapshot, nil on cache miss
func (s *SelectionStore) GetCachedParlay(ctx context.Context, parlayID string) (*models.TrackedParlaySnapshot, error) {
	data, err := s.cache.Get(ctx, keyTrackedParlay+parlayID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.NewCacheError("get cached parlay", err)
	}

	var parlay models.TrackedParlaySnapshot
	if err := json.Unmarshal([]byte(data), &parlay); err != nil {
		return nil, apperrors.NewCacheError("unmarshal parlay", err)
	}
	return &parlay, nil
}
