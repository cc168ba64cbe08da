package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/config"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/engine"
	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/odds"
)

// ParlayStore persists tracked parlay snapshots
type ParlayStore interface {
	Create(ctx context.Context, parlay *models.TrackedParlaySnapshot) error
	Get(ctx context.Context, parlayID string) (*models.TrackedParlaySnapshot, error)
	List(ctx context.Context, limit, offset int) ([]*models.TrackedParlaySnapshot, error)
	Delete(ctx context.Context, parlayID string) error
}

// ParlayCache caches tracked parlay snapshots for fast progress reads.
// Both methods degrade gracefully: a cache failure falls through to the
// durable store.
type ParlayCache interface {
	CacheParlay(ctx context.Context, parlay *models.TrackedParlaySnapshot) error
	GetCachedParlay(ctx context.Context, parlayID string) (*models.TrackedParlaySnapshot, error)
}

// BoxScoreReader is the slice of the game state store progress needs
type BoxScoreReader interface {
	Score(gameID string) (models.GameSnapshot, bool)
	BoxScore(gameID string) ([]models.PlayerBoxScoreStat, bool)
}

// ParlayService submits betslips as tracked parlays and derives their live
// progress from the game state store.
type ParlayService struct {
	repo   ParlayStore
	cache  ParlayCache
	store  BoxScoreReader
	cfg    config.EngineConfig
	logger *logging.Logger
}

// NewParlayService creates a new parlay service. cache may be nil.
func NewParlayService(repo ParlayStore, cache ParlayCache, store BoxScoreReader, cfg config.EngineConfig, logger *logging.Logger) *ParlayService {
	return &ParlayService{
		repo:   repo,
		cache:  cache,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Submit freezes the given legs into an immutable tracked parlay, prices
// it, and persists the snapshot. A stake of 0 uses the configured default.
// Single-leg submissions are allowed; they carry no parlay price.
func (s *ParlayService) Submit(ctx context.Context, legs []models.BetslipLeg, source string, stake float64) (*models.TrackedParlaySnapshot, error) {
	if len(legs) == 0 {
		return nil, apperrors.NewEmptyParlayError()
	}
	if stake < 0 {
		return nil, apperrors.NewInvalidParameterError("stake", "must not be negative")
	}
	if stake == 0 {
		stake = s.cfg.DefaultStake
	}
	if source == "" {
		source = "betslip"
	}

	legOdds := make([]int, len(legs))
	tracked := make([]models.TrackedLeg, len(legs))
	for i, leg := range legs {
		if leg.Odds == 0 {
			return nil, apperrors.NewInvalidLegError("leg odds of 0 are not a valid American price")
		}
		legOdds[i] = leg.Odds
		tracked[i] = models.TrackedLeg{
			LegID:      leg.ID,
			GameID:     leg.GameID,
			PlayerID:   leg.PlayerID,
			PlayerName: leg.Player,
			Market:     leg.Market,
			Side:       leg.Side,
			Line:       leg.Line,
			Odds:       leg.Odds,
		}
	}

	parlay := &models.TrackedParlaySnapshot{
		ParlayID:  uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Source:    source,
		Stake:     stake,
		Legs:      tracked,
	}

	price, err := odds.PriceParlay(legOdds)
	if err != nil {
		return nil, err
	}
	if price != nil {
		payout := odds.Payout(price.American, stake)
		parlay.ParlayOdds = &price.American
		parlay.Payout = &payout
	}

	if err := s.repo.Create(ctx, parlay); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheParlay(ctx, parlay); err != nil {
			s.logger.WithError(err).WithField("parlayId", parlay.ParlayID).Warn("Failed to cache parlay")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"parlayId": parlay.ParlayID,
		"legs":     len(tracked),
		"stake":    stake,
	}).Info("Parlay submitted")

	return parlay, nil
}

// Get returns a tracked parlay, preferring the cache
func (s *ParlayService) Get(ctx context.Context, parlayID string) (*models.TrackedParlaySnapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCachedParlay(ctx, parlayID)
		if err != nil {
			s.logger.WithError(err).WithField("parlayId", parlayID).Warn("Parlay cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	parlay, err := s.repo.Get(ctx, parlayID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheParlay(ctx, parlay); err != nil {
			s.logger.WithError(err).WithField("parlayId", parlayID).Warn("Failed to cache parlay")
		}
	}
	return parlay, nil
}

// List returns tracked parlays newest first
func (s *ParlayService) List(ctx context.Context, limit, offset int) ([]*models.TrackedParlaySnapshot, error) {
	return s.repo.List(ctx, limit, offset)
}

// Progress derives the live progress of a tracked parlay from the latest
// box scores. Legs whose game is not in the store read as pending at zero.
func (s *ParlayService) Progress(ctx context.Context, parlayID string) (*models.ParlayProgress, error) {
	parlay, err := s.Get(ctx, parlayID)
	if err != nil {
		return nil, err
	}

	progress := engine.TrackParlay(*parlay, func(leg models.TrackedLeg) (engine.LegObservation, bool) {
		players, ok := s.store.BoxScore(leg.GameID)
		if !ok {
			return engine.LegObservation{}, false
		}

		row, found := findPlayer(players, leg)
		if !found {
			return engine.LegObservation{}, false
		}

		obs := engine.LegObservation{
			Current: row.Stat(leg.Market),
			Period:  row.Period,
			Clock:   row.Clock,
		}
		if score, ok := s.store.Score(leg.GameID); ok {
			obs.IsFinal = score.IsFinal()
			if obs.Period == "" {
				obs.Period = score.Period
				obs.Clock = score.Clock
			}
		}
		return obs, true
	})

	return &progress, nil
}

// findPlayer locates a leg's player in the box score, by id then by name
func findPlayer(players []models.PlayerBoxScoreStat, leg models.TrackedLeg) (models.PlayerBoxScoreStat, bool) {
	if leg.PlayerID != nil {
		for i := range players {
			if players[i].PlayerID != nil && *players[i].PlayerID == *leg.PlayerID {
				return players[i], true
			}
		}
	}
	for i := range players {
		if players[i].NameMatches(leg.PlayerName) {
			return players[i], true
		}
	}
	return models.PlayerBoxScoreStat{}, false
}
