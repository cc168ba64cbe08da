package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/config"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/engine"
	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

type fakeParlayStore struct {
	parlays map[string]*models.TrackedParlaySnapshot
	gets    int
}

func newFakeParlayStore() *fakeParlayStore {
	return &fakeParlayStore{parlays: make(map[string]*models.TrackedParlaySnapshot)}
}

func (f *fakeParlayStore) Create(_ context.Context, parlay *models.TrackedParlaySnapshot) error {
	f.parlays[parlay.ParlayID] = parlay
	return nil
}

func (f *fakeParlayStore) Get(_ context.Context, parlayID string) (*models.TrackedParlaySnapshot, error) {
	f.gets++
	parlay, ok := f.parlays[parlayID]
	if !ok {
		return nil, apperrors.NewParlayNotFoundError(parlayID)
	}
	return parlay, nil
}

func (f *fakeParlayStore) List(_ context.Context, limit, offset int) ([]*models.TrackedParlaySnapshot, error) {
	out := make([]*models.TrackedParlaySnapshot, 0, len(f.parlays))
	for _, p := range f.parlays {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeParlayStore) Delete(_ context.Context, parlayID string) error {
	delete(f.parlays, parlayID)
	return nil
}

type fakeParlayCache struct {
	parlays map[string]*models.TrackedParlaySnapshot
	failing bool
}

func newFakeParlayCache() *fakeParlayCache {
	return &fakeParlayCache{parlays: make(map[string]*models.TrackedParlaySnapshot)}
}

func (f *fakeParlayCache) CacheParlay(_ context.Context, parlay *models.TrackedParlaySnapshot) error {
	if f.failing {
		return errors.New("cache down")
	}
	f.parlays[parlay.ParlayID] = parlay
	return nil
}

func (f *fakeParlayCache) GetCachedParlay(_ context.Context, parlayID string) (*models.TrackedParlaySnapshot, error) {
	if f.failing {
		return nil, errors.New("cache down")
	}
	return f.parlays[parlayID], nil
}

func newParlayService(repo ParlayStore, cache ParlayCache, store BoxScoreReader) *ParlayService {
	logger := logging.NewLogger(logging.LevelError, logging.FormatText)
	return NewParlayService(repo, cache, store, config.EngineConfig{MaxMilestones: 5, DefaultStake: 10}, logger)
}

func twoLegs() []models.BetslipLeg {
	return []models.BetslipLeg{
		{ID: "leg-1", GameID: "g1", Player: "LeBron James", Market: "pts", Side: types.SideOver, Line: 27.5, Odds: -110},
		{ID: "leg-2", GameID: "g1", Player: "Jayson Tatum", Market: "reb", Side: types.SideUnder, Line: 8.5, Odds: 150},
	}
}

func TestSubmitPricesTwoLegParlay(t *testing.T) {
	repo := newFakeParlayStore()
	svc := newParlayService(repo, nil, engine.NewGameStateStore())

	parlay, err := svc.Submit(context.Background(), twoLegs(), "", 0)
	require.NoError(t, err)

	assert.Equal(t, "betslip", parlay.Source)
	assert.Equal(t, 10.0, parlay.Stake)
	require.NotNil(t, parlay.ParlayOdds)
	assert.Equal(t, 377, *parlay.ParlayOdds)
	require.NotNil(t, parlay.Payout)
	assert.InDelta(t, 47.70, *parlay.Payout, 0.01)

	require.Len(t, parlay.Legs, 2)
	assert.Equal(t, "leg-1", parlay.Legs[0].LegID)
	assert.Contains(t, repo.parlays, parlay.ParlayID)
}

func TestSubmitSingleLegHasNoParlayPrice(t *testing.T) {
	svc := newParlayService(newFakeParlayStore(), nil, engine.NewGameStateStore())

	parlay, err := svc.Submit(context.Background(), twoLegs()[:1], "board", 25)
	require.NoError(t, err)

	assert.Equal(t, "board", parlay.Source)
	assert.Equal(t, 25.0, parlay.Stake)
	assert.Nil(t, parlay.ParlayOdds)
	assert.Nil(t, parlay.Payout)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	svc := newParlayService(newFakeParlayStore(), nil, engine.NewGameStateStore())

	_, err := svc.Submit(context.Background(), nil, "", 0)
	require.Error(t, err)

	_, err = svc.Submit(context.Background(), twoLegs(), "", -5)
	require.Error(t, err)

	legs := twoLegs()
	legs[1].Odds = 0
	_, err = svc.Submit(context.Background(), legs, "", 0)
	require.Error(t, err)
}

func TestGetPrefersCache(t *testing.T) {
	repo := newFakeParlayStore()
	cache := newFakeParlayCache()
	svc := newParlayService(repo, cache, engine.NewGameStateStore())

	parlay, err := svc.Submit(context.Background(), twoLegs(), "", 0)
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), parlay.ParlayID)
	require.NoError(t, err)
	assert.Equal(t, parlay.ParlayID, got.ParlayID)
	assert.Equal(t, 0, repo.gets, "cached parlay should not hit the store")
}

func TestGetFallsThroughOnCacheFailure(t *testing.T) {
	repo := newFakeParlayStore()
	cache := newFakeParlayCache()
	svc := newParlayService(repo, cache, engine.NewGameStateStore())

	parlay, err := svc.Submit(context.Background(), twoLegs(), "", 0)
	require.NoError(t, err)

	cache.failing = true
	got, err := svc.Get(context.Background(), parlay.ParlayID)
	require.NoError(t, err)
	assert.Equal(t, parlay.ParlayID, got.ParlayID)
	assert.Equal(t, 1, repo.gets)
}

func TestGetUnknownParlay(t *testing.T) {
	svc := newParlayService(newFakeParlayStore(), nil, engine.NewGameStateStore())

	_, err := svc.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProgressDerivesLegStates(t *testing.T) {
	store := engine.NewGameStateStore()
	home, away := 88, 84
	store.IngestScore(models.GameSnapshot{
		GameID:    "g1",
		Home:      models.TeamSide{Abbr: "LAL", Score: &home},
		Away:      models.TeamSide{Abbr: "BOS", Score: &away},
		Period:    "Q4",
		Clock:     "4:30",
		GameState: types.GameStateInProgress,
		FetchedAt: time.Now(),
	})
	store.IngestBoxScore("g1", []models.PlayerBoxScoreStat{
		{Name: "LeBron James", Stats: map[string]float64{"pts": 30}, Period: "Q4", Clock: "4:30"},
		{Name: "Jayson Tatum", Stats: map[string]float64{"reb": 9}, Period: "Q4", Clock: "4:30"},
	})

	svc := newParlayService(newFakeParlayStore(), nil, store)
	parlay, err := svc.Submit(context.Background(), twoLegs(), "", 0)
	require.NoError(t, err)

	progress, err := svc.Progress(context.Background(), parlay.ParlayID)
	require.NoError(t, err)

	require.Len(t, progress.Legs, 2)
	// Over 27.5 with 30 points is winning; under 8.5 already exceeded busts.
	assert.Equal(t, types.LegWinning, progress.Legs[0].Status)
	assert.Equal(t, 30.0, progress.Legs[0].Current)
	assert.Equal(t, types.LegLosing, progress.Legs[1].Status)
	assert.Equal(t, types.ParlayDanger, progress.Status)
	assert.Equal(t, "Q4", progress.Legs[0].Period)
}

func TestProgressUnobservedGameIsPending(t *testing.T) {
	svc := newParlayService(newFakeParlayStore(), nil, engine.NewGameStateStore())
	parlay, err := svc.Submit(context.Background(), twoLegs(), "", 0)
	require.NoError(t, err)

	progress, err := svc.Progress(context.Background(), parlay.ParlayID)
	require.NoError(t, err)

	require.Len(t, progress.Legs, 2)
	for _, leg := range progress.Legs {
		assert.Equal(t, types.LegPending, leg.Status)
		assert.Zero(t, leg.Current)
	}
	assert.Equal(t, types.ParlaySweating, progress.Status)
}
