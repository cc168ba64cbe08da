// Package poller schedules the per-game feed polling loops and applies
// their results to the game state store.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/adapter"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/config"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/engine"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/retry"
)

// Feeds is the slice of the feeds client the poller needs
type Feeds interface {
	FetchGameScore(ctx context.Context, gameID string) (models.GameSnapshot, error)
	FetchGameOdds(ctx context.Context, gameID string) ([]models.OddsBoardEntry, error)
	FetchPlayerProps(ctx context.Context, gameID string) ([]models.PropMarketSnapshot, error)
	FetchBoxScore(ctx context.Context, gameID string) ([]models.PlayerBoxScoreStat, error)
}

// LineHistorySink receives every prop-market arrival for durable line
// history. Writes happen off the polling path; a failing sink never stalls
// ingestion.
type LineHistorySink interface {
	RecordPropLines(ctx context.Context, markets []models.PropMarketSnapshot) error
}

// Orchestrator starts and stops per-game polling. Each active game gets
// independent loops for scores, odds, props and box scores on their
// configured cadences; deactivating a game cancels its loops and evicts
// its store entries, so no orphaned timers survive.
type Orchestrator struct {
	feeds   Feeds
	store   *engine.GameStateStore
	history LineHistorySink
	cfg     config.FeedsConfig
	logger  *logging.Logger

	// Breakers are per feed and shared across games: repeated failures of
	// one feed stop its calls for every game until the cooldown passes.
	breakers map[string]*adapter.FeedBreaker

	mu      sync.Mutex
	pollers map[string]*gamePoller
}

// NewOrchestrator creates an orchestrator. history may be nil when line
// history is not being recorded.
func NewOrchestrator(feeds Feeds, store *engine.GameStateStore, history LineHistorySink, cfg config.FeedsConfig, logger *logging.Logger) *Orchestrator {
	o := &Orchestrator{
		feeds:    feeds,
		store:    store,
		history:  history,
		cfg:      cfg,
		logger:   logger,
		breakers: make(map[string]*adapter.FeedBreaker),
		pollers:  make(map[string]*gamePoller),
	}
	for _, feed := range []string{"scores", "odds", "props", "boxscore"} {
		o.breakers[feed] = adapter.NewFeedBreaker(feed, cfg.BreakerMaxFailures, cfg.BreakerCooldown, logger)
	}
	return o
}

// Activate starts polling a game. Activating an already-active game is a
// no-op; the existing loops keep their cadence.
func (o *Orchestrator) Activate(gameID string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.pollers[gameID]; ok {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &gamePoller{
		gameID: gameID,
		orch:   o,
		cancel: cancel,
	}
	o.pollers[gameID] = p
	p.start(ctx)

	o.logger.WithField("gameId", gameID).Info("Game polling activated")
}

// Deactivate stops polling a game and evicts its state
func (o *Orchestrator) Deactivate(gameID string) {
	o.mu.Lock()
	p, ok := o.pollers[gameID]
	if ok {
		delete(o.pollers, gameID)
	}
	o.mu.Unlock()

	if !ok {
		return
	}
	p.cancel()
	p.wg.Wait()
	o.store.EvictGame(gameID)

	o.logger.WithField("gameId", gameID).Info("Game polling deactivated")
}

// ActiveGames returns the ids of games currently being polled
func (o *Orchestrator) ActiveGames() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	ids := make([]string, 0, len(o.pollers))
	for id := range o.pollers {
		ids = append(ids, id)
	}
	return ids
}

// IsActive reports whether a game is currently being polled
func (o *Orchestrator) IsActive(gameID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.pollers[gameID]
	return ok
}

// Shutdown stops all polling without evicting store state
func (o *Orchestrator) Shutdown() {
	o.mu.Lock()
	pollers := make([]*gamePoller, 0, len(o.pollers))
	for _, p := range o.pollers {
		pollers = append(pollers, p)
	}
	o.pollers = make(map[string]*gamePoller)
	o.mu.Unlock()

	for _, p := range pollers {
		p.cancel()
		p.wg.Wait()
	}
}

// gamePoller runs the polling loops for one game. The score loop watches
// for the final state and stops the live feeds once the game ends; the
// score data stays in the store so the final board still renders.
type gamePoller struct {
	gameID string
	orch   *Orchestrator
	cancel context.CancelFunc
	wg     sync.WaitGroup

	finalOnce sync.Once
	stopLive  context.CancelFunc
}

func (p *gamePoller) start(ctx context.Context) {
	liveCtx, stopLive := context.WithCancel(ctx)
	p.stopLive = stopLive

	p.loop(ctx, p.orch.cfg.ScorePollInterval, p.pollScore)
	p.loop(liveCtx, p.orch.cfg.OddsPollInterval, p.pollOdds)
	p.loop(liveCtx, p.orch.cfg.PropsPollInterval, p.pollProps)
	p.loop(liveCtx, p.orch.cfg.ScorePollInterval, p.pollBoxScore)
}

// loop polls once immediately, then on every tick until the context ends.
// Fetches are sequential within a loop, so a slow response never races a
// newer one from the same feed; a response racing cancellation is dropped
// before it touches the store.
func (p *gamePoller) loop(ctx context.Context, interval time.Duration, poll func(context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.pollOnce(ctx, poll)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.pollOnce(ctx, poll)
			}
		}
	}()
}

func (p *gamePoller) pollOnce(ctx context.Context, poll func(context.Context) error) {
	callCtx, cancel := context.WithTimeout(ctx, p.orch.cfg.RequestTimeout)
	defer cancel()

	err := poll(callCtx)
	if err != nil && ctx.Err() == nil && !errors.Is(err, adapter.ErrFeedSuspended) {
		p.orch.logger.WithError(err).WithField("gameId", p.gameID).Warn("Poll failed")
	}
}

func (p *gamePoller) pollScore(ctx context.Context) error {
	var snapshot models.GameSnapshot
	err := p.orch.breakers["scores"].Call(func() error {
		var err error
		snapshot, err = p.orch.feeds.FetchGameScore(ctx, p.gameID)
		return err
	})
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	p.orch.store.IngestScore(snapshot)

	if snapshot.IsFinal() {
		p.finalOnce.Do(func() {
			p.orch.logger.WithField("gameId", p.gameID).Info("Game final, stopping live feeds")
			p.stopLive()
		})
	}
	return nil
}

func (p *gamePoller) pollOdds(ctx context.Context) error {
	var entries []models.OddsBoardEntry
	err := p.orch.breakers["odds"].Call(func() error {
		var err error
		entries, err = p.orch.feeds.FetchGameOdds(ctx, p.gameID)
		return err
	})
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	p.orch.store.IngestOdds(p.gameID, entries)
	return nil
}

func (p *gamePoller) pollProps(ctx context.Context) error {
	var markets []models.PropMarketSnapshot
	err := p.orch.breakers["props"].Call(func() error {
		var err error
		markets, err = p.orch.feeds.FetchPlayerProps(ctx, p.gameID)
		return err
	})
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	for _, m := range markets {
		p.orch.store.IngestPropMarket(m)
	}

	if p.orch.history != nil && len(markets) > 0 {
		go func(markets []models.PropMarketSnapshot) {
			writeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			result := retry.WithExponentialBackoff(writeCtx, retry.DefaultRetryConfig(), func(ctx context.Context, attempt int) error {
				return p.orch.history.RecordPropLines(ctx, markets)
			})
			if !result.Success {
				p.orch.logger.WithError(result.LastError).WithField("gameId", p.gameID).Warn("Failed to record line history")
			}
		}(markets)
	}
	return nil
}

func (p *gamePoller) pollBoxScore(ctx context.Context) error {
	var players []models.PlayerBoxScoreStat
	err := p.orch.breakers["boxscore"].Call(func() error {
		var err error
		players, err = p.orch.feeds.FetchBoxScore(ctx, p.gameID)
		return err
	})
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}
	p.orch.store.IngestBoxScore(p.gameID, players)
	return nil
}
