// Package adapter implements clients for the external live-data feeds:
// scores, game odds, player props, and box scores.
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/config"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// FeedsClient talks to the analytics backend that aggregates the score,
// odds, prop and box-score feeds. One client is shared by all game pollers;
// the rate limiter is global so concurrent pollers cannot exceed the
// backend's request budget between them.
type FeedsClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *logging.Logger
}

// NewFeedsClient creates a feeds client from configuration
func NewFeedsClient(cfg config.FeedsConfig, logger *logging.Logger) *FeedsClient {
	return &FeedsClient{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst),
		logger:  logger,
	}
}

// scoreboardResponse is the wire shape of the score feed
type scoreboardResponse struct {
	Games []scoreboardGame `json:"games"`
}

type scoreboardGame struct {
	GameID    string `json:"gameId"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
	Period    string `json:"period"`
	Clock     string `json:"clock"`
	Status    string `json:"status"`
}

// oddsResponse is the wire shape of the game-odds feed
type oddsResponse struct {
	GameID string          `json:"gameId"`
	Books  []oddsBookEntry `json:"books"`
}

type oddsBookEntry struct {
	Book           string   `json:"book"`
	SpreadHome     *float64 `json:"spreadHome"`
	SpreadHomeOdds *int     `json:"spreadHomeOdds"`
	SpreadAway     *float64 `json:"spreadAway"`
	SpreadAwayOdds *int     `json:"spreadAwayOdds"`
	Total          *float64 `json:"total"`
	OverOdds       *int     `json:"overOdds"`
	UnderOdds      *int     `json:"underOdds"`
}

// propsResponse is the wire shape of the player-props feed
type propsResponse struct {
	GameID  string       `json:"gameId"`
	Markets []propMarket `json:"markets"`
}

type propMarket struct {
	PlayerKey  string     `json:"playerKey"`
	PlayerID   *int64     `json:"playerId"`
	PlayerName string     `json:"playerName"`
	Market     string     `json:"market"`
	Lines      []propLine `json:"lines"`
}

type propLine struct {
	Type       string  `json:"type"` // "over_under" or "milestone"
	Line       float64 `json:"line"`
	OverOdds   *int    `json:"overOdds"`
	UnderOdds  *int    `json:"underOdds"`
	Price      *int    `json:"price"`
	SnapshotTs int64   `json:"snapshotTs"` // unix millis
}

// boxScoreResponse is the wire shape of the box-score feed
type boxScoreResponse struct {
	GameID  string           `json:"gameId"`
	Period  string           `json:"period"`
	Clock   string           `json:"clock"`
	Players []boxScorePlayer `json:"players"`
}

type boxScorePlayer struct {
	PlayerID *int64             `json:"playerId"`
	Name     string             `json:"name"`
	Team     string             `json:"team"`
	Minutes  string             `json:"minutes"`
	Stats    map[string]float64 `json:"stats"`
}

// FetchScoreboard fetches the current slate of games
func (c *FeedsClient) FetchScoreboard(ctx context.Context) ([]models.GameSnapshot, error) {
	var resp scoreboardResponse
	if err := c.get(ctx, "/v1/scoreboard", nil, &resp); err != nil {
		return nil, errors.NewProviderError("scoreboard", err)
	}

	now := time.Now()
	games := make([]models.GameSnapshot, 0, len(resp.Games))
	for _, g := range resp.Games {
		games = append(games, models.GameSnapshot{
			GameID:    g.GameID,
			Home:      models.TeamSide{Abbr: g.HomeTeam, Score: g.HomeScore},
			Away:      models.TeamSide{Abbr: g.AwayTeam, Score: g.AwayScore},
			Period:    g.Period,
			Clock:     g.Clock,
			GameState: parseGameState(g.Status),
			FetchedAt: now,
		})
	}
	return games, nil
}

// FetchGameScore fetches the score snapshot for one game
func (c *FeedsClient) FetchGameScore(ctx context.Context, gameID string) (models.GameSnapshot, error) {
	var g scoreboardGame
	if err := c.get(ctx, "/v1/games/"+url.PathEscape(gameID)+"/score", nil, &g); err != nil {
		return models.GameSnapshot{}, errors.NewProviderError("scores", err)
	}
	return models.GameSnapshot{
		GameID:    g.GameID,
		Home:      models.TeamSide{Abbr: g.HomeTeam, Score: g.HomeScore},
		Away:      models.TeamSide{Abbr: g.AwayTeam, Score: g.AwayScore},
		Period:    g.Period,
		Clock:     g.Clock,
		GameState: parseGameState(g.Status),
		FetchedAt: time.Now(),
	}, nil
}

// FetchGameOdds fetches the live odds board for one game
func (c *FeedsClient) FetchGameOdds(ctx context.Context, gameID string) ([]models.OddsBoardEntry, error) {
	var resp oddsResponse
	if err := c.get(ctx, "/v1/games/"+url.PathEscape(gameID)+"/odds", nil, &resp); err != nil {
		return nil, errors.NewProviderError("odds", err)
	}

	entries := make([]models.OddsBoardEntry, 0, len(resp.Books))
	for _, b := range resp.Books {
		entries = append(entries, models.OddsBoardEntry{
			Book:           b.Book,
			SpreadHome:     b.SpreadHome,
			SpreadHomeOdds: b.SpreadHomeOdds,
			SpreadAway:     b.SpreadAway,
			SpreadAwayOdds: b.SpreadAwayOdds,
			Total:          b.Total,
			OverOdds:       b.OverOdds,
			UnderOdds:      b.UnderOdds,
		})
	}
	return entries, nil
}

// FetchPlayerProps fetches the prop markets for one game
func (c *FeedsClient) FetchPlayerProps(ctx context.Context, gameID string) ([]models.PropMarketSnapshot, error) {
	var resp propsResponse
	if err := c.get(ctx, "/v1/games/"+url.PathEscape(gameID)+"/props", nil, &resp); err != nil {
		return nil, errors.NewProviderError("props", err)
	}

	markets := make([]models.PropMarketSnapshot, 0, len(resp.Markets))
	for _, m := range resp.Markets {
		lines := make([]models.PropLine, 0, len(m.Lines))
		for _, l := range m.Lines {
			lines = append(lines, models.PropLine{
				LineType:   parseLineType(l.Type),
				Line:       l.Line,
				OverOdds:   l.OverOdds,
				UnderOdds:  l.UnderOdds,
				Price:      l.Price,
				SnapshotTs: time.UnixMilli(l.SnapshotTs).UTC(),
			})
		}
		markets = append(markets, models.PropMarketSnapshot{
			GameID:        resp.GameID,
			PropPlayerKey: m.PlayerKey,
			PlayerID:      m.PlayerID,
			PlayerName:    m.PlayerName,
			MarketKey:     m.Market,
			Lines:         lines,
		})
	}
	return markets, nil
}

// FetchBoxScore fetches the live box score for one game
func (c *FeedsClient) FetchBoxScore(ctx context.Context, gameID string) ([]models.PlayerBoxScoreStat, error) {
	var resp boxScoreResponse
	if err := c.get(ctx, "/v1/games/"+url.PathEscape(gameID)+"/boxscore", nil, &resp); err != nil {
		return nil, errors.NewProviderError("boxscore", err)
	}

	players := make([]models.PlayerBoxScoreStat, 0, len(resp.Players))
	for _, p := range resp.Players {
		stats := p.Stats
		if stats == nil {
			stats = map[string]float64{}
		}
		players = append(players, models.PlayerBoxScoreStat{
			PlayerID: p.PlayerID,
			Name:     p.Name,
			Team:     p.Team,
			Stats:    stats,
			Minutes:  p.Minutes,
			Period:   resp.Period,
			Clock:    resp.Clock,
		})
	}
	return players, nil
}

// get performs a rate-limited GET and decodes the JSON response
func (c *FeedsClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return errors.NewProviderTimeoutError(path)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"path":   path,
			"status": resp.StatusCode,
		}).Warn("Feed request failed")
		return fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// parseGameState normalizes the feed's status string
func parseGameState(status string) types.GameState {
	switch status {
	case "scheduled", "pre":
		return types.GameStateScheduled
	case "halftime":
		return types.GameStateHalftime
	case "final", "post":
		return types.GameStateFinal
	default:
		return types.GameStateInProgress
	}
}

// parseLineType normalizes the feed's line type string
func parseLineType(t string) types.LineType {
	if t == "milestone" {
		return types.LineTypeMilestone
	}
	return types.LineTypeOverUnder
}
