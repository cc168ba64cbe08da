// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/betslip"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/service"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/storage"
)

// Service interfaces for dependency injection and testing

// BoardServiceInterface defines the interface for live board operations
type BoardServiceInterface interface {
	Board(ctx context.Context, gameID string, averages service.QuarterAverages) (*service.GameBoard, error)
}

// ParlayServiceInterface defines the interface for tracked parlay operations
type ParlayServiceInterface interface {
	Submit(ctx context.Context, legs []models.BetslipLeg, source string, stake float64) (*models.TrackedParlaySnapshot, error)
	Get(ctx context.Context, parlayID string) (*models.TrackedParlaySnapshot, error)
	List(ctx context.Context, limit, offset int) ([]*models.TrackedParlaySnapshot, error)
	Progress(ctx context.Context, parlayID string) (*models.ParlayProgress, error)
}

// GameControllerInterface defines the interface for activating and
// deactivating per-game polling
type GameControllerInterface interface {
	Activate(gameID string)
	Deactivate(gameID string)
	ActiveGames() []string
	IsActive(gameID string) bool
}

// ScoreReaderInterface exposes the latest score snapshot for a game
type ScoreReaderInterface interface {
	Score(gameID string) (models.GameSnapshot, bool)
}

// ScoreboardFetcherInterface fetches the provider's slate of games, used to
// discover game ids before any of them is activated
type ScoreboardFetcherInterface interface {
	FetchScoreboard(ctx context.Context) ([]models.GameSnapshot, error)
}

// FiltersStoreInterface persists the user's board display filters
type FiltersStoreInterface interface {
	SaveFilters(ctx context.Context, filters storage.BoardFilters) error
	LoadFilters(ctx context.Context) (storage.BoardFilters, error)
}

// Server represents the HTTP API server.
type Server struct {
	router        *mux.Router
	httpServer    *http.Server
	boardService  BoardServiceInterface
	parlayService ParlayServiceInterface
	games         GameControllerInterface
	scores        ScoreReaderInterface
	scoreboard    ScoreboardFetcherInterface
	ledger        *betslip.Ledger
	filters       FiltersStoreInterface
	averages      service.QuarterAverages
	config        *ServerConfig
	logger        *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	ClientRPS       int // Requests per second allowed per client
	ClientBurst     int // Burst size allowed per client
}

// NewServer creates a new API server instance. filters and averages may be
// nil when the backing stores are unavailable; the endpoints that need them
// degrade instead of failing startup.
func NewServer(
	config *ServerConfig,
	boardService BoardServiceInterface,
	parlayService ParlayServiceInterface,
	games GameControllerInterface,
	scores ScoreReaderInterface,
	scoreboard ScoreboardFetcherInterface,
	ledger *betslip.Ledger,
	filters FiltersStoreInterface,
	averages service.QuarterAverages,
	logger *logging.Logger,
) *Server {
	s := &Server{
		router:        mux.NewRouter(),
		boardService:  boardService,
		parlayService: parlayService,
		games:         games,
		scores:        scores,
		scoreboard:    scoreboard,
		ledger:        ledger,
		filters:       filters,
		averages:      averages,
		config:        config,
		logger:        logger,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.ClientRPS, s.config.ClientBurst)

	// Middleware order matters: logging wraps everything, rate limiting
	// runs after CORS so preflights are never throttled.
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// API v1 routes
	api := s.router.PathPrefix("/api").Subrouter()

	// Game endpoints
	api.HandleFunc("/scoreboard", s.handleScoreboard).Methods("GET")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")
	api.HandleFunc("/games/{id}/activate", s.handleActivateGame).Methods("POST")
	api.HandleFunc("/games/{id}", s.handleDeactivateGame).Methods("DELETE")
	api.HandleFunc("/games/{id}/board", s.handleGameBoard).Methods("GET")

	// Odds endpoints
	api.HandleFunc("/odds/convert", s.handleConvertOdds).Methods("GET")
	api.HandleFunc("/odds/parlay", s.handlePriceParlay).Methods("POST")

	// Betslip endpoints
	api.HandleFunc("/betslip", s.handleGetBetslip).Methods("GET")
	api.HandleFunc("/betslip/toggle", s.handleToggleLeg).Methods("POST")
	api.HandleFunc("/betslip", s.handleClearBetslip).Methods("DELETE")
	api.HandleFunc("/betslip/export", s.handleExportBetslip).Methods("GET")
	api.HandleFunc("/betslip/price", s.handlePriceBetslip).Methods("GET")

	// Tracked parlay endpoints
	api.HandleFunc("/parlays", s.handleSubmitParlay).Methods("POST")
	api.HandleFunc("/parlays", s.handleListParlays).Methods("GET")
	api.HandleFunc("/parlays/{id}", s.handleGetParlay).Methods("GET")
	api.HandleFunc("/parlays/{id}/progress", s.handleParlayProgress).Methods("GET")

	// Preference endpoints
	api.HandleFunc("/prefs/filters", s.handleGetFilters).Methods("GET")
	api.HandleFunc("/prefs/filters", s.handlePutFilters).Methods("PUT")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "prop-analyzer",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}
