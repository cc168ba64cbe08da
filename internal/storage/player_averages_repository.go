package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/logging"
)

// PlayerAveragesRepository serves per-quarter production averages used by
// the remaining-production projector. Rows are keyed by normalized player
// name and market and refreshed out of band from season stats.
type PlayerAveragesRepository struct {
	db     *PostgresDB
	logger *logging.Logger
}

// NewPlayerAveragesRepository creates a new player averages repository
func NewPlayerAveragesRepository(db *PostgresDB) *PlayerAveragesRepository {
	return &PlayerAveragesRepository{
		db:     db,
		logger: logging.GetGlobalLogger(),
	}
}

// Upsert stores the quarter averages for a player and market
func (r *PlayerAveragesRepository) Upsert(ctx context.Context, playerName, market string, avgQ3, avgQ4 float64) error {
	query := `
		INSERT INTO player_quarter_averages (player_name, market, avg_q3, avg_q4, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (player_name, market)
		DO UPDATE SET avg_q3 = $3, avg_q4 = $4, updated_at = NOW()
	`

	_, err := r.db.Pool().Exec(ctx, query, normalizeName(playerName), market, avgQ3, avgQ4)
	if err != nil {
		return apperrors.NewDatabaseError("upsert player averages", err)
	}
	return nil
}

// QuarterAverages returns the stored Q3 and Q4 averages for a player and
// market. A missing row or a read failure reads as not found: the caller
// renders the board without a remaining projection rather than failing.
func (r *PlayerAveragesRepository) QuarterAverages(ctx context.Context, playerName, market string) (float64, float64, bool) {
	query := `
		SELECT avg_q3, avg_q4
		FROM player_quarter_averages
		WHERE player_name = $1 AND market = $2
	`

	var avgQ3, avgQ4 float64
	err := r.db.Pool().QueryRow(ctx, query, normalizeName(playerName), market).Scan(&avgQ3, &avgQ4)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			r.logger.WithError(err).WithFields(map[string]interface{}{
				"player": playerName,
				"market": market,
			}).Warn("Player averages lookup failed")
		}
		return 0, 0, false
	}

	return avgQ3, avgQ4, true
}

// normalizeName folds case and surrounding whitespace so feed name variants
// land on the same row
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
