package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
)

// ParlayRepository persists tracked parlay snapshots.
// A snapshot is written once at submission and never updated; runtime
// progress is derived in memory and not stored.
type ParlayRepository struct {
	db *PostgresDB
}

// NewParlayRepository creates a new parlay repository
func NewParlayRepository(db *PostgresDB) *ParlayRepository {
	return &ParlayRepository{db: db}
}

// Create inserts a tracked parlay snapshot
func (r *ParlayRepository) Create(ctx context.Context, parlay *models.TrackedParlaySnapshot) error {
	legs, err := json.Marshal(parlay.Legs)
	if err != nil {
		return fmt.Errorf("failed to marshal legs: %w", err)
	}

	query := `
		INSERT INTO tracked_parlays (
			parlay_id, created_at, source, stake, parlay_odds, payout, legs
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.Pool().Exec(ctx, query,
		parlay.ParlayID,
		parlay.CreatedAt,
		parlay.Source,
		parlay.Stake,
		parlay.ParlayOdds,
		parlay.Payout,
		legs,
	)
	if err != nil {
		return apperrors.NewDatabaseError("insert tracked parlay", err)
	}
	return nil
}

// Get retrieves a tracked parlay by id
func (r *ParlayRepository) Get(ctx context.Context, parlayID string) (*models.TrackedParlaySnapshot, error) {
	query := `
		SELECT parlay_id, created_at, source, stake, parlay_odds, payout, legs
		FROM tracked_parlays
		WHERE parlay_id = $1
	`

	parlay, err := scanParlay(r.db.Pool().QueryRow(ctx, query, parlayID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewParlayNotFoundError(parlayID)
		}
		return nil, apperrors.NewDatabaseError("get tracked parlay", err)
	}
	return parlay, nil
}

// List returns tracked parlays newest first
func (r *ParlayRepository) List(ctx context.Context, limit, offset int) ([]*models.TrackedParlaySnapshot, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT parlay_id, created_at, source, stake, parlay_odds, payout, legs
		FROM tracked_parlays
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Pool().Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list tracked parlays", err)
	}
	defer rows.Close()

	var parlays []*models.TrackedParlaySnapshot
	for rows.Next() {
		parlay, err := scanParlay(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan tracked parlay", err)
		}
		parlays = append(parlays, parlay)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("list tracked parlays", err)
	}
	return parlays, nil
}

// Delete removes a tracked parlay
func (r *ParlayRepository) Delete(ctx context.Context, parlayID string) error {
	tag, err := r.db.Pool().Exec(ctx, `DELETE FROM tracked_parlays WHERE parlay_id = $1`, parlayID)
	if err != nil {
		return apperrors.NewDatabaseError("delete tracked parlay", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewParlayNotFoundError(parlayID)
	}
	return nil
}

// Count returns the number of tracked parlays
func (r *ParlayRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM tracked_parlays`).Scan(&count)
	if err != nil {
		return 0, apperrors.NewDatabaseError("count tracked parlays", err)
	}
	return count, nil
}

func scanParlay(row pgx.Row) (*models.TrackedParlaySnapshot, error) {
	var parlay models.TrackedParlaySnapshot
	var legs []byte

	if err := row.Scan(
		&parlay.ParlayID,
		&parlay.CreatedAt,
		&parlay.Source,
		&parlay.Stake,
		&parlay.ParlayOdds,
		&parlay.Payout,
		&legs,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(legs, &parlay.Legs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal legs: %w", err)
	}
	return &parlay, nil
}
