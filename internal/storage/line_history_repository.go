package storage

import (
	"context"
	"time"

	apperrors "github.com/jposhie1777/nba-prop-analyzer-sub000/internal/errors"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/models"
	"github.com/jposhie1777/nba-prop-analyzer-sub000/internal/types"
)

// LineHistoryRepository appends every observed prop line to ClickHouse.
// The history powers line-movement queries; the live store only keeps the
// latest record per line, so this is the only place movement survives.
type LineHistoryRepository struct {
	db *ClickHouseDB
}

// NewLineHistoryRepository creates a new line history repository
func NewLineHistoryRepository(db *ClickHouseDB) *LineHistoryRepository {
	return &LineHistoryRepository{db: db}
}

// LineHistoryRow is one observed line at one point in time
type LineHistoryRow struct {
	SnapshotTs    time.Time
	GameID        string
	PropPlayerKey string
	PlayerName    string
	Market        string
	LineType      string
	Line          float64
	OverOdds      *int32
	UnderOdds     *int32
	Price         *int32
}

// RecordPropLines batch-inserts every line of the given market arrivals.
// Duplicate (slot, snapshotTs) rows from overlapping polls are tolerated;
// the table collapses them on merge.
func (r *LineHistoryRepository) RecordPropLines(ctx context.Context, markets []models.PropMarketSnapshot) error {
	if len(markets) == 0 {
		return nil
	}

	batch, err := r.db.Conn().PrepareBatch(ctx, `
		INSERT INTO prop_line_history (
			snapshot_ts, game_id, prop_player_key, player_name,
			market, line_type, line, over_odds, under_odds, price
		)
	`)
	if err != nil {
		return apperrors.NewDatabaseError("prepare line history batch", err)
	}

	for _, m := range markets {
		for _, l := range m.Lines {
			if err := batch.Append(
				l.SnapshotTs,
				m.GameID,
				m.PropPlayerKey,
				m.PlayerName,
				m.MarketKey,
				string(l.LineType),
				l.Line,
				toInt32(l.OverOdds),
				toInt32(l.UnderOdds),
				toInt32(l.Price),
			); err != nil {
				return apperrors.NewDatabaseError("append line history row", err)
			}
		}
	}

	if err := batch.Send(); err != nil {
		return apperrors.NewDatabaseError("send line history batch", err)
	}
	return nil
}

// RecentLines returns the line history for one market slot, newest first
func (r *LineHistoryRepository) RecentLines(ctx context.Context, gameID, propPlayerKey, market string, limit int) ([]LineHistoryRow, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	query := `
		SELECT snapshot_ts, game_id, prop_player_key, player_name,
		       market, line_type, line, over_odds, under_odds, price
		FROM prop_line_history
		WHERE game_id = ? AND prop_player_key = ? AND market = ?
		ORDER BY snapshot_ts DESC
		LIMIT ?
	`

	rows, err := r.db.Conn().Query(ctx, query, gameID, propPlayerKey, market, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseError("query line history", err)
	}
	defer rows.Close()

	var result []LineHistoryRow
	for rows.Next() {
		var row LineHistoryRow
		if err := rows.Scan(
			&row.SnapshotTs,
			&row.GameID,
			&row.PropPlayerKey,
			&row.PlayerName,
			&row.Market,
			&row.LineType,
			&row.Line,
			&row.OverOdds,
			&row.UnderOdds,
			&row.Price,
		); err != nil {
			return nil, apperrors.NewDatabaseError("scan line history row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("query line history", err)
	}
	return result, nil
}

// MainLineMovement returns how the main over/under line moved for a slot
func (r *LineHistoryRepository) MainLineMovement(ctx context.Context, gameID, propPlayerKey, market string) ([]LineHistoryRow, error) {
	query := `
		SELECT snapshot_ts, game_id, prop_player_key, player_name,
		       market, line_type, line, over_odds, under_odds, price
		FROM prop_line_history
		WHERE game_id = ? AND prop_player_key = ? AND market = ? AND line_type = ?
		ORDER BY snapshot_ts ASC
	`

	rows, err := r.db.Conn().Query(ctx, query, gameID, propPlayerKey, market, string(types.LineTypeOverUnder))
	if err != nil {
		return nil, apperrors.NewDatabaseError("query line movement", err)
	}
	defer rows.Close()

	var result []LineHistoryRow
	for rows.Next() {
		var row LineHistoryRow
		if err := rows.Scan(
			&row.SnapshotTs,
			&row.GameID,
			&row.PropPlayerKey,
			&row.PlayerName,
			&row.Market,
			&row.LineType,
			&row.Line,
			&row.OverOdds,
			&row.UnderOdds,
			&row.Price,
		); err != nil {
			return nil, apperrors.NewDatabaseError("scan line movement row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("query line movement", err)
	}
	return result, nil
}

func toInt32(v *int) *int32 {
	if v == nil {
		return nil
	}
	i := int32(*v)
	return &i
}
