package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/aljab017/ill-router/pkg/core/model"
)

const selectLocationsSQL = `
	SELECT code, report_code, name, weight::text, is_last_resort
	FROM location
	ORDER BY id
`

const upsertLocationSQL = `
	INSERT INTO location (code, report_code, name, weight, is_last_resort)
	VALUES ($1, $2, $3, $4::numeric, $5)
	ON CONFLICT (code) DO UPDATE SET
		report_code = EXCLUDED.report_code,
		name = EXCLUDED.name,
		weight = EXCLUDED.weight,
		is_last_resort = EXCLUDED.is_last_resort,
		updated_at = NOW()
`

// GetLocations retrieves all locations in insertion order
func (db *DB) GetLocations(ctx context.Context) ([]model.Location, error) {
	rows, err := db.pool.Query(ctx, selectLocationsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		var loc model.Location
		var weight string
		if err := rows.Scan(&loc.Code, &loc.ReportCode, &loc.Name, &weight, &loc.IsLastResort); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}

		loc.Weight, err = model.ParseWeight(weight)
		if err != nil {
			return nil, fmt.Errorf("failed to parse weight of location %s: %w", loc.Code, err)
		}

		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locations: %w", err)
	}

	return locations, nil
}

// UpsertLocations inserts or updates locations by code in a single transaction.
// Updated locations keep their original position.
func (db *DB) UpsertLocations(ctx context.Context, locations []model.Location) error {
	if len(locations) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			db.logger.Error("Failed to rollback transaction", zap.Error(err))
		}
	}()

	for _, loc := range locations {
		_, err := tx.Exec(ctx, upsertLocationSQL,
			loc.Code, loc.ReportCode, loc.Name, loc.Weight.String(), loc.IsLastResort)
		if err != nil {
			return fmt.Errorf("failed to upsert location %s: %w", loc.Code, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	db.logger.Debug("Upserted locations", zap.Int("count", len(locations)))

	return nil
}
