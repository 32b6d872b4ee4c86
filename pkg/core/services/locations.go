package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aljab017/ill-router/pkg/core/model"
	"github.com/aljab017/ill-router/pkg/db"
)

// ListLocations returns the locations as stored in the source
func ListLocations(ctx context.Context, source db.LocationSource, logger *zap.Logger) ([]model.Location, error) {
	locations, err := source.GetLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	logger.Debug("Found locations", zap.Int("count", len(locations)))

	return locations, nil
}

// ImportLocations copies locations from reader into store after validating them.
// It returns the number of locations imported.
func ImportLocations(ctx context.Context, store db.LocationWriter, reader db.LocationSource, logger *zap.Logger) (int, error) {
	logger.Debug("Starting importLocations")

	locations, err := reader.GetLocations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read locations: %w", err)
	}

	if len(locations) == 0 {
		return 0, fmt.Errorf("no locations found to import")
	}

	if err := db.ValidateLocations(locations); err != nil {
		return 0, fmt.Errorf("failed to validate locations: %w", err)
	}

	if err := store.UpsertLocations(ctx, locations); err != nil {
		return 0, fmt.Errorf("failed to save locations: %w", err)
	}

	logger.Info("Imported locations",
		zap.Int("count", len(locations)),
		zap.Strings("codes", model.Codes(locations)))

	return len(locations), nil
}
