package db

import (
	"context"

	"github.com/aljab017/ill-router/pkg/core/model"
)

// LocationSource defines the interface for reading lending locations
type LocationSource interface {
	GetLocations(ctx context.Context) ([]model.Location, error)
}

// LocationWriter defines the interface for saving lending locations.
// Locations are matched by code; existing locations are replaced.
type LocationWriter interface {
	UpsertLocations(ctx context.Context, locations []model.Location) error
}

// LocationStore defines the interface for all location operations.
// Both the YAML-backed db.FileStore and postgres.DB implement this interface.
type LocationStore interface {
	LocationSource
	LocationWriter
}
