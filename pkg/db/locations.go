package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/aljab017/ill-router/pkg/core/model"
)

var validate = validator.New()

// ValidateLocations checks that every location has a code, that codes are unique
// and that every weight lies in [0, model.MaxWeight]
func ValidateLocations(locations []model.Location) error {
	seen := make(map[string]int, len(locations))
	for i, loc := range locations {
		if err := validate.Struct(loc); err != nil {
			return fmt.Errorf("invalid location at index %d: %w", i, err)
		}
		if first, ok := seen[loc.Code]; ok {
			return fmt.Errorf("duplicate location code %q at index %d and %d", loc.Code, first, i)
		}
		seen[loc.Code] = i
	}
	return nil
}

// locationFile is the on-disk layout of a YAML location list
type locationFile struct {
	Locations []model.Location `yaml:"locations"`
}

// FileStore reads and writes locations in a YAML file
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the YAML file at path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads from
func (s *FileStore) Path() string {
	return s.path
}

// GetLocations reads and validates all locations from the file
func (s *FileStore) GetLocations(ctx context.Context) ([]model.Location, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locations file: %w", err)
	}

	var file locationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse locations file %s: %w", s.path, err)
	}

	if err := ValidateLocations(file.Locations); err != nil {
		return nil, fmt.Errorf("failed to validate locations file %s: %w", s.path, err)
	}

	return file.Locations, nil
}

// UpsertLocations merges locations into the file by code.
// Existing locations keep their position; new ones are appended in order.
// The file is created if it does not exist.
func (s *FileStore) UpsertLocations(ctx context.Context, locations []model.Location) error {
	if err := ValidateLocations(locations); err != nil {
		return err
	}

	existing, err := s.GetLocations(ctx)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	index := make(map[string]int, len(existing))
	for i, loc := range existing {
		index[loc.Code] = i
	}

	merged := existing
	for _, loc := range locations {
		if i, ok := index[loc.Code]; ok {
			merged[i] = loc
			continue
		}
		index[loc.Code] = len(merged)
		merged = append(merged, loc)
	}

	data, err := yaml.Marshal(locationFile{Locations: merged})
	if err != nil {
		return fmt.Errorf("failed to encode locations: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write locations file: %w", err)
	}

	return nil
}
