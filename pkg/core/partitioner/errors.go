package partitioner

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every validation error the partitioner returns
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// ErrInvalidGroupSize is returned when the requested Group 1 size is not positive
	ErrInvalidGroupSize = fmt.Errorf("%w: group size must be greater than zero", ErrInvalidArgument)

	// ErrEmptyLocations is returned when there are no locations to partition
	ErrEmptyLocations = fmt.Errorf("%w: location list is empty", ErrInvalidArgument)

	// ErrNegativeWeight is returned when a location carries a weight below zero
	ErrNegativeWeight = fmt.Errorf("%w: location weight must not be negative", ErrInvalidArgument)

	// ErrWeightTooLarge is returned when a weight exceeds model.MaxWeight or the weights
	// cannot be summed without overflowing
	ErrWeightTooLarge = fmt.Errorf("%w: location weight is too large", ErrInvalidArgument)

	// ErrEmptyLocationCode is returned when adding a location without a code
	ErrEmptyLocationCode = fmt.Errorf("%w: location code is required", ErrInvalidArgument)
)
