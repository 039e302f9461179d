package persistence

import "errors"

var (
	// ErrEntityNotFound is returned when an entity is not found in the repository.
	ErrEntityNotFound = errors.New("entity not found")

	// ErrOptimisticLocking is returned when a versioned write lost a race.
	ErrOptimisticLocking = errors.New("optimistic locking error")

	// ErrBulkheadFull is returned when a store call could not get a slot in time.
	ErrBulkheadFull = errors.New("store concurrency limit reached")
)
