// Package repository holds the read-only passenger snapshot served by the API.
package repository

import (
	"context"

	"github.com/okian/voyage/internal/domain/model"
)

// Store provides read access to a loaded passenger dataset.
type Store interface {
	// Get returns the passenger with the given identifier.
	// Returns ErrNotFound if no passenger carries it.
	Get(ctx context.Context, id int) (model.Passenger, error)

	// Head returns the first n passengers in load order.
	// Returns ErrInvalidLimit for n <= 0.
	Head(ctx context.Context, n int) ([]model.Passenger, error)

	// All returns every passenger in load order.
	All(ctx context.Context) []model.Passenger

	// Count returns the number of passengers held.
	Count(ctx context.Context) int
}
