package repository

import (
	"context"
	"fmt"

	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/pkg/metrics"
)

// Snapshot is an immutable Store built once from a generated dataset.
// It is safe for concurrent use without locking because nothing mutates it
// after NewSnapshot returns.
type Snapshot struct {
	passengers []model.Passenger
	byID       map[int]int // passenger id -> index
}

var _ Store = (*Snapshot)(nil)

// NewSnapshot copies ps and indexes it by passenger id.
// A later record with a duplicate id shadows the earlier one for Get.
func NewSnapshot(ps []model.Passenger) *Snapshot {
	s := &Snapshot{
		passengers: make([]model.Passenger, len(ps)),
		byID:       make(map[int]int, len(ps)),
	}
	copy(s.passengers, ps)
	for i, p := range s.passengers {
		s.byID[p.ID] = i
	}
	metrics.UpdateDatasetPassengers(len(s.passengers))
	return s
}

// Get implements Store.
func (s *Snapshot) Get(_ context.Context, id int) (model.Passenger, error) {
	i, ok := s.byID[id]
	if !ok {
		return model.Passenger{}, fmt.Errorf("passenger %d: %w", id, ErrNotFound)
	}
	return s.passengers[i], nil
}

// Head implements Store. Limits above the dataset size return everything.
func (s *Snapshot) Head(_ context.Context, n int) ([]model.Passenger, error) {
	if n <= 0 {
		return nil, fmt.Errorf("limit %d: %w", n, ErrInvalidLimit)
	}
	if n > len(s.passengers) {
		n = len(s.passengers)
	}
	out := make([]model.Passenger, n)
	copy(out, s.passengers[:n])
	return out, nil
}

// All implements Store. The returned slice is a copy.
func (s *Snapshot) All(_ context.Context) []model.Passenger {
	out := make([]model.Passenger, len(s.passengers))
	copy(out, s.passengers)
	return out
}

// Count implements Store.
func (s *Snapshot) Count(_ context.Context) int {
	return len(s.passengers)
}
