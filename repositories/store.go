package repositories

import (
	"context"
	"errors"
	"iter"

	"github.com/blogem/usermgmt/models"
)

var (
	// ErrNotFound is returned when a record id is not present in a store
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when creating a record whose preset id is taken
	ErrDuplicate = errors.New("record already exists")
	// ErrStorage wraps failures of the underlying storage engine
	ErrStorage = errors.New("storage failure")
)

// Record is satisfied by pointers to storable entities
type Record[T any] interface {
	*T
	GetID() int64
	SetID(id int64)
}

// Store is the persistence contract shared by every entity type
type Store[T any] interface {
	// QueryAll returns a lazy sequence over all records in insertion order.
	// Nothing is read until the sequence is ranged over.
	QueryAll(ctx context.Context) iter.Seq2[T, error]
	// Create inserts record, assigning a new id when its id is zero.
	Create(ctx context.Context, record *T) error
	// Update overwrites all fields of an existing record. Returns ErrNotFound
	// when the id is absent.
	Update(ctx context.Context, record *T) error
	// Remove deletes the record with the same id. Absent ids are a no-op.
	Remove(ctx context.Context, record *T) error
}

// LogPager is implemented by log stores that can order and page entries
// themselves instead of having the caller materialize the full set.
type LogPager interface {
	// Recent returns entries newest first, optionally filtered by user id.
	Recent(ctx context.Context, userID *int64, skip, take int) ([]models.LogEntry, error)
}

// Collect drains a sequence into a slice, stopping at the first error
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Find returns the first record matching pred, or ErrNotFound
func Find[T any](seq iter.Seq2[T, error], pred func(T) bool) (*T, error) {
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		if pred(v) {
			found := v
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Filter returns a lazy sequence of the records matching pred
func Filter[T any](seq iter.Seq2[T, error], pred func(T) bool) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for v, err := range seq {
			if err != nil {
				yield(v, err)
				return
			}
			if pred(v) && !yield(v, nil) {
				return
			}
		}
	}
}
