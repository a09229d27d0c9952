package repositories

import (
	"context"
	"fmt"
	"iter"
	"sync"
)

// MemoryStore keeps records of one entity type in insertion order.
// Writers are serialized by mu; readers iterate over a snapshot so no lock is
// held while the caller consumes the sequence.
type MemoryStore[T any, P Record[T]] struct {
	mu      sync.RWMutex
	records []T
	index   map[int64]int
	lastID  int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore[T any, P Record[T]]() *MemoryStore[T, P] {
	return &MemoryStore[T, P]{index: make(map[int64]int)}
}

// QueryAll returns a lazy sequence over a snapshot taken when iteration starts
func (s *MemoryStore[T, P]) QueryAll(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		s.mu.RLock()
		snapshot := make([]T, len(s.records))
		copy(snapshot, s.records)
		s.mu.RUnlock()

		for _, record := range snapshot {
			if err := ctx.Err(); err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !yield(clone(record), nil) {
				return
			}
		}
	}
}

// Create inserts a copy of record and writes the assigned id back
func (s *MemoryStore[T, P]) Create(ctx context.Context, record *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := P(record).GetID()
	if id == 0 {
		id = s.lastID + 1
	} else if _, exists := s.index[id]; exists {
		return fmt.Errorf("record with ID %d: %w", id, ErrDuplicate)
	}
	if id > s.lastID {
		s.lastID = id
	}

	P(record).SetID(id)
	s.index[id] = len(s.records)
	s.records = append(s.records, clone(*record))
	return nil
}

// Update overwrites the stored copy of record
func (s *MemoryStore[T, P]) Update(ctx context.Context, record *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := P(record).GetID()
	pos, ok := s.index[id]
	if !ok {
		return fmt.Errorf("record with ID %d: %w", id, ErrNotFound)
	}
	s.records[pos] = clone(*record)
	return nil
}

// Remove deletes the record with the same id, if present
func (s *MemoryStore[T, P]) Remove(ctx context.Context, record *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := P(record).GetID()
	pos, ok := s.index[id]
	if !ok {
		return nil
	}

	s.records = append(s.records[:pos], s.records[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.records); i++ {
		s.index[P(&s.records[i]).GetID()] = i
	}
	return nil
}

// clone deep-copies records that know how to, so pointer fields are not
// shared between the store and its callers
func clone[T any](record T) T {
	if c, ok := any(record).(interface{ Clone() T }); ok {
		return c.Clone()
	}
	return record
}

// Len returns the number of records currently held
func (s *MemoryStore[T, P]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
