// Package directory holds the in-memory keyed collections (equipment,
// employees, loadouts, customers, proposals, work orders) and persists them
// as whole collections.
package directory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicate     = errors.New("record already exists")
	ErrInvalidRecord = errors.New("invalid record")
)

// Record is anything keyed by a UUID.
type Record interface {
	Key() uuid.UUID
}

// Persister reads and writes a whole collection at once.
type Persister[T Record] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, records []T) error
}

// Store is an ordered keyed collection. Mutations are written through to the
// persister and become visible only once the save succeeds, so a failed save
// leaves the collection as it was.
type Store[T Record] struct {
	name    string
	persist Persister[T]
	check   func(T) error

	mu    sync.RWMutex
	items []T

	subMu       sync.Mutex
	subscribers []func()
}

// New creates an empty store. persist may be nil for a memory-only store and
// check may be nil when records need no validation.
func New[T Record](name string, persist Persister[T], check func(T) error) *Store[T] {
	return &Store[T]{name: name, persist: persist, check: check}
}

// Name identifies the store in errors.
func (s *Store[T]) Name() string { return s.name }

// Load replaces the collection with the persisted one.
func (s *Store[T]) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}

	records, err := s.persist.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.name, err)
	}

	s.mu.Lock()
	s.items = append([]T(nil), records...)
	s.mu.Unlock()

	s.notify()
	return nil
}

// List returns a copy of the collection in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.items...)
}

// Get returns the record with the given ID. A miss is reported through ok,
// never as an error.
func (s *Store[T]) Get(id uuid.UUID) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Create adds record. An existing ID fails with ErrDuplicate.
func (s *Store[T]) Create(ctx context.Context, record T) error {
	if record.Key() == uuid.Nil {
		return fmt.Errorf("%w: %s id is required", ErrInvalidRecord, s.name)
	}
	if err := s.validate(record); err != nil {
		return err
	}

	return s.mutate(ctx, func(items []T) ([]T, error) {
		if indexIn(items, record.Key()) >= 0 {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicate, s.name, record.Key())
		}
		return append(items, record), nil
	})
}

// Update replaces the record with the same ID.
func (s *Store[T]) Update(ctx context.Context, record T) error {
	if err := s.validate(record); err != nil {
		return err
	}

	return s.mutate(ctx, func(items []T) ([]T, error) {
		i := indexIn(items, record.Key())
		if i < 0 {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, s.name, record.Key())
		}
		items[i] = record
		return items, nil
	})
}

// Delete removes the record with id. References to it elsewhere are left alone.
func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(items []T) ([]T, error) {
		i := indexIn(items, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
		}
		return append(items[:i], items[i+1:]...), nil
	})
}

// Subscribe registers fn to run after every successful change.
func (s *Store[T]) Subscribe(fn func()) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *Store[T]) validate(record T) error {
	if s.check == nil {
		return nil
	}
	return s.check(record)
}

func (s *Store[T]) mutate(ctx context.Context, change func([]T) ([]T, error)) error {
	s.mu.Lock()

	next, err := change(append([]T(nil), s.items...))
	if err != nil {
		s.mu.Unlock()
		return err
	}

	if s.persist != nil {
		if err := s.persist.SaveAll(ctx, next); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("save %s: %w", s.name, err)
		}
	}
	s.items = next
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store[T]) notify() {
	s.subMu.Lock()
	subs := append([]func(){}, s.subscribers...)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func (s *Store[T]) indexOf(id uuid.UUID) int {
	return indexIn(s.items, id)
}

func indexIn[T Record](items []T, id uuid.UUID) int {
	for i, item := range items {
		if item.Key() == id {
			return i
		}
	}
	return -1
}
