// Package store holds the artworks known to a gallery session.
//
// Artworks are immutable once stored and are never removed. The store is
// safe for concurrent use.
package store

import (
	"fmt"
	"slices"
	"sync"

	"github.com/spetersoncode/lumina"
)

// Store is a thread-safe in-memory artwork collection that preserves
// insertion order.
type Store struct {
	mu    sync.RWMutex
	items []lumina.Artwork
	index map[string]int
}

// New creates a store holding the given artworks. Entries with an empty or
// repeated id are skipped.
func New(seed ...lumina.Artwork) *Store {
	s := &Store{index: make(map[string]int, len(seed))}
	for _, a := range seed {
		_ = s.Append(a)
	}
	return s
}

// List returns a copy of all artworks in insertion order.
func (s *Store) List() []lumina.Artwork {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Get retrieves an artwork by id.
func (s *Store) Get(id string) (lumina.Artwork, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return lumina.Artwork{}, fmt.Errorf("%w: %q", lumina.ErrNotFound, id)
	}
	return s.items[i], nil
}

// Append adds an artwork to the end of the collection.
func (s *Store) Append(a lumina.Artwork) error {
	if a.ID == "" {
		return lumina.NewUserInputError("artwork id is empty", 0, nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[a.ID]; ok {
		return fmt.Errorf("%w: %q", lumina.ErrDuplicateArtwork, a.ID)
	}
	s.index[a.ID] = len(s.items)
	s.items = append(s.items, a)
	return nil
}

// Len returns the number of stored artworks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
