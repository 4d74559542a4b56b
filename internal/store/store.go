// Package store holds the ordered, in-memory list of mortgage scenarios a
// session is comparing.
package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/iwvelando/mortgage-planner/pkg/loans"
)

var (
	// ErrNotFound is returned when no scenario has the requested ID.
	ErrNotFound = errors.New("scenario not found")

	// ErrIndexOutOfRange is returned when deleting past the end of the list.
	ErrIndexOutOfRange = errors.New("scenario index out of range")
)

// Entry is a stored scenario and the ID clients use to address it.
type Entry struct {
	ID       string         `json:"id"`
	Scenario loans.Scenario `json:"scenario"`
}

// Store keeps scenarios in insertion order. Names are not required to be
// unique. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries []Entry
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: []Entry{}}
}

// Add appends a scenario and returns its entry.
func (s *Store) Add(scenario loans.Scenario) Entry {
	entry := Entry{ID: uuid.NewString(), Scenario: scenario}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return entry
}

// List returns a copy of all entries in insertion order.
func (s *Store) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Get looks up an entry by ID.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

// Len returns the number of stored scenarios.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// DeleteAt removes the scenario at the given position.
func (s *Store) DeleteAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.entries))
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	return nil
}

// Delete removes the scenario with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
