// Package store holds the in-memory unit registry.
package store

import (
	"sync"

	"github.com/fairyhunter13/unit-update-service/internal/apperr"
	"github.com/fairyhunter13/unit-update-service/internal/model"
)

type unitState struct {
	r        model.Record
	revision uint64
}

// Store maps unit names to records. Units are fixed at construction; there is
// no way to add or remove one afterwards.
type Store struct {
	mu    sync.RWMutex
	m     map[string]unitState
	order []string
	seq   Sequencer
}

// New seeds a Store with units. A repeated name keeps its first position and
// its last record.
func New(units []model.Unit) *Store {
	s := &Store{m: make(map[string]unitState, len(units))}
	for _, u := range units {
		if _, ok := s.m[u.Name]; !ok {
			s.order = append(s.order, u.Name)
		}
		s.m[u.Name] = unitState{r: u.Record.Clone()}
	}
	return s
}

// Get returns a copy of the record stored under name.
func (s *Store) Get(name string) (model.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[name]
	if !ok {
		return model.Record{}, false
	}
	return st.r.Clone(), true
}

// Revision returns the revision of the last merge applied to name, zero if
// the unit was never updated.
func (s *Store) Revision(name string) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[name]
	return st.revision, ok
}

// Update replaces the record of name with the result of fn while holding the
// write lock. fn receives a copy; when it fails the record is left unchanged.
func (s *Store) Update(name string, fn func(model.Record) (model.Record, error)) (model.Record, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[name]
	if !ok {
		return model.Record{}, 0, apperr.Errorf(apperr.KindNotFound, "store.update", "unit %q not registered", name)
	}
	next, err := fn(st.r.Clone())
	if err != nil {
		return model.Record{}, 0, err
	}
	st.r = next.Clone()
	st.revision = s.seq.Next()
	s.m[name] = st
	return st.r.Clone(), st.revision, nil
}

// Names lists the registered units in seed order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Len returns the number of registered units.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
