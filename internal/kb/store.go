package kb

import "sync/atomic"

// Store holds the current knowledge-base snapshot behind an atomic pointer.
// Readers never lock; reload builds a fresh snapshot and swaps it in, so an
// in-flight request keeps the snapshot it started with and never observes a
// partially loaded state.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a Store holding the given snapshot.
func NewStore(s *Snapshot) *Store {
	store := &Store{}
	store.current.Store(s)
	return store
}

// Snapshot returns the current snapshot.
func (st *Store) Snapshot() *Snapshot {
	return st.current.Load()
}

// Swap atomically replaces the current snapshot.
func (st *Store) Swap(s *Snapshot) {
	st.current.Store(s)
}
