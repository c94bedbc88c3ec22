package library

import "fmt"

// #region memory-store
// MemoryStore is the in-memory reference Store. It keeps an explicit
// insertion-order index so List is deterministic.
type MemoryStore[V Snapshot] struct {
	versions map[string]V
	order    []string
	activeID string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore[V Snapshot]() *MemoryStore[V] {
	return &MemoryStore[V]{versions: make(map[string]V)}
}
// #endregion memory-store

// #region memory-save
// Save stores a version, overwriting any previous version with the same id.
func (s *MemoryStore[V]) Save(v V) error {
	id := v.SnapshotID()
	if _, ok := s.versions[id]; !ok {
		s.order = append(s.order, id)
	}
	s.versions[id] = v
	return nil
}
// #endregion memory-save

// #region memory-get
// Get returns the version with the given id, or (nil, nil) if absent.
func (s *MemoryStore[V]) Get(id string) (*V, error) {
	v, ok := s.versions[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

// Active returns the active version, or (nil, nil) before the first SetActive.
func (s *MemoryStore[V]) Active() (*V, error) {
	if s.activeID == "" {
		return nil, nil
	}
	return s.Get(s.activeID)
}
// #endregion memory-get

// #region memory-set-active
// SetActive marks a saved version as active.
func (s *MemoryStore[V]) SetActive(id string) error {
	if _, ok := s.versions[id]; !ok {
		return fmt.Errorf("set active %s: %w", id, ErrVersionNotFound)
	}
	s.activeID = id
	return nil
}
// #endregion memory-set-active

// #region memory-list
// List returns all saved versions in insertion order.
func (s *MemoryStore[V]) List() ([]V, error) {
	out := make([]V, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.versions[id])
	}
	return out, nil
}
// #endregion memory-list
