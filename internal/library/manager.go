package library

import "fmt"

// #region hooks
// Hooks supply the library-specific projections the generic Manager needs.
type Hooks[D any, V Snapshot] struct {
	// MakeVersion freezes a draft into an immutable version with the
	// assigned number and publisher.
	MakeVersion func(draft D, versionNumber int, publishedBy string) V
	// DraftStatus reports the review status of a draft.
	DraftStatus func(draft D) DraftStatus
}
// #endregion hooks

// #region manager
// Manager publishes drafts as monotonically numbered versions and keeps the
// newest published version active. A single goroutine owns each instance.
type Manager[D any, V Snapshot] struct {
	store Store[V]
	hooks Hooks[D, V]
	next  int
}

// NewManager returns a Manager that numbers its first version 1.
func NewManager[D any, V Snapshot](store Store[V], hooks Hooks[D, V]) *Manager[D, V] {
	return &Manager[D, V]{store: store, hooks: hooks, next: 1}
}

// ResumeManager returns a Manager whose numbering continues from the versions
// already present in the store.
func ResumeManager[D any, V Snapshot](store Store[V], hooks Hooks[D, V]) (*Manager[D, V], error) {
	next, err := NextVersionNumber(store)
	if err != nil {
		return nil, err
	}
	m := NewManager(store, hooks)
	m.next = next
	return m, nil
}
// #endregion manager

// #region publish
// Publish freezes a draft into the next numbered version, saves it and makes
// it active. Rejected drafts fail with ErrRejectedDraft before any state
// changes. The version counter advances only after the store accepted the
// version, so a failed publish retries with the same number.
func (m *Manager[D, V]) Publish(draft D, publishedBy string) (*V, error) {
	if m.hooks.DraftStatus(draft) == StatusRejected {
		return nil, ErrRejectedDraft
	}

	number := m.next
	version := m.hooks.MakeVersion(draft, number, publishedBy)

	if err := m.store.Save(version); err != nil {
		return nil, fmt.Errorf("save version %d: %w", number, err)
	}
	if err := m.store.SetActive(version.SnapshotID()); err != nil {
		return nil, fmt.Errorf("activate version %d: %w", number, err)
	}

	m.next++
	return &version, nil
}
// #endregion publish

// #region accessors
// ActiveVersion returns the currently active version, or (nil, nil) before
// the first publish.
func (m *Manager[D, V]) ActiveVersion() (*V, error) {
	return m.store.Active()
}

// Version returns a published version by id, or (nil, nil) if absent.
func (m *Manager[D, V]) Version(id string) (*V, error) {
	return m.store.Get(id)
}

// ListVersions returns every published version in store order.
func (m *Manager[D, V]) ListVersions() ([]V, error) {
	return m.store.List()
}
// #endregion accessors

// #region next-number
// NextVersionNumber scans a store for the highest published number and
// returns the number the next publish should use. An empty store yields 1.
func NextVersionNumber[V Snapshot](store Store[V]) (int, error) {
	versions, err := store.List()
	if err != nil {
		return 0, fmt.Errorf("list versions: %w", err)
	}
	max := 0
	for _, v := range versions {
		if v.SnapshotNumber() > max {
			max = v.SnapshotNumber()
		}
	}
	return max + 1, nil
}
// #endregion next-number
