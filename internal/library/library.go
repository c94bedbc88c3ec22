package library

import "errors"

// #region errors
var (
	// ErrRejectedDraft is returned when a draft with status REJECTED is published.
	ErrRejectedDraft = errors.New("cannot publish a draft with status REJECTED")
	// ErrVersionNotFound is returned by SetActive for an id that was never saved.
	ErrVersionNotFound = errors.New("version not found")
	// ErrVersionConflict is returned when a version number is already taken.
	ErrVersionConflict = errors.New("version number already published")
)
// #endregion errors

// #region draft-status
// DraftStatus is the review state of an unpublished draft.
type DraftStatus string

const (
	StatusDraft    DraftStatus = "DRAFT"
	StatusReview   DraftStatus = "REVIEW"
	StatusRejected DraftStatus = "REJECTED"
)
// #endregion draft-status

// #region snapshot
// Snapshot is implemented by published library versions.
type Snapshot interface {
	SnapshotID() string
	SnapshotNumber() int
}
// #endregion snapshot

// #region store
// Store persists published versions and tracks which one is active.
// Lookups for unknown ids return (nil, nil); only SetActive treats an
// unknown id as an error.
type Store[V Snapshot] interface {
	Save(v V) error
	Get(id string) (*V, error)
	Active() (*V, error)
	SetActive(id string) error
	List() ([]V, error)
}
// #endregion store
