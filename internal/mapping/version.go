package mapping

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// #region version
// Version is an immutable published mapping library version. Engagement run
// snapshots reference versions by id, so a Version never changes once
// published: fields are unexported and the accessors return copies.
type Version struct {
	id              string
	number          int
	publishedAt     time.Time
	publishedBy     string
	entries         []Entry
	entryCount      int
	parentVersionID string
	changeLog       []string
	addedEntryIDs   []string
	removedEntryIDs []string
	changedEntries  []ChangedEntry
}

// newVersion freezes a draft into a published version.
func newVersion(d Draft, versionNumber int, publishedBy string) Version {
	return Version{
		id:              uuid.New().String(),
		number:          versionNumber,
		publishedAt:     time.Now().UTC(),
		publishedBy:     publishedBy,
		entries:         append([]Entry(nil), d.Entries...),
		entryCount:      len(d.Entries),
		parentVersionID: d.ParentVersionID,
		changeLog:       append([]string(nil), d.ChangeLog...),
		addedEntryIDs:   append([]string(nil), d.AddedEntryIDs...),
		removedEntryIDs: append([]string(nil), d.RemovedEntryIDs...),
		changedEntries:  append([]ChangedEntry(nil), d.ChangedEntries...),
	}
}
// #endregion version

// #region accessors
func (v Version) ID() string              { return v.id }
func (v Version) Number() int             { return v.number }
func (v Version) PublishedAt() time.Time  { return v.publishedAt }
func (v Version) PublishedBy() string     { return v.publishedBy }
func (v Version) EntryCount() int         { return v.entryCount }
func (v Version) ParentVersionID() string { return v.parentVersionID }

// Entries returns a copy of the published entries.
func (v Version) Entries() []Entry {
	return append([]Entry(nil), v.entries...)
}

// ChangeLog returns a copy of the human-readable change descriptions.
func (v Version) ChangeLog() []string {
	return append([]string(nil), v.changeLog...)
}

// AddedEntryIDs returns a copy of the ids added relative to the parent.
func (v Version) AddedEntryIDs() []string {
	return append([]string(nil), v.addedEntryIDs...)
}

// RemovedEntryIDs returns a copy of the ids removed relative to the parent.
func (v Version) RemovedEntryIDs() []string {
	return append([]string(nil), v.removedEntryIDs...)
}

// ChangedEntries returns a copy of the field-level change records.
func (v Version) ChangedEntries() []ChangedEntry {
	return append([]ChangedEntry(nil), v.changedEntries...)
}

// SnapshotID implements library.Snapshot.
func (v Version) SnapshotID() string { return v.id }

// SnapshotNumber implements library.Snapshot.
func (v Version) SnapshotNumber() int { return v.number }
// #endregion accessors

// #region codec
// versionRecord is the serialized form of a Version.
type versionRecord struct {
	VersionID       string         `json:"version_id"`
	VersionNumber   int            `json:"version_number"`
	PublishedAt     time.Time      `json:"published_at"`
	PublishedBy     string         `json:"published_by"`
	Entries         []Entry        `json:"entries"`
	EntryCount      int            `json:"entry_count"`
	ParentVersionID string         `json:"parent_version_id,omitempty"`
	ChangeLog       []string       `json:"changes_from_parent,omitempty"`
	AddedEntryIDs   []string       `json:"added_entry_ids,omitempty"`
	RemovedEntryIDs []string       `json:"removed_entry_ids,omitempty"`
	ChangedEntries  []ChangedEntry `json:"changed_entries,omitempty"`
}

// MarshalJSON encodes the version for storage and fixtures.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(versionRecord{
		VersionID:       v.id,
		VersionNumber:   v.number,
		PublishedAt:     v.publishedAt,
		PublishedBy:     v.publishedBy,
		Entries:         v.entries,
		EntryCount:      v.entryCount,
		ParentVersionID: v.parentVersionID,
		ChangeLog:       v.changeLog,
		AddedEntryIDs:   v.addedEntryIDs,
		RemovedEntryIDs: v.removedEntryIDs,
		ChangedEntries:  v.changedEntries,
	})
}

// UnmarshalJSON restores a version from its stored form.
func (v *Version) UnmarshalJSON(b []byte) error {
	var rec versionRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return err
	}
	v.id = rec.VersionID
	v.number = rec.VersionNumber
	v.publishedAt = rec.PublishedAt
	v.publishedBy = rec.PublishedBy
	v.entries = rec.Entries
	v.entryCount = rec.EntryCount
	v.parentVersionID = rec.ParentVersionID
	v.changeLog = rec.ChangeLog
	v.addedEntryIDs = rec.AddedEntryIDs
	v.removedEntryIDs = rec.RemovedEntryIDs
	v.changedEntries = rec.ChangedEntries
	return nil
}

// DecodeVersion turns a stored payload back into a Version. It is the decode
// hook for library.SQLiteStore.
func DecodeVersion(b []byte) (Version, error) {
	var v Version
	err := json.Unmarshal(b, &v)
	return v, err
}
// #endregion codec
