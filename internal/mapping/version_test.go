package mapping

import (
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/albarami/ImpactOS-sub000/internal/library"
)

func TestVersionAccessorsReturnCopies(t *testing.T) {
	e := testEntry("concrete works", "F", 0.9)
	v := newVersion(Draft{
		ID:            uuid.New().String(),
		Entries:       []Entry{e},
		Status:        library.StatusDraft,
		ChangeLog:     []string{"Added new pattern: concrete works -> F"},
		AddedEntryIDs: []string{e.ID},
	}, 1, "steward")

	entries := v.Entries()
	entries[0].Confidence = 0.1
	entries[0].Pattern = "tampered"

	again := v.Entries()
	if again[0].Confidence != 0.9 || again[0].Pattern != "concrete works" {
		t.Fatalf("version mutated through accessor copy: %+v", again[0])
	}

	log := v.ChangeLog()
	log[0] = "tampered"
	if v.ChangeLog()[0] != "Added new pattern: concrete works -> F" {
		t.Fatal("change log mutated through accessor copy")
	}
}

func TestVersionIndependentOfDraft(t *testing.T) {
	e := testEntry("concrete works", "F", 0.9)
	draft := Draft{ID: uuid.New().String(), Entries: []Entry{e}, Status: library.StatusDraft}

	v := newVersion(draft, 1, "steward")

	// Mutating the draft after publication must not leak into the version
	draft.Entries[0].Confidence = 0.0
	if v.Entries()[0].Confidence != 0.9 {
		t.Fatalf("version shares backing array with draft: %f", v.Entries()[0].Confidence)
	}
}

func TestVersionJSONRoundTrip(t *testing.T) {
	e := testEntry("concrete works", "F", 0.9)
	v := newVersion(Draft{
		ID:              uuid.New().String(),
		ParentVersionID: "parent-id",
		Entries:         []Entry{e},
		Status:          library.StatusDraft,
		ChangeLog:       []string{"Added new pattern: concrete works -> F"},
		AddedEntryIDs:   []string{e.ID},
		ChangedEntries:  []ChangedEntry{{EntryID: e.ID, Field: "confidence", OldValue: 0.8, NewValue: 0.9}},
	}, 4, "steward")

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := DecodeVersion(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(v, got) {
		t.Fatalf("round trip mismatch:\n  want %+v\n  got  %+v", v, got)
	}
}

func TestVersionRoundTripThroughSQLiteStore(t *testing.T) {
	dir := t.TempDir()
	store, err := library.OpenSQLite(filepath.Join(dir, "test.db"), "mapping", DecodeVersion)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m := NewManager(store)
	e := testEntry("concrete works", "F", 0.9)
	v, err := m.Publish(Draft{ID: uuid.New().String(), Entries: []Entry{e}, Status: library.StatusDraft}, "steward")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, err := m.Version(v.ID())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored version")
	}
	if !reflect.DeepEqual(*v, *got) {
		t.Fatalf("stored version differs:\n  want %+v\n  got  %+v", *v, *got)
	}
}
