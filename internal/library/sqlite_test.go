package library

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func decodeTestVersion(b []byte) (testVersion, error) {
	var v testVersion
	err := json.Unmarshal(b, &v)
	return v, err
}

func tempSQLiteStore(t *testing.T) *SQLiteStore[testVersion] {
	t.Helper()
	dir := t.TempDir()
	s, err := OpenSQLite(filepath.Join(dir, "test.db"), "mapping", decodeTestVersion)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteSaveGetRoundTrip(t *testing.T) {
	s := tempSQLiteStore(t)

	want := testVersion{ID: "v-1", Number: 1, Note: "seed", By: "steward"}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get("v-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("expected stored version, got nil")
	}
	if *got != want {
		t.Fatalf("round trip mismatch: got %+v, want %+v", *got, want)
	}
}

func TestSQLiteGetAbsent(t *testing.T) {
	s := tempSQLiteStore(t)

	got, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent version, got %+v", got)
	}
}

func TestSQLiteActiveBeforeFirstPublish(t *testing.T) {
	s := tempSQLiteStore(t)

	got, err := s.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil active, got %+v", got)
	}
}

func TestSQLiteSetActiveUnknown(t *testing.T) {
	s := tempSQLiteStore(t)

	err := s.SetActive("missing")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("expected ErrVersionNotFound, got %v", err)
	}
}

func TestSQLiteSetActiveAndRead(t *testing.T) {
	s := tempSQLiteStore(t)
	s.Save(testVersion{ID: "v-1", Number: 1})
	s.Save(testVersion{ID: "v-2", Number: 2})

	if err := s.SetActive("v-2"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	active, err := s.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active == nil || active.ID != "v-2" {
		t.Fatalf("expected active v-2, got %+v", active)
	}

	// Re-point, exercising the upsert path
	if err := s.SetActive("v-1"); err != nil {
		t.Fatalf("SetActive again: %v", err)
	}
	active, _ = s.Active()
	if active == nil || active.ID != "v-1" {
		t.Fatalf("expected active v-1, got %+v", active)
	}
}

func TestSQLiteListOrdersByNumber(t *testing.T) {
	s := tempSQLiteStore(t)
	s.Save(testVersion{ID: "v-3", Number: 3})
	s.Save(testVersion{ID: "v-1", Number: 1})
	s.Save(testVersion{ID: "v-2", Number: 2})

	got, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(got))
	}
	for i := range got {
		if got[i].Number != i+1 {
			t.Fatalf("expected number %d at index %d, got %d", i+1, i, got[i].Number)
		}
	}
}

func TestSQLiteVersionNumberConflict(t *testing.T) {
	s := tempSQLiteStore(t)
	if err := s.Save(testVersion{ID: "v-a", Number: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err := s.Save(testVersion{ID: "v-b", Number: 1})
	if !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}
}

func TestSQLiteSaveSameIDTwice(t *testing.T) {
	s := tempSQLiteStore(t)
	s.Save(testVersion{ID: "v-1", Number: 1, Note: "old"})

	// Upsert by id does not trip the number uniqueness check
	if err := s.Save(testVersion{ID: "v-1", Number: 1, Note: "new"}); err != nil {
		t.Fatalf("Save upsert: %v", err)
	}
	got, _ := s.Get("v-1")
	if got == nil || got.Note != "new" {
		t.Fatalf("expected upserted note, got %+v", got)
	}
}

func TestSQLiteSharedHandleTwoPrefixes(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, "shared.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mappings, err := NewSQLiteStoreWithDB(db, "mapping", decodeTestVersion)
	if err != nil {
		t.Fatalf("mapping store: %v", err)
	}
	assumptions, err := NewSQLiteStoreWithDB(db, "assumption", decodeTestVersion)
	if err != nil {
		t.Fatalf("assumption store: %v", err)
	}

	mappings.Save(testVersion{ID: "m-1", Number: 1})
	assumptions.Save(testVersion{ID: "a-1", Number: 1})

	if got, _ := mappings.Get("a-1"); got != nil {
		t.Fatalf("prefixes leaked: mapping store returned %+v", got)
	}
	if got, _ := assumptions.Get("a-1"); got == nil {
		t.Fatal("expected a-1 in assumption store")
	}
}

func TestSQLiteInvalidPrefix(t *testing.T) {
	dir := t.TempDir()
	db, err := sql.Open("sqlite", filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	for _, prefix := range []string{"", "Bad", "drop table", "x;--"} {
		if _, err := NewSQLiteStoreWithDB(db, prefix, decodeTestVersion); err == nil {
			t.Fatalf("expected error for prefix %q", prefix)
		}
	}
}

func TestOpenSQLiteInvalidPath(t *testing.T) {
	_, err := OpenSQLite(
		filepath.Join(string(os.PathSeparator), "nonexistent", "deep", "path", "test.db"),
		"mapping", decodeTestVersion,
	)
	if err == nil {
		t.Fatal("expected error for invalid path")
	}
}

func TestManagerOnSQLiteStore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	s, err := OpenSQLite(path, "mapping", decodeTestVersion)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	m := NewManager[testDraft, testVersion](s, testHooks())
	for want := 1; want <= 2; want++ {
		v, err := m.Publish(testDraft{status: StatusDraft}, "steward")
		if err != nil {
			t.Fatalf("Publish %d: %v", want, err)
		}
		if v.Number != want {
			t.Fatalf("expected number %d, got %d", want, v.Number)
		}
	}
	s.Close()

	// Reopen and resume numbering from disk
	s2, err := OpenSQLite(path, "mapping", decodeTestVersion)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { s2.Close() })

	m2, err := ResumeManager[testDraft, testVersion](s2, testHooks())
	if err != nil {
		t.Fatalf("ResumeManager: %v", err)
	}
	v, err := m2.Publish(testDraft{status: StatusDraft}, "steward")
	if err != nil {
		t.Fatalf("Publish after reopen: %v", err)
	}
	if v.Number != 3 {
		t.Fatalf("expected resumed number 3, got %d", v.Number)
	}

	active, err := s2.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active == nil || active.Number != 3 {
		t.Fatalf("expected active number 3, got %+v", active)
	}
}
