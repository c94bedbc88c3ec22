package journal

import (
	"path/filepath"
	"testing"
)

func TestNoteLogAppendFillsIDAndTimestamp(t *testing.T) {
	log := NewNoteLog()

	n := log.Append(CalibrationNote{
		SectorCode:     "F",
		Observation:    "Construction multiplier overstated employment by ~15% vs GOSI actuals",
		LikelyCause:    "Outdated employment coefficient",
		MetricAffected: "employment",
		Direction:      "overstate",
		CreatedBy:      "analyst",
	})
	if n.ID == "" {
		t.Fatal("expected note id assigned")
	}
	if n.CreatedAt.IsZero() {
		t.Fatal("expected timestamp assigned")
	}
	if log.Len() != 1 {
		t.Fatalf("expected 1 note, got %d", log.Len())
	}
}

func TestNoteLogFinders(t *testing.T) {
	log := NewNoteLog()
	log.Append(CalibrationNote{SectorCode: "F", EngagementID: "eng-1", MetricAffected: "employment", Validated: true})
	log.Append(CalibrationNote{SectorCode: "C", EngagementID: "eng-1", MetricAffected: "import_ratio"})
	log.Append(CalibrationNote{SectorCode: "F", EngagementID: "eng-2", MetricAffected: "employment"})

	if got := log.BySector("F"); len(got) != 2 {
		t.Fatalf("expected 2 F notes, got %d", len(got))
	}
	if got := log.ByMetric("import_ratio"); len(got) != 1 {
		t.Fatalf("expected 1 import_ratio note, got %d", len(got))
	}
	if got := log.ByEngagement("eng-1"); len(got) != 2 {
		t.Fatalf("expected 2 eng-1 notes, got %d", len(got))
	}
	if got := log.Validated(); len(got) != 1 {
		t.Fatalf("expected 1 validated note, got %d", len(got))
	}
	if got := log.Unvalidated(); len(got) != 2 {
		t.Fatalf("expected 2 unvalidated notes, got %d", len(got))
	}
}

func TestMemoryLogFinders(t *testing.T) {
	log := NewMemoryLog()
	log.Append(EngagementMemory{EngagementID: "eng-1", Category: "challenge", SectorCode: "F", Tags: []string{"import_share", "steel"}})
	log.Append(EngagementMemory{EngagementID: "eng-2", Category: "evidence_request", SectorCode: "C", Tags: []string{"customs"}})

	if got := log.ByCategory("challenge"); len(got) != 1 {
		t.Fatalf("expected 1 challenge memory, got %d", len(got))
	}
	if got := log.BySector("C"); len(got) != 1 {
		t.Fatalf("expected 1 C memory, got %d", len(got))
	}
	if got := log.ByEngagement("eng-1"); len(got) != 1 {
		t.Fatalf("expected 1 eng-1 memory, got %d", len(got))
	}
	if got := log.ByTags([]string{"steel", "unrelated"}); len(got) != 1 {
		t.Fatalf("expected any-tag match to find 1 memory, got %d", len(got))
	}
	if got := log.ByTags([]string{"unrelated"}); len(got) != 0 {
		t.Fatalf("expected no match, got %d", len(got))
	}
}

func tempJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := OpenSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteJournal: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteJournalNoteRoundTrip(t *testing.T) {
	j := tempJournal(t)

	mag := 0.15
	stored, err := j.AppendNote(CalibrationNote{
		SectorCode:        "F",
		Observation:       "Employment overstated vs GOSI actuals",
		LikelyCause:       "Outdated coefficient",
		MetricAffected:    "employment",
		Direction:         "overstate",
		MagnitudeEstimate: &mag,
		CreatedBy:         "analyst",
		Validated:         true,
	})
	if err != nil {
		t.Fatalf("AppendNote: %v", err)
	}

	notes, err := j.Notes()
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	got := notes[0]
	if got.ID != stored.ID || got.Observation != stored.Observation || got.Direction != "overstate" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.MagnitudeEstimate == nil || *got.MagnitudeEstimate != 0.15 {
		t.Fatalf("expected magnitude preserved, got %+v", got.MagnitudeEstimate)
	}

	validated, err := j.ValidatedNotes()
	if err != nil {
		t.Fatalf("ValidatedNotes: %v", err)
	}
	if len(validated) != 1 {
		t.Fatalf("expected 1 validated note, got %d", len(validated))
	}
	bySector, err := j.NotesBySector("C")
	if err != nil {
		t.Fatalf("NotesBySector: %v", err)
	}
	if len(bySector) != 0 {
		t.Fatalf("expected no C notes, got %d", len(bySector))
	}
}

func TestSQLiteJournalMemoryRoundTrip(t *testing.T) {
	j := tempJournal(t)

	stored, err := j.AppendMemory(EngagementMemory{
		EngagementID: "eng-1",
		Category:     "challenge",
		Description:  "Client challenged the import share for steel fabrication",
		Resolution:   "Provided customs data evidence",
		CreatedBy:    "analyst",
		Tags:         []string{"import_share"},
	})
	if err != nil {
		t.Fatalf("AppendMemory: %v", err)
	}

	memories, err := j.MemoriesByEngagement("eng-1")
	if err != nil {
		t.Fatalf("MemoriesByEngagement: %v", err)
	}
	if len(memories) != 1 || memories[0].ID != stored.ID {
		t.Fatalf("expected the stored memory, got %+v", memories)
	}
	if memories[0].Resolution != "Provided customs data evidence" {
		t.Fatalf("round trip mismatch: %+v", memories[0])
	}
}
