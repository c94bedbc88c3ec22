package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS calibration_notes (
	note_id    TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS engagement_memories (
	memory_id  TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`
// #endregion schema

// #region store
// SQLiteJournal persists calibration notes and engagement memories as
// append-only rows. Finders load all rows and filter in memory; the journal
// stays small enough that this matches the in-memory logs' behavior exactly.
type SQLiteJournal struct {
	db *sql.DB
}

// OpenSQLiteJournal opens (creating if needed) a SQLite database and
// migrates the journal tables.
func OpenSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("pragma busy: %w", err)
	}
	return NewSQLiteJournalWithDB(db)
}

// NewSQLiteJournalWithDB migrates the journal tables on an already opened
// handle. The caller keeps ownership of db.
func NewSQLiteJournalWithDB(db *sql.DB) (*SQLiteJournal, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
// #endregion store

// #region notes
// AppendNote stores a note, filling in a missing id or timestamp, and
// returns the stored note.
func (j *SQLiteJournal) AppendNote(n CalibrationNote) (CalibrationNote, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		return CalibrationNote{}, fmt.Errorf("marshal note: %w", err)
	}
	_, err = j.db.Exec(
		`INSERT INTO calibration_notes (note_id, payload, created_at) VALUES (?, ?, ?)`,
		n.ID, string(payload), n.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return CalibrationNote{}, fmt.Errorf("insert note: %w", err)
	}
	return n, nil
}

// Notes returns every note in append order.
func (j *SQLiteJournal) Notes() ([]CalibrationNote, error) {
	rows, err := j.db.Query(`SELECT payload FROM calibration_notes ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []CalibrationNote
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		var n CalibrationNote
		if err := json.Unmarshal([]byte(payload), &n); err != nil {
			return nil, fmt.Errorf("decode note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// NotesBySector returns notes for one sector.
func (j *SQLiteJournal) NotesBySector(sectorCode string) ([]CalibrationNote, error) {
	notes, err := j.Notes()
	if err != nil {
		return nil, err
	}
	return filterNotes(notes, func(n CalibrationNote) bool { return n.SectorCode == sectorCode }), nil
}

// ValidatedNotes returns only validated notes.
func (j *SQLiteJournal) ValidatedNotes() ([]CalibrationNote, error) {
	notes, err := j.Notes()
	if err != nil {
		return nil, err
	}
	return filterNotes(notes, func(n CalibrationNote) bool { return n.Validated }), nil
}
// #endregion notes

// #region memories
// AppendMemory stores a memory, filling in a missing id or timestamp, and
// returns the stored memory.
func (j *SQLiteJournal) AppendMemory(m EngagementMemory) (EngagementMemory, error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(m)
	if err != nil {
		return EngagementMemory{}, fmt.Errorf("marshal memory: %w", err)
	}
	_, err = j.db.Exec(
		`INSERT INTO engagement_memories (memory_id, payload, created_at) VALUES (?, ?, ?)`,
		m.ID, string(payload), m.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return EngagementMemory{}, fmt.Errorf("insert memory: %w", err)
	}
	return m, nil
}

// Memories returns every memory in append order.
func (j *SQLiteJournal) Memories() ([]EngagementMemory, error) {
	rows, err := j.db.Query(`SELECT payload FROM engagement_memories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list memories: %w", err)
	}
	defer rows.Close()

	var memories []EngagementMemory
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan memory: %w", err)
		}
		var m EngagementMemory
		if err := json.Unmarshal([]byte(payload), &m); err != nil {
			return nil, fmt.Errorf("decode memory: %w", err)
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

// MemoriesByEngagement returns memories recorded against one engagement.
func (j *SQLiteJournal) MemoriesByEngagement(engagementID string) ([]EngagementMemory, error) {
	memories, err := j.Memories()
	if err != nil {
		return nil, err
	}
	return filterMemories(memories, func(m EngagementMemory) bool { return m.EngagementID == engagementID }), nil
}
// #endregion memories
