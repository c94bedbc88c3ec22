package pattern

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS scenario_patterns (
	pattern_id   TEXT PRIMARY KEY,
	project_type TEXT NOT NULL,
	payload      TEXT NOT NULL,
	updated_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scenario_patterns_project_type
	ON scenario_patterns(project_type);
`
// #endregion schema

// #region store
// SQLiteStore persists scenario patterns so the accumulating library
// survives restarts. Upserting a merged pattern keeps its rowid, so listing
// by rowid reproduces the library's insertion order.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) a SQLite database and migrates
// the pattern table.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
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
	return NewSQLiteStoreWithDB(db)
}

// NewSQLiteStoreWithDB migrates the pattern table on an already opened
// handle. The caller keeps ownership of db.
func NewSQLiteStoreWithDB(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate patterns: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
// #endregion store

// #region put
// Put upserts one pattern by id.
func (s *SQLiteStore) Put(p *ScenarioPattern) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pattern: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO scenario_patterns (pattern_id, project_type, payload, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(pattern_id) DO UPDATE SET
			project_type = excluded.project_type,
			payload      = excluded.payload,
			updated_at   = excluded.updated_at`,
		p.ID, p.ProjectType, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert pattern: %w", err)
	}
	return nil
}
// #endregion put

// #region get
// Get returns a stored pattern by id, or (nil, nil) if absent.
func (s *SQLiteStore) Get(id string) (*ScenarioPattern, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM scenario_patterns WHERE pattern_id = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern %s: %w", id, err)
	}

	var p ScenarioPattern
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, fmt.Errorf("decode pattern %s: %w", id, err)
	}
	return &p, nil
}

// List returns all stored patterns in first-insert order.
func (s *SQLiteStore) List() ([]*ScenarioPattern, error) {
	rows, err := s.db.Query(`SELECT payload FROM scenario_patterns ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []*ScenarioPattern
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}
		var p ScenarioPattern
		if err := json.Unmarshal([]byte(payload), &p); err != nil {
			return nil, fmt.Errorf("decode pattern: %w", err)
		}
		patterns = append(patterns, &p)
	}
	return patterns, rows.Err()
}
// #endregion get

// #region library-sync
// Load hydrates a Library from the stored patterns.
func (s *SQLiteStore) Load() (*Library, error) {
	patterns, err := s.List()
	if err != nil {
		return nil, err
	}
	return NewLibraryWith(patterns), nil
}

// SaveAll upserts every pattern in the library in one transaction.
func (s *SQLiteStore) SaveAll(l *Library) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, p := range l.Find("", "") {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal pattern %s: %w", p.ID, err)
		}
		_, err = tx.Exec(
			`INSERT INTO scenario_patterns (pattern_id, project_type, payload, updated_at)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(pattern_id) DO UPDATE SET
				project_type = excluded.project_type,
				payload      = excluded.payload,
				updated_at   = excluded.updated_at`,
			p.ID, p.ProjectType, string(payload), time.Now().UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("upsert pattern %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}
// #endregion library-sync
