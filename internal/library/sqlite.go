package library

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
// Two tables per knowledge domain, named by prefix: one for the published
// versions (payload is the version's JSON encoding) and a single-row table
// for the active pointer. The UNIQUE index on version_number is the
// serialization boundary for concurrent publishers: the second writer of a
// number fails instead of silently breaking monotonicity.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS %[1]s_versions (
	version_id     TEXT PRIMARY KEY,
	version_number INTEGER NOT NULL UNIQUE,
	payload        TEXT NOT NULL,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS %[1]s_active (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES %[1]s_versions(version_id)
);
`
// #endregion schema

// #region store-struct
// SQLiteStore is a Store backed by SQLite. Several stores may share one
// database handle as long as their table prefixes differ.
type SQLiteStore[V Snapshot] struct {
	db     *sql.DB
	prefix string
	decode func([]byte) (V, error)
}
// #endregion store-struct

// #region constructors
// OpenSQLite opens (creating if needed) a SQLite database and migrates the
// tables for the given prefix. decode turns a stored payload back into a
// version value.
func OpenSQLite[V Snapshot](dbPath, prefix string, decode func([]byte) (V, error)) (*SQLiteStore[V], error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("pragma busy: %w", err)
	}
	return NewSQLiteStoreWithDB(db, prefix, decode)
}

// NewSQLiteStoreWithDB migrates the prefix tables on an already opened
// handle and returns the store. The caller keeps ownership of db.
func NewSQLiteStoreWithDB[V Snapshot](db *sql.DB, prefix string, decode func([]byte) (V, error)) (*SQLiteStore[V], error) {
	if err := validPrefix(prefix); err != nil {
		return nil, err
	}
	if _, err := db.Exec(fmt.Sprintf(schemaTemplate, prefix)); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", prefix, err)
	}
	return &SQLiteStore[V]{db: db, prefix: prefix, decode: decode}, nil
}

// validPrefix rejects prefixes that cannot be spliced into table names.
func validPrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("empty table prefix")
	}
	for _, r := range prefix {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return fmt.Errorf("invalid table prefix %q", prefix)
		}
	}
	return nil
}
// #endregion constructors

// #region close
// Close closes the underlying database connection.
func (s *SQLiteStore[V]) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use by other packages sharing the file.
func (s *SQLiteStore[V]) DB() *sql.DB {
	return s.db
}
// #endregion close

// #region save
// Save upserts a version by id. A different version claiming an already
// published number fails with ErrVersionConflict.
func (s *SQLiteStore[V]) Save(v V) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal version: %w", err)
	}

	_, err = s.db.Exec(
		fmt.Sprintf(`INSERT INTO %s_versions (version_id, version_number, payload, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(version_id) DO UPDATE SET
			version_number = excluded.version_number,
			payload        = excluded.payload`, s.prefix),
		v.SnapshotID(), v.SnapshotNumber(), string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("version %d: %w", v.SnapshotNumber(), ErrVersionConflict)
		}
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}
// #endregion save

// #region get
// Get returns the version with the given id, or (nil, nil) if absent.
func (s *SQLiteStore[V]) Get(id string) (*V, error) {
	var payload string
	err := s.db.QueryRow(
		fmt.Sprintf(`SELECT payload FROM %s_versions WHERE version_id = ?`, s.prefix), id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get version %s: %w", id, err)
	}

	v, err := s.decode([]byte(payload))
	if err != nil {
		return nil, fmt.Errorf("decode version %s: %w", id, err)
	}
	return &v, nil
}

// Active returns the active version, or (nil, nil) before the first SetActive.
func (s *SQLiteStore[V]) Active() (*V, error) {
	var versionID string
	err := s.db.QueryRow(
		fmt.Sprintf(`SELECT version_id FROM %s_active WHERE id = 1`, s.prefix),
	).Scan(&versionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active: %w", err)
	}
	return s.Get(versionID)
}
// #endregion get

// #region set-active
// SetActive points the single active row at a saved version.
func (s *SQLiteStore[V]) SetActive(id string) error {
	var exists int
	err := s.db.QueryRow(
		fmt.Sprintf(`SELECT COUNT(*) FROM %s_versions WHERE version_id = ?`, s.prefix), id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check version: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("version %s: %w", id, ErrVersionNotFound)
	}

	_, err = s.db.Exec(
		fmt.Sprintf(`INSERT INTO %s_active (id, version_id) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version_id = excluded.version_id`, s.prefix),
		id,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return nil
}
// #endregion set-active

// #region list
// List returns every saved version ordered by version number.
func (s *SQLiteStore[V]) List() ([]V, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT payload FROM %s_versions ORDER BY version_number ASC`, s.prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []V
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		v, err := s.decode([]byte(payload))
		if err != nil {
			return nil, fmt.Errorf("decode version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
// #endregion list
