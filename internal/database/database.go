// Package database provides SQLite storage for the collection cache.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bryan-buckman/studiofront/internal/model"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Ensure DB implements Store interface.
var _ Store = (*DB)(nil)

// New opens or creates an SQLite database at the given path.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Enable WAL mode for better concurrency.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DatabaseType returns the database backend name.
func (db *DB) DatabaseType() string {
	return "SQLite"
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		hash TEXT NOT NULL,
		size INTEGER NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// GetSnapshot returns the snapshot stored under key.
func (db *DB) GetSnapshot(key string) (*model.Snapshot, error) {
	var stored []byte
	var fetchedAt int64
	s := model.Snapshot{Key: key}
	err := db.conn.QueryRow("SELECT payload, hash, fetched_at FROM snapshots WHERE key = ?", key).
		Scan(&stored, &s.Hash, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	if s.Payload, err = decompress(stored); err != nil {
		return nil, err
	}
	s.FetchedAt = time.Unix(0, fetchedAt).UTC()
	return &s, nil
}

// PutSnapshot inserts or replaces the snapshot for key.
func (db *DB) PutSnapshot(key string, payload []byte, fetchedAt time.Time) error {
	_, err := db.conn.Exec(`
		INSERT INTO snapshots (key, payload, hash, size, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			hash = excluded.hash,
			size = excluded.size,
			fetched_at = excluded.fetched_at`,
		key, compress(payload), Hash(payload), len(payload), fetchedAt.UnixNano())
	return err
}

// DeleteSnapshot removes the snapshot for key, if any.
func (db *DB) DeleteSnapshot(key string) error {
	_, err := db.conn.Exec("DELETE FROM snapshots WHERE key = ?", key)
	return err
}

// ListSnapshots returns snapshot metadata ordered by key.
func (db *DB) ListSnapshots() ([]model.Snapshot, error) {
	rows, err := db.conn.Query("SELECT key, hash, fetched_at FROM snapshots ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSnapshots(rows)
}

// PurgeBefore deletes snapshots fetched before t.
func (db *DB) PurgeBefore(t time.Time) (int64, error) {
	res, err := db.conn.Exec("DELETE FROM snapshots WHERE fetched_at < ?", t.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanSnapshots(rows *sql.Rows) ([]model.Snapshot, error) {
	var snaps []model.Snapshot
	for rows.Next() {
		var s model.Snapshot
		var fetchedAt int64
		if err := rows.Scan(&s.Key, &s.Hash, &fetchedAt); err != nil {
			return nil, err
		}
		s.FetchedAt = time.Unix(0, fetchedAt).UTC()
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}
