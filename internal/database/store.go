// Package database provides the collection cache behind the content
// client.
package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/bryan-buckman/studiofront/internal/model"
)

// ErrNoSnapshot is returned when no snapshot is stored under a key.
var ErrNoSnapshot = errors.New("no snapshot")

// Store defines the interface for cache operations.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	// GetSnapshot returns the payload stored under key, or ErrNoSnapshot.
	GetSnapshot(key string) (*model.Snapshot, error)
	// PutSnapshot stores payload under key, replacing any previous one.
	PutSnapshot(key string, payload []byte, fetchedAt time.Time) error
	DeleteSnapshot(key string) error
	// ListSnapshots returns every snapshot without its payload, by key.
	ListSnapshots() ([]model.Snapshot, error)
	// PurgeBefore deletes snapshots fetched before t.
	PurgeBefore(t time.Time) (int64, error)
}

// Open opens the cache for driver "sqlite" (dsn is a file path) or
// "postgres" (dsn is a connection URL).
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return New(dsn)
	case "postgres":
		return NewPostgres(dsn)
	}
	return nil, fmt.Errorf("unknown cache driver %q", driver)
}
