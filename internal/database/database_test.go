package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fetched = time.Date(2026, 4, 2, 8, 30, 0, 123, time.UTC)

func openSQLite(t *testing.T) Store {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func stores(t *testing.T) map[string]Store {
	out := map[string]Store{"sqlite": openSQLite(t)}
	if dsn := os.Getenv("STUDIO_TEST_POSTGRES_DSN"); dsn != "" {
		pg, err := Open("postgres", dsn)
		require.NoError(t, err)
		_, err = pg.PurgeBefore(time.Now().Add(24 * time.Hour * 365 * 100))
		require.NoError(t, err)
		t.Cleanup(func() { pg.Close() })
		out["postgres"] = pg
	}
	return out
}

func TestSnapshotRoundTrip(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte(`[{"_id":"p1","title":"Lake House"}]`)
			require.NoError(t, db.PutSnapshot("projects", payload, fetched))

			snap, err := db.GetSnapshot("projects")
			require.NoError(t, err)
			assert.Equal(t, payload, snap.Payload)
			assert.Equal(t, Hash(payload), snap.Hash)
			assert.True(t, fetched.Equal(snap.FetchedAt))
			assert.Equal(t, "projects", snap.Key)
		})
	}
}

func TestPutReplaces(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.PutSnapshot("events", []byte(`[]`), fetched))
			require.NoError(t, db.PutSnapshot("events", []byte(`[{"_id":"e1"}]`), fetched.Add(time.Minute)))

			snap, err := db.GetSnapshot("events")
			require.NoError(t, err)
			assert.Equal(t, `[{"_id":"e1"}]`, string(snap.Payload))

			list, err := db.ListSnapshots()
			require.NoError(t, err)
			assert.Len(t, list, 1)
			assert.Nil(t, list[0].Payload)
		})
	}
}

func TestMissingSnapshot(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := db.GetSnapshot("videos")
			assert.ErrorIs(t, err, ErrNoSnapshot)
			assert.NoError(t, db.DeleteSnapshot("videos"))
		})
	}
}

func TestDeleteAndPurge(t *testing.T) {
	for name, db := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.PutSnapshot("a", []byte("1"), fetched))
			require.NoError(t, db.PutSnapshot("b", []byte("2"), fetched.Add(time.Hour)))
			require.NoError(t, db.PutSnapshot("c", []byte("3"), fetched.Add(2*time.Hour)))

			require.NoError(t, db.DeleteSnapshot("c"))
			n, err := db.PurgeBefore(fetched.Add(30 * time.Minute))
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			list, err := db.ListSnapshots()
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "b", list[0].Key)
		})
	}
}

func TestLargePayloadCompresses(t *testing.T) {
	payload := []byte("[" + strings.Repeat(`{"_id":"x","title":"repeated"},`, 2000) + `{"_id":"y"}]`)
	stored := compress(payload)
	assert.Less(t, len(stored), len(payload)/10)

	out, err := decompress(stored)
	require.NoError(t, err)
	assert.Equal(t, payload, out)

	_, err = decompress([]byte("not zstd"))
	assert.Error(t, err)
}

func TestHashStable(t *testing.T) {
	assert.Equal(t, Hash([]byte("abc")), Hash([]byte("abc")))
	assert.NotEqual(t, Hash([]byte("abc")), Hash([]byte("abd")))
	assert.Len(t, Hash(nil), 64)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open("mysql", "x")
	assert.Error(t, err)
}
