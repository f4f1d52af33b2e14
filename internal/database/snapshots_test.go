package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db))
	store := NewSQLStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLStoreSnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	store := newSQLStore(t)

	_, ok, err := store.Load("missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save("doc", []byte(`{"v":1}`)))
	data, ok, err := store.Load("doc")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"v":1}`, string(data))

	// saving the same key replaces the document
	require.NoError(t, store.Save("doc", []byte(`{"v":2}`)))
	data, ok, err = store.Load("doc")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"v":2}`, string(data))

	require.NoError(t, store.Delete("doc"))
	_, ok, err = store.Load("doc")
	require.NoError(t, err)
	require.False(t, ok)

	require.False(t, store.InMemory())
}

func TestSQLStoreCacheTimestamps(t *testing.T) {
	t.Parallel()
	store := newSQLStore(t)

	_, _, ok, err := store.CacheGet("advice")
	require.NoError(t, err)
	require.False(t, ok)

	before := Now()
	require.NoError(t, store.CachePut("advice", []byte("texto")))
	data, createdAt, ok, err := store.CacheGet("advice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "texto", string(data))
	require.False(t, createdAt.Before(before))
	require.WithinDuration(t, time.Now().UTC(), createdAt, time.Minute)

	require.NoError(t, store.CachePut("advice", []byte("nuevo")))
	data, _, ok, err = store.CacheGet("advice")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "nuevo", string(data))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, RunMigrations(db))

	failed := errors.New("abort")
	err = WithTx(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO snapshots (key, data, updated_at) VALUES ('k', 'v', '2026-06-01T00:00:00Z')`); err != nil {
			return err
		}
		return failed
	})
	require.ErrorIs(t, err, failed)

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE key = 'k'`).Scan(&count))
	require.Zero(t, count)

	require.NoError(t, WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO snapshots (key, data, updated_at) VALUES ('k', 'v', '2026-06-01T00:00:00Z')`)
		return err
	}))
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE key = 'k'`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))
	require.NoError(t, RunMigrations(db))
}

func TestMemStoreIsolatesStoredBytes(t *testing.T) {
	t.Parallel()
	m := NewMemStore()

	buf := []byte(`{"v":1}`)
	require.NoError(t, m.Save("doc", buf))
	buf[5] = '9'

	data, ok, err := m.Load("doc")
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"v":1}`, string(data))
	require.True(t, m.InMemory())
}

func TestOpenStoreFallsBackToMemory(t *testing.T) {
	t.Parallel()

	store := OpenStore(filepath.Join(t.TempDir(), "data.db"), zerolog.Nop())
	require.False(t, store.InMemory())
	require.NoError(t, store.Close())

	// an unusable path degrades to the session-only store
	store = OpenStore("/nonexistent/nested/dir/data.db", zerolog.Nop())
	require.True(t, store.InMemory())
	require.NoError(t, store.Close())
}
