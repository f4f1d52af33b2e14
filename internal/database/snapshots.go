package database

import (
	"database/sql"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store is the persistence contract for ledger snapshots and the advice
// cache. Values are opaque JSON documents keyed by name.
type Store interface {
	Load(key string) ([]byte, bool, error)
	Save(key string, data []byte) error
	Delete(key string) error
	CacheGet(key string) ([]byte, time.Time, bool, error)
	CachePut(key string, data []byte) error
	InMemory() bool
	Close() error
}

// OpenStore opens the sqlite-backed store at path, running migrations.
// If the database cannot be opened or migrated it logs a warning and
// returns an in-memory store so the application keeps working for the
// session; nothing written to it survives exit.
func OpenStore(path string, log zerolog.Logger) Store {
	db, err := Open(path)
	if err == nil {
		err = RunMigrations(db)
		if err != nil {
			_ = db.Close()
		}
	}
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("sqlite unavailable, using in-memory store")
		return NewMemStore()
	}
	return &SQLStore{db: db}
}

// SQLStore persists snapshots in sqlite.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Load(key string) ([]byte, bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE key = ?`, key).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *SQLStore) Save(key string, data []byte) error {
	return WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			key, data, Now().Format(time.RFC3339))
		return err
	})
}

func (s *SQLStore) Delete(key string) error {
	_, err := s.db.Exec(`DELETE FROM snapshots WHERE key = ?`, key)
	return err
}

func (s *SQLStore) CacheGet(key string) ([]byte, time.Time, bool, error) {
	var data []byte
	var createdAt string
	err := s.db.QueryRow(`SELECT data, created_at FROM advice_cache WHERE key = ?`, key).Scan(&data, &createdAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, err
	}
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return data, ts, true, nil
}

func (s *SQLStore) CachePut(key string, data []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO advice_cache (key, data, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, created_at = excluded.created_at`,
		key, data, Now().Format(time.RFC3339))
	return err
}

func (s *SQLStore) InMemory() bool { return false }

func (s *SQLStore) Close() error { return s.db.Close() }

type cacheEntry struct {
	data      []byte
	createdAt time.Time
}

// MemStore is the session-only fallback used when sqlite is unavailable.
type MemStore struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	cache map[string]cacheEntry
}

func NewMemStore() *MemStore {
	return &MemStore{
		docs:  map[string][]byte{},
		cache: map[string]cacheEntry{},
	}
}

func (m *MemStore) Load(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.docs[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, true, nil
}

func (m *MemStore) Save(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.docs[key] = cp
	return nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

func (m *MemStore) CacheGet(key string) ([]byte, time.Time, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.cache[key]
	if !ok {
		return nil, time.Time{}, false, nil
	}
	return e.data, e.createdAt, true, nil
}

func (m *MemStore) CachePut(key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = cacheEntry{data: data, createdAt: Now()}
	return nil
}

func (m *MemStore) InMemory() bool { return true }

func (m *MemStore) Close() error { return nil }
