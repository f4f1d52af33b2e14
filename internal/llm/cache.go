package llm

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adri1972/claritycash/internal/database"
)

// Advice responses are cached per (month, provider) for a day so repeated
// dashboard visits don't burn the user's quota.
const cacheTTL = 24 * time.Hour

const cacheKeyPrefix = "cc_ai_v65"

type cachedAdvice struct {
	Text string `json:"text"`
}

// Cache stores advice responses in the snapshot store's cache table.
type Cache struct {
	db  database.Store
	now func() time.Time
}

func NewCache(db database.Store) *Cache {
	return &Cache{db: db, now: time.Now}
}

func cacheKey(month time.Month, year int, provider string) string {
	return fmt.Sprintf("%s_%d_%d_%s", cacheKeyPrefix, year, int(month), provider)
}

// Get returns the cached advice text when one exists and is fresh.
func (c *Cache) Get(month time.Month, year int, provider string) (string, bool) {
	raw, createdAt, ok, err := c.db.CacheGet(cacheKey(month, year, provider))
	if err != nil || !ok {
		return "", false
	}
	if c.now().Sub(createdAt) >= cacheTTL {
		return "", false
	}
	var entry cachedAdvice
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "", false
	}
	return entry.Text, true
}

// Put stores text for the period. Concurrent writers are last write wins.
func (c *Cache) Put(month time.Month, year int, provider, text string) {
	raw, err := json.Marshal(cachedAdvice{Text: text})
	if err != nil {
		return
	}
	_ = c.db.CachePut(cacheKey(month, year, provider), raw)
}
