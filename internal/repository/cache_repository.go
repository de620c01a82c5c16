package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// CacheRepository is the persistence adapter for scraped payloads, keyed by
// the logical lookup key ("search/{q}", "anime/{id}"). Entries are written
// once and never updated; a racing duplicate insert is silently ignored.
type CacheRepository struct {
	db *sql.DB
}

func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

func (r *CacheRepository) Get(key string) (json.RawMessage, bool, error) {
	var data string
	err := r.db.QueryRow(`SELECT data FROM api_cache WHERE key = ?`, key).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cache entry: %w", err)
	}
	return json.RawMessage(data), true, nil
}

func (r *CacheRepository) Put(key string, data json.RawMessage) error {
	_, err := r.db.Exec(`
		INSERT INTO api_cache (key, data)
		VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING
	`, key, string(data))
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

func (r *CacheRepository) Count() (int64, error) {
	var count int64
	if err := r.db.QueryRow(`SELECT COUNT(1) FROM api_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return count, nil
}

func (r *CacheRepository) CountOlderThan(cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(`SELECT COUNT(1) FROM api_cache WHERE created_at < ?`, sqliteTime(cutoff)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count stale cache entries: %w", err)
	}
	return count, nil
}

// PurgeOlderThan is used by the cache-purge maintenance command only; the
// request pipeline never deletes entries.
func (r *CacheRepository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM api_cache WHERE created_at < ?`, sqliteTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("purge stale cache entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge rows affected: %w", err)
	}
	return deleted, nil
}

// sqliteTime renders a timestamp in the same text format CURRENT_TIMESTAMP
// uses, so comparisons against created_at stay lexicographically correct.
func sqliteTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}
