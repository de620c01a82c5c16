package repository

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/aniview/anime-gateway/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to resolve test file path")
	}
	migrationsPath := filepath.Join(filepath.Dir(thisFile), "..", "..", "migrations")
	if err := database.ApplyMigrations(db, migrationsPath); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	return db
}

func TestCacheRepositoryPutGetRoundtrip(t *testing.T) {
	repo := NewCacheRepository(setupTestDB(t))

	payload := json.RawMessage(`[{"id":"naruto","title":"Naruto"}]`)
	if err := repo.Put("search/naruto", payload); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	raw, ok, err := repo.Get("search/naruto")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if string(raw) != string(payload) {
		t.Errorf("expected payload %s, got %s", payload, raw)
	}
}

func TestCacheRepositoryGetMissingKey(t *testing.T) {
	repo := NewCacheRepository(setupTestDB(t))

	raw, ok, err := repo.Get("search/missing")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok {
		t.Fatal("expected a cache miss")
	}
	if raw != nil {
		t.Errorf("expected nil payload on miss, got %s", raw)
	}
}

func TestCacheRepositoryDuplicatePutKeepsFirstValue(t *testing.T) {
	repo := NewCacheRepository(setupTestDB(t))

	if err := repo.Put("anime/naruto", json.RawMessage(`{"title":"first"}`)); err != nil {
		t.Fatalf("first put failed: %v", err)
	}
	if err := repo.Put("anime/naruto", json.RawMessage(`{"title":"second"}`)); err != nil {
		t.Fatalf("duplicate put should be silently ignored, got: %v", err)
	}

	raw, ok, err := repo.Get("anime/naruto")
	if err != nil || !ok {
		t.Fatalf("get failed: ok=%v err=%v", ok, err)
	}
	if string(raw) != `{"title":"first"}` {
		t.Errorf("expected first value to win, got %s", raw)
	}
}

func TestCacheRepositoryCount(t *testing.T) {
	repo := NewCacheRepository(setupTestDB(t))

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected empty cache, got %d entries", count)
	}

	if err := repo.Put("a", json.RawMessage(`1`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.Put("b", json.RawMessage(`2`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	count, err = repo.Count()
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 entries, got %d", count)
	}
}

func TestCacheRepositoryPurgeOlderThan(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCacheRepository(db)

	if err := repo.Put("old", json.RawMessage(`1`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if err := repo.Put("fresh", json.RawMessage(`2`)); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	backdated := sqliteTime(time.Now().AddDate(0, 0, -30))
	if _, err := db.Exec(`UPDATE api_cache SET created_at = ? WHERE key = ?`, backdated, "old"); err != nil {
		t.Fatalf("failed to backdate entry: %v", err)
	}

	cutoff := time.Now().AddDate(0, 0, -14)

	stale, err := repo.CountOlderThan(cutoff)
	if err != nil {
		t.Fatalf("count older than failed: %v", err)
	}
	if stale != 1 {
		t.Fatalf("expected 1 stale entry, got %d", stale)
	}

	deleted, err := repo.PurgeOlderThan(cutoff)
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted entry, got %d", deleted)
	}

	if _, ok, err := repo.Get("old"); err != nil || ok {
		t.Errorf("expected old entry to be gone: ok=%v err=%v", ok, err)
	}
	if _, ok, err := repo.Get("fresh"); err != nil || !ok {
		t.Errorf("expected fresh entry to survive: ok=%v err=%v", ok, err)
	}
}
