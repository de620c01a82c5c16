package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/aniview/anime-gateway/internal/models"
)

const homeSectionSize = 10

// CacheStore is the key/value persistence the pipeline populates. A Get
// error is treated as a miss so a cache outage degrades to fetch-fresh.
type CacheStore interface {
	Get(key string) (json.RawMessage, bool, error)
	Put(key string, data json.RawMessage) error
}

// Source is the scraping client behind the pipeline.
type Source interface {
	Search(ctx context.Context, query string) ([]models.Anime, error)
	Browse(ctx context.Context, genre string, order string) ([]models.Anime, error)
	Trending(ctx context.Context) ([]models.Anime, error)
	NewReleases(ctx context.Context) ([]models.Anime, error)
	Classics(ctx context.Context) ([]models.Anime, error)
	Detail(ctx context.Context, id string) (*models.AnimeDetail, error)
	VideoServers(ctx context.Context, id string, episode string) ([]models.VideoServer, error)
}

// Service runs the cache-aside pipeline: check cache, on miss fetch and
// extract, persist in the background, return the fresh record.
type Service struct {
	cache  CacheStore
	source Source
	logger *slog.Logger
	pick   func(n int) int

	detached sync.WaitGroup
}

func NewService(cache CacheStore, source Source, logger *slog.Logger) *Service {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewServiceWithPicker(cache, source, logger, rng.Intn)
}

// NewServiceWithPicker overrides the random choice used for the featured
// home entry, so the selection can be pinned.
func NewServiceWithPicker(cache CacheStore, source Source, logger *slog.Logger, pick func(n int) int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cache:  cache,
		source: source,
		logger: logger,
		pick:   pick,
	}
}

func (s *Service) Search(ctx context.Context, query string) ([]models.Anime, error) {
	key := "search/" + query

	var cached []models.Anime
	if s.cacheGet(key, &cached) {
		return cached, nil
	}

	items, err := s.source.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	// An empty result set never proves the query resolved; only non-empty
	// extractions are cached.
	if len(items) > 0 {
		s.cachePut(key, items)
	}
	return items, nil
}

func (s *Service) Browse(ctx context.Context, genre string, order string) ([]models.Anime, error) {
	if genre == "" {
		genre = "all"
	}
	if order == "" {
		order = "default"
	}
	return s.source.Browse(ctx, genre, order)
}

func (s *Service) Detail(ctx context.Context, id string) (*models.AnimeDetail, error) {
	key := "anime/" + id

	var cached models.AnimeDetail
	if s.cacheGet(key, &cached) {
		return &cached, nil
	}

	detail, err := s.source.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cachePut(key, detail)
	return detail, nil
}

// Video resolution skips the cache entirely in both directions: the resolved
// URLs expire quickly and a cached list would serve dead links.
func (s *Service) Video(ctx context.Context, id string, episode string) ([]models.VideoServer, error) {
	return s.source.VideoServers(ctx, id, episode)
}

// Home fans out the three category fetches concurrently and joins them
// all-or-nothing, then resolves a randomly chosen trending entry as the
// featured highlight. A featured resolution failure degrades to a home page
// without a featured block.
func (s *Service) Home(ctx context.Context) (*models.HomePage, error) {
	var trending, newReleases, classics []models.Anime
	var errTrending, errNew, errClassics error

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		trending, errTrending = s.source.Trending(ctx)
	}()
	go func() {
		defer wg.Done()
		newReleases, errNew = s.source.NewReleases(ctx)
	}()
	go func() {
		defer wg.Done()
		classics, errClassics = s.source.Classics(ctx)
	}()
	wg.Wait()

	for _, err := range []error{errTrending, errNew, errClassics} {
		if err != nil {
			return nil, err
		}
	}

	page := &models.HomePage{
		Trending:    firstN(trending, homeSectionSize),
		NewReleases: firstN(newReleases, homeSectionSize),
		Classics:    firstN(classics, homeSectionSize),
	}

	if len(page.Trending) > 0 {
		featured := page.Trending[s.pick(len(page.Trending))]
		detail, err := s.Detail(ctx, featured.ID)
		if err != nil {
			s.logger.Warn("featured detail resolution failed", "id", featured.ID, "error", err)
		} else {
			page.Featured = detail
		}
	}

	return page, nil
}

// Flush waits for in-flight detached cache writes. Main calls it during
// shutdown; tests use it to observe writes.
func (s *Service) Flush() {
	s.detached.Wait()
}

func (s *Service) cacheGet(key string, out any) bool {
	raw, ok, err := s.cache.Get(key)
	if err != nil {
		s.logger.Warn("cache read failed, fetching fresh", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("cached payload is invalid, fetching fresh", "key", key, "error", err)
		return false
	}
	return true
}

// cachePut persists in the background; the triggering request never waits
// for or observes the outcome.
func (s *Service) cachePut(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("cache payload marshal failed", "key", key, "error", err)
		return
	}

	s.detached.Add(1)
	go func() {
		defer s.detached.Done()
		if err := s.cache.Put(key, raw); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}()
}

func firstN(items []models.Anime, n int) []models.Anime {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
