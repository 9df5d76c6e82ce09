// Package app is the feed controller: it owns the merged article list,
// the read and bookmark sets, and their persistence.
package app

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/deusflow/khobor/internal/aggregator"
	"github.com/deusflow/khobor/internal/cache"
	"github.com/deusflow/khobor/internal/merge"
	"github.com/deusflow/khobor/internal/metrics"
	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/scraper"
	"github.com/deusflow/khobor/internal/storage"
)

var (
	ErrNotFound = errors.New("article not found")
	// ErrNothingFetched means every source came back empty. The previous
	// snapshot is kept.
	ErrNothingFetched = errors.New("no articles fetched from any source")
	ErrNoOffline      = errors.New("offline store not configured")
)

type NewsFetcher interface {
	FetchNews(ctx context.Context, sources []news.Source, onProgress aggregator.ProgressFunc) []news.Article
}

type ImageFinder interface {
	Backfill(ctx context.Context, articles []news.Article, onFound func(id, image string)) int
}

type ArticleReader interface {
	Scrape(ctx context.Context, link, sourceID string) *scraper.ArticleContent
}

type Options struct {
	Sources []news.Source
	Store   storage.KV
	Fetcher NewsFetcher

	// Optional collaborators.
	Images     ImageFinder
	ImageCache *cache.Cache[string] // persisted under storage.KeyImageCache
	Reader     ArticleReader
	Offline    *storage.OfflineStore

	CacheMaxAge time.Duration
	Progress    aggregator.ProgressFunc
	Now         func() time.Time
}

type Controller struct {
	opts Options
	now  func() time.Time

	mu        sync.RWMutex
	articles  []news.Article
	read      *news.IDSet
	bookmarks *news.IDSet

	// refreshes with the same mode share one fetch; merges never overlap.
	flight  singleflight.Group
	mergeMu sync.Mutex
	// saveMu orders snapshot writes so the last write holds the newest state.
	saveMu sync.Mutex

	reconcile func(previous, incoming []news.Article, read *news.IDSet, mode merge.Mode) []news.Article
}

func New(opts Options) *Controller {
	if opts.CacheMaxAge <= 0 {
		opts.CacheMaxAge = 24 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		opts:      opts,
		now:       now,
		read:      news.NewIDSet(),
		bookmarks: news.NewIDSet(),
		reconcile: merge.Reconcile,
	}
}

// Load restores the snapshot, the id sets and the image cache.
func (c *Controller) Load(ctx context.Context) error {
	snapshot, err := storage.LoadSnapshot(ctx, c.opts.Store, c.opts.CacheMaxAge, c.now())
	if err != nil {
		log.Printf("⚠️ Failed to load cached news: %v", err)
	}
	read, err := storage.LoadIDSet(ctx, c.opts.Store, storage.KeyReadIDs)
	if err != nil {
		return err
	}
	bookmarks, err := storage.LoadIDSet(ctx, c.opts.Store, storage.KeyBookmarks)
	if err != nil {
		return err
	}
	if c.opts.ImageCache != nil {
		var items map[string]cache.Item[string]
		if _, err := storage.GetJSON(ctx, c.opts.Store, storage.KeyImageCache, &items); err != nil {
			log.Printf("⚠️ Failed to load image cache: %v", err)
		}
		c.opts.ImageCache.Restore(items)
	}

	c.mu.Lock()
	c.articles = snapshot
	c.read = read
	c.bookmarks = bookmarks
	c.mu.Unlock()

	log.Printf("📦 Loaded %d cached articles, %d read, %d bookmarked", len(snapshot), read.Len(), bookmarks.Len())
	return nil
}

// Articles returns a copy of the current merged list, newest first.
func (c *Controller) Articles() []news.Article {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]news.Article(nil), c.articles...)
}

func (c *Controller) IsRead(id string) bool       { return c.readSet().Has(id) }
func (c *Controller) IsBookmarked(id string) bool { return c.bookmarkSet().Has(id) }

func (c *Controller) readSet() *news.IDSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.read
}

func (c *Controller) bookmarkSet() *news.IDSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bookmarks
}

// Refresh fetches every source, merges the result into the current list
// and persists it. Concurrent calls with the same mode share one fetch.
// When nothing is fetched the current list is returned with
// ErrNothingFetched.
func (c *Controller) Refresh(ctx context.Context, mode merge.Mode) ([]news.Article, error) {
	v, err, _ := c.flight.Do(mode.String(), func() (interface{}, error) {
		return c.refresh(ctx, mode)
	})
	articles, _ := v.([]news.Article)
	return articles, err
}

func (c *Controller) refresh(ctx context.Context, mode merge.Mode) ([]news.Article, error) {
	incoming := c.opts.Fetcher.FetchNews(ctx, c.opts.Sources, c.opts.Progress)
	if len(incoming) == 0 {
		metrics.Global.SetError(ErrNothingFetched.Error())
		return c.Articles(), ErrNothingFetched
	}

	c.mergeMu.Lock()
	merged := c.reconcile(c.Articles(), incoming, c.readSet(), mode)
	c.mu.Lock()
	// Open only holds c.mu, so ids read during the merge are applied here.
	merge.ClearRead(merged, c.read)
	c.articles = merged
	c.mu.Unlock()
	err := c.persistSnapshot(ctx)
	c.mergeMu.Unlock()

	metrics.Global.IncrementRefreshes()
	metrics.Global.SetLastRun()
	log.Printf("✓ %s refresh merged %d articles", mode, len(merged))

	if err != nil {
		return c.Articles(), err
	}
	c.backfillImages(ctx)
	return c.Articles(), nil
}

// backfillImages scrapes lead images for articles without one and
// persists what it found.
func (c *Controller) backfillImages(ctx context.Context) {
	if c.opts.Images == nil {
		return
	}
	var missing []news.Article
	for _, a := range c.Articles() {
		if a.Image == "" {
			missing = append(missing, a)
		}
	}
	if len(missing) == 0 {
		return
	}

	found := c.opts.Images.Backfill(ctx, missing, c.setImage)

	// Use a fresh context so results survive a cancelled refresh.
	saveCtx := context.WithoutCancel(ctx)
	if found > 0 {
		if err := c.persistSnapshot(saveCtx); err != nil {
			log.Printf("⚠️ Failed to save images: %v", err)
		}
	}
	if c.opts.ImageCache != nil {
		if err := storage.SetJSON(saveCtx, c.opts.Store, storage.KeyImageCache, c.opts.ImageCache.Snapshot()); err != nil {
			log.Printf("⚠️ Failed to save image cache: %v", err)
		}
	}
}

func (c *Controller) setImage(id, image string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.articles {
		if c.articles[i].ID == id && c.articles[i].Image == "" {
			c.articles[i].Image = image
			return
		}
	}
}

func (c *Controller) persistSnapshot(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	return storage.SaveSnapshot(ctx, c.opts.Store, c.Articles())
}

// Run refreshes silently on every tick until ctx ends.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := c.Refresh(ctx, merge.Auto); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("⚠️ Auto refresh: %v", err)
			}
		}
	}
}

// Open marks an article read and returns it. Repeated calls are no-ops.
func (c *Controller) Open(ctx context.Context, id string) (news.Article, error) {
	c.mu.Lock()
	wasRead := c.read.Has(id)
	found := merge.MarkRead(c.articles, id, c.read)
	a, _ := c.find(id)
	c.mu.Unlock()

	if !found {
		return news.Article{}, ErrNotFound
	}
	if wasRead {
		return a, nil
	}
	if err := storage.SaveIDSet(ctx, c.opts.Store, storage.KeyReadIDs, c.readSet()); err != nil {
		return a, err
	}
	return a, c.persistSnapshot(ctx)
}

// ReadFull returns the article with its body replaced by the scraped
// article page when that yields more text. The stored article is not
// modified.
func (c *Controller) ReadFull(ctx context.Context, id string) (news.Article, error) {
	a, ok := c.Get(id)
	if !ok {
		return news.Article{}, ErrNotFound
	}
	if c.opts.Reader == nil || a.Link == "" {
		return a, nil
	}
	full := c.opts.Reader.Scrape(ctx, a.Link, a.SourceID)
	if full == nil {
		return a, nil
	}
	if len([]rune(full.Content)) > len([]rune(a.Content)) {
		a.Content = full.Content
	}
	if a.Image == "" {
		a.Image = full.Image
	}
	return a, nil
}

func (c *Controller) Get(id string) (news.Article, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.find(id)
}

// find must be called with c.mu held.
func (c *Controller) find(id string) (news.Article, bool) {
	for _, a := range c.articles {
		if a.ID == id {
			return a, true
		}
	}
	return news.Article{}, false
}

// ToggleBookmark flips the bookmark for id and returns the new state.
func (c *Controller) ToggleBookmark(ctx context.Context, id string) (bool, error) {
	bookmarks := c.bookmarkSet()
	on := bookmarks.Toggle(id)
	return on, storage.SaveIDSet(ctx, c.opts.Store, storage.KeyBookmarks, bookmarks)
}

// SaveOffline stores the full article for offline reading.
func (c *Controller) SaveOffline(ctx context.Context, id string) (storage.SavedArticle, error) {
	if c.opts.Offline == nil {
		return storage.SavedArticle{}, ErrNoOffline
	}
	a, err := c.ReadFull(ctx, id)
	if err != nil {
		return storage.SavedArticle{}, err
	}
	return c.opts.Offline.Save(ctx, a)
}

func (c *Controller) RemoveOffline(ctx context.Context, id string) error {
	if c.opts.Offline == nil {
		return ErrNoOffline
	}
	return c.opts.Offline.Remove(ctx, id)
}

func (c *Controller) OfflineArticles(ctx context.Context) ([]storage.SavedArticle, error) {
	if c.opts.Offline == nil {
		return nil, ErrNoOffline
	}
	return c.opts.Offline.All(ctx)
}
