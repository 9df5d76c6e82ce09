// Package aggregator fetches every configured source and combines feed
// items with homepage headlines.
package aggregator

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/deusflow/khobor/internal/metrics"
	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/rss"
	"github.com/deusflow/khobor/internal/scraper"
)

// ProgressFunc receives (completed, total) after each source.
type ProgressFunc func(completed, total int)

type Options struct {
	Feed rss.Options
	// Limiter paces sources. Nil means no pacing.
	Limiter *rate.Limiter
}

type Aggregator struct {
	fetcher  scraper.Fetcher
	homepage *scraper.Homepage
	feedOpts rss.Options
	limiter  *rate.Limiter
}

func New(f scraper.Fetcher, opts Options) *Aggregator {
	limiter := opts.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Aggregator{
		fetcher:  f,
		homepage: scraper.NewHomepage(f),
		feedOpts: opts.Feed,
		limiter:  limiter,
	}
}

// FetchSource runs the feed parser and the homepage extractor
// concurrently. Either may fail without affecting the other. Homepage
// items come first, so they win deduplication.
func (a *Aggregator) FetchSource(ctx context.Context, src news.Source) []news.Article {
	var (
		g         errgroup.Group
		feedItems []news.Article
		homeItems []news.Article
	)

	g.Go(func() error {
		feedItems = a.fetchFeed(ctx, src)
		return nil
	})
	g.Go(func() error {
		homeItems = a.homepage.Scrape(ctx, src)
		return nil
	})
	_ = g.Wait()

	combined := make([]news.Article, 0, len(homeItems)+len(feedItems))
	combined = append(combined, homeItems...)
	combined = append(combined, feedItems...)

	out, dropped := Dedup(combined)
	if dropped > 0 {
		metrics.Global.AddDuplicatesFiltered(dropped)
	}
	return out
}

func (a *Aggregator) fetchFeed(ctx context.Context, src news.Source) []news.Article {
	if src.URL == "" {
		return nil
	}
	body, ok := a.fetcher.FetchText(ctx, src.URL)
	if !ok {
		log.Printf("✗ %s: all fetch paths failed", src.Name)
		return nil
	}
	return rss.ParseFeed(body, src, a.feedOpts)
}

// FetchNews fetches sources one after another, pacing them with the
// limiter, and returns everything newest first.
func (a *Aggregator) FetchNews(ctx context.Context, sources []news.Source, onProgress ProgressFunc) []news.Article {
	start := time.Now()
	log.Printf("🔄 Fetching news from %d sources...", len(sources))

	var all []news.Article
	for i, src := range sources {
		if err := a.limiter.Wait(ctx); err != nil {
			log.Printf("⚠️ Fetch interrupted: %v", err)
			break
		}

		items := a.FetchSource(ctx, src)
		if len(items) == 0 {
			metrics.Global.IncrementSourcesFailed()
		} else {
			metrics.Global.IncrementSourcesFetched()
			metrics.Global.AddArticlesFetched(len(items))
		}
		all = append(all, items...)

		if onProgress != nil {
			onProgress(i+1, len(sources))
		}
	}

	news.SortByPubDate(all)
	metrics.Global.RecordProcessingTime(time.Since(start))
	log.Printf("📰 Total news fetched: %d", len(all))
	return all
}

// Dedup keeps the first article per normalized URL and reports how many
// were dropped.
func Dedup(articles []news.Article) ([]news.Article, int) {
	seen := make(map[string]bool, len(articles))
	out := make([]news.Article, 0, len(articles))
	for _, a := range articles {
		key := URLKey(a.Link)
		if key == "" {
			key = "id:" + a.ID
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out, len(articles) - len(out)
}

// URLKey reduces a link to origin plus path, dropping query and fragment.
func URLKey(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return link
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + u.EscapedPath()
}
