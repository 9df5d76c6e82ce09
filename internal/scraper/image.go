package scraper

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/deusflow/khobor/internal/cache"
	"github.com/deusflow/khobor/internal/metrics"
	"github.com/deusflow/khobor/internal/news"
)

var leadImageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[name="og:image"]`,
	`meta[name="twitter:image"]`,
	`meta[property="twitter:image"]`,
	`meta[itemprop="image"]`,
	".featured-image img",
	".post-thumbnail img",
	".article-image img",
	".news-image img",
	".entry-thumb img",
	"article img",
	".article-content img",
	".news-content img",
	".story-content img",
	"main img",
	".content img",
}

var rejectedImageHints = []string{"logo", "icon", "avatar", "placeholder", "1x1", "blank"}

// ExtractLeadImage returns the main image of an article page, skipping
// logos, icons and tracking pixels.
func ExtractLeadImage(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}
	for _, sel := range leadImageSelectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		u := attrFirst(el, "content", "src", "data-src")
		if u == "" {
			continue
		}
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		if acceptableImage(u) {
			return u
		}
	}
	return ""
}

func attrFirst(el *goquery.Selection, attrs ...string) string {
	for _, a := range attrs {
		if v, ok := el.Attr(a); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

func acceptableImage(u string) bool {
	lower := strings.ToLower(u)
	for _, hint := range rejectedImageHints {
		if strings.Contains(lower, hint) {
			return false
		}
	}
	return true
}

// Images recovers lead images for articles whose feed carried none.
// Lookups, including misses, are remembered in the cache.
type Images struct {
	fetcher Fetcher
	cache   *cache.Cache[string]
	limiter *rate.Limiter
}

func NewImages(f Fetcher, c *cache.Cache[string], limiter *rate.Limiter) *Images {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &Images{fetcher: f, cache: c, limiter: limiter}
}

// Cache exposes the image cache for persistence.
func (s *Images) Cache() *cache.Cache[string] {
	return s.cache
}

// Backfill fills Image on articles that lack one, first from the cache
// and then by scraping each article page. onFound is called for every
// image applied. It returns how many images were found.
func (s *Images) Backfill(ctx context.Context, articles []news.Article, onFound func(id, image string)) int {
	found := 0
	apply := func(i int, img string) {
		articles[i].Image = img
		found++
		if onFound != nil {
			onFound(articles[i].ID, img)
		}
	}

	var pending []int
	for i := range articles {
		a := &articles[i]
		if a.Image != "" || a.Link == "" {
			continue
		}
		if img, ok := s.cache.Get(a.Link); ok {
			if img != "" {
				apply(i, img)
			}
			continue
		}
		pending = append(pending, i)
	}
	if found > 0 {
		log.Printf("📦 Applied %d cached images", found)
	}
	if len(pending) == 0 {
		return found
	}

	log.Printf("🖼️ Scraping images for %d articles...", len(pending))
	for _, i := range pending {
		if err := s.limiter.Wait(ctx); err != nil {
			return found
		}
		link := articles[i].Link
		body, ok := s.fetcher.FetchText(ctx, link)
		if !ok {
			continue
		}
		img := news.AbsoluteURL(link, ExtractLeadImage(body))
		s.cache.Set(link, img)
		if img != "" {
			apply(i, img)
			metrics.Global.IncrementImagesBackfilled()
		}
	}
	return found
}
