// Package scraper extracts headlines, article bodies and lead images from
// outlet HTML pages.
package scraper

import (
	"context"
	"sync"
)

// Fetcher returns a page body, or ok=false when nothing usable arrived.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, bool)
}

// Strategy holds the per-outlet selectors. Generic selectors are always
// tried after the outlet's own.
type Strategy struct {
	Headlines []string
	Content   []string
}

var genericHeadlines = []string{
	"h1 a[href]",
	"h2 a[href]",
	"h3 a[href]",
	"h4 a[href]",
	".title a[href]",
	".headline a[href]",
	".news-title a[href]",
	"a.title[href]",
	"a.headline[href]",
	"a[href] h2",
	"a[href] h3",
}

var genericContent = []string{
	"article",
	`[itemprop="articleBody"]`,
	".article-body",
	".article-content",
	".news-content",
	".story-content",
	".post-content",
	".entry-content",
	".content-body",
	".news-details",
	".main-content",
	"main",
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Strategy{
		"jago-news": {
			Headlines: []string{".lead-news a[href]", ".single-block a[href] h3", ".paddingTop10 h3 a[href]"},
			Content:   []string{".news-content", ".article-content", ".news-details"},
		},
		"risingbd": {
			Headlines: []string{".lead-news h1 a[href]", ".news-title a[href]", ".list-article h2 a[href]"},
			Content:   []string{".article-content", ".news-details", ".content-body"},
		},
		"prothom-alo": {
			Headlines: []string{"h3.headline-title a[href]", ".headline-title a[href]", "a.title-link[href]"},
			Content:   []string{".story-content", ".story-element-text", "article"},
		},
		"bdnews24": {
			Headlines: []string{".SubCat-wrapper h5 a[href]", ".col-md-8 h2 a[href]", ".Title a[href]"},
			Content:   []string{".article-content", ".print-only", ".custombody"},
		},
		"somoy-tv": {
			Headlines: []string{".jw_article_title a[href]", ".lead-news-title a[href]"},
			Content:   []string{".news-content", ".article-body", ".content"},
		},
		"ntv": {
			Headlines: []string{".lead-news-title a[href]", ".news-title a[href]", ".title a[href]"},
			Content:   []string{".news-details", ".article-content", ".content"},
		},
		"channel-i": {
			Headlines: []string{".td-module-title a[href]", ".entry-title a[href]"},
			Content:   []string{".news-details", ".article-content"},
		},
		"daily-star": {
			Headlines: []string{".card-content h3 a[href]", ".title a[href]"},
			Content:   []string{".article-content", ".story-content", ".node-content"},
		},
	}
)

// Register installs or replaces the strategy for a source id.
func Register(sourceID string, s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[sourceID] = s
}

// StrategyFor returns the strategy for sourceID, or an empty one that
// falls back to the generic selectors.
func StrategyFor(sourceID string) Strategy {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[sourceID]
}

func (s Strategy) headlineSelectors() []string {
	return append(append([]string{}, s.Headlines...), genericHeadlines...)
}

func (s Strategy) contentSelectors() []string {
	return append(append([]string{}, s.Content...), genericContent...)
}
