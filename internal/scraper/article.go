package scraper

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/textnorm"
)

// ArticleContent is the full body of an article page.
type ArticleContent struct {
	Content string `json:"content"`
	Image   string `json:"image,omitempty"`
	URL     string `json:"url"`
}

const (
	minBlockRunes     = 200
	minParagraphRunes = 50
	minArticleRunes   = 100
)

var noiseSelectors = strings.Join([]string{
	"script", "style", "nav", "header", "footer", "aside",
	".sidebar", ".advertisement", ".ad", ".social-share",
	".related-news", ".comments", ".author-bio", "noscript",
	".breadcrumb", ".navigation", ".menu", "iframe",
}, ", ")

var articleImageSelectors = []string{
	`meta[property="og:image"]`,
	".featured-image img",
	".article-image img",
	".news-image img",
	"article img",
	".content img",
}

type Articles struct {
	fetcher Fetcher
}

func NewArticles(f Fetcher) *Articles {
	return &Articles{fetcher: f}
}

// Scrape fetches link and extracts its body using the strategy for
// sourceID. It returns nil when the page is unavailable or too short.
func (a *Articles) Scrape(ctx context.Context, link, sourceID string) *ArticleContent {
	body, ok := a.fetcher.FetchText(ctx, link)
	if !ok {
		log.Printf("⚠️ Can't fetch article %s", link)
		return nil
	}
	res := ExtractArticle(body, sourceID)
	if res == nil {
		log.Printf("⚠️ Content too short: %s", link)
		return nil
	}
	res.URL = link
	res.Image = news.AbsoluteURL(link, res.Image)
	log.Printf("✅ Got content (%d chars)", utf8.RuneCountInString(res.Content))
	return res
}

// ExtractArticle pulls the article body and lead image out of page HTML.
func ExtractArticle(body, sourceID string) *ArticleContent {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	image := firstImage(doc, articleImageSelectors)
	doc.Find(noiseSelectors).Remove()

	var raw string
	for _, sel := range StrategyFor(sourceID).contentSelectors() {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(el.Text())) > minBlockRunes {
			raw, _ = el.Html()
			break
		}
	}

	if raw == "" {
		var b strings.Builder
		doc.Find("p").Each(func(_ int, p *goquery.Selection) {
			if utf8.RuneCountInString(strings.TrimSpace(p.Text())) > minParagraphRunes {
				if h, err := goquery.OuterHtml(p); err == nil {
					b.WriteString(h)
				}
			}
		})
		raw = b.String()
	}

	content := textnorm.CleanContent(raw)
	if utf8.RuneCountInString(content) <= minArticleRunes {
		return nil
	}
	return &ArticleContent{Content: content, Image: image}
}

// firstImage returns the first content or src attribute found by the
// selectors, in order.
func firstImage(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		el := doc.Find(sel).First()
		if el.Length() == 0 {
			continue
		}
		for _, attr := range []string{"content", "src", "data-src"} {
			if v, ok := el.Attr(attr); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}
