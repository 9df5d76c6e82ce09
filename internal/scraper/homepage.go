package scraper

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/khobor/internal/classify"
	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/textnorm"
)

const (
	// MaxHeadlines caps a homepage pass.
	MaxHeadlines = 15
	// fallbackMinRunes is the anchor text length that marks a headline
	// when no selector matched.
	fallbackMinRunes = 20
	dateStagger      = time.Minute
)

var (
	blockSelector = "article, li, figure, section, div"
	dateSelectors = ".date, .time, .publish-time, .published, [class*='date'], [class*='time']"
)

type Homepage struct {
	fetcher Fetcher
	now     func() time.Time
}

func NewHomepage(f Fetcher) *Homepage {
	return &Homepage{fetcher: f, now: time.Now}
}

// Scrape fetches src.Homepage and extracts headline articles. Any failure
// yields an empty result.
func (h *Homepage) Scrape(ctx context.Context, src news.Source) []news.Article {
	if src.Homepage == "" {
		return nil
	}
	body, ok := h.fetcher.FetchText(ctx, src.Homepage)
	if !ok {
		log.Printf("✗ %s: homepage unavailable", src.Name)
		return nil
	}
	items := ExtractHeadlines(body, src, h.now())
	log.Printf("✓ %s: %d homepage headlines", src.Name, len(items))
	return items
}

type candidate struct {
	anchor *goquery.Selection
	title  string
	link   string
}

// ExtractHeadlines parses homepage HTML into at most MaxHeadlines
// articles in document order.
func ExtractHeadlines(body string, src news.Source, now time.Time) []news.Article {
	base, err := url.Parse(src.Homepage)
	if err != nil || base.Host == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var cands []candidate
	add := func(a *goquery.Selection, title string) {
		if len(cands) >= MaxHeadlines {
			return
		}
		href, _ := a.Attr("href")
		link, ok := resolveArticleLink(base, href)
		if !ok || seen[link] {
			return
		}
		seen[link] = true
		cands = append(cands, candidate{anchor: a, title: title, link: link})
	}

	// A selector group matches in document order.
	group := strings.Join(StrategyFor(src.ID).headlineSelectors(), ", ")
	doc.Find(group).Each(func(_ int, s *goquery.Selection) {
		a := anchorOf(s)
		if a == nil {
			return
		}
		if title := cleanText(s.Text()); title != "" {
			add(a, title)
		}
	})

	if len(cands) == 0 {
		doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			href = strings.TrimSpace(href)
			if strings.HasPrefix(strings.ToLower(href), "javascript:") || strings.HasPrefix(href, "#") {
				return
			}
			title := cleanText(a.Text())
			if utf8.RuneCountInString(title) > fallbackMinRunes {
				add(a, title)
			}
		})
	}

	articles := make([]news.Article, 0, len(cands))
	for i, c := range cands {
		block := c.anchor.Closest(blockSelector)

		pubDate, ok := findDate(block)
		if !ok {
			pubDate = now.Add(-time.Duration(i) * dateStagger)
		}

		content := cleanText(block.Find("p").First().Text())
		if content == "" || content == c.title {
			content = textnorm.Placeholder
		}

		text := c.title + " " + content
		articles = append(articles, news.Article{
			ID:           c.link,
			Title:        c.title,
			Link:         c.link,
			PubDate:      pubDate,
			Content:      content,
			ShortContent: textnorm.ShortContent(content),
			Image:        findImage(base, block),
			Source:       src.Name,
			SourceID:     src.ID,
			SourceColor:  src.Color,
			Category:     classify.Classify(text),
			Sentiment:    classify.Sentiment(text),
		})
	}
	return articles
}

// anchorOf returns the link a selector hit refers to: the hit itself, an
// enclosing anchor, or the first anchor inside it.
func anchorOf(s *goquery.Selection) *goquery.Selection {
	if goquery.NodeName(s) == "a" {
		return s
	}
	if a := s.Closest("a[href]"); a.Length() > 0 {
		return a
	}
	if a := s.Find("a[href]").First(); a.Length() > 0 {
		return a
	}
	return nil
}

// resolveArticleLink makes href absolute against base and rejects links to
// the site root, which are navigation rather than articles.
func resolveArticleLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}
	u, err := base.Parse(href)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	if u.Path == "" || u.Path == "/" {
		return "", false
	}
	u.Fragment = ""
	return u.String(), true
}

// findImage looks in the enclosing block, then in its previous sibling.
func findImage(base *url.URL, block *goquery.Selection) string {
	if block.Length() == 0 {
		return ""
	}
	for _, scope := range []*goquery.Selection{block, block.Prev()} {
		img := scope.Find("img").AddSelection(scope.Filter("img")).First()
		if img.Length() == 0 {
			continue
		}
		for _, attr := range []string{"data-src", "data-original", "src"} {
			v, _ := img.Attr(attr)
			v = strings.TrimSpace(v)
			if v == "" || strings.HasPrefix(v, "data:") {
				continue
			}
			if u, err := base.Parse(v); err == nil {
				return u.String()
			}
		}
	}
	return ""
}

func findDate(block *goquery.Selection) (time.Time, bool) {
	if block.Length() == 0 {
		return time.Time{}, false
	}
	if t := block.Find("time").First(); t.Length() > 0 {
		if dt, ok := t.Attr("datetime"); ok {
			if parsed, ok := textnorm.ParseLocalizedDate(dt); ok {
				return parsed, true
			}
		}
		if parsed, ok := textnorm.ParseLocalizedDate(t.Text()); ok {
			return parsed, true
		}
	}
	if d := block.Find(dateSelectors).First(); d.Length() > 0 {
		return textnorm.ParseLocalizedDate(d.Text())
	}
	return time.Time{}, false
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
