// Package rss turns RSS 2.0 and Atom documents into articles.
package rss

import (
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/deusflow/khobor/internal/classify"
	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/textnorm"
)

// DefaultMaxAge is the retention horizon for feed items.
const DefaultMaxAge = 3 * 24 * time.Hour

type Options struct {
	// AllowOld keeps items older than MaxAge, for search.
	AllowOld bool
	MaxAge   time.Duration
	Now      func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) maxAge() time.Duration {
	if o.MaxAge > 0 {
		return o.MaxAge
	}
	return DefaultMaxAge
}

// ParseFeed parses raw feed XML for src. Malformed input yields an empty
// slice.
func ParseFeed(raw string, src news.Source, opts Options) []news.Article {
	if !strings.Contains(raw, "<item") && !strings.Contains(raw, "<entry") {
		log.Printf("✗ %s: no items in feed", src.Name)
		return nil
	}

	feed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		log.Printf("✗ %s: feed parse error: %v", src.Name, err)
		return nil
	}

	now := opts.now()
	site := feed.Link
	if site == "" {
		site = src.Homepage
	}
	horizon := now.Add(-opts.maxAge())

	articles := make([]news.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		pubDate := itemDate(item, now)
		if !opts.AllowOld && pubDate.Before(horizon) {
			continue
		}

		link := itemLink(item)
		id := link
		base := link
		if id == "" {
			id = uuid.NewString()
			base = site
		}

		content := textnorm.CleanContent(extractContent(item))
		if content == "" {
			content = textnorm.Placeholder
		}

		text := title + " " + content
		articles = append(articles, news.Article{
			ID:           id,
			Title:        title,
			Link:         link,
			PubDate:      pubDate,
			Content:      content,
			ShortContent: textnorm.ShortContent(content),
			Image:        news.AbsoluteURL(base, extractImage(item, raw)),
			Source:       src.Name,
			SourceID:     src.ID,
			SourceColor:  src.Color,
			Category:     classify.Classify(text),
			Sentiment:    classify.Sentiment(text),
		})
	}

	log.Printf("✓ %s: %d feed items", src.Name, len(articles))
	return articles
}

func itemLink(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	for _, l := range item.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// itemDate prefers the parser's own result, then the localized parser on
// the raw string, then now.
func itemDate(item *gofeed.Item, now time.Time) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	for _, raw := range []string{item.Published, item.Updated} {
		if t, ok := textnorm.ParseLocalizedDate(raw); ok {
			return t
		}
	}
	return now
}
