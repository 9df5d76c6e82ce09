// Package digest builds the daily brief: the top stories of every
// category, optionally summarized in Bengali.
package digest

import (
	"context"
	"log"
	"time"

	"github.com/deusflow/khobor/internal/metrics"
	"github.com/deusflow/khobor/internal/news"
)

// PerCategory is how many articles each section carries.
const PerCategory = 3

type Section struct {
	Category news.Category  `json:"category"`
	Articles []news.Article `json:"articles"`
}

type Digest struct {
	Date     time.Time `json:"date"`
	Sections []Section `json:"sections"`
	Summary  string    `json:"summary,omitempty"`
}

// Summarizer turns digest sections into a short prose brief.
type Summarizer interface {
	Summarize(ctx context.Context, sections []Section) (string, error)
}

// Sections groups articles by category in canonical category order,
// keeping the first limit articles of each. Input order is preserved, so
// a feed sorted newest first yields the latest stories. Empty categories
// are omitted.
func Sections(articles []news.Article, limit int) []Section {
	if limit <= 0 {
		limit = PerCategory
	}
	byCat := make(map[news.Category][]news.Article)
	for _, a := range articles {
		if len(byCat[a.Category]) < limit {
			byCat[a.Category] = append(byCat[a.Category], a)
		}
	}

	var out []Section
	for _, c := range news.AllCategories() {
		if items := byCat[c]; len(items) > 0 {
			out = append(out, Section{Category: c, Articles: items})
		}
	}
	return out
}

// Build assembles the digest. A nil summarizer or a failed summary leaves
// Summary empty; the sections are always returned.
func Build(ctx context.Context, articles []news.Article, s Summarizer, now time.Time) Digest {
	d := Digest{Date: now, Sections: Sections(articles, PerCategory)}
	if s == nil || len(d.Sections) == 0 {
		return d
	}

	summary, err := s.Summarize(ctx, d.Sections)
	if err != nil {
		log.Printf("⚠️ Digest summary unavailable: %v", err)
		return d
	}
	d.Summary = summary
	metrics.Global.IncrementDigestsGenerated()
	return d
}
