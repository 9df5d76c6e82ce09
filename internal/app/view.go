package app

import (
	"context"
	"strings"

	"github.com/deusflow/khobor/internal/cluster"
	"github.com/deusflow/khobor/internal/digest"
	"github.com/deusflow/khobor/internal/news"
)

// AllCategories disables the category filter.
const AllCategories = "All"

const DefaultPageSize = 20

type Filter struct {
	Category       string // a news.Category or AllCategories
	Query          string // matched against title and source name
	SourceID       string
	BookmarkedOnly bool
	UnreadOnly     bool
}

type Page struct {
	Articles []news.Article `json:"articles"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	HasMore  bool           `json:"hasMore"`
}

// Filtered returns the current articles that pass f, newest first.
func (c *Controller) Filtered(f Filter) []news.Article {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	read, bookmarks := c.readSet(), c.bookmarkSet()
	var out []news.Article
	for _, a := range c.Articles() {
		if f.Category != "" && f.Category != AllCategories && string(a.Category) != f.Category {
			continue
		}
		if f.SourceID != "" && a.SourceID != f.SourceID {
			continue
		}
		if f.BookmarkedOnly && !bookmarks.Has(a.ID) {
			continue
		}
		if f.UnreadOnly && read.Has(a.ID) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Title), query) &&
			!strings.Contains(strings.ToLower(a.Source), query) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// View returns pages 1..page of the filtered list, as an infinite-scroll
// feed shows them.
func (c *Controller) View(f Filter, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	all := c.Filtered(f)
	if last := len(all)/pageSize + 1; page > last {
		page = last
	}
	end := page * pageSize
	if end > len(all) {
		end = len(all)
	}
	return Page{
		Articles: all[:end],
		Total:    len(all),
		Page:     page,
		HasMore:  end < len(all),
	}
}

// Clusters groups the filtered articles into stories.
func (c *Controller) Clusters(f Filter, threshold float64) []news.StoryCluster {
	if threshold <= 0 {
		threshold = cluster.DefaultThreshold
	}
	return cluster.Cluster(c.Filtered(f), threshold)
}

func (c *Controller) Trending(limit int) []cluster.Topic {
	return cluster.TrendingTopics(c.Articles(), limit)
}

// Related returns up to limit articles related to id.
func (c *Controller) Related(id string, limit int) ([]news.Article, error) {
	a, ok := c.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return cluster.Related(a, c.Articles(), limit), nil
}

func (c *Controller) Digest(ctx context.Context, s digest.Summarizer) digest.Digest {
	return digest.Build(ctx, c.Articles(), s, c.now())
}
