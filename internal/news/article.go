package news

import (
	"sort"
	"time"
)

// Category is the closed set of topics an article can be filed under.
type Category string

const (
	Sports        Category = "Sports"
	Politics      Category = "Politics"
	Entertainment Category = "Entertainment"
	Business      Category = "Business"
	Technology    Category = "Technology"
	Health        Category = "Health"
	World         Category = "World"
	Lifestyle     Category = "Lifestyle"
	General       Category = "General"
)

// AllCategories returns every category in canonical order. General is last.
func AllCategories() []Category {
	return []Category{Sports, Politics, Entertainment, Business, Technology, Health, World, Lifestyle, General}
}

// Sentiment is a coarse tone label.
type Sentiment string

const (
	Positive Sentiment = "positive"
	Neutral  Sentiment = "neutral"
	Negative Sentiment = "negative"
)

// Source is one configured outlet. It never changes at runtime.
type Source struct {
	Name     string `yaml:"name" json:"name"`
	ID       string `yaml:"id" json:"id"`
	URL      string `yaml:"url" json:"url,omitempty"`
	Homepage string `yaml:"homepage" json:"homepage,omitempty"`
	Color    string `yaml:"color" json:"color"`
}

// Revision is a snapshot of an article before a detected change.
type Revision struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Article is the canonical record produced by the parsers and carried
// across refresh cycles by the merge engine.
type Article struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Link         string     `json:"link"`
	PubDate      time.Time  `json:"pubDate"`
	Content      string     `json:"content"`
	ShortContent string     `json:"shortContent"`
	Image        string     `json:"image,omitempty"`
	Source       string     `json:"source"`
	SourceID     string     `json:"sourceId"`
	SourceColor  string     `json:"sourceColor"`
	Category     Category   `json:"category"`
	Sentiment    Sentiment  `json:"sentiment"`
	IsNew        bool       `json:"isNew"`
	IsCached     bool       `json:"isCached"`
	IsUpdated    bool       `json:"isUpdated"`
	Revisions    []Revision `json:"revisions,omitempty"`
}

// StoryCluster groups articles judged to cover the same event.
type StoryCluster struct {
	ID        string    `json:"id"`
	Primary   Article   `json:"primary"`
	Related   []Article `json:"related"`
	Count     int       `json:"count"`
	Sources   []string  `json:"sources"`
	IsCluster bool      `json:"isCluster"`
}

// SortByPubDate orders articles newest first. Equal timestamps keep
// their input order.
func SortByPubDate(articles []Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PubDate.After(articles[j].PubDate)
	})
}
