package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/khobor/internal/app"
	"github.com/deusflow/khobor/internal/news"
)

type bookmarks map[string]bool

func (b bookmarks) IsBookmarked(id string) bool { return b[id] }

func TestTimeAgo(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		age  time.Duration
		want string
	}{
		{10 * time.Second, "এইমাত্র"},
		{5 * time.Minute, "৫ মিনিট আগে"},
		{3 * time.Hour, "৩ ঘণ্টা আগে"},
		{50 * time.Hour, "২ দিন আগে"},
	}
	for _, tt := range tests {
		if got := timeAgo(now.Add(-tt.age), now); got != tt.want {
			t.Errorf("timeAgo(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestBadges(t *testing.T) {
	if got := badges(news.Article{}, false); got != "" {
		t.Errorf("no flags gave %q", got)
	}
	if got := badges(news.Article{IsNew: true, IsUpdated: true}, true); got != " [নতুন আপডেট 🔖]" {
		t.Errorf("badges = %q", got)
	}
}

func TestPrintPage(t *testing.T) {
	now := time.Now()
	p := app.Page{
		Articles: []news.Article{{ID: "a", Title: "শিরোনাম", Source: "এনটিভি", PubDate: now, IsNew: true}},
		Total:    3,
		Page:     1,
		HasMore:  true,
	}
	var buf bytes.Buffer
	printPage(&buf, p, bookmarks{"a": true}, now)
	out := buf.String()
	for _, want := range []string{"শিরোনাম [নতুন 🔖]", "এনটিভি", "2 more (use --page 2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printPage(&buf, app.Page{}, bookmarks{}, now)
	if !strings.Contains(buf.String(), "কোনো খবর") {
		t.Errorf("empty page output = %q", buf.String())
	}
}
