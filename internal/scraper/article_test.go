package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deusflow/khobor/internal/relay"
)

var longParagraph = strings.Repeat("বাংলা লেখা ", 30)

func TestExtractArticleUsesSourceSelectors(t *testing.T) {
	html := `<html><head><meta property="og:image" content="https://cdn.example.com/lead.jpg"></head>
<body>
<div class="news-content">
  <p>` + longParagraph + `</p>
  <div class="social-share">শেয়ার করুন ফেসবুকে</div>
  <script>track()</script>
  <p>শেষ অনুচ্ছেদ</p>
</div>
</body></html>`

	got := ExtractArticle(html, "jago-news")
	if got == nil {
		t.Fatal("expected content")
	}
	if got.Image != "https://cdn.example.com/lead.jpg" {
		t.Errorf("image = %q", got.Image)
	}
	if !strings.Contains(got.Content, "শেষ অনুচ্ছেদ") {
		t.Errorf("content missing last paragraph: %q", got.Content)
	}
	if strings.Contains(got.Content, "track()") || strings.Contains(got.Content, "ফেসবুকে") {
		t.Errorf("noise not removed: %q", got.Content)
	}
}

func TestExtractArticleParagraphFallback(t *testing.T) {
	p1 := strings.Repeat("প্রথম অনুচ্ছেদের লেখা ", 5)
	p2 := strings.Repeat("দ্বিতীয় অনুচ্ছেদের লেখা ", 5)
	html := `<html><body><div class="x"><p>` + p1 + `</p><p>ছোট</p><p>` + p2 + `</p></div></body></html>`

	got := ExtractArticle(html, "unknown")
	if got == nil {
		t.Fatal("expected paragraph fallback content")
	}
	if strings.Contains(got.Content, "ছোট") {
		t.Errorf("short paragraph should be skipped: %q", got.Content)
	}
	parts := strings.Split(got.Content, "\n\n")
	if len(parts) != 2 {
		t.Errorf("expected 2 paragraphs, got %d: %q", len(parts), got.Content)
	}
}

func TestExtractArticleTooShort(t *testing.T) {
	if got := ExtractArticle(`<html><body><article><p>ছোট খবর</p></article></body></html>`, "ntv"); got != nil {
		t.Fatalf("expected nil for short article, got %+v", got)
	}
}

func TestArticlesScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><meta property="og:image" content="/uploads/lead.jpg"></head><body><article><p>` + longParagraph + `</p></article></body></html>`))
	}))
	defer srv.Close()

	a := NewArticles(relay.New(relay.Options{Native: true}))
	got := a.Scrape(context.Background(), srv.URL+"/news/1", "prothom-alo")
	if got == nil {
		t.Fatal("expected article")
	}
	if got.URL != srv.URL+"/news/1" {
		t.Errorf("url = %q", got.URL)
	}
	if got.Image != srv.URL+"/uploads/lead.jpg" {
		t.Errorf("relative image not resolved: %q", got.Image)
	}
}
