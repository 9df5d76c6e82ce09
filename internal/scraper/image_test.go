package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deusflow/khobor/internal/cache"
	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/relay"
)

func TestExtractLeadImage(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"og image", `<html><head><meta property="og:image" content="https://a.com/lead.jpg"></head></html>`, "https://a.com/lead.jpg"},
		{"protocol relative", `<html><head><meta name="twitter:image" content="//cdn.a.com/t.jpg"></head></html>`, "https://cdn.a.com/t.jpg"},
		{"logo skipped", `<html><head><meta property="og:image" content="https://a.com/logo.png"></head><body><article><img src="https://a.com/photo.jpg"></article></body></html>`, "https://a.com/photo.jpg"},
		{"lazy image", `<html><body><div class="featured-image"><img data-src="https://a.com/lazy.jpg"></div></body></html>`, "https://a.com/lazy.jpg"},
		{"only pixels", `<html><body><article><img src="https://a.com/1x1.gif"></article></body></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractLeadImage(tt.html); got != tt.want {
				t.Errorf("ExtractLeadImage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBackfillUsesCache(t *testing.T) {
	var hits int32
	mux := http.NewServeMux()
	page := func(head string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Write([]byte(`<html><head>` + head + `</head><body><p>article body</p></body></html>`))
		}
	}
	mux.HandleFunc("/a", page(`<meta property="og:image" content="//cdn.example.com/a.jpg">`))
	mux.HandleFunc("/b", page(`<meta property="og:image" content="https://cdn.example.com/b.jpg">`))
	mux.HandleFunc("/c", page(`<title>no image here</title>`))
	mux.HandleFunc("/f", page(`<meta property="og:image" content="/uploads/f.jpg">`))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	articles := func() []news.Article {
		return []news.Article{
			{ID: "a", Link: srv.URL + "/a"},
			{ID: "b", Link: srv.URL + "/b"},
			{ID: "c", Link: srv.URL + "/c"},
			{ID: "d", Link: srv.URL + "/d", Image: "https://cdn.example.com/d.jpg"},
			{ID: "e"},
			{ID: "f", Link: srv.URL + "/f"},
		}
	}

	imgs := NewImages(relay.New(relay.Options{Native: true}), cache.New[string](time.Hour), nil)

	found := map[string]string{}
	first := articles()
	n := imgs.Backfill(context.Background(), first, func(id, img string) { found[id] = img })
	if n != 3 {
		t.Fatalf("expected 3 images found, got %d", n)
	}
	if found["a"] != "https://cdn.example.com/a.jpg" || found["b"] != "https://cdn.example.com/b.jpg" {
		t.Errorf("unexpected images %v", found)
	}
	if found["f"] != srv.URL+"/uploads/f.jpg" {
		t.Errorf("relative image not resolved against the article link: %q", found["f"])
	}
	if first[0].Image != "https://cdn.example.com/a.jpg" {
		t.Errorf("article not updated in place: %q", first[0].Image)
	}
	if atomic.LoadInt32(&hits) != 4 {
		t.Errorf("expected 4 page fetches, got %d", hits)
	}

	second := articles()
	n = imgs.Backfill(context.Background(), second, nil)
	if n != 3 {
		t.Errorf("expected cached images to be applied, got %d", n)
	}
	if atomic.LoadInt32(&hits) != 4 {
		t.Errorf("cached lookups, including misses, must not refetch; hits=%d", hits)
	}
}
