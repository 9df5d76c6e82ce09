package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/relay"
	"github.com/deusflow/khobor/internal/textnorm"
)

var hpNow = time.Date(2026, 10, 19, 12, 0, 0, 0, textnorm.Dhaka)

func testSource(homepage string) news.Source {
	return news.Source{Name: "টেস্ট", ID: "test-outlet", Homepage: homepage, Color: "#000"}
}

const homepageHTML = `<html><body>
<nav><a href="/">প্রচ্ছদ</a></nav>
<div class="card">
  <img src="/img/1.jpg">
  <h2><a href="/sports/1">বাংলাদেশ ক্রিকেট দলের জয়</a></h2>
  <time datetime="2026-10-19T09:00:00+06:00">সকাল ৯টা</time>
  <p>সংক্ষিপ্ত বিবরণ</p>
</div>
<div class="card">
  <img data-src="https://cdn.other.com/2.jpg" src="data:image/gif;base64,R0lGOD">
  <h3><a href="https://other.com/national/2?x=1#top">ঢাকায় বৃষ্টি</a></h3>
  <span class="date">১৯ অক্টোবর ২০২৬, ০৮:১৫ এএম</span>
</div>
<div class="card"><h3><a href="/sports/1">আবার একই খবর</a></h3></div>
<div class="card"><h3><a href="/">প্রচ্ছদে ফিরুন</a></h3></div>
<div class="card"><h3><a href="javascript:void(0)">স্ক্রিপ্ট</a></h3></div>
</body></html>`

func TestExtractHeadlines(t *testing.T) {
	got := ExtractHeadlines(homepageHTML, testSource("https://www.example.com/"), hpNow)
	if len(got) != 2 {
		t.Fatalf("expected 2 headlines, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.Link != "https://www.example.com/sports/1" || first.ID != first.Link {
		t.Errorf("first link = %q", first.Link)
	}
	if first.Title != "বাংলাদেশ ক্রিকেট দলের জয়" {
		t.Errorf("first title = %q", first.Title)
	}
	if first.Image != "https://www.example.com/img/1.jpg" {
		t.Errorf("first image = %q", first.Image)
	}
	if want := time.Date(2026, 10, 19, 9, 0, 0, 0, textnorm.Dhaka); !first.PubDate.Equal(want) {
		t.Errorf("first pubDate = %v, want %v", first.PubDate, want)
	}
	if first.Content != "সংক্ষিপ্ত বিবরণ" {
		t.Errorf("first content = %q", first.Content)
	}
	if first.Category != news.Sports {
		t.Errorf("first category = %s", first.Category)
	}

	second := got[1]
	if second.Link != "https://other.com/national/2?x=1" {
		t.Errorf("second link = %q", second.Link)
	}
	if second.Image != "https://cdn.other.com/2.jpg" {
		t.Errorf("second image = %q", second.Image)
	}
	if want := time.Date(2026, 10, 19, 8, 15, 0, 0, textnorm.Dhaka); !second.PubDate.Equal(want) {
		t.Errorf("second pubDate = %v, want %v", second.PubDate, want)
	}
	if second.Content != textnorm.Placeholder {
		t.Errorf("second content = %q", second.Content)
	}
}

func TestExtractHeadlinesPreviousSiblingImage(t *testing.T) {
	html := `<html><body><section>
<figure><img src="https://cdn.example.com/lead.jpg"></figure>
<div class="item"><h3><a href="/politics/9">নির্বাচন কমিশনের বৈঠক</a></h3></div>
</section></body></html>`
	got := ExtractHeadlines(html, testSource("https://www.example.com"), hpNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 headline, got %d", len(got))
	}
	if got[0].Image != "https://cdn.example.com/lead.jpg" {
		t.Errorf("image = %q", got[0].Image)
	}
}

func TestExtractHeadlinesFallbackAnchors(t *testing.T) {
	long := "এটি একটি অনেক লম্বা শিরোনাম যা বিশ অক্ষরের বেশি"
	html := `<html><body><div>
<a href="/long/1">` + long + `</a>
<a href="/s">ছোট</a>
<a href="#top">` + long + ` ২</a>
<a href="javascript:alert(1)">` + long + ` ৩</a>
</div></body></html>`
	got := ExtractHeadlines(html, testSource("https://www.example.com"), hpNow)
	if len(got) != 1 {
		t.Fatalf("expected 1 fallback headline, got %d", len(got))
	}
	if got[0].Link != "https://www.example.com/long/1" {
		t.Errorf("link = %q", got[0].Link)
	}
	if !got[0].PubDate.Equal(hpNow) {
		t.Errorf("undated first headline should be stamped now, got %v", got[0].PubDate)
	}
}

func TestExtractHeadlinesCapAndStagger(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, `<h2><a href="/n/%d">শিরোনাম %d</a></h2>`, i, i)
	}
	b.WriteString("</body></html>")

	got := ExtractHeadlines(b.String(), testSource("https://www.example.com"), hpNow)
	if len(got) != MaxHeadlines {
		t.Fatalf("expected %d headlines, got %d", MaxHeadlines, len(got))
	}
	for i, a := range got {
		if want := fmt.Sprintf("https://www.example.com/n/%d", i); a.Link != want {
			t.Errorf("headline %d link = %q, want %q", i, a.Link, want)
		}
		if want := hpNow.Add(-time.Duration(i) * time.Minute); !a.PubDate.Equal(want) {
			t.Errorf("headline %d pubDate = %v, want %v", i, a.PubDate, want)
		}
	}
}

func TestHomepageScrapeOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(homepageHTML))
	}))
	defer srv.Close()

	h := NewHomepage(relay.New(relay.Options{Native: true}))
	h.now = func() time.Time { return hpNow }

	got := h.Scrape(context.Background(), testSource(srv.URL+"/"))
	if len(got) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(got))
	}
	if !strings.HasPrefix(got[0].Link, srv.URL) {
		t.Errorf("relative link not resolved against homepage: %q", got[0].Link)
	}
}

func TestHomepageScrapeFailureIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	h := NewHomepage(relay.New(relay.Options{Native: true}))
	if got := h.Scrape(context.Background(), testSource(srv.URL)); len(got) != 0 {
		t.Fatalf("expected no headlines, got %d", len(got))
	}
	if got := h.Scrape(context.Background(), testSource("")); got != nil {
		t.Fatalf("source without homepage should be skipped")
	}
}

func TestRegisterStrategy(t *testing.T) {
	Register("custom-outlet", Strategy{Headlines: []string{".special a[href]"}})
	html := `<html><body><div class="special"><a href="/x/1">বিশেষ</a></div></body></html>`
	src := news.Source{Name: "c", ID: "custom-outlet", Homepage: "https://c.example.com"}
	got := ExtractHeadlines(html, src, hpNow)
	if len(got) != 1 || got[0].Title != "বিশেষ" {
		t.Fatalf("registered selector not used: %+v", got)
	}
}
