package rss

import (
	"strings"
	"testing"
	"time"

	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/textnorm"
)

var testSource = news.Source{Name: "প্রথম আলো", ID: "prothom-alo", Color: "#ed1c24"}

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, textnorm.Dhaka)

func nowFn() time.Time { return fixedNow }

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/" xmlns:content="http://purl.org/rss/1.0/modules/content/">
<channel>
  <title>প্রথম আলো</title>
  <link>https://www.prothomalo.com</link>
  <item>
    <title>বাংলাদেশ ক্রিকেট দলের জয়</title>
    <link>https://www.prothomalo.com/sports/cricket/abc</link>
    <pubDate>Mon, 19 Oct 2026 08:00:00 +0600</pubDate>
    <enclosure url="https://img.prothomalo.com/a.jpg" type="image/jpeg" length="100"/>
    <description><![CDATA[<p>প্রথম অনুচ্ছেদ</p><p>দ্বিতীয় অনুচ্ছেদ</p>]]></description>
  </item>
  <item>
    <title>বাজেট নিয়ে আলোচনা</title>
    <pubDate>১৯ অক্টোবর ২০২৬, ১০:৩০ এএম</pubDate>
    <media:content url="https://img.prothomalo.com/media.jpg" medium="image"/>
    <description>অর্থনীতি</description>
  </item>
  <item>
    <title>পুরোনো খবর</title>
    <link>https://www.prothomalo.com/old</link>
    <pubDate>Wed, 14 Oct 2026 10:00:00 +0600</pubDate>
    <description><![CDATA[<img src="https://img.prothomalo.com/inline.png?w=600&amp;h=400" /> পুরোনো]]></description>
  </item>
  <item>
    <title>  </title>
    <link>https://www.prothomalo.com/untitled</link>
  </item>
</channel>
</rss>`

func TestParseFeed(t *testing.T) {
	got := ParseFeed(sampleRSS, testSource, Options{Now: nowFn})
	if len(got) != 2 {
		t.Fatalf("expected 2 recent titled items, got %d", len(got))
	}

	first := got[0]
	if first.ID != "https://www.prothomalo.com/sports/cricket/abc" || first.Link != first.ID {
		t.Errorf("id/link = %q/%q", first.ID, first.Link)
	}
	if first.Image != "https://img.prothomalo.com/a.jpg" {
		t.Errorf("enclosure image = %q", first.Image)
	}
	if first.Content != "প্রথম অনুচ্ছেদ\n\nদ্বিতীয় অনুচ্ছেদ" {
		t.Errorf("content = %q", first.Content)
	}
	if !strings.HasSuffix(first.ShortContent, "...") {
		t.Errorf("short content = %q", first.ShortContent)
	}
	if first.Category != news.Sports {
		t.Errorf("category = %s", first.Category)
	}
	if first.Sentiment != news.Positive {
		t.Errorf("sentiment = %s", first.Sentiment)
	}
	if first.Source != testSource.Name || first.SourceID != testSource.ID || first.SourceColor != testSource.Color {
		t.Errorf("provenance not copied: %+v", first)
	}

	second := got[1]
	if second.Link != "" || len(second.ID) != 36 {
		t.Errorf("linkless item should get a random id, got %q", second.ID)
	}
	if second.Image != "https://img.prothomalo.com/media.jpg" {
		t.Errorf("media:content image = %q", second.Image)
	}
	want := time.Date(2026, 10, 19, 10, 30, 0, 0, textnorm.Dhaka)
	if !second.PubDate.Equal(want) {
		t.Errorf("bengali pubDate = %v, want %v", second.PubDate, want)
	}
}

func TestParseFeedAllowOld(t *testing.T) {
	got := ParseFeed(sampleRSS, testSource, Options{Now: nowFn, AllowOld: true})
	if len(got) != 3 {
		t.Fatalf("expected 3 items with AllowOld, got %d", len(got))
	}
	old := got[2]
	if old.Title != "পুরোনো খবর" {
		t.Fatalf("unexpected third item %q", old.Title)
	}
	if old.Image != "https://img.prothomalo.com/inline.png?w=600&h=400" {
		t.Errorf("inline image = %q", old.Image)
	}
}

func TestParseFeedDefaultsDateToNow(t *testing.T) {
	raw := `<rss version="2.0"><channel><title>t</title>
<item><title>তারিখহীন</title><link>https://a.com/x</link><pubDate>কোনো তারিখ নেই</pubDate></item>
</channel></rss>`
	got := ParseFeed(raw, testSource, Options{Now: nowFn})
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if !got[0].PubDate.Equal(fixedNow) {
		t.Errorf("pubDate = %v, want now", got[0].PubDate)
	}
	if got[0].Content != textnorm.Placeholder {
		t.Errorf("empty body should use placeholder, got %q", got[0].Content)
	}
}

func TestParseFeedAtom(t *testing.T) {
	raw := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>bdnews24</title>
  <entry>
    <title>নির্বাচন কমিশনের বৈঠক</title>
    <link href="https://bangla.bdnews24.com/politics/1"/>
    <updated>2026-10-19T09:00:00+06:00</updated>
    <summary>সরকার ও নির্বাচন</summary>
  </entry>
</feed>`
	got := ParseFeed(raw, testSource, Options{Now: nowFn})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Link != "https://bangla.bdnews24.com/politics/1" {
		t.Errorf("atom link = %q", got[0].Link)
	}
	if got[0].Content != "সরকার ও নির্বাচন" {
		t.Errorf("atom summary = %q", got[0].Content)
	}
	if got[0].Category != news.Politics {
		t.Errorf("category = %s", got[0].Category)
	}
}

func TestParseFeedMalformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"<html><body>no feed here</body></html>",
		"<html><body><item>not a feed</item></body></html>",
	} {
		if got := ParseFeed(raw, testSource, Options{Now: nowFn}); len(got) != 0 {
			t.Errorf("ParseFeed(%q) = %d items, want 0", raw, len(got))
		}
	}
}

func TestOpenGraphFallback(t *testing.T) {
	raw := `<rss version="2.0"><channel><title>t</title>
<!-- <meta property="og:image" content="https://a.com/og.jpg"/> -->
<item><title>ছবি ছাড়া</title><link>https://a.com/y</link><pubDate>Mon, 19 Oct 2026 08:00:00 +0600</pubDate><description>text only</description></item>
</channel></rss>`
	got := ParseFeed(raw, testSource, Options{Now: nowFn})
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].Image != "https://a.com/og.jpg" {
		t.Errorf("og image = %q", got[0].Image)
	}
}

func TestParseFeedResolvesRelativeImages(t *testing.T) {
	raw := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>ঢাকা পোস্ট</title>
  <link>https://www.dhakapost.com</link>
  <item>
    <title>সম্পর্কিত ছবি</title>
    <link>https://www.dhakapost.com/national/123</link>
    <pubDate>Mon, 19 Oct 2026 08:00:00 +0600</pubDate>
    <description><![CDATA[<img src="/rel.jpg"> খবর]]></description>
  </item>
  <item>
    <title>লিংক ছাড়া খবর</title>
    <pubDate>Mon, 19 Oct 2026 09:00:00 +0600</pubDate>
    <description><![CDATA[<img src="/uploads/b.jpg"> খবর]]></description>
  </item>
</channel>
</rss>`
	got := ParseFeed(raw, testSource, Options{Now: nowFn})
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	images := map[string]string{}
	for _, a := range got {
		images[a.Title] = a.Image
	}
	if images["সম্পর্কিত ছবি"] != "https://www.dhakapost.com/rel.jpg" {
		t.Errorf("item image = %q", images["সম্পর্কিত ছবি"])
	}
	if images["লিংক ছাড়া খবর"] != "https://www.dhakapost.com/uploads/b.jpg" {
		t.Errorf("linkless item image = %q", images["লিংক ছাড়া খবর"])
	}
}
