package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const feedBody = `<?xml version="1.0"?><rss version="2.0"><channel><title>test</title><item><title>x</title></item></channel></rss>`

func TestFetchTextNativeShortCircuits(t *testing.T) {
	var relayHits int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(feedBody))
	}))
	defer origin.Close()
	relaySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&relayHits, 1)
		w.Write([]byte(feedBody))
	}))
	defer relaySrv.Close()

	c := New(Options{Native: true, Relays: []Relay{{Name: "r", Prefix: relaySrv.URL + "/?u="}}})
	body, ok := c.FetchText(context.Background(), origin.URL)
	if !ok || body != feedBody {
		t.Fatalf("FetchText = %q, %v", body, ok)
	}
	if atomic.LoadInt32(&relayHits) != 0 {
		t.Errorf("relay should not be used when native fetch works")
	}
}

func TestFetchTextFallsThroughRelays(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer broken.Close()

	var gotTarget string
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("quest")
		w.Write([]byte(feedBody))
	}))
	defer working.Close()

	c := New(Options{Relays: []Relay{
		{Name: "broken", Prefix: broken.URL + "/?"},
		{Name: "working", Prefix: working.URL + "/?quest="},
	}})

	target := "https://example.com/feed?a=1&b=2"
	body, ok := c.FetchText(context.Background(), target)
	if !ok || body != feedBody {
		t.Fatalf("FetchText = %q, %v", body, ok)
	}
	if gotTarget != target {
		t.Errorf("relay received %q, want %q", gotTarget, target)
	}
}

func TestFetchTextRejectsTrivialBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	c := New(Options{Native: true, Relays: []Relay{{Name: "r", Prefix: srv.URL + "/?"}}})
	if body, ok := c.FetchText(context.Background(), srv.URL); ok {
		t.Fatalf("expected failure, got %q", body)
	}
}

func TestFetchTextTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Write([]byte(feedBody))
	}))
	defer slow.Close()

	c := New(Options{Native: true, Timeout: 50 * time.Millisecond})
	start := time.Now()
	if _, ok := c.FetchText(context.Background(), slow.URL); ok {
		t.Fatal("expected timeout")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not honoured, took %v", elapsed)
	}
}

func TestFetchTextAllFail(t *testing.T) {
	c := New(Options{Relays: []Relay{{Name: "dead", Prefix: "http://127.0.0.1:1/?"}}, Timeout: 200 * time.Millisecond})
	body, ok := c.FetchText(context.Background(), "https://example.com")
	if ok || body != "" {
		t.Fatalf("expected empty failure, got %q %v", body, ok)
	}
}

func TestRelayURLEscapesTarget(t *testing.T) {
	r := Relay{Prefix: "https://corsproxy.io/?"}
	got := r.URL("https://a.com/x?y=1")
	if !strings.HasPrefix(got, "https://corsproxy.io/?https%3A%2F%2F") {
		t.Errorf("unexpected relay URL %q", got)
	}
}
