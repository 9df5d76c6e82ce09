// Package relay fetches text over HTTP, directly or through a prioritized
// list of pass-through relay services. Failure is never returned as an
// error; callers get ok=false and move on.
package relay

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deusflow/khobor/internal/metrics"
)

// Relay is a pass-through service. The target URL is query-escaped and
// appended to Prefix.
type Relay struct {
	Name   string `yaml:"name" json:"name"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// URL returns the relay address for target.
func (r Relay) URL(target string) string {
	return r.Prefix + url.QueryEscape(target)
}

const (
	DefaultTimeout   = 8 * time.Second
	defaultMaxBody   = 8 << 20
	minBodyLength    = 64
	defaultUserAgent = "Mozilla/5.0 (compatible; khobor/1.0; +https://github.com/deusflow/khobor)"
)

type Options struct {
	Relays []Relay
	// Native enables a direct request before any relay is tried.
	Native    bool
	Timeout   time.Duration
	UserAgent string
	MaxBody   int64
	HTTP      *http.Client
}

type Client struct {
	relays    []Relay
	native    bool
	timeout   time.Duration
	userAgent string
	maxBody   int64
	http      *http.Client
}

func New(opts Options) *Client {
	c := &Client{
		relays:    opts.Relays,
		native:    opts.Native,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		maxBody:   opts.MaxBody,
		http:      opts.HTTP,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.maxBody <= 0 {
		c.maxBody = defaultMaxBody
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	return c
}

// FetchText returns the first usable body for target. The native path,
// when enabled, short-circuits the relay list on success.
func (c *Client) FetchText(ctx context.Context, target string) (string, bool) {
	if c.native {
		if body, ok := c.get(ctx, target); ok {
			return body, true
		}
		slog.Debug("native fetch failed, trying relays", "url", target)
	}

	for _, r := range c.relays {
		if ctx.Err() != nil {
			return "", false
		}
		body, ok := c.get(ctx, r.URL(target))
		if ok {
			return body, true
		}
		metrics.Global.IncrementRelayFailures()
		slog.Debug("relay failed", "relay", r.Name, "url", target)
	}
	return "", false
}

func (c *Client) get(ctx context.Context, u string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml, text/html, */*")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody))
	if err != nil {
		return "", false
	}
	body := string(data)
	if !usable(body) {
		return "", false
	}
	return body, true
}

// usable rejects empty bodies and relay error stubs that carry no markup.
func usable(body string) bool {
	trimmed := strings.TrimSpace(body)
	return len(trimmed) >= minBodyLength && strings.Contains(trimmed, "<")
}
