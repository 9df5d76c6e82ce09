// Package gemini summarizes the daily digest into a short Bengali brief.
package gemini

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/khobor/internal/cache"
	"github.com/deusflow/khobor/internal/digest"
	"github.com/deusflow/khobor/internal/ratelimit"
	"github.com/deusflow/khobor/internal/retry"
)

const (
	modelName       = "gemini-1.5-flash"
	maxSnippetRunes = 280
	summaryTTL      = 6 * time.Hour
)

// generateFunc sends a prompt and returns the raw model text.
type generateFunc func(ctx context.Context, prompt string) (string, error)

type Client struct {
	client   *genai.Client
	generate generateFunc
	budget   *ratelimit.AIBudget
	cache    *cache.Cache[string]
	retry    retry.RetryConfig
}

func NewClient(ctx context.Context, apiKey string, budget *ratelimit.AIBudget) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := newClient(nil, budget)
	c.client = client
	c.generate = func(ctx context.Context, prompt string) (string, error) {
		model := client.GenerativeModel(modelName)
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			return "", retry.Permanent(fmt.Errorf("no response from Gemini"))
		}
		var sb strings.Builder
		for _, p := range resp.Candidates[0].Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		return sb.String(), nil
	}
	return c, nil
}

func newClient(gen generateFunc, budget *ratelimit.AIBudget) *Client {
	if budget == nil {
		budget = ratelimit.NewAIBudget(0)
	}
	return &Client{
		generate: gen,
		budget:   budget,
		cache:    cache.New[string](summaryTTL),
		retry:    retry.Default,
	}
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Summarize implements digest.Summarizer. Identical article sets are
// served from cache without spending budget.
func (c *Client) Summarize(ctx context.Context, sections []digest.Section) (string, error) {
	key := digestKey(sections)
	if s, ok := c.cache.Get(key); ok {
		c.budget.RecordCacheHit()
		return s, nil
	}

	if err := c.budget.Use(); err != nil {
		return "", err
	}

	prompt := buildPrompt(sections)
	var raw string
	err := retry.WithRetry(ctx, c.retry, func() error {
		var err error
		raw, err = c.generate(ctx, prompt)
		return err
	})
	if err != nil {
		return "", err
	}

	summary, err := parseSummary(raw)
	if err != nil {
		return "", err
	}
	c.cache.Set(key, summary)
	return summary, nil
}

func digestKey(sections []digest.Section) string {
	var parts []string
	for _, s := range sections {
		parts = append(parts, string(s.Category))
		for _, a := range s.Articles {
			parts = append(parts, a.ID)
		}
	}
	return cache.Key(parts...)
}

func buildPrompt(sections []digest.Section) string {
	var sb strings.Builder
	sb.WriteString(`নিচের খবরগুলো পড়ে আজকের একটি সংক্ষিপ্ত সারসংক্ষেপ লেখো।

নিয়ম:
- বাংলায় লেখো, ৫-৮টি বাক্যে।
- প্রতিটি বিভাগের সবচেয়ে গুরুত্বপূর্ণ খবর উল্লেখ করো।
- নিজের মতামত বা অনুমান যোগ কোরো না।
- উত্তর শুরু করো "সারসংক্ষেপ:" দিয়ে।

খবর:
`)
	for _, s := range sections {
		fmt.Fprintf(&sb, "\n[%s]\n", s.Category)
		for _, a := range s.Articles {
			fmt.Fprintf(&sb, "- %s (%s): %s\n", a.Title, a.Source, snippet(a.Content))
		}
	}
	return sb.String()
}

// snippet collapses whitespace and cuts to maxSnippetRunes.
func snippet(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= maxSnippetRunes {
		return content
	}
	return string([]rune(content)[:maxSnippetRunes]) + "…"
}

var summaryLabel = regexp.MustCompile(`(?i)^\s*\**\s*(সারসংক্ষেপ|summary)\s*\**\s*[:ঃ]\s*`)

// parseSummary strips the label and joins the answer into one paragraph
// block. Unlabelled answers are accepted as is.
func parseSummary(response string) (string, error) {
	var lines []string
	for _, raw := range strings.Split(response, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = summaryLabel.ReplaceAllString(line, "")
		if line != "" {
			lines = append(lines, line)
		}
	}
	summary := strings.Join(lines, " ")
	if summary == "" {
		log.Printf("Warning: empty Gemini response: %q", response)
		return "", fmt.Errorf("could not parse Gemini response: empty summary")
	}
	return summary, nil
}
