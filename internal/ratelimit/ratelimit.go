// Package ratelimit paces requests to upstream outlets and budgets calls
// to the AI summarizer.
package ratelimit

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Courtesy returns a limiter that lets one request through per interval.
// A non-positive interval disables pacing.
func Courtesy(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// AIBudget caps AI requests per rolling day.
type AIBudget struct {
	mu        sync.Mutex
	used      int
	max       int
	resetTime time.Time
	cacheHits int
	now       func() time.Time
}

// NewAIBudget creates a budget of max requests per day. Zero means
// unlimited.
func NewAIBudget(max int) *AIBudget {
	return newAIBudget(max, time.Now)
}

func newAIBudget(max int, now func() time.Time) *AIBudget {
	return &AIBudget{
		max:       max,
		resetTime: now().Add(24 * time.Hour),
		now:       now,
	}
}

// CanUse reports whether another request fits the budget.
func (b *AIBudget) CanUse() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max > 0 && b.used >= b.max {
		log.Printf("⚠️ Gemini budget reached (%d/%d)", b.used, b.max)
		return false
	}
	return true
}

// Use consumes one request from the budget.
func (b *AIBudget) Use() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.max > 0 && b.used >= b.max {
		return fmt.Errorf("gemini budget exceeded (%d/%d)", b.used, b.max)
	}
	b.used++
	log.Printf("📊 AI usage: Gemini=%d/%d", b.used, b.max)
	return nil
}

// RecordCacheHit counts a digest served without calling the model.
func (b *AIBudget) RecordCacheHit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheHits++
}

func (b *AIBudget) GetStats() map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()

	return map[string]interface{}{
		"gemini_used":  b.used,
		"gemini_limit": b.max,
		"cache_hits":   b.cacheHits,
		"reset_time":   b.resetTime,
	}
}

func (b *AIBudget) checkReset() {
	if b.now().After(b.resetTime) {
		log.Printf("🔄 Resetting AI budget (used %d/%d)", b.used, b.max)
		b.used = 0
		b.cacheHits = 0
		b.resetTime = b.now().Add(24 * time.Hour)
	}
}
