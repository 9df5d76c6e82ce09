package ratelimit

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestAIBudgetLimitsAndResets(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	b := newAIBudget(2, func() time.Time { return now })

	for i := 0; i < 2; i++ {
		if err := b.Use(); err != nil {
			t.Fatalf("use %d: %v", i, err)
		}
	}
	if b.CanUse() {
		t.Fatal("budget should be exhausted")
	}
	if err := b.Use(); err == nil {
		t.Fatal("expected error past budget")
	}

	now = now.Add(25 * time.Hour)
	if !b.CanUse() {
		t.Fatal("budget should reset after a day")
	}
}

func TestAIBudgetUnlimited(t *testing.T) {
	b := NewAIBudget(0)
	for i := 0; i < 10; i++ {
		if err := b.Use(); err != nil {
			t.Fatalf("unlimited budget refused request: %v", err)
		}
	}
}

func TestCourtesyDisabled(t *testing.T) {
	l := Courtesy(0)
	if l.Limit() != rate.Inf {
		t.Fatalf("expected infinite limit, got %v", l.Limit())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	for i := 0; i < 5; i++ {
		if err := l.Wait(ctx); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
}
