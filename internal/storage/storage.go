// Package storage persists the article snapshot, id sets and offline
// articles.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deusflow/khobor/internal/news"
)

// KV is a simple get/set/remove store for JSON values.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	KeyNewsCache  = "news_cache"
	KeyReadIDs    = "read_news_ids"
	KeyBookmarks  = "bookmarks"
	KeyImageCache = "image_cache"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// LoadSnapshot returns cached articles published after now-maxAge. When
// nothing fresh remains the key is removed.
func LoadSnapshot(ctx context.Context, kv KV, maxAge time.Duration, now time.Time) ([]news.Article, error) {
	data, ok, err := kv.Get(ctx, KeyNewsCache)
	if err != nil || !ok {
		return nil, err
	}

	var cached []news.Article
	if err := json.Unmarshal(data, &cached); err != nil {
		// A corrupt snapshot is dropped rather than blocking startup.
		_ = kv.Remove(ctx, KeyNewsCache)
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	cutoff := now.Add(-maxAge)
	fresh := cached[:0]
	for _, a := range cached {
		if a.PubDate.After(cutoff) {
			fresh = append(fresh, a)
		}
	}
	if len(fresh) == 0 {
		return nil, kv.Remove(ctx, KeyNewsCache)
	}
	return fresh, nil
}

// SaveSnapshot stores the merged article list.
func SaveSnapshot(ctx context.Context, kv KV, articles []news.Article) error {
	return SetJSON(ctx, kv, KeyNewsCache, articles)
}

// LoadIDSet reads an id set stored as a JSON array.
func LoadIDSet(ctx context.Context, kv KV, key string) (*news.IDSet, error) {
	var ids []string
	if _, err := GetJSON(ctx, kv, key, &ids); err != nil {
		return news.NewIDSet(), err
	}
	return news.NewIDSet(ids...), nil
}

// SaveIDSet stores set as a sorted JSON array.
func SaveIDSet(ctx context.Context, kv KV, key string, set *news.IDSet) error {
	ids := set.IDs()
	if ids == nil {
		ids = []string{}
	}
	return SetJSON(ctx, kv, key, ids)
}

func GetJSON(ctx context.Context, kv KV, key string, v any) (bool, error) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	return kv.Set(ctx, key, data)
}
