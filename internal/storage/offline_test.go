package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/deusflow/khobor/internal/news"
)

func openOffline(t *testing.T) *OfflineStore {
	t.Helper()
	s, err := OpenOffline(filepath.Join(t.TempDir(), "offline.db"))
	if err != nil {
		t.Fatalf("OpenOffline: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOfflineSaveListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := openOffline(t)

	clock := now
	s.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Save(ctx, news.Article{ID: id, Title: "খবর " + id}); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}
	// Saving again moves the article to the front.
	if _, err := s.Save(ctx, news.Article{ID: "a", Title: "খবর a"}); err != nil {
		t.Fatal(err)
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, a := range all {
		ids = append(ids, a.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "c" || ids[2] != "b" {
		t.Errorf("order = %v", ids)
	}
	if all[0].SavedAt.IsZero() {
		t.Error("savedAt not stamped")
	}
}

func TestOfflineExistsAndRemove(t *testing.T) {
	ctx := context.Background()
	s := openOffline(t)

	if ok, _ := s.Exists(ctx, "x"); ok {
		t.Fatal("empty store reports x saved")
	}
	_, _ = s.Save(ctx, news.Article{ID: "x", Content: "বিস্তারিত"})
	if ok, err := s.Exists(ctx, "x"); !ok || err != nil {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	got, err := s.Get(ctx, "x")
	if err != nil || got.Content != "বিস্তারিত" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	if err := s.Remove(ctx, "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after remove: %v", err)
	}
}
