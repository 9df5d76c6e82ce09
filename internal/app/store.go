package app

import (
	"context"
	"log"

	"github.com/deusflow/khobor/internal/config"
	"github.com/deusflow/khobor/internal/storage"
)

// OpenStore picks the key-value backend: Postgres when a database URL is
// configured, the JSON file otherwise. A Postgres connection failure
// falls back to the file store.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err == nil {
			return pg, nil
		}
		log.Printf("⚠️ PostgreSQL unavailable, using file store: %v", err)
	}

	fs, err := storage.NewFileStore(cfg.SnapshotPath())
	if err != nil {
		return nil, err
	}
	log.Printf("📁 Using file store at %s", cfg.SnapshotPath())
	return fs, nil
}
