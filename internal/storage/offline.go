package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/deusflow/khobor/internal/news"
)

// SavedArticle is an article kept for offline reading.
type SavedArticle struct {
	news.Article
	SavedAt time.Time `json:"savedAt"`
}

// OfflineStore keeps full articles in SQLite, keyed by article id.
type OfflineStore struct {
	readDB  *sql.DB
	writeDB *sql.DB
	now     func() time.Time
}

func OpenOffline(dbPath string) (*OfflineStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating offline dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &OfflineStore{readDB: readDB, writeDB: writeDB, now: time.Now}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *OfflineStore) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS offline_articles (
			id       TEXT PRIMARY KEY,
			data     TEXT NOT NULL,
			saved_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_offline_saved_at ON offline_articles(saved_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *OfflineStore) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

// Save stores a, replacing any earlier copy, and stamps the save time.
func (s *OfflineStore) Save(ctx context.Context, a news.Article) (SavedArticle, error) {
	saved := SavedArticle{Article: a, SavedAt: s.now()}
	data, err := json.Marshal(saved)
	if err != nil {
		return SavedArticle{}, fmt.Errorf("marshalling article %s: %w", a.ID, err)
	}
	_, err = s.writeDB.ExecContext(ctx, `
		INSERT INTO offline_articles (id, data, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at
	`, a.ID, string(data), saved.SavedAt.UnixNano())
	if err != nil {
		return SavedArticle{}, fmt.Errorf("saving article %s: %w", a.ID, err)
	}
	return saved, nil
}

// All returns saved articles, most recently saved first.
func (s *OfflineStore) All(ctx context.Context) ([]SavedArticle, error) {
	rows, err := s.readDB.QueryContext(ctx, `SELECT data FROM offline_articles ORDER BY saved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying offline articles: %w", err)
	}
	defer rows.Close()

	var out []SavedArticle
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var a SavedArticle
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("decoding offline article: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *OfflineStore) Get(ctx context.Context, id string) (SavedArticle, error) {
	var data string
	err := s.readDB.QueryRowContext(ctx, `SELECT data FROM offline_articles WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedArticle{}, ErrNotFound
	}
	if err != nil {
		return SavedArticle{}, err
	}
	var a SavedArticle
	if err := json.Unmarshal([]byte(data), &a); err != nil {
		return SavedArticle{}, fmt.Errorf("decoding offline article: %w", err)
	}
	return a, nil
}

func (s *OfflineStore) Remove(ctx context.Context, id string) error {
	if _, err := s.writeDB.ExecContext(ctx, `DELETE FROM offline_articles WHERE id = ?`, id); err != nil {
		return fmt.Errorf("removing article %s: %w", id, err)
	}
	return nil
}

func (s *OfflineStore) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := s.readDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM offline_articles WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
