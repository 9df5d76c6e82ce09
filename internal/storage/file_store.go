package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps every key in one JSON document on disk. Writes go to a
// temporary file that replaces the original.
type FileStore struct {
	filePath string
	items    map[string]json.RawMessage
	mu       sync.RWMutex
}

// NewFileStore opens or creates the store at filePath.
func NewFileStore(filePath string) (*FileStore, error) {
	fs := &FileStore{
		filePath: filePath,
		items:    make(map[string]json.RawMessage),
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *FileStore) load() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	data, err := os.ReadFile(fs.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read store file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &fs.items); err != nil {
		return fmt.Errorf("failed to unmarshal store: %w", err)
	}
	return nil
}

// save must be called with fs.mu held.
func (fs *FileStore) save() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(fs.items); err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	data := buf.Bytes()
	if err := os.MkdirAll(filepath.Dir(fs.filePath), 0o755); err != nil {
		return fmt.Errorf("failed to create store dir: %w", err)
	}
	tmp := fs.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := os.Rename(tmp, fs.filePath); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}

func (fs *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	v, ok := fs.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores value in compact form, which is also how it reads back after
// a reopen.
func (fs *FileStore) Set(_ context.Context, key string, value []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return fmt.Errorf("value for %s is not valid JSON: %w", key, err)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.items[key] = json.RawMessage(buf.Bytes())
	return fs.save()
}

func (fs *FileStore) Remove(_ context.Context, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.items[key]; !ok {
		return nil
	}
	delete(fs.items, key)
	return fs.save()
}

func (fs *FileStore) Close() error { return nil }

// GetStats returns store statistics
func (fs *FileStore) GetStats() map[string]int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	return map[string]int{
		"total_keys": len(fs.items),
	}
}
