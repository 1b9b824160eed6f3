package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore stores artifacts as JSON files under a per-user cache directory.
// Files are small and written by a single process, so plain overwrites are
// used rather than temp-file renames.
type FileStore struct {
	dir string
}

// Compile-time check to ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore rooted at dir, creating the directory
// with 0700 permissions if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory cannot be empty")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (f *FileStore) Dir() string {
	return f.dir
}

// Load reads and deserializes the named artifact. A missing file yields
// (false, nil); an unreadable or unparsable file yields an error.
func (f *FileStore) Load(ctx context.Context, name string, v any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	path := filepath.Join(f.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("parsing cache file %s: %w", path, err)
	}
	return true, nil
}

// Save serializes v and overwrites the named artifact with 0600 permissions.
func (f *FileStore) Save(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing cache artifact %s: %w", name, err)
	}

	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing cache file %s: %w", path, err)
	}
	return nil
}

// Delete removes the named artifact. Repeatable without error.
func (f *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(f.dir, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting cache file %s: %w", path, err)
	}
	return nil
}
