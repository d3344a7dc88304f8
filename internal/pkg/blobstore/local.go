package blobstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yigit/unihub/internal/pkg/logger"
)

const blobExt = ".json"

// LocalStore keeps one file per key under a base directory.
type LocalStore struct {
	basePath string // The root directory where blobs are stored
}

// NewLocalStore creates a new LocalStore, ensuring basePath exists.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create blob directory")
		return nil, fmt.Errorf("failed to create blob directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local blob directory ensured")

	return &LocalStore{basePath: basePath}, nil
}

// pathFor maps a key onto a file name; keys may contain spaces or slashes
// (channel names), so they are path-escaped.
func (ls *LocalStore) pathFor(key string) string {
	return filepath.Join(ls.basePath, url.PathEscape(key)+blobExt)
}

// Get reads the file for key
func (ls *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(ls.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return data, nil
}

// Set writes value to a temp file and renames it over the key's file, so a
// reader never observes a partial blob.
func (ls *LocalStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := filepath.Join(ls.basePath, "."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}

	if err := os.Rename(tmp, ls.pathFor(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to commit blob %q: %w", key, err)
	}
	return nil
}

// Remove deletes the file for key
func (ls *LocalStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(ls.pathFor(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove blob %q: %w", key, err)
	}
	return nil
}
