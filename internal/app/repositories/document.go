package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/unihub/internal/pkg/apperrors"
	"github.com/yigit/unihub/internal/pkg/blobstore"
	"github.com/yigit/unihub/internal/pkg/codec"
)

// Document is the boundary over a single JSON value, such as the post
// draft or one channel's permission set.
type Document[T any] struct {
	store  blobstore.Store
	key    string
	codec  *codec.Codec[T]
	logger zerolog.Logger
}

// NewDocument creates a document repository stored under key
func NewDocument[T any](store blobstore.Store, key string, fallback T, logger zerolog.Logger) *Document[T] {
	return &Document[T]{
		store:  store,
		key:    key,
		codec:  codec.New(key, fallback),
		logger: logger.With().Str("key", key).Logger(),
	}
}

// Key returns the storage key
func (d *Document[T]) Key() string {
	return d.key
}

// Read loads the value. The bool reports whether the key was present.
func (d *Document[T]) Read(ctx context.Context) (T, bool, error) {
	raw, err := d.store.Get(ctx, d.key)
	if err != nil {
		if errors.Is(err, blobstore.ErrKeyNotFound) {
			return d.codec.Fallback(), false, nil
		}
		var zero T
		return zero, false, fmt.Errorf("%w: %s: %w", apperrors.ErrStorageRead, d.key, err)
	}
	return d.codec.Decode(raw), true, nil
}

// Write stores value
func (d *Document[T]) Write(ctx context.Context, value T) error {
	raw, err := d.codec.Encode(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, d.key, err)
	}
	if err := d.store.Set(ctx, d.key, raw); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, d.key, err)
	}
	return nil
}

// Remove deletes the key
func (d *Document[T]) Remove(ctx context.Context) error {
	if err := d.store.Remove(ctx, d.key); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, d.key, err)
	}
	return nil
}

// Load returns the stored value or the fallback
func (d *Document[T]) Load(ctx context.Context) T {
	value, _, err := d.Read(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("Failed to load document, using defaults")
		return d.codec.Fallback()
	}
	return value
}

// Save stores value and reports whether the write succeeded
func (d *Document[T]) Save(ctx context.Context, value T) bool {
	if err := d.Write(ctx, value); err != nil {
		d.logger.Error().Err(err).Msg("Failed to save document")
		return false
	}
	return true
}

// Clear removes the value and reports whether the removal succeeded
func (d *Document[T]) Clear(ctx context.Context) bool {
	if err := d.Remove(ctx); err != nil {
		d.logger.Error().Err(err).Msg("Failed to clear document")
		return false
	}
	return true
}
