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

// Keyed is the boundary over a JSON object mapping record keys to values,
// such as post id to like record. Failure handling matches Collection.
type Keyed[V any] struct {
	store  blobstore.Store
	key    string
	codec  *codec.Codec[map[string]V]
	logger zerolog.Logger
}

// NewKeyed creates a keyed repository stored under key
func NewKeyed[V any](store blobstore.Store, key string, logger zerolog.Logger) *Keyed[V] {
	return &Keyed[V]{
		store:  store,
		key:    key,
		codec:  codec.New(key, map[string]V{}),
		logger: logger.With().Str("key", key).Logger(),
	}
}

// Key returns the storage key
func (k *Keyed[V]) Key() string {
	return k.key
}

// Read loads the records. A missing key yields an empty map.
func (k *Keyed[V]) Read(ctx context.Context) (map[string]V, error) {
	raw, err := k.store.Get(ctx, k.key)
	if err != nil {
		if errors.Is(err, blobstore.ErrKeyNotFound) {
			return k.codec.Fallback(), nil
		}
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStorageRead, k.key, err)
	}

	records := k.codec.Decode(raw)
	if records == nil {
		records = map[string]V{}
	}
	return records, nil
}

// Write replaces all records
func (k *Keyed[V]) Write(ctx context.Context, records map[string]V) error {
	if records == nil {
		records = map[string]V{}
	}
	raw, err := k.codec.Encode(records)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, k.key, err)
	}
	if err := k.store.Set(ctx, k.key, raw); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, k.key, err)
	}
	return nil
}

// LoadAll returns every record, or an empty map when the read fails
func (k *Keyed[V]) LoadAll(ctx context.Context) map[string]V {
	records, err := k.Read(ctx)
	if err != nil {
		k.logger.Error().Err(err).Msg("Failed to load records, using defaults")
		return k.codec.Fallback()
	}
	return records
}

// Get returns the record stored under id
func (k *Keyed[V]) Get(ctx context.Context, id string) (V, bool) {
	v, ok := k.LoadAll(ctx)[id]
	return v, ok
}

// Put stores value under id and returns the resulting records
func (k *Keyed[V]) Put(ctx context.Context, id string, value V) map[string]V {
	records, err := k.Read(ctx)
	if err != nil {
		k.logger.Error().Err(err).Str("id", id).Msg("Failed to load records before put")
		return k.codec.Fallback()
	}

	next := make(map[string]V, len(records)+1)
	for key, v := range records {
		next[key] = v
	}
	next[id] = value

	if err := k.Write(ctx, next); err != nil {
		k.logger.Error().Err(err).Str("id", id).Msg("Failed to save records")
		return records
	}
	return next
}

// Delete drops the listed ids in one write. Nothing is written when none
// of them is present.
func (k *Keyed[V]) Delete(ctx context.Context, ids ...string) map[string]V {
	records, err := k.Read(ctx)
	if err != nil {
		k.logger.Error().Err(err).Msg("Failed to load records before delete")
		return k.codec.Fallback()
	}

	next, removed := Without(records, ids...)
	if removed == 0 {
		return records
	}

	if err := k.Write(ctx, next); err != nil {
		k.logger.Error().Err(err).Strs("ids", ids).Msg("Failed to save records")
		return records
	}
	return next
}

// Without returns a copy of records minus ids and how many were dropped
func Without[V any](records map[string]V, ids ...string) (map[string]V, int) {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	next := make(map[string]V, len(records))
	removed := 0
	for key, v := range records {
		if _, ok := drop[key]; ok {
			removed++
			continue
		}
		next[key] = v
	}
	return next, removed
}
