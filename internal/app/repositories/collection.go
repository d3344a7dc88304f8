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

// Position decides where Append places new items
type Position int

const (
	// AtEnd appends new items after existing ones
	AtEnd Position = iota
	// AtFront puts new items first (newest-first feeds)
	AtFront
)

// CollectionConfig describes one list-shaped collection
type CollectionConfig[T any, ID comparable] struct {
	Key      string
	Fallback []T
	IDOf     func(T) ID
	SetID    func(*T, ID)
	NextID   IDGenerator[ID]
	Position Position
}

// Collection is the CRUD boundary over a JSON array stored under one key.
//
// Read and Write surface storage errors. Every other method swallows them:
// the failure is logged, nothing is written after a failed read, and the
// last good snapshot is returned.
type Collection[T any, ID comparable] struct {
	store  blobstore.Store
	cfg    CollectionConfig[T, ID]
	codec  *codec.Codec[[]T]
	logger zerolog.Logger
}

// NewCollection creates a collection repository
func NewCollection[T any, ID comparable](store blobstore.Store, cfg CollectionConfig[T, ID], logger zerolog.Logger) *Collection[T, ID] {
	return &Collection[T, ID]{
		store:  store,
		cfg:    cfg,
		codec:  codec.New(cfg.Key, cfg.Fallback),
		logger: logger.With().Str("key", cfg.Key).Logger(),
	}
}

// Key returns the storage key of the collection
func (c *Collection[T, ID]) Key() string {
	return c.cfg.Key
}

// Fallback returns a fresh copy of the default contents
func (c *Collection[T, ID]) Fallback() []T {
	return c.codec.Fallback()
}

// Read loads the collection. A missing key yields the fallback.
func (c *Collection[T, ID]) Read(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.cfg.Key)
	if err != nil {
		if errors.Is(err, blobstore.ErrKeyNotFound) {
			return c.codec.Fallback(), nil
		}
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrStorageRead, c.cfg.Key, err)
	}
	return c.codec.Decode(raw), nil
}

// Write replaces the stored collection with items
func (c *Collection[T, ID]) Write(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := c.codec.Encode(items)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, c.cfg.Key, err)
	}
	if err := c.store.Set(ctx, c.cfg.Key, raw); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, c.cfg.Key, err)
	}
	return nil
}

// Clear removes the key from the store
func (c *Collection[T, ID]) Clear(ctx context.Context) error {
	if err := c.store.Remove(ctx, c.cfg.Key); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStorageWrite, c.cfg.Key, err)
	}
	return nil
}

// LoadAll returns the stored items, or the fallback when the read fails
func (c *Collection[T, ID]) LoadAll(ctx context.Context) []T {
	items, err := c.Read(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load collection, using defaults")
		return c.codec.Fallback()
	}
	return items
}

// SaveAll writes items and reports whether the write succeeded
func (c *Collection[T, ID]) SaveAll(ctx context.Context, items []T) bool {
	if err := c.Write(ctx, items); err != nil {
		c.logger.Error().Err(err).Int("count", len(items)).Msg("Failed to save collection")
		return false
	}
	return true
}

// NextID returns the id the next inserted item would get
func (c *Collection[T, ID]) NextID(items []T) ID {
	return c.cfg.NextID(c.ids(items))
}

// Insert assigns item a fresh id and places it into a copy of items.
// It does not touch the store.
func (c *Collection[T, ID]) Insert(items []T, item T) (T, []T) {
	return c.InsertAvoiding(items, item, nil)
}

// InsertAvoiding is Insert with an id that also differs from reserved,
// for ids that must be unique beyond this one blob.
func (c *Collection[T, ID]) InsertAvoiding(items []T, item T, reserved []ID) (T, []T) {
	c.cfg.SetID(&item, c.cfg.NextID(append(c.ids(items), reserved...)))

	out := make([]T, 0, len(items)+1)
	if c.cfg.Position == AtFront {
		out = append(out, item)
		out = append(out, items...)
	} else {
		out = append(out, items...)
		out = append(out, item)
	}
	return item, out
}

// InsertAll inserts each item in order, giving each a fresh id.
// With AtFront the batch keeps its order at the head of the list.
func (c *Collection[T, ID]) InsertAll(items []T, batch []T) ([]T, []T) {
	added := make([]T, 0, len(batch))
	ids := c.ids(items)
	for _, item := range batch {
		id := c.cfg.NextID(ids)
		ids = append(ids, id)
		c.cfg.SetID(&item, id)
		added = append(added, item)
	}

	out := make([]T, 0, len(items)+len(added))
	if c.cfg.Position == AtFront {
		out = append(out, added...)
		out = append(out, items...)
	} else {
		out = append(out, items...)
		out = append(out, added...)
	}
	return added, out
}

// Split separates the items whose ids are in ids from the rest, keeping order
func (c *Collection[T, ID]) Split(items []T, ids ...ID) (matched, rest []T) {
	wanted := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	rest = make([]T, 0, len(items))
	for _, item := range items {
		if _, ok := wanted[c.cfg.IDOf(item)]; ok {
			matched = append(matched, item)
			continue
		}
		rest = append(rest, item)
	}
	return matched, rest
}

// Append stores item with a fresh id. On failure the returned item keeps
// its zero id and the snapshot is the last good one.
func (c *Collection[T, ID]) Append(ctx context.Context, item T) (T, []T) {
	return c.AppendAvoiding(ctx, item, nil)
}

// AppendAvoiding is Append with an id that also differs from reserved
func (c *Collection[T, ID]) AppendAvoiding(ctx context.Context, item T, reserved []ID) (T, []T) {
	items, err := c.Read(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load collection before append")
		return item, c.codec.Fallback()
	}

	added, next := c.InsertAvoiding(items, item, reserved)
	if !c.SaveAll(ctx, next) {
		return item, items
	}
	return added, next
}

// UpdateByID applies patch to the item with id and saves. The id survives
// the patch. A missing id returns ErrNotFound and writes nothing.
func (c *Collection[T, ID]) UpdateByID(ctx context.Context, id ID, patch func(*T)) ([]T, error) {
	items, err := c.Read(ctx)
	if err != nil {
		c.logger.Error().Err(err).Interface("id", id).Msg("Failed to load collection before update")
		return c.codec.Fallback(), nil
	}

	idx := c.indexOf(items, id)
	if idx < 0 {
		return items, apperrors.NewNotFoundError(fmt.Sprintf("%s: no item with id %v", c.cfg.Key, id))
	}

	next := make([]T, len(items))
	copy(next, items)
	patch(&next[idx])
	c.cfg.SetID(&next[idx], id)

	if !c.SaveAll(ctx, next) {
		return items, nil
	}
	return next, nil
}

// RemoveByID drops the item with id. Nothing is written when it is absent.
func (c *Collection[T, ID]) RemoveByID(ctx context.Context, id ID) []T {
	return c.RemoveByIDs(ctx, id)
}

// RemoveByIDs drops every item whose id is listed, in one write
func (c *Collection[T, ID]) RemoveByIDs(ctx context.Context, ids ...ID) []T {
	items, err := c.Read(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to load collection before remove")
		return c.codec.Fallback()
	}

	matched, rest := c.Split(items, ids...)
	if len(matched) == 0 {
		return items
	}
	if !c.SaveAll(ctx, rest) {
		return items
	}
	return rest
}

// FindByID returns the item with id or ErrNotFound
func (c *Collection[T, ID]) FindByID(ctx context.Context, id ID) (T, error) {
	items := c.LoadAll(ctx)
	if idx := c.indexOf(items, id); idx >= 0 {
		return items[idx], nil
	}
	var zero T
	return zero, apperrors.NewNotFoundError(fmt.Sprintf("%s: no item with id %v", c.cfg.Key, id))
}

func (c *Collection[T, ID]) indexOf(items []T, id ID) int {
	for i, item := range items {
		if c.cfg.IDOf(item) == id {
			return i
		}
	}
	return -1
}

func (c *Collection[T, ID]) ids(items []T) []ID {
	ids := make([]ID, len(items))
	for i, item := range items {
		ids[i] = c.cfg.IDOf(item)
	}
	return ids
}
