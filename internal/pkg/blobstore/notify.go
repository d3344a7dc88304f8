package blobstore

import (
	"context"
	"time"
)

// Operation names carried by Change
const (
	OpSet    = "set"
	OpRemove = "remove"
)

// Change describes one committed write.
type Change struct {
	Key       string    `json:"key"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher receives changes after they are committed.
type Publisher interface {
	Publish(change Change)
}

// NotifyingStore decorates a Store and publishes every successful write.
type NotifyingStore struct {
	Store
	pub Publisher
}

// NewNotifyingStore wraps inner so that pub sees each committed Set/Remove.
func NewNotifyingStore(inner Store, pub Publisher) *NotifyingStore {
	return &NotifyingStore{Store: inner, pub: pub}
}

// Set writes through and publishes on success
func (n *NotifyingStore) Set(ctx context.Context, key string, value []byte) error {
	if err := n.Store.Set(ctx, key, value); err != nil {
		return err
	}
	n.pub.Publish(Change{Key: key, Op: OpSet, Timestamp: time.Now()})
	return nil
}

// Remove writes through and publishes on success
func (n *NotifyingStore) Remove(ctx context.Context, key string) error {
	if err := n.Store.Remove(ctx, key); err != nil {
		return err
	}
	n.pub.Publish(Change{Key: key, Op: OpRemove, Timestamp: time.Now()})
	return nil
}

// Close closes the wrapped store
func (n *NotifyingStore) Close() error {
	return Close(n.Store)
}
