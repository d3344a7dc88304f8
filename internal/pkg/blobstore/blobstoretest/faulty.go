// Package blobstoretest provides a fault-injecting Store for tests.
package blobstoretest

import (
	"context"
	"errors"
	"sync"

	"github.com/yigit/unihub/internal/pkg/blobstore"
)

// ErrInjected is returned by FaultyStore for keys configured to fail.
var ErrInjected = errors.New("injected storage failure")

// FaultyStore wraps a MemoryStore and fails reads or writes for chosen keys.
type FaultyStore struct {
	*blobstore.MemoryStore

	mu         sync.Mutex
	failRead   map[string]bool
	failWrite  map[string]bool
	writeCount map[string]int
}

// New returns a FaultyStore with no failures configured
func New() *FaultyStore {
	return &FaultyStore{
		MemoryStore: blobstore.NewMemoryStore(),
		failRead:    map[string]bool{},
		failWrite:   map[string]bool{},
		writeCount:  map[string]int{},
	}
}

// FailReads makes Get fail for key
func (f *FaultyStore) FailReads(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failRead[key] = fail
}

// FailWrites makes Set and Remove fail for key
func (f *FaultyStore) FailWrites(key string, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrite[key] = fail
}

// Writes reports how many successful Set/Remove calls key has seen
func (f *FaultyStore) Writes(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCount[key]
}

// Get fails when configured, otherwise delegates
func (f *FaultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failRead[key]
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.MemoryStore.Get(ctx, key)
}

// Set fails when configured, otherwise delegates
func (f *FaultyStore) Set(ctx context.Context, key string, value []byte) error {
	if err := f.checkWrite(key); err != nil {
		return err
	}
	return f.MemoryStore.Set(ctx, key, value)
}

// Remove fails when configured, otherwise delegates
func (f *FaultyStore) Remove(ctx context.Context, key string) error {
	if err := f.checkWrite(key); err != nil {
		return err
	}
	return f.MemoryStore.Remove(ctx, key)
}

func (f *FaultyStore) checkWrite(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite[key] {
		return ErrInjected
	}
	f.writeCount[key]++
	return nil
}
