// Package codec converts named collections to and from the JSON blobs kept in
// the blob store. Decoding never fails: an absent or corrupt blob yields a
// fresh copy of the collection's fallback value.
package codec

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/yigit/unihub/internal/pkg/logger"
)

var jsonNull = []byte("null")

// Codec serializes one named collection.
type Codec[T any] struct {
	name     string
	fallback []byte
}

// New builds a Codec whose fallback is snapshotted now; later mutation of
// the passed value does not affect it.
func New[T any](name string, fallback T) *Codec[T] {
	encoded, err := json.Marshal(fallback)
	if err != nil {
		logger.Error().Err(err).Str("collection", name).Msg("Fallback value is not encodable, using zero value")
		encoded = nil
	}
	return &Codec[T]{name: name, fallback: encoded}
}

// Name returns the collection name used in log lines
func (c *Codec[T]) Name() string {
	return c.name
}

// Fallback returns a fresh deep copy of the fallback value
func (c *Codec[T]) Fallback() T {
	var out T
	if len(c.fallback) > 0 {
		_ = json.Unmarshal(c.fallback, &out)
	}
	return out
}

// Decode parses raw, returning the fallback when raw is absent, empty,
// JSON null, or malformed. Parse failures are logged, never returned.
func (c *Codec[T]) Decode(raw []byte) T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return c.Fallback()
	}

	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		logger.Warn().Err(err).Str("collection", c.name).Msg("Stored collection is unreadable, using defaults")
		return c.Fallback()
	}
	return out
}

// Encode serializes value
func (c *Codec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

// Decode is the one-shot form of Codec.Decode.
func Decode[T any](raw []byte, fallback T) T {
	return New("", fallback).Decode(raw)
}

// Encode is the one-shot form of Codec.Encode.
func Encode[T any](value T) ([]byte, error) {
	return json.Marshal(value)
}
