// Package store persists storefront state as JSON values under string keys.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Keys used by the storefront.
const (
	KeyCart     = "cart"
	KeyCoupons  = "coupons"
	KeyProducts = "products"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is a minimal key/value port.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Load decodes the value stored under key into a T. An absent key, a read
// failure or a value that does not decode all yield def; the last two are
// logged.
func Load[T any](ctx context.Context, s Store, logger *slog.Logger, key string, def T) T {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("failed to read stored value", "key", key, "error", err)
		}
		return def
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logger.Warn("discarding undecodable stored value", "key", key, "error", err)
		return def
	}
	return v
}

// Save encodes v as JSON under key.
func Save[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// SaveSlice is Save for slices, except that an empty slice removes the key.
func SaveSlice[T any](ctx context.Context, s Store, key string, items []T) error {
	if len(items) == 0 {
		return s.Remove(ctx, key)
	}
	return Save(ctx, s, key, items)
}
