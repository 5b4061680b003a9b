package store

import (
	"context"
	"fmt"

	"github.com/go-pkgz/lcw/v2"
)

// Interface is implemented by every key-value store in this package.
type Interface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]KeyInfo, error)
	Close() error
}

// Cached wraps a store Interface with a loading cache and satisfies the Interface itself.
// Cache is populated on reads via loader function, invalidated on writes.
type Cached struct {
	store Interface
	cache lcw.LoadingCache[string]
}

// NewCached creates a new cached store wrapper.
// maxKeys sets the maximum number of entries in the cache.
func NewCached(store Interface, maxKeys int) (*Cached, error) {
	cache, err := lcw.NewLruCache(lcw.NewOpts[string]().MaxKeys(maxKeys))
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cached{store: store, cache: cache}, nil
}

// Get retrieves the value for a key, using cache with load-through.
// Misses are not cached, so ErrNotFound is still reachable via errors.Is.
func (c *Cached) Get(ctx context.Context, key string) (string, error) {
	val, err := c.cache.Get(key, func() (string, error) {
		v, loadErr := c.store.Get(ctx, key)
		if loadErr != nil {
			return "", fmt.Errorf("load from store: %w", loadErr)
		}
		return v, nil
	})
	if err != nil {
		return "", fmt.Errorf("cache get: %w", err)
	}
	return val, nil
}

// Set stores a value and invalidates the cache entry.
func (c *Cached) Set(ctx context.Context, key, value string) error {
	if err := c.store.Set(ctx, key, value); err != nil {
		return fmt.Errorf("store set: %w", err)
	}
	c.cache.Invalidate(func(k string) bool { return k == key })
	return nil
}

// Delete removes a key and invalidates the cache entry.
func (c *Cached) Delete(ctx context.Context, key string) error {
	// invalidate regardless of error - key might have been cached
	c.cache.Invalidate(func(k string) bool { return k == key })
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("store delete: %w", err)
	}
	return nil
}

// List returns all keys from the underlying store (not cached).
func (c *Cached) List(ctx context.Context) ([]KeyInfo, error) {
	keys, err := c.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}
	return keys, nil
}

// Close closes the cache and underlying store.
func (c *Cached) Close() error {
	_ = c.cache.Close()
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("store close: %w", err)
	}
	return nil
}

// Stats returns cache statistics.
func (c *Cached) Stats() lcw.CacheStat {
	return c.cache.Stat()
}
