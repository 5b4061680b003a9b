// Package selection validates explicit theme choices against an allow-list and persists them.
package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/themer/app/store"
)

// themeKey is the storage key the selection is written to.
const themeKey = "theme"

// errors returned by Select
var (
	ErrRegistryNotLoaded = errors.New("Themes not loaded") //nolint:revive,staticcheck // message is part of the public contract
	ErrInvalidTheme      = errors.New("Invalid theme")     //nolint:revive,staticcheck // message is part of the public contract
)

// ErrNoSelection is returned by Current when nothing is stored or storage is unavailable.
var ErrNoSelection = errors.New("no theme selected")

// Storage is a persistence provider. A nil Storage means storage is unavailable.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Service validates and persists theme selections. Safe for concurrent use,
// the registry may be swapped while selections run.
type Service struct {
	storage Storage

	mu       sync.RWMutex
	registry *Registry
}

// NewService makes a selection service. Both storage and registry may be nil.
func NewService(storage Storage, registry *Registry) *Service {
	return &Service{storage: storage, registry: registry}
}

// SetRegistry replaces the allow-list, nil unloads it.
func (s *Service) SetRegistry(r *Registry) {
	s.mu.Lock()
	s.registry = r
	s.mu.Unlock()
}

func (s *Service) currentRegistry() *Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry
}

// Themes returns allowed theme names or ErrRegistryNotLoaded.
func (s *Service) Themes() ([]string, error) {
	r := s.currentRegistry()
	if r == nil {
		return nil, ErrRegistryNotLoaded
	}
	return r.Themes(), nil
}

// Select checks the theme against the registry and stores it, overwriting the previous choice.
// Returns the theme unchanged. Storage being unavailable or failing is logged, not returned.
func (s *Service) Select(ctx context.Context, theme string) (string, error) {
	r := s.currentRegistry()
	if r == nil {
		return "", ErrRegistryNotLoaded
	}
	if !r.Contains(theme) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}

	if s.storage == nil {
		log.Printf("[WARN] storage unavailable, theme %s not persisted", theme)
		return theme, nil
	}
	if err := s.storage.Set(ctx, themeKey, theme); err != nil {
		log.Printf("[WARN] can't persist theme %s, %v", theme, err)
		return theme, nil
	}
	log.Printf("[DEBUG] theme %s selected", theme)
	return theme, nil
}

// Current returns the stored theme value, ErrNoSelection if there is none.
func (s *Service) Current(ctx context.Context) (string, error) {
	if s.storage == nil {
		return "", ErrNoSelection
	}
	val, err := s.storage.Get(ctx, themeKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrNoSelection
	}
	if err != nil {
		return "", fmt.Errorf("can't read stored theme: %w", err)
	}
	return val, nil
}

// Reset drops the stored theme. Missing value or unavailable storage is not an error.
func (s *Service) Reset(ctx context.Context) error {
	if s.storage == nil {
		log.Printf("[WARN] storage unavailable, nothing to reset")
		return nil
	}
	if err := s.storage.Delete(ctx, themeKey); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("can't reset stored theme: %w", err)
	}
	log.Printf("[DEBUG] stored theme reset")
	return nil
}
