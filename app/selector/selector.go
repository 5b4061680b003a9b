// Package selector keeps a light/dark mode flag in sync with a document class list
// and a persistent key-value store.
package selector

import (
	"context"
	"errors"

	log "github.com/go-pkgz/lgr"

	"github.com/umputun/themer/app/enum"
	"github.com/umputun/themer/app/store"
)

//go:generate moq -out mocks/storage.go -pkg mocks -skip-ensure -fmt goimports . Storage

// ThemeKey is the storage key holding the persisted mode.
const ThemeKey = "theme"

// DarkClass marks dark mode on the document.
const DarkClass = "dark"

// Storage is a persistence provider. A nil Storage means storage is unavailable.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// ClassList is the class set of the rendered root element.
type ClassList interface {
	Add(name string)
	Remove(name string)
	Contains(name string) bool
	Toggle(name string) bool
}

// Selector holds the dark mode flag. After every call dark equals classes.Contains(DarkClass).
// Storage failures never surface to the caller, they are logged and treated as
// "no stored preference".
type Selector struct {
	classes ClassList
	storage Storage
	dark    bool
}

// New makes a selector and applies the stored preference to the class list.
// Anything but a stored "dark" results in light mode.
func New(ctx context.Context, classes ClassList, storage Storage) *Selector {
	s := &Selector{classes: classes, storage: storage, dark: classes.Contains(DarkClass)}

	if s.stored(ctx) == enum.ThemeDark.String() {
		s.classes.Add(DarkClass)
		s.dark = true
		return s
	}
	if s.dark {
		log.Printf("[DEBUG] document was dark without stored preference, switching to light")
	}
	s.classes.Remove(DarkClass)
	s.dark = false
	return s
}

// stored returns the persisted theme value or empty string if there is none or storage failed.
func (s *Selector) stored(ctx context.Context) string {
	if s.storage == nil {
		log.Printf("[DEBUG] storage unavailable, no stored theme")
		return ""
	}
	val, err := s.storage.Get(ctx, ThemeKey)
	if errors.Is(err, store.ErrNotFound) {
		return ""
	}
	if err != nil {
		log.Printf("[WARN] can't read stored theme, %v", err)
		return ""
	}
	return val
}

// Toggle flips dark mode on the document, persists the new mode and returns it.
func (s *Selector) Toggle(ctx context.Context) bool {
	addedNow := s.classes.Toggle(DarkClass)
	theme := enum.ThemeOf(addedNow)

	if s.storage != nil {
		if err := s.storage.Set(ctx, ThemeKey, theme.String()); err != nil {
			log.Printf("[WARN] can't persist theme %s, %v", theme, err)
		}
	}

	s.dark = addedNow
	log.Printf("[DEBUG] theme toggled to %s", theme)
	return s.dark
}

// IsDark reports whether dark mode is active.
func (s *Selector) IsDark() bool { return s.dark }

// Theme returns the active theme, ThemeDark or ThemeLight.
func (s *Selector) Theme() enum.Theme { return enum.ThemeOf(s.dark) }

// Label names the action a toggle would perform.
func (s *Selector) Label() string {
	if s.Theme().Toggle() == enum.ThemeLight {
		return "Light Mode"
	}
	return "Dark Mode"
}

// Icon is a sun in dark mode and a moon in light mode.
func (s *Selector) Icon() string {
	if s.Theme().Toggle() == enum.ThemeLight {
		return "🌞"
	}
	return "🌙"
}
