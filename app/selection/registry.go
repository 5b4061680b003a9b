package selection

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/umputun/themer/app/enum"
)

// DefaultThemes is the allow-list used when nothing else is configured, light and dark.
var DefaultThemes = enum.ThemeNames()

// Registry is an allow-list of theme names. A nil *Registry means themes are not loaded.
type Registry struct {
	themes []string
}

// NewRegistry makes a registry holding the given theme names, duplicates and blanks dropped.
func NewRegistry(themes ...string) *Registry {
	r := &Registry{themes: make([]string, 0, len(themes))}
	for _, t := range themes {
		t = strings.TrimSpace(t)
		if t == "" || slices.Contains(r.themes, t) {
			continue
		}
		r.themes = append(r.themes, t)
	}
	return r
}

// registryFile is the yaml layout of a registry file, i.e. "themes: [light, dark]"
type registryFile struct {
	Themes []string `yaml:"themes" json:"themes" jsonschema:"required"`
}

// LoadRegistry reads a registry from a yaml file, verified against the embedded schema.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from cli option
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	if err := VerifyRegistry(data); err != nil {
		return nil, fmt.Errorf("bad registry file %s: %w", path, err)
	}
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}
	return NewRegistry(rf.Themes...), nil
}

// Contains reports whether the theme is allowed. Names are case-sensitive.
func (r *Registry) Contains(theme string) bool {
	return slices.Contains(r.themes, theme)
}

// Themes returns a copy of the allowed names in registration order.
func (r *Registry) Themes() []string {
	return slices.Clone(r.themes)
}
