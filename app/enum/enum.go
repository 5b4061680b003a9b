// Package enum defines closed value sets used across the app.
package enum

//go:generate go run github.com/go-pkgz/enum@latest -type theme -lower
type theme int

const (
	themeLight theme = iota
	themeDark
)
