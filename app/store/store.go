// Package store provides key-value storage implementations.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key is not found in the store.
var ErrNotFound = errors.New("key not found")

// DBType identifies the SQL backend.
type DBType int

// supported SQL backends
const (
	DBTypeSQLite DBType = iota
	DBTypePostgres
)

// KeyInfo holds metadata about a stored key.
type KeyInfo struct {
	Key       string    `db:"key" json:"key"`
	Size      int       `db:"size" json:"size"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RWLocker is the subset of sync.RWMutex used by the store.
type RWLocker interface {
	RLock()
	RUnlock()
	Lock()
	Unlock()
}

// noopLocker is used for databases handling their own concurrency (postgres).
type noopLocker struct{}

func (noopLocker) RLock()   {}
func (noopLocker) RUnlock() {}
func (noopLocker) Lock()    {}
func (noopLocker) Unlock()  {}
