// Package sqlite provides the public API for the SQLite backend.
// It exposes the factory function while keeping implementation details
// internal.
package sqlite

import (
	"github.com/mesh-intelligence/datashelf/internal/sqlite"
	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// Open opens (or creates) a SQLite-backed store under dataDir.
//
// Example:
//
//	backend, err := sqlite.Open(".datashelf")
//	if err != nil { ... }
//	defer backend.Close()
func Open(dataDir string) (types.Backend, error) {
	return sqlite.Open(dataDir)
}
