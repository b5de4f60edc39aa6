// Package memory provides the public API for the in-memory backend.
// It exposes the factory function while keeping implementation details
// internal.
package memory

import (
	"github.com/mesh-intelligence/datashelf/internal/memory"
	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// NewBackend creates an empty in-memory backend.
//
// Example:
//
//	backend := memory.NewBackend()
//	defer backend.Close()
func NewBackend() types.Backend {
	return memory.NewBackend()
}
