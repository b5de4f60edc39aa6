// Shared helpers for datashelf integration tests.
package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/datashelf/internal/engine"
	"github.com/mesh-intelligence/datashelf/internal/registry"
	"github.com/mesh-intelligence/datashelf/pkg/memory"
	"github.com/mesh-intelligence/datashelf/pkg/sqlite"
	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// userDefs returns the model set used across the integration suites:
// users with a unique name, posts referencing an author.
func userDefs() []types.Definition {
	return []types.Definition{
		{
			Model: "users",
			Fields: []types.FieldDef{
				{Name: "name", Type: types.FieldText, Unique: true},
				{Name: "age", Type: types.FieldInteger},
				{Name: "status", Type: types.FieldText, Default: "active"},
				{Name: "joined", Type: types.FieldTimestamp, Nullable: true},
			},
		},
		{
			Model: "posts",
			Fields: []types.FieldDef{
				{Name: "title", Type: types.FieldText},
				{Name: "author_id", Type: types.FieldInteger},
				{Name: "likes", Type: types.FieldInteger, Default: 0},
			},
		},
	}
}

// newMemoryEngine builds an engine over a fresh in-memory backend.
func newMemoryEngine(t *testing.T) *engine.Engine {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Load(userDefs()))
	backend := memory.NewBackend()
	t.Cleanup(func() { backend.Close() })
	return engine.New(reg, backend)
}

// newSQLiteEngine builds an engine over a SQLite backend in dir.
func newSQLiteEngine(t *testing.T, dir string) *engine.Engine {
	t.Helper()
	reg := registry.New()
	require.NoError(t, reg.Load(userDefs()))
	backend, err := sqlite.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })
	return engine.New(reg, backend)
}

// collect drains a query sequence into a slice.
func collect(t *testing.T, e *engine.Engine, model string, filter types.Filter) []*types.Record {
	t.Helper()
	seq, err := e.Query(model, filter)
	require.NoError(t, err)
	var recs []*types.Record
	for rec := range seq {
		recs = append(recs, rec)
	}
	return recs
}
