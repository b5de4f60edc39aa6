// Integration tests for the full engine lifecycle over the in-memory
// backend: the documented users scenario, round trips, uniqueness,
// namespace switching, and cross-model operations.
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// The documented scenario: users{name: text (unique), age: integer}.
func TestScenario_UniqueUsers(t *testing.T) {
	e := newMemoryEngine(t)

	rec, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.ID)
	assert.Equal(t, "Alice", rec.Text("name"))
	assert.Equal(t, int64(30), rec.Int("age"))

	_, err = e.Create("users", map[string]any{"name": "Alice", "age": 40})
	require.ErrorIs(t, err, types.ErrDuplicateKey)
	assert.Contains(t, err.Error(), "name")

	recs := collect(t, e, "users", types.Filter{"age": {Op: types.OpGt, Value: 20}})
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].ID)
	assert.Equal(t, "Alice", recs[0].Text("name"))
}

func TestRoundTrip_CreateGet(t *testing.T) {
	e := newMemoryEngine(t)

	created, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)

	got, ok, err := e.Get("users", created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, created.Values, got.Values)
}

func TestRecordDetachedFromStore(t *testing.T) {
	e := newMemoryEngine(t)

	rec, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)
	rec.Values["name"] = "Mallory"

	got, ok, err := e.Get("users", rec.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", got.Text("name"), "mutating a returned record must not reach the store")
}

func TestDeleteIdempotence(t *testing.T) {
	e := newMemoryEngine(t)

	rec, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)

	existed, err := e.Delete("users", rec.ID)
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = e.Delete("users", rec.ID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestNamespaceIsolation(t *testing.T) {
	e := newMemoryEngine(t)

	require.NoError(t, e.Use("blog"))
	rec, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)

	require.NoError(t, e.Use("shop"))
	_, ok, err := e.Get("users", rec.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Identifiers restart per namespace.
	other, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.ID)

	require.NoError(t, e.Use("blog"))
	_, ok, err = e.Get("users", rec.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCrossModelOperations(t *testing.T) {
	e := newMemoryEngine(t)

	alice, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)

	_, err = e.Create("posts", map[string]any{"title": "Hello", "author_id": alice.ID})
	require.NoError(t, err)
	_, err = e.Create("posts", map[string]any{"title": "Tips", "author_id": alice.ID, "likes": 10})
	require.NoError(t, err)
	_, err = e.Create("posts", map[string]any{"title": "Other", "author_id": int64(99)})
	require.NoError(t, err)

	posts := collect(t, e, "posts", types.Filter{"author_id": {Op: types.OpEq, Value: alice.ID}})
	require.Len(t, posts, 2)
	assert.Equal(t, "Hello", posts[0].Text("title"))
	assert.Equal(t, int64(0), posts[0].Int("likes"), "default applies")
	assert.Equal(t, int64(10), posts[1].Int("likes"))
}

func TestQueryReflectsStoreAtScanTime(t *testing.T) {
	e := newMemoryEngine(t)

	_, err := e.Create("users", map[string]any{"name": "Alice", "age": 30})
	require.NoError(t, err)

	seq, err := e.Query("users", nil)
	require.NoError(t, err)

	// First pass sees one record.
	assert.Len(t, drain(seq), 1)

	_, err = e.Create("users", map[string]any{"name": "Bob", "age": 20})
	require.NoError(t, err)

	// Re-ranging re-executes the scan and sees the new record.
	assert.Len(t, drain(seq), 2)
}

func drain[T any](seq func(func(T) bool)) []T {
	var out []T
	for v := range seq {
		out = append(out, v)
	}
	return out
}
