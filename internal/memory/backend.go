// Package memory implements the reference in-memory storage backend.
// Records live in nested maps keyed by (namespace, model) and identifier;
// identifiers come from a monotonically increasing counter per
// (namespace, model). All maps are copied on the way in and out, so
// callers never alias storage state.
package memory

import (
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

type tableKey struct {
	namespace string
	model     string
}

type table struct {
	rows   map[int64]map[string]any
	nextID int64
}

// Backend implements types.Backend entirely in process memory.
type Backend struct {
	mu     sync.RWMutex
	tables map[tableKey]*table
}

// NewBackend returns an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{tables: make(map[tableKey]*table)}
}

// ensureTable returns the table for (namespace, model), creating it on
// first write. The caller must hold the write lock.
func (b *Backend) ensureTable(namespace, model string) *table {
	k := tableKey{namespace, model}
	t, ok := b.tables[k]
	if !ok {
		t = &table{rows: make(map[int64]map[string]any)}
		b.tables[k] = t
	}
	return t
}

// Insert stores a copy of values. A caller-supplied identifier under key
// must not collide with an existing record; otherwise the per-table
// counter assigns the next identifier.
func (b *Backend) Insert(namespace, model, key string, values map[string]any) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t := b.ensureTable(namespace, model)

	var id int64
	if supplied, ok := values[key]; ok && supplied != nil {
		id, ok = supplied.(int64)
		if !ok {
			return 0, fmt.Errorf("model %q: identifier %v is not an integer: %w", model, supplied, types.ErrTypeMismatch)
		}
		if _, exists := t.rows[id]; exists {
			return 0, fmt.Errorf("model %q: identifier %d: %w", model, id, types.ErrDuplicateKey)
		}
		// Keep the counter ahead of explicit identifiers.
		if id > t.nextID {
			t.nextID = id
		}
	} else {
		t.nextID++
		id = t.nextID
	}

	row := copyRow(values)
	row[key] = id
	t.rows[id] = row
	return id, nil
}

// Fetch returns a copy of the stored values, or (nil, false, nil) when the
// identifier does not exist.
func (b *Backend) Fetch(namespace, model string, id int64) (map[string]any, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.tables[tableKey{namespace, model}]
	if !ok {
		return nil, false, nil
	}
	row, ok := t.rows[id]
	if !ok {
		return nil, false, nil
	}
	return copyRow(row), true, nil
}

// Update merges partial into the stored record and returns a copy of the
// full updated value map.
func (b *Backend) Update(namespace, model string, id int64, partial map[string]any) (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tables[tableKey{namespace, model}]
	if !ok {
		return nil, fmt.Errorf("model %q: identifier %d: %w", model, id, types.ErrNotFound)
	}
	row, ok := t.rows[id]
	if !ok {
		return nil, fmt.Errorf("model %q: identifier %d: %w", model, id, types.ErrNotFound)
	}
	for name, v := range partial {
		row[name] = v
	}
	return copyRow(row), nil
}

// Delete removes the record and reports whether one existed.
func (b *Backend) Delete(namespace, model string, id int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.tables[tableKey{namespace, model}]
	if !ok {
		return false, nil
	}
	if _, ok := t.rows[id]; !ok {
		return false, nil
	}
	delete(t.rows, id)
	return true, nil
}

// Scan returns a restartable sequence over copies of matching rows in
// ascending identifier order. Each range over the sequence snapshots the
// store anew, so the order is stable while the store is unmodified.
func (b *Backend) Scan(namespace, model string, pred types.Predicate) (iter.Seq[map[string]any], error) {
	seq := func(yield func(map[string]any) bool) {
		for _, row := range b.snapshot(namespace, model, pred) {
			if !yield(row) {
				return
			}
		}
	}
	return seq, nil
}

// snapshot copies all matching rows under the read lock.
func (b *Backend) snapshot(namespace, model string, pred types.Predicate) []map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.tables[tableKey{namespace, model}]
	if !ok {
		return nil
	}
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var rows []map[string]any
	for _, id := range ids {
		if pred == nil || pred(t.rows[id]) {
			rows = append(rows, copyRow(t.rows[id]))
		}
	}
	return rows
}

// Close releases nothing; the backend holds no external resources.
func (b *Backend) Close() error {
	return nil
}

// copyRow copies a value map. Field values are immutable scalars (int64,
// float64, string, bool, time.Time), so copying entries is sufficient.
func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
