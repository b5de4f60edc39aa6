package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

const ns = "default"

func openBackend(t *testing.T) (*Backend, string) {
	t.Helper()
	dir := t.TempDir()
	b, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { b.Close() })
	return b, dir
}

func TestOpen(t *testing.T) {
	t.Run("creates database file", func(t *testing.T) {
		_, dir := openBackend(t)
		if _, err := os.Stat(filepath.Join(dir, DBFileName)); err != nil {
			t.Fatalf("database file missing: %v", err)
		}
	})

	t.Run("stamps a UUID v7 store identity", func(t *testing.T) {
		b, _ := openBackend(t)
		parsed, err := uuid.Parse(b.StoreID())
		if err != nil {
			t.Fatal(err)
		}
		if parsed.Version() != uuid.Version(7) {
			t.Fatalf("expected UUID v7, got v%d", parsed.Version())
		}
	})

	t.Run("store identity survives reopen", func(t *testing.T) {
		dir := t.TempDir()
		b1, err := Open(dir)
		if err != nil {
			t.Fatal(err)
		}
		id := b1.StoreID()
		b1.Close()

		b2, err := Open(dir)
		if err != nil {
			t.Fatal(err)
		}
		defer b2.Close()
		if b2.StoreID() != id {
			t.Fatalf("store identity changed: %q vs %q", id, b2.StoreID())
		}
	})
}

func TestBackend_InsertFetch(t *testing.T) {
	t.Run("assigns monotonic identifiers", func(t *testing.T) {
		b, _ := openBackend(t)
		id1, err := b.Insert(ns, "users", "id", map[string]any{"name": "Alice"})
		if err != nil {
			t.Fatal(err)
		}
		id2, _ := b.Insert(ns, "users", "id", map[string]any{"name": "Bob"})
		if id1 != 1 || id2 != 2 {
			t.Fatalf("expected 1,2, got %d,%d", id1, id2)
		}
	})

	t.Run("duplicate explicit identifier rejected", func(t *testing.T) {
		b, _ := openBackend(t)
		b.Insert(ns, "users", "id", map[string]any{"id": int64(5)})
		_, err := b.Insert(ns, "users", "id", map[string]any{"id": int64(5)})
		if !errors.Is(err, types.ErrDuplicateKey) {
			t.Fatalf("expected ErrDuplicateKey, got %v", err)
		}
	})

	t.Run("counter advances past explicit identifiers", func(t *testing.T) {
		b, _ := openBackend(t)
		b.Insert(ns, "users", "id", map[string]any{"id": int64(5)})
		id, _ := b.Insert(ns, "users", "id", map[string]any{"name": "Bob"})
		if id != 6 {
			t.Fatalf("expected 6, got %d", id)
		}
	})

	t.Run("absence is not an error", func(t *testing.T) {
		b, _ := openBackend(t)
		row, ok, err := b.Fetch(ns, "users", 42)
		if err != nil {
			t.Fatal(err)
		}
		if ok || row != nil {
			t.Fatal("expected absent")
		}
	})
}

func TestBackend_JSONRoundTrip(t *testing.T) {
	b, _ := openBackend(t)
	joined := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := b.Insert(ns, "users", "id", map[string]any{
		"name": "Alice", "age": int64(30), "joined": joined,
	})
	if err != nil {
		t.Fatal(err)
	}

	row, ok, err := b.Fetch(ns, "users", id)
	if err != nil || !ok {
		t.Fatalf("fetch failed: %v ok=%v", err, ok)
	}
	// JSON decoding hands back float64 and RFC3339 strings; the engine
	// revives canonical types via the schema.
	if row["age"] != float64(30) {
		t.Fatalf("expected float64(30), got %#v", row["age"])
	}
	ts, err := time.Parse(time.RFC3339, row["joined"].(string))
	if err != nil || !ts.Equal(joined) {
		t.Fatalf("timestamp did not round-trip: %v (%v)", row["joined"], err)
	}
}

func TestBackend_UpdateDelete(t *testing.T) {
	t.Run("update merges and persists", func(t *testing.T) {
		b, _ := openBackend(t)
		id, _ := b.Insert(ns, "users", "id", map[string]any{"name": "Alice", "age": int64(30)})
		row, err := b.Update(ns, "users", id, map[string]any{"age": int64(31)})
		if err != nil {
			t.Fatal(err)
		}
		if row["age"] != int64(31) || row["name"] != "Alice" {
			t.Fatalf("unexpected row %v", row)
		}
		again, _, _ := b.Fetch(ns, "users", id)
		if again["age"] != float64(31) {
			t.Fatalf("update not persisted: %v", again)
		}
	})

	t.Run("update of missing record fails", func(t *testing.T) {
		b, _ := openBackend(t)
		_, err := b.Update(ns, "users", 42, map[string]any{"age": int64(1)})
		if !errors.Is(err, types.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		b, _ := openBackend(t)
		id, _ := b.Insert(ns, "users", "id", map[string]any{"name": "Alice"})
		existed, err := b.Delete(ns, "users", id)
		if err != nil || !existed {
			t.Fatalf("expected true, got %v err=%v", existed, err)
		}
		existed, err = b.Delete(ns, "users", id)
		if err != nil || existed {
			t.Fatalf("expected false without error, got %v err=%v", existed, err)
		}
	})
}

func TestBackend_Scan(t *testing.T) {
	b, _ := openBackend(t)
	b.Insert(ns, "users", "id", map[string]any{"name": "Alice", "age": int64(30)})
	b.Insert(ns, "users", "id", map[string]any{"name": "Bob", "age": int64(20)})
	b.Insert("other", "users", "id", map[string]any{"name": "Cara"})

	t.Run("scoped to namespace in id order", func(t *testing.T) {
		seq, err := b.Scan(ns, "users", nil)
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for row := range seq {
			names = append(names, row["name"].(string))
		}
		if len(names) != 2 || names[0] != "Alice" || names[1] != "Bob" {
			t.Fatalf("unexpected names %v", names)
		}
	})

	t.Run("predicate filters", func(t *testing.T) {
		seq, _ := b.Scan(ns, "users", func(v map[string]any) bool {
			return v["name"] == "Bob"
		})
		count := 0
		for range seq {
			count++
		}
		if count != 1 {
			t.Fatalf("expected 1, got %d", count)
		}
	})

	t.Run("restartable", func(t *testing.T) {
		seq, _ := b.Scan(ns, "users", nil)
		first, second := 0, 0
		for range seq {
			first++
		}
		for range seq {
			second++
		}
		if first != 2 || second != 2 {
			t.Fatalf("expected 2 on both passes, got %d and %d", first, second)
		}
	})
}

func TestBackend_Reopen(t *testing.T) {
	dir := t.TempDir()
	b1, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := b1.Insert(ns, "users", "id", map[string]any{"name": "Alice"})
	if err := b1.Close(); err != nil {
		t.Fatal(err)
	}

	b2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer b2.Close()

	row, ok, err := b2.Fetch(ns, "users", id)
	if err != nil || !ok {
		t.Fatalf("record lost across reopen: %v ok=%v", err, ok)
	}
	if row["name"] != "Alice" {
		t.Fatalf("unexpected row %v", row)
	}

	next, _ := b2.Insert(ns, "users", "id", map[string]any{"name": "Bob"})
	if next != id+1 {
		t.Fatalf("counter did not survive reopen: got %d", next)
	}
}
