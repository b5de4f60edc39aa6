package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// DBFileName is the SQLite database file created inside DataDir.
const DBFileName = "datashelf.db"

const storeIDKey = "store_id"

// Backend implements types.Backend on a single-file SQLite store.
type Backend struct {
	mu      sync.RWMutex
	db      *sql.DB
	storeID string
}

// Open creates DataDir if needed, opens (or creates) the database file,
// applies the schema, and stamps a store identity on first open.
func Open(dataDir string) (*Backend, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	b := &Backend{db: db}
	if err := b.ensureStoreID(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// ensureStoreID stamps a UUID v7 store identity on first open and reads
// it back on subsequent opens.
func (b *Backend) ensureStoreID() error {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if _, err := b.db.Exec(
		"INSERT OR IGNORE INTO store_meta (key, value) VALUES (?, ?)",
		storeIDKey, id.String()); err != nil {
		return fmt.Errorf("stamping store identity: %w", err)
	}
	if err := b.db.QueryRow(
		"SELECT value FROM store_meta WHERE key = ?", storeIDKey).Scan(&b.storeID); err != nil {
		return fmt.Errorf("reading store identity: %w", err)
	}
	return nil
}

// StoreID returns the UUID stamped into the store on first open.
func (b *Backend) StoreID() string {
	return b.storeID
}

// Insert stores values as a JSON document. A caller-supplied identifier
// under key must not collide; otherwise the counters table assigns the
// next identifier for (namespace, model).
func (b *Backend) Insert(namespace, model, key string, values map[string]any) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var id int64
	if supplied, ok := values[key]; ok && supplied != nil {
		id, ok = supplied.(int64)
		if !ok {
			return 0, fmt.Errorf("model %q: identifier %v is not an integer: %w", model, supplied, types.ErrTypeMismatch)
		}
		var exists int
		err := b.db.QueryRow(
			"SELECT 1 FROM records WHERE namespace = ? AND model = ? AND id = ?",
			namespace, model, id).Scan(&exists)
		if err == nil {
			return 0, fmt.Errorf("model %q: identifier %d: %w", model, id, types.ErrDuplicateKey)
		}
		if err != sql.ErrNoRows {
			return 0, fmt.Errorf("checking identifier: %w", err)
		}
		if err := b.bumpCounter(namespace, model, id); err != nil {
			return 0, err
		}
	} else {
		next, err := b.nextID(namespace, model)
		if err != nil {
			return 0, err
		}
		id = next
	}

	row := make(map[string]any, len(values)+1)
	for k, v := range values {
		row[k] = v
	}
	row[key] = id

	data, err := json.Marshal(row)
	if err != nil {
		return 0, fmt.Errorf("encoding record: %w", err)
	}
	if _, err := b.db.Exec(
		"INSERT INTO records (namespace, model, id, data) VALUES (?, ?, ?, ?)",
		namespace, model, id, string(data)); err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}
	return id, nil
}

// nextID increments and returns the counter for (namespace, model).
// The caller must hold the write lock.
func (b *Backend) nextID(namespace, model string) (int64, error) {
	var next int64
	err := b.db.QueryRow(
		"SELECT next_id FROM counters WHERE namespace = ? AND model = ?",
		namespace, model).Scan(&next)
	switch {
	case err == sql.ErrNoRows:
		next = 1
		if _, err := b.db.Exec(
			"INSERT INTO counters (namespace, model, next_id) VALUES (?, ?, ?)",
			namespace, model, next); err != nil {
			return 0, fmt.Errorf("creating counter: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("reading counter: %w", err)
	default:
		next++
		if _, err := b.db.Exec(
			"UPDATE counters SET next_id = ? WHERE namespace = ? AND model = ?",
			next, namespace, model); err != nil {
			return 0, fmt.Errorf("advancing counter: %w", err)
		}
	}
	return next, nil
}

// bumpCounter keeps the counter ahead of an explicitly supplied identifier.
func (b *Backend) bumpCounter(namespace, model string, id int64) error {
	if _, err := b.db.Exec(`
		INSERT INTO counters (namespace, model, next_id) VALUES (?, ?, ?)
		ON CONFLICT(namespace, model) DO UPDATE SET
			next_id = MAX(next_id, excluded.next_id)`,
		namespace, model, id); err != nil {
		return fmt.Errorf("bumping counter: %w", err)
	}
	return nil
}

// Fetch returns the decoded document, or (nil, false, nil) when absent.
func (b *Backend) Fetch(namespace, model string, id int64) (map[string]any, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	row, err := b.readRow(namespace, model, id)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return row, true, nil
}

// readRow loads and decodes one record. Returns sql.ErrNoRows when absent.
func (b *Backend) readRow(namespace, model string, id int64) (map[string]any, error) {
	var data string
	err := b.db.QueryRow(
		"SELECT data FROM records WHERE namespace = ? AND model = ? AND id = ?",
		namespace, model, id).Scan(&data)
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return nil, fmt.Errorf("decoding record %d: %w", id, err)
	}
	return row, nil
}

// Update merges partial into the stored document and returns the full
// updated value map.
func (b *Backend) Update(namespace, model string, id int64, partial map[string]any) (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	row, err := b.readRow(namespace, model, id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("model %q: identifier %d: %w", model, id, types.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	for name, v := range partial {
		row[name] = v
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	if _, err := b.db.Exec(
		"UPDATE records SET data = ? WHERE namespace = ? AND model = ? AND id = ?",
		string(data), namespace, model, id); err != nil {
		return nil, fmt.Errorf("updating record: %w", err)
	}
	return row, nil
}

// Delete removes the record and reports whether one existed.
func (b *Backend) Delete(namespace, model string, id int64) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	res, err := b.db.Exec(
		"DELETE FROM records WHERE namespace = ? AND model = ? AND id = ?",
		namespace, model, id)
	if err != nil {
		return false, fmt.Errorf("deleting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting record: %w", err)
	}
	return n > 0, nil
}

// Scan returns a restartable sequence over matching documents in ascending
// identifier order. Each range re-runs the query. Rows that fail to decode
// are skipped.
func (b *Backend) Scan(namespace, model string, pred types.Predicate) (iter.Seq[map[string]any], error) {
	seq := func(yield func(map[string]any) bool) {
		for _, row := range b.scanRows(namespace, model, pred) {
			if !yield(row) {
				return
			}
		}
	}
	return seq, nil
}

// scanRows loads all matching documents under the read lock.
func (b *Backend) scanRows(namespace, model string, pred types.Predicate) []map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	rows, err := b.db.Query(
		"SELECT data FROM records WHERE namespace = ? AND model = ? ORDER BY id",
		namespace, model)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var out []map[string]any
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal([]byte(data), &row); err != nil {
			continue
		}
		if pred == nil || pred(row) {
			out = append(out, row)
		}
	}
	return out
}

// Close closes the underlying database.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}
