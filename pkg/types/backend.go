package types

import (
	"errors"
	"iter"
)

// Predicate decides whether a stored value map matches a scan.
type Predicate func(values map[string]any) bool

// Backend provides uniform persistence operations for the engine. Every
// operation is scoped to a logical database namespace and a model name;
// namespaces are created implicitly on first write. Implementations must
// be safe for concurrent use and must copy value maps on the way in and
// out so callers never hold live storage state.
type Backend interface {
	// Insert persists a new record and returns its identifier. key names
	// the identifier field inside values. When values carries no value
	// under key the backend assigns the next value of a monotonically
	// increasing per-(namespace, model) counter and stores it under key.
	// Returns ErrDuplicateKey when a caller-supplied identifier already
	// exists.
	Insert(namespace, model, key string, values map[string]any) (int64, error)

	// Fetch returns the stored values for an identifier. Absence is a
	// normal outcome, reported as (nil, false, nil), never an error.
	Fetch(namespace, model string, id int64) (map[string]any, bool, error)

	// Update merges partial into the stored record and returns the full
	// updated value map. Returns ErrNotFound when the identifier does
	// not exist.
	Update(namespace, model string, id int64, partial map[string]any) (map[string]any, error)

	// Delete removes the record and reports whether one existed.
	// Idempotent: deleting twice returns false the second time, no error.
	Delete(namespace, model string, id int64) (bool, error)

	// Scan returns a lazy, finite, restartable sequence of all stored
	// value maps matching pred. A nil pred matches everything. Ordering
	// is ascending by identifier and stable across scans of an
	// unmodified store. Re-ranging the sequence re-reads the store.
	Scan(namespace, model string, pred Predicate) (iter.Seq[map[string]any], error)

	// Close releases backend resources.
	Close() error
}

// Engine operation errors.
var (
	ErrSchemaInvalid    = errors.New("invalid model definition")
	ErrInvalidFieldType = errors.New("unsupported field type")
	ErrUnknownModel     = errors.New("unknown model")
	ErrMissingField     = errors.New("missing required field")
	ErrTypeMismatch     = errors.New("type mismatch")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrNotFound         = errors.New("record not found")
	ErrInvalidFilter    = errors.New("invalid filter")
	ErrInvalidNamespace = errors.New("invalid namespace")
)
