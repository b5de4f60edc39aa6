// Package engine composes the model registry, a storage backend, and the
// active logical database namespace into the single entry point for CRUD
// and query operations. Every operation resolves its model schema,
// validates and coerces values, then dispatches to the backend.
package engine

import (
	"fmt"
	"iter"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/datashelf/internal/registry"
	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// Engine is the data engine facade. It is a single-context convenience
// wrapper: the active namespace is shared mutable state, so callers that
// need concurrent access to different namespaces construct one Engine per
// context over a shared Backend.
type Engine struct {
	registry *registry.Registry
	backend  types.Backend
	log      *zap.SugaredLogger

	mu        sync.Mutex
	namespace string
}

// Option configures an Engine.
type Option func(*Engine)

// WithNamespace sets the initial active namespace.
func WithNamespace(namespace string) Option {
	return func(e *Engine) { e.namespace = namespace }
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) { e.log = log }
}

// New returns an Engine over the given registry and backend. The active
// namespace defaults to types.DefaultNamespace.
func New(reg *registry.Registry, backend types.Backend, opts ...Option) *Engine {
	e := &Engine{
		registry:  reg,
		backend:   backend,
		namespace: types.DefaultNamespace,
		log:       zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reload replaces the registry contents. On failure the prior mapping is
// retained and the error is reported to the caller only.
func (e *Engine) Reload(defs []types.Definition) error {
	if err := e.registry.Load(defs); err != nil {
		return err
	}
	e.log.Debugw("registry reloaded", "models", e.registry.Models())
	return nil
}

// Models returns the registered model names in sorted order.
func (e *Engine) Models() []string {
	return e.registry.Models()
}

// Use switches the active logical database. Unknown namespaces are created
// implicitly on first write.
func (e *Engine) Use(namespace string) error {
	if namespace == "" || strings.TrimSpace(namespace) != namespace {
		return fmt.Errorf("namespace %q: %w", namespace, types.ErrInvalidNamespace)
	}
	e.mu.Lock()
	e.namespace = namespace
	e.mu.Unlock()
	e.log.Debugw("switched namespace", "namespace", namespace)
	return nil
}

// Namespace returns the active logical database.
func (e *Engine) Namespace() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.namespace
}

// Create validates fields against the model schema, applies defaults,
// checks uniqueness constraints, and inserts a new record.
func (e *Engine) Create(model string, fields map[string]any) (*types.Record, error) {
	s, err := e.registry.Resolve(model)
	if err != nil {
		return nil, err
	}
	ns := e.Namespace()

	values, err := prepareCreate(s, fields)
	if err != nil {
		return nil, err
	}
	if err := e.checkUnique(ns, s, values, 0); err != nil {
		return nil, err
	}

	id, err := e.backend.Insert(ns, model, s.Key, values)
	if err != nil {
		return nil, err
	}
	values[s.Key] = id
	e.log.Debugw("created record", "namespace", ns, "model", model, "id", id)
	return &types.Record{Model: model, ID: id, Values: values}, nil
}

// Get fetches one record by identifier. Absence is a normal outcome,
// reported as (nil, false, nil).
func (e *Engine) Get(model string, id int64) (*types.Record, bool, error) {
	s, err := e.registry.Resolve(model)
	if err != nil {
		return nil, false, err
	}
	raw, ok, err := e.backend.Fetch(e.Namespace(), model, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return &types.Record{Model: model, ID: id, Values: reviveRow(s, raw)}, true, nil
}

// Update type-checks the supplied fields, re-checks uniqueness for changed
// unique fields, and merges them into the stored record.
func (e *Engine) Update(model string, id int64, fields map[string]any) (*types.Record, error) {
	s, err := e.registry.Resolve(model)
	if err != nil {
		return nil, err
	}
	ns := e.Namespace()

	partial, err := prepareUpdate(s, fields)
	if err != nil {
		return nil, err
	}
	if err := e.checkUnique(ns, s, partial, id); err != nil {
		return nil, err
	}

	raw, err := e.backend.Update(ns, model, id, partial)
	if err != nil {
		return nil, err
	}
	e.log.Debugw("updated record", "namespace", ns, "model", model, "id", id)
	return &types.Record{Model: model, ID: id, Values: reviveRow(s, raw)}, nil
}

// Delete removes one record. Idempotent: deleting an absent record
// returns false, never an error.
func (e *Engine) Delete(model string, id int64) (bool, error) {
	if _, err := e.registry.Resolve(model); err != nil {
		return false, err
	}
	ns := e.Namespace()
	existed, err := e.backend.Delete(ns, model, id)
	if err != nil {
		return false, err
	}
	if existed {
		e.log.Debugw("deleted record", "namespace", ns, "model", model, "id", id)
	}
	return existed, nil
}

// Query returns a lazy, restartable sequence of records matching the
// filter. Re-ranging the sequence re-executes the scan; records reflect
// store state at scan time, per item.
func (e *Engine) Query(model string, filter types.Filter) (iter.Seq[*types.Record], error) {
	s, err := e.registry.Resolve(model)
	if err != nil {
		return nil, err
	}
	nf, err := filter.Normalize(s)
	if err != nil {
		return nil, fmt.Errorf("model %q: %w", model, err)
	}

	scan, err := e.backend.Scan(e.Namespace(), model, nil)
	if err != nil {
		return nil, err
	}
	seq := func(yield func(*types.Record) bool) {
		for raw := range scan {
			values := reviveRow(s, raw)
			if !nf.Match(values) {
				continue
			}
			id, _ := values[s.Key].(int64)
			if !yield(&types.Record{Model: model, ID: id, Values: values}) {
				return
			}
		}
	}
	return seq, nil
}

// checkUnique scans for records that already carry one of the unique
// field values. excludeID skips the record being updated. The pre-check
// is not atomic against concurrent writers; backends that enforce
// identifier uniqueness on insert close the race for the key field only.
func (e *Engine) checkUnique(namespace string, s *types.Schema, values map[string]any, excludeID int64) error {
	for _, fd := range s.Fields {
		if !fd.Unique || fd.Name == s.Key {
			continue
		}
		v, present := values[fd.Name]
		if !present || v == nil {
			continue
		}
		scan, err := e.backend.Scan(namespace, s.Model, func(raw map[string]any) bool {
			row := reviveRow(s, raw)
			if excludeID != 0 {
				if id, _ := row[s.Key].(int64); id == excludeID {
					return false
				}
			}
			f := types.Filter{fd.Name: {Op: types.OpEq, Value: v}}
			return f.Match(row)
		})
		if err != nil {
			return err
		}
		for range scan {
			return fmt.Errorf("model %q: field %q value %v: %w", s.Model, fd.Name, v, types.ErrDuplicateKey)
		}
	}
	return nil
}
