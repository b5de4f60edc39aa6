// Package registry validates raw model definitions into schemas and
// resolves them by name. Loads replace the whole mapping atomically, so
// concurrent readers never observe a partially updated registry.
package registry

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// KeyField is the identifier field prepended to schemas that declare none.
const KeyField = "id"

// Registry maps model names to validated schemas.
type Registry struct {
	schemas atomic.Pointer[map[string]*types.Schema]
}

// New returns an empty Registry.
func New() *Registry {
	r := &Registry{}
	empty := map[string]*types.Schema{}
	r.schemas.Store(&empty)
	return r
}

// Load validates every definition and replaces the registry mapping in one
// atomic swap. On any validation error the prior mapping is retained
// unchanged and the error names the offending model and field.
func (r *Registry) Load(defs []types.Definition) error {
	next := make(map[string]*types.Schema, len(defs))
	for _, def := range defs {
		schema, err := buildSchema(def)
		if err != nil {
			return err
		}
		if _, exists := next[schema.Model]; exists {
			return fmt.Errorf("model %q declared twice: %w", schema.Model, types.ErrSchemaInvalid)
		}
		next[schema.Model] = schema
	}
	r.schemas.Store(&next)
	return nil
}

// Resolve returns the schema for a model name.
// Returns ErrUnknownModel when the model is not registered.
func (r *Registry) Resolve(model string) (*types.Schema, error) {
	schemas := *r.schemas.Load()
	s, ok := schemas[model]
	if !ok {
		return nil, fmt.Errorf("model %q: %w", model, types.ErrUnknownModel)
	}
	return s, nil
}

// Models returns the registered model names in sorted order.
func (r *Registry) Models() []string {
	schemas := *r.schemas.Load()
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildSchema validates one definition into an immutable schema. The
// identifier field is the single field of type identifier; when none is
// declared a non-nullable unique "id" field is prepended.
func buildSchema(def types.Definition) (*types.Schema, error) {
	if def.Model == "" {
		return nil, fmt.Errorf("model name must not be empty: %w", types.ErrSchemaInvalid)
	}

	seen := make(map[string]bool, len(def.Fields))
	key := ""
	fields := make([]types.FieldDef, 0, len(def.Fields)+1)
	for _, f := range def.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("model %q: field name must not be empty: %w", def.Model, types.ErrSchemaInvalid)
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("model %q: duplicate field %q: %w", def.Model, f.Name, types.ErrSchemaInvalid)
		}
		seen[f.Name] = true

		if !types.IsValidFieldType(f.Type) {
			return nil, fmt.Errorf("model %q: field %q: type %q: %w", def.Model, f.Name, f.Type, types.ErrInvalidFieldType)
		}
		if f.Type == types.FieldIdentifier {
			if key != "" {
				return nil, fmt.Errorf("model %q: identifier declared on both %q and %q: %w", def.Model, key, f.Name, types.ErrSchemaInvalid)
			}
			key = f.Name
			f.Unique = true
			f.Nullable = false
		}
		if f.Default != nil {
			coerced, ok := types.Coerce(f.Type, f.Default)
			if !ok {
				return nil, fmt.Errorf("model %q: field %q: default %v is not %s: %w", def.Model, f.Name, f.Default, f.Type, types.ErrSchemaInvalid)
			}
			f.Default = coerced
		}
		fields = append(fields, f)
	}

	if key == "" {
		if seen[KeyField] {
			return nil, fmt.Errorf("model %q: field %q conflicts with the implicit identifier: %w", def.Model, KeyField, types.ErrSchemaInvalid)
		}
		key = KeyField
		fields = append([]types.FieldDef{{Name: KeyField, Type: types.FieldIdentifier, Unique: true}}, fields...)
	}

	return &types.Schema{Model: def.Model, Fields: fields, Key: key}, nil
}
