package engine

import (
	"fmt"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// prepareCreate validates and coerces the supplied fields for a create,
// applying defaults and enforcing nullability. The returned map holds
// canonical values for every resolvable field; nullable fields without a
// value stay absent. The identifier field may be supplied explicitly.
func prepareCreate(s *types.Schema, fields map[string]any) (map[string]any, error) {
	values, err := coerceFields(s, fields)
	if err != nil {
		return nil, err
	}
	for _, fd := range s.Fields {
		if _, present := values[fd.Name]; present {
			continue
		}
		switch {
		case fd.Name == s.Key:
			// Backend assigns the identifier.
		case fd.Default != nil:
			values[fd.Name] = fd.Default
		case !fd.Nullable:
			return nil, fmt.Errorf("model %q: field %q: %w", s.Model, fd.Name, types.ErrMissingField)
		}
	}
	return values, nil
}

// prepareUpdate validates and coerces the supplied fields for a partial
// update. The identifier field cannot be changed.
func prepareUpdate(s *types.Schema, fields map[string]any) (map[string]any, error) {
	if _, present := fields[s.Key]; present {
		return nil, fmt.Errorf("model %q: identifier field %q cannot be updated: %w", s.Model, s.Key, types.ErrTypeMismatch)
	}
	return coerceFields(s, fields)
}

// coerceFields checks every supplied value against its field's declared
// type and converts it to the canonical representation. Unknown fields
// are rejected; nil is allowed for nullable fields only.
func coerceFields(s *types.Schema, fields map[string]any) (map[string]any, error) {
	values := make(map[string]any, len(fields))
	for name, v := range fields {
		fd, ok := s.Field(name)
		if !ok {
			return nil, fmt.Errorf("model %q has no field %q: %w", s.Model, name, types.ErrTypeMismatch)
		}
		if v == nil {
			if !fd.Nullable {
				return nil, fmt.Errorf("model %q: field %q is not nullable: %w", s.Model, name, types.ErrTypeMismatch)
			}
			values[name] = nil
			continue
		}
		coerced, ok := types.Coerce(fd.Type, v)
		if !ok {
			return nil, fmt.Errorf("model %q: field %q: value %v is not %s: %w", s.Model, name, v, fd.Type, types.ErrTypeMismatch)
		}
		values[name] = coerced
	}
	return values, nil
}

// reviveRow converts a raw backend value map into canonical field values.
// Backends that round-trip documents through JSON hand back float64 for
// integers and RFC3339 strings for timestamps; Coerce restores the
// canonical representation. Values that fail to coerce pass through as-is.
func reviveRow(s *types.Schema, raw map[string]any) map[string]any {
	values := make(map[string]any, len(raw))
	for _, fd := range s.Fields {
		v, present := raw[fd.Name]
		if !present {
			continue
		}
		if v == nil {
			values[fd.Name] = nil
			continue
		}
		if coerced, ok := types.Coerce(fd.Type, v); ok {
			values[fd.Name] = coerced
		} else {
			values[fd.Name] = v
		}
	}
	return values
}
