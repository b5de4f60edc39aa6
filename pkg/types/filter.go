package types

import (
	"fmt"
	"time"
)

// Op is a filter comparison operator.
type Op string

const (
	OpEq Op = "eq"
	OpNe Op = "ne"
	OpGt Op = "gt"
	OpLt Op = "lt"
	OpIn Op = "in"
)

// validOps is the set of recognized comparison operators.
var validOps = map[Op]bool{
	OpEq: true,
	OpNe: true,
	OpGt: true,
	OpLt: true,
	OpIn: true,
}

// Condition compares one field against a value.
type Condition struct {
	Op    Op
	Value any
}

// Filter maps field names to conditions. All conditions must hold for a
// record to match (conjunction). An empty or nil filter matches everything.
type Filter map[string]Condition

// Normalize validates the filter against a schema and returns a copy whose
// condition values are coerced to the canonical representation of their
// field's type. OpIn expects a slice; each element is coerced. Returns an
// error wrapping ErrInvalidFilter or ErrTypeMismatch naming the offending
// field.
func (f Filter) Normalize(s *Schema) (Filter, error) {
	if len(f) == 0 {
		return nil, nil
	}
	out := make(Filter, len(f))
	for name, cond := range f {
		fd, ok := s.Field(name)
		if !ok {
			return nil, fmt.Errorf("model %q has no field %q: %w", s.Model, name, ErrInvalidFilter)
		}
		if !validOps[cond.Op] {
			return nil, fmt.Errorf("field %q: operator %q: %w", name, cond.Op, ErrInvalidFilter)
		}
		if (cond.Op == OpGt || cond.Op == OpLt) && fd.Type == FieldBoolean {
			return nil, fmt.Errorf("field %q: boolean fields are not ordered: %w", name, ErrInvalidFilter)
		}
		if cond.Op == OpIn {
			elems, ok := cond.Value.([]any)
			if !ok {
				return nil, fmt.Errorf("field %q: in-set condition requires a slice: %w", name, ErrInvalidFilter)
			}
			coerced := make([]any, len(elems))
			for i, e := range elems {
				v, ok := Coerce(fd.Type, e)
				if !ok {
					return nil, fmt.Errorf("field %q: set element %v is not %s: %w", name, e, fd.Type, ErrTypeMismatch)
				}
				coerced[i] = v
			}
			out[name] = Condition{Op: OpIn, Value: coerced}
			continue
		}
		v, ok := Coerce(fd.Type, cond.Value)
		if !ok {
			return nil, fmt.Errorf("field %q: value %v is not %s: %w", name, cond.Value, fd.Type, ErrTypeMismatch)
		}
		out[name] = Condition{Op: cond.Op, Value: v}
	}
	return out, nil
}

// Match reports whether a stored value map satisfies every condition.
// The filter must have been normalized first.
func (f Filter) Match(values map[string]any) bool {
	for name, cond := range f {
		stored, present := values[name]
		switch cond.Op {
		case OpEq:
			if !present || !valuesEqual(stored, cond.Value) {
				return false
			}
		case OpNe:
			if present && valuesEqual(stored, cond.Value) {
				return false
			}
		case OpGt:
			c, ok := compareValues(stored, cond.Value)
			if !ok || c <= 0 {
				return false
			}
		case OpLt:
			c, ok := compareValues(stored, cond.Value)
			if !ok || c >= 0 {
				return false
			}
		case OpIn:
			elems, _ := cond.Value.([]any)
			found := false
			for _, e := range elems {
				if present && valuesEqual(stored, e) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// valuesEqual compares two canonical values, widening integers against
// floats so that numeric equality is representation-independent.
func valuesEqual(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	if c, ok := compareValues(a, b); ok {
		return c == 0
	}
	return a == b
}

// compareValues orders two canonical values. Returns -1, 0, or 1 and
// whether the pair is comparable. Numeric kinds compare after widening to
// float64; text compares lexicographically; timestamps chronologically.
func compareValues(a, b any) (int, bool) {
	if na, ok := asFloat(a); ok {
		nb, ok := asFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case na < nb:
			return -1, true
		case na > nb:
			return 1, true
		default:
			return 0, true
		}
	}
	if sa, ok := a.(string); ok {
		sb, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case sa < sb:
			return -1, true
		case sa > sb:
			return 1, true
		default:
			return 0, true
		}
	}
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
