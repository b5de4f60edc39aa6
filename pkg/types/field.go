package types

import "time"

// FieldType is the declared type of a schema field. The set is closed;
// registry load rejects definitions using anything else.
type FieldType string

const (
	FieldInteger    FieldType = "integer"
	FieldFloat      FieldType = "float"
	FieldText       FieldType = "text"
	FieldBoolean    FieldType = "boolean"
	FieldTimestamp  FieldType = "timestamp"
	FieldIdentifier FieldType = "identifier"
)

// validFieldTypes is the set of recognized field types.
var validFieldTypes = map[FieldType]bool{
	FieldInteger:    true,
	FieldFloat:      true,
	FieldText:       true,
	FieldBoolean:    true,
	FieldTimestamp:  true,
	FieldIdentifier: true,
}

// IsValidFieldType reports whether ft is a recognized field type.
func IsValidFieldType(ft FieldType) bool {
	return validFieldTypes[ft]
}

// ZeroValue returns the type-based zero value for a field type: 0 for
// integer and identifier, 0.0 for float, "" for text, false for boolean,
// and nil for timestamp.
// Returns nil and ErrInvalidFieldType if the type is not recognized.
func ZeroValue(ft FieldType) (any, error) {
	switch ft {
	case FieldInteger, FieldIdentifier:
		return int64(0), nil
	case FieldFloat:
		return float64(0), nil
	case FieldText:
		return "", nil
	case FieldBoolean:
		return false, nil
	case FieldTimestamp:
		return nil, nil
	default:
		return nil, ErrInvalidFieldType
	}
}

// Coerce converts a runtime value into the canonical representation for a
// field type: int64 for integer and identifier, float64 for float, string
// for text, bool for boolean, time.Time for timestamp. Integer kinds widen
// to int64 and float64; float64 values produced by JSON decoding are
// accepted for integer fields when they carry no fractional part.
// Timestamps accept time.Time or an RFC3339 string, matching how stored
// JSON documents revive on read.
// Returns false when the value does not conform.
func Coerce(ft FieldType, v any) (any, bool) {
	switch ft {
	case FieldInteger, FieldIdentifier:
		switch n := v.(type) {
		case int:
			return int64(n), true
		case int32:
			return int64(n), true
		case int64:
			return n, true
		case float64:
			if n == float64(int64(n)) {
				return int64(n), true
			}
		}
	case FieldFloat:
		switch n := v.(type) {
		case float32:
			return float64(n), true
		case float64:
			return n, true
		case int:
			return float64(n), true
		case int64:
			return float64(n), true
		}
	case FieldText:
		if s, ok := v.(string); ok {
			return s, true
		}
	case FieldBoolean:
		if b, ok := v.(bool); ok {
			return b, true
		}
	case FieldTimestamp:
		switch ts := v.(type) {
		case time.Time:
			return ts, true
		case string:
			parsed, err := time.Parse(time.RFC3339, ts)
			if err == nil {
				return parsed, true
			}
		}
	}
	return nil, false
}
