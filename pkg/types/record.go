package types

import "time"

// Record is a typed instance of a model returned by the engine. It is
// owned by the caller: backends store and return copies, so mutating a
// Record never reaches the store.
type Record struct {
	Model  string
	ID     int64
	Values map[string]any
}

// Get returns the value of the named field and whether it is present.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.Values[name]
	return v, ok
}

// Int returns the named field as int64, or 0 when absent or not an integer.
func (r *Record) Int(name string) int64 {
	if n, ok := r.Values[name].(int64); ok {
		return n
	}
	return 0
}

// Float returns the named field as float64, or 0 when absent or not a float.
func (r *Record) Float(name string) float64 {
	if f, ok := r.Values[name].(float64); ok {
		return f
	}
	return 0
}

// Text returns the named field as string, or "" when absent or not text.
func (r *Record) Text(name string) string {
	if s, ok := r.Values[name].(string); ok {
		return s
	}
	return ""
}

// Bool returns the named field as bool, or false when absent or not boolean.
func (r *Record) Bool(name string) bool {
	if b, ok := r.Values[name].(bool); ok {
		return b
	}
	return false
}

// Time returns the named field as time.Time, or the zero time when absent
// or not a timestamp.
func (r *Record) Time(name string) time.Time {
	if t, ok := r.Values[name].(time.Time); ok {
		return t
	}
	return time.Time{}
}
