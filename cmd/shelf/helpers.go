// Shared helpers for shelf CLI commands.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

// parseFields converts field=value arguments into a field map. Values are
// parsed as JSON where possible (numbers, booleans, null) and fall back to
// raw strings; the engine performs the schema type check.
func parseFields(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q (expected name=value)", arg)
		}
		var parsed any
		if err := json.Unmarshal([]byte(value), &parsed); err != nil {
			parsed = value
		}
		fields[name] = parsed
	}
	return fields, nil
}

// parseFilter converts --where arguments of the form field=op:value into a
// types.Filter. The op defaults to eq when omitted (field=value).
func parseFilter(wheres []string) (types.Filter, error) {
	if len(wheres) == 0 {
		return nil, nil
	}
	filter := make(types.Filter, len(wheres))
	for _, w := range wheres {
		name, rest, ok := strings.Cut(w, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid condition %q (expected field=op:value)", w)
		}
		op := types.OpEq
		value := rest
		if opStr, v, hasOp := strings.Cut(rest, ":"); hasOp {
			switch types.Op(opStr) {
			case types.OpEq, types.OpNe, types.OpGt, types.OpLt, types.OpIn:
				op = types.Op(opStr)
				value = v
			default:
				return nil, fmt.Errorf("invalid condition %q: unknown operator %q", w, opStr)
			}
		}

		var parsed any
		if op == types.OpIn {
			elems := strings.Split(value, ",")
			set := make([]any, len(elems))
			for i, e := range elems {
				set[i] = parseScalar(e)
			}
			parsed = set
		} else {
			parsed = parseScalar(value)
		}
		filter[name] = types.Condition{Op: op, Value: parsed}
	}
	return filter, nil
}

// parseScalar interprets a filter value as JSON where possible.
func parseScalar(s string) any {
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return s
	}
	return parsed
}

// parseID parses a record identifier argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid identifier %q", arg)
	}
	return id, nil
}

// printRecord writes a record as indented JSON.
func printRecord(rec *types.Record) error {
	output, err := json.MarshalIndent(rec.Values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	fmt.Println(string(output))
	return nil
}
