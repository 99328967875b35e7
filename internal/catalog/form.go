package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/museum/internal/record"
)

// FromForm builds a record from name-keyed values, as submitted by a form or
// a JSON object. Absent keys count as empty and take the field default.
// Unknown keys are rejected.
//
// Text values are put in record.CleanText form, as the CSV mapper does.
//
// When requireKey is false any submitted objectId is ignored and left zero,
// for edits where the id comes from the request path.
func FromForm(values map[string]string, requireKey bool) (record.Record, error) {
	for name := range values {
		if _, ok := record.Lookup(name); !ok {
			return record.Record{}, record.NewValidationError(name, "unknown field")
		}
	}

	var rec record.Record
	for _, f := range record.Columns {
		if f.Key && !requireKey {
			continue
		}
		raw := record.CleanText(values[f.Name])
		if err := f.Set(&rec, raw); err != nil {
			return record.Record{}, err
		}
	}
	return rec, nil
}

// FromJSON converts a decoded JSON object to form values. Strings and
// json.Number pass through, booleans and whole float64 values are formatted,
// and null counts as empty.
func FromJSON(obj map[string]any) (map[string]string, error) {
	values := make(map[string]string, len(obj))
	for k, v := range obj {
		switch x := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = x
		case bool:
			values[k] = fmt.Sprintf("%t", x)
		case json.Number:
			values[k] = x.String()
		case float64:
			if x != float64(int64(x)) {
				return nil, record.NewValidationError(k, fmt.Sprintf("expected an integer, got %v", x))
			}
			values[k] = fmt.Sprintf("%d", int64(x))
		default:
			return nil, record.NewValidationError(k, fmt.Sprintf("unsupported value of type %T", v))
		}
	}
	return values, nil
}
