package site

import (
	"fmt"
)

// Data is a property tree as stored on content data and component config.
// Values are strings, numbers, booleans, nested Data (or map[string]any)
// and lists of those.
type Data map[string]any

// Get returns the raw value stored under key.
func (d Data) Get(key string) any {
	if d == nil {
		return nil
	}
	return d[key]
}

// Has reports whether key holds a truthy value.
func (d Data) Has(key string) bool {
	return truthy(d.Get(key))
}

// String returns the value under key as a string, or "" when the key is
// absent or nil. Non-string scalars are formatted.
func (d Data) String(key string) string {
	switch v := d.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// AsData converts a nested property value into Data.
func AsData(v any) Data {
	switch m := v.(type) {
	case Data:
		return m
	case map[string]any:
		return Data(m)
	default:
		return nil
	}
}

// ForceArray normalises a property value into a list. Nil stays nil, lists
// are returned as-is and any other value becomes a one-element list.
func ForceArray(v any) []any {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		return s
	case []Data:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	default:
		return []any{v}
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
