package model

import (
	"fmt"
	"strconv"
)

// Record is a flat metadata record: namespaced tag names mapped to scalar
// string/number values or lists of strings, as produced by exiftool -j.
// Unrecognized keys are carried along and ignored by the checkers.
type Record map[string]any

// Has reports whether the tag is present
func (r Record) Has(tag string) bool {
	_, ok := r[tag]
	return ok
}

// String returns the tag value rendered as a string. Lists yield their
// first element, matching how exiftool duplicates single values.
func (r Record) String(tag string) (string, bool) {
	v, ok := r[tag]
	if !ok || v == nil {
		return "", false
	}
	return scalarString(v), true
}

// Float returns the tag value as a float64 if it is numeric or a
// numeric string.
func (r Record) Float(tag string) (float64, bool) {
	v, ok := r[tag]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	f, err := strconv.ParseFloat(scalarString(v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// SourceFile returns the record's file path, if any
func (r Record) SourceFile() string {
	s, _ := r.String("SourceFile")
	return s
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		if len(t) == 0 {
			return ""
		}
		return scalarString(t[0])
	case []string:
		if len(t) == 0 {
			return ""
		}
		return t[0]
	case float64:
		// exiftool numbers arrive as float64 through encoding/json;
		// render integral values without a trailing ".0"
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
