package formval

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

///////////////////////////////////////////////////////////////////////////////
// Value Helpers
///////////////////////////////////////////////////////////////////////////////

// IsAbsent reports whether v carries no value at all: a nil interface or a
// nil pointer, map, slice, func, chan or interface.
func IsAbsent(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// IsPresent is the "has a value" predicate used by the required check.
//
// The following are considered not present:
//   - absent values (see IsAbsent)
//   - the empty string
//   - false
//   - numeric zero and NaN
//
// Everything else is present, including empty (non-nil) slices and maps,
// since an empty selection is still an answer.
func IsPresent(v any) bool {
	if IsAbsent(v) {
		return false
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Complex64, reflect.Complex128:
		return rv.Complex() != 0
	default:
		return true
	}
}

// lengthOf returns the length used by the min/max checks.
//
// Strings are measured in runes, collections by their element count.
// Absent values have length 0. Any other scalar is measured by the rune
// count of its string form.
func lengthOf(v any) int {
	if IsAbsent(v) {
		return 0
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String())
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len()
	default:
		return utf8.RuneCountInString(toText(rv.Interface()))
	}
}

// asSequence unpacks slices and arrays into a []any. The second return
// value is false when v is not an ordered sequence.
func asSequence(v any) ([]any, bool) {
	if v == nil {
		return nil, false
	}

	if items, ok := v.([]any); ok {
		return items, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = rv.Index(i).Interface()
		}
		return items, true
	default:
		return nil, false
	}
}

// toText coerces v to its string form.
func toText(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// toBound coerces a min/max option to an integer.
//
// Strings are parsed in base 10 after trimming whitespace, so "08" is 8.
// Floats are truncated.
func toBound(v any) (int, error) {
	if s, ok := v.(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidBound, s)
		}
		return n, nil
	}

	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidBound, v)
	}
	return n, nil
}

// containsValue reports whether want is equal to one of items. Numbers
// compare by value whatever their type, so the int 1 from a YAML list
// matches the float64 1 from a JSON document.
func containsValue(items []any, want any) bool {
	for _, item := range items {
		if reflect.DeepEqual(item, want) || numbersEqual(item, want) {
			return true
		}
	}
	return false
}

func numbersEqual(a, b any) bool {
	if !isNumber(a) || !isNumber(b) {
		return false
	}

	x, err := cast.ToFloat64E(a)
	if err != nil {
		return false
	}
	y, err := cast.ToFloat64E(b)
	if err != nil {
		return false
	}
	return x == y
}

func isNumber(v any) bool {
	if v == nil {
		return false
	}

	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
