package formval

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON = errors.New("source is not valid JSON")
)

// JSONSource serves values from a JSON document using the "json" binding,
// whose identifier is a gjson path (e.g. "user.email" or "tags").
//
// Arrays are returned as []any, objects as map[string]any, numbers as
// float64. A JSON null counts as a missing value.
type JSONSource struct {
	doc gjson.Result
}

var _ Source = (*JSONSource)(nil)

func NewJSONSource(data []byte) (*JSONSource, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	return &JSONSource{doc: gjson.ParseBytes(data)}, nil
}

// NewJSONStringSource is NewJSONSource for a string document.
func NewJSONStringSource(data string) (*JSONSource, error) {
	if !gjson.Valid(data) {
		return nil, ErrInvalidJSON
	}
	return &JSONSource{doc: gjson.Parse(data)}, nil
}

func (js *JSONSource) Lookup(binding Binding) (any, bool, error) {
	if binding.Name != JSONBindingName {
		return nil, false, fmt.Errorf("%w: %s", ErrUnallowedBindingName, binding.Name)
	}
	return lookupJSON(js.doc, binding)
}

func (js *JSONSource) BindingNames() []string {
	return []string{JSONBindingName}
}

// lookupJSON is shared with RequestSource for JSON request bodies.
func lookupJSON(doc gjson.Result, binding Binding) (any, bool, error) {
	result := doc.Get(binding.Identifier)
	if !result.Exists() || result.Type == gjson.Null {
		return nil, false, nil
	}

	if binding.Modifiers.Multi && !result.IsArray() {
		return []any{result.Value()}, true, nil
	}
	return result.Value(), true, nil
}
