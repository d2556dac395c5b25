package formval

import (
	"fmt"
	"slices"
)

///////////////////////////////////////////////////////////////////////////////
// Source Interface
///////////////////////////////////////////////////////////////////////////////

// Source is something field values can be read from: a JSON document, an
// HTTP request, a plain map.
type Source interface {
	// Lookup returns the value a binding points at. The bool is false when
	// the source has no such value.
	Lookup(binding Binding) (any, bool, error)
	// BindingNames lists the binding names Lookup understands. The first
	// one is used when a field declares no binding at all.
	BindingNames() []string
}

// Bind builds a FetchFunc that resolves spec against src every time it is
// called. The binding spec is parsed and checked against src once, up front.
func Bind(src Source, spec string) (FetchFunc, error) {
	parsed, err := ParseBindingSpec(spec)
	if err != nil {
		return nil, err
	}

	if err := parsed.check(src); err != nil {
		return nil, err
	}

	return func(_ any) (any, error) {
		return parsed.Resolve(src)
	}, nil
}

// check verifies every binding name is understood by src.
func (spec BindingSpec) check(src Source) error {
	names := src.BindingNames()
	for _, binding := range spec.Bindings {
		if !slices.Contains(names, binding.Name) {
			return fmt.Errorf("%w: %s", ErrUnallowedBindingName, binding.Name)
		}
	}
	return nil
}

// Resolve tries each binding in order and returns the first value found.
//
// A binding marked required that finds nothing ends resolution with
// ErrBindingNotFound. A source error ends resolution unless the binding is
// marked omiterr. When no binding yields a value the default is returned
// if one was given, and nil otherwise.
func (spec BindingSpec) Resolve(src Source) (any, error) {
	for _, binding := range spec.Bindings {
		value, found, err := src.Lookup(binding)
		if err != nil {
			if binding.Modifiers.OmitError {
				continue
			}
			return nil, fmt.Errorf("binding %s: %w", binding, err)
		}

		if found && binding.Modifiers.OmitEmpty && isEmptyValue(value) {
			found = false
		}

		if found {
			return value, nil
		}

		if binding.Modifiers.Required {
			return nil, fmt.Errorf("%w: %s", ErrBindingNotFound, binding)
		}
	}

	if spec.HasDefault {
		return spec.Default, nil
	}
	return nil, nil
}

func isEmptyValue(v any) bool {
	if IsAbsent(v) {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	if items, ok := asSequence(v); ok {
		return len(items) == 0
	}
	return false
}

///////////////////////////////////////////////////////////////////////////////
// MapSource
///////////////////////////////////////////////////////////////////////////////

// MapSource serves values from a map using the "key" binding.
type MapSource map[string]any

var _ Source = MapSource(nil)

func (ms MapSource) Lookup(binding Binding) (any, bool, error) {
	if binding.Name != KeyBindingName {
		return nil, false, fmt.Errorf("%w: %s", ErrUnallowedBindingName, binding.Name)
	}

	value, ok := ms[binding.Identifier]
	if !ok {
		return nil, false, nil
	}

	if binding.Modifiers.Multi {
		if _, isSeq := asSequence(value); !isSeq {
			return []any{value}, true, nil
		}
	}
	return value, true, nil
}

func (ms MapSource) BindingNames() []string {
	return []string{KeyBindingName}
}
