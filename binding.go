package formval

import (
	"errors"
	"fmt"
	"strings"
)

// constants for the binding spec grammar
const (
	DefaultSubTagPrefix   = "default"
	BindingScopeDelimiter = byte('\'')
	KeyValueDelimiter     = byte(':')
	ModifierDelimiter     = ","
)

// constants for builtin binding names
const (
	JSONBindingName   = "json"
	FormBindingName   = "form"
	QueryBindingName  = "query"
	HeaderBindingName = "header"
	CookieBindingName = "cookie"
	KeyBindingName    = "key"
)

// constants for builtin binding modifiers
const (
	RequiredBindingModifier  = "required"
	OmitEmptyBindingModifier = "omitempty"
	OmitErrBindingModifier   = "omiterr"
	MultiBindingModifier     = "multi"
)

// Binding spec errors
var (
	ErrInvalidBindingFormat     = errors.New("invalid binding format")
	ErrEmptyBindingIdentifier   = errors.New("binding identifier cannot be empty")
	ErrUnterminatedBinding      = errors.New("unterminated binding value")
	ErrUnallowedBindingName     = errors.New("binding name is not allowed")
	ErrUnallowedBindingModifier = errors.New("binding modifier is not allowed")
	ErrDuplicateDefault         = errors.New("default may only be given once")
	ErrBindingNotFound          = errors.New("required binding not found in source")
)

// Binding is one place a field's value may be read from, e.g. the query
// parameter "email".
type Binding struct {
	Name       string           // The interaction method with the source (query, json, ...)
	Identifier string           // The key, path or name within that method
	Modifiers  BindingModifiers // Failure and fallback behavior
}

// BindingModifiers control what happens when a binding does not yield a
// value.
type BindingModifiers struct {
	Required  bool // If true, a missing value stops resolution with an error
	OmitEmpty bool // If true, an empty value counts as missing
	OmitError bool // If true, a source error moves on to the next binding
	Multi     bool // If true, every value is returned as a list
}

func (b Binding) String() string {
	return fmt.Sprintf("%s:'%s'", b.Name, b.Identifier)
}

// BindingSpec is an ordered list of bindings tried in turn, and the
// default used when none of them yields a value.
//
// Grammar:
//
//	spec:     [<binding> | <default>]*        // space separated
//	binding:  <name>:'<identifier>[,<modifier>]*'
//	default:  default:'<value>'
//	modifier: required | omitempty | omiterr | multi
//
// Quotes are optional when the value contains no whitespace. A quote
// inside a quoted value is escaped with a backslash.
//
// Example: "form:'email,omitempty' json:'user.email' default:'none'"
type BindingSpec struct {
	Bindings   []Binding
	Default    string
	HasDefault bool
}

// ParseBindingSpec decodes a binding spec string.
func ParseBindingSpec(spec string) (BindingSpec, error) {
	var result BindingSpec

	i := 0
	for i < len(spec) {
		i = skipSpace(spec, i)
		if i >= len(spec) {
			break
		}

		colonIdx := strings.IndexByte(spec[i:], KeyValueDelimiter)
		if colonIdx == -1 {
			return BindingSpec{}, fmt.Errorf("%w: %q", ErrInvalidBindingFormat, spec[i:])
		}
		colonIdx += i

		key := strings.TrimSpace(spec[i:colonIdx])
		if key == "" || strings.ContainsAny(key, " \t") {
			return BindingSpec{}, fmt.Errorf("%w: %q", ErrInvalidBindingFormat, spec[i:])
		}

		value, next, err := scanValue(spec, colonIdx+1)
		if err != nil {
			return BindingSpec{}, fmt.Errorf("%s: %w", key, err)
		}
		i = next

		if key == DefaultSubTagPrefix {
			if result.HasDefault {
				return BindingSpec{}, ErrDuplicateDefault
			}
			result.Default = value
			result.HasDefault = true
			continue
		}

		binding, err := decodeBinding(key, value)
		if err != nil {
			return BindingSpec{}, err
		}
		result.Bindings = append(result.Bindings, binding)
	}

	return result, nil
}

// scanValue reads a quoted or bare value starting at start and returns it
// along with the index just past it.
func scanValue(spec string, start int) (string, int, error) {
	if start >= len(spec) {
		return "", start, ErrEmptyBindingIdentifier
	}

	if spec[start] != BindingScopeDelimiter {
		end := start
		for end < len(spec) && spec[end] != ' ' && spec[end] != '\t' {
			end++
		}
		return spec[start:end], end, nil
	}

	var builder strings.Builder
	escaped := false
	for j := start + 1; j < len(spec); j++ {
		c := spec[j]
		switch {
		case escaped:
			builder.WriteByte(c)
			escaped = false
		case c == '\\':
			escaped = true
		case c == BindingScopeDelimiter:
			return builder.String(), j + 1, nil
		default:
			builder.WriteByte(c)
		}
	}

	return "", len(spec), fmt.Errorf("%w: %q", ErrUnterminatedBinding, spec[start:])
}

func decodeBinding(name, info string) (Binding, error) {
	parts := strings.Split(info, ModifierDelimiter)

	identifier := strings.TrimSpace(parts[0])
	if identifier == "" {
		return Binding{}, fmt.Errorf("%w in binding: %s", ErrEmptyBindingIdentifier, name)
	}

	binding := Binding{Name: name, Identifier: identifier}
	for _, part := range parts[1:] {
		switch modifier := strings.TrimSpace(part); modifier {
		case RequiredBindingModifier:
			binding.Modifiers.Required = true
		case OmitEmptyBindingModifier:
			binding.Modifiers.OmitEmpty = true
		case OmitErrBindingModifier:
			binding.Modifiers.OmitError = true
		case MultiBindingModifier:
			binding.Modifiers.Multi = true
		case "":
			// trailing delimiter
		default:
			return Binding{}, fmt.Errorf("%w: %s", ErrUnallowedBindingModifier, modifier)
		}
	}

	return binding, nil
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}
