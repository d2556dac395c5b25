package formval

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// Form Definitions
///////////////////////////////////////////////////////////////////////////////

// Definition is a declarative form: the fields to build, where each one
// reads its value from and how it is validated.
//
//	fields:
//	  - kind: email
//	    name: email
//	    id: email-input
//	    bind: "form:'email' json:'user.email,omitempty'"
//	    options: {required: true}
type Definition struct {
	Fields []FieldDefinition `yaml:"fields"`
}

// FieldDefinition declares a single field.
//
// Kind defaults to "text" and ID to Name. Bind is a binding spec (see
// BindingSpec) and defaults to the source's first binding name with Name
// as identifier. A nil Validators list keeps the kind's default chain.
type FieldDefinition struct {
	Kind       string                `yaml:"kind"`
	Name       string                `yaml:"name"`
	ID         string                `yaml:"id"`
	Bind       string                `yaml:"bind"`
	Validators []ValidatorDefinition `yaml:"validators"`
	Options    map[string]any        `yaml:"options"`
}

// ValidatorDefinition names a built-in validator and the option key it
// receives.
type ValidatorDefinition struct {
	Name   string `yaml:"name"`
	Option string `yaml:"option"`
}

// Reporter receives the outcome of every field built from a Definition.
type Reporter interface {
	Success(id any) error
	Failure(id any, message string) error
}

var identifierEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// LoadDefinition decodes a YAML form definition. Unknown keys are
// rejected.
func LoadDefinition(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDefinition)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}

	if err := def.check(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadDefinitionFile is LoadDefinition for the file at path.
func LoadDefinitionFile(path string) (*Definition, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadDefinition(file)
}

func (d *Definition) check() error {
	if len(d.Fields) == 0 {
		return fmt.Errorf("%w: no fields", ErrInvalidDefinition)
	}

	for i, field := range d.Fields {
		if field.Name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalidDefinition, i)
		}
		for _, v := range field.Validators {
			if _, ok := LookupValidator(v.Name); !ok {
				return fmt.Errorf("%w: field %s: unknown validator %q", ErrInvalidDefinition, field.Name, v.Name)
			}
		}
	}
	return nil
}

// Descriptors turns the definition into handler descriptors whose fields
// read from src and report to rep.
func (d *Definition) Descriptors(src Source, rep Reporter) ([]Descriptor, error) {
	if src == nil || rep == nil {
		return nil, ErrNilConfig
	}

	descriptors := make([]Descriptor, 0, len(d.Fields))
	for _, field := range d.Fields {
		cfg, err := field.config(src, rep)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}

		kind := Kind(field.Kind)
		if kind == "" {
			kind = TextKind
		}
		descriptors = append(descriptors, Descriptor{Kind: kind, Config: cfg})
	}
	return descriptors, nil
}

// Handler builds a Handler holding every field of the definition.
func (d *Definition) Handler(src Source, rep Reporter, opts HandlerOpts) (*Handler, error) {
	descriptors, err := d.Descriptors(src, rep)
	if err != nil {
		return nil, err
	}

	handler := NewHandler(opts)
	if err := handler.MakeFields(descriptors); err != nil {
		return nil, err
	}
	return handler, nil
}

func (fd FieldDefinition) config(src Source, rep Reporter) (*Config, error) {
	spec := fd.Bind
	if spec == "" {
		names := src.BindingNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: source has no bindings", ErrInvalidDefinition)
		}
		spec = fmt.Sprintf("%s:'%s'", names[0], identifierEscaper.Replace(fd.Name))
	}

	fetch, err := Bind(src, spec)
	if err != nil {
		return nil, err
	}

	var validators []ValidatorEntry
	if fd.Validators != nil {
		validators = make([]ValidatorEntry, 0, len(fd.Validators))
		for _, v := range fd.Validators {
			fn, ok := LookupValidator(v.Name)
			if !ok {
				return nil, fmt.Errorf("%w: unknown validator %q", ErrInvalidDefinition, v.Name)
			}
			validators = append(validators, ValidatorEntry{Validator: fn, Option: v.Option})
		}
	}

	id := fd.ID
	if id == "" {
		id = fd.Name
	}

	return &Config{
		Name:       fd.Name,
		ID:         id,
		Fetch:      fetch,
		Success:    rep.Success,
		Failure:    rep.Failure,
		Validators: validators,
		Options:    maps.Clone(fd.Options),
	}, nil
}
