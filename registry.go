package formval

import (
	"fmt"
	"slices"
	"sync"
)

// Kind names a field type in a descriptor, e.g. "text" or "email".
type Kind string

// Built-in field kinds.
const (
	TextKind     Kind = "text"
	EmailKind    Kind = "email"
	CheckboxKind Kind = "checkbox"
	PhoneKind    Kind = "phone"
)

// Constructor builds a field of one kind from its configuration.
type Constructor func(cfg *Config, opts FieldOpts) (Behavior, error)

// Registry maps field kinds to their constructors.
//
// A Handler uses a Registry to turn (kind, configuration) descriptors into
// fields. Unless a Handler is given its own, the package-level registry is
// used, which knows the built-in kinds and anything added with
// RegisterKind.
type Registry struct {
	mu sync.RWMutex
	m  map[Kind]Constructor
}

type RegistryOpts struct {
	Constructors    map[Kind]Constructor
	ExcludeDefaults bool
}

var (
	_defaultConstructors = map[Kind]Constructor{
		TextKind:     ConstructorOf(NewField),
		EmailKind:    ConstructorOf(NewEmailField),
		CheckboxKind: ConstructorOf(NewCheckboxField),
		PhoneKind:    ConstructorOf(NewPhoneField),
	}
)

// ConstructorOf adapts a typed field constructor such as NewEmailField to
// a Constructor.
func ConstructorOf[F Behavior](newFn func(cfg *Config, opts FieldOpts) (F, error)) Constructor {
	return func(cfg *Config, opts FieldOpts) (Behavior, error) {
		f, err := newFn(cfg, opts)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// NewRegistry creates a Registry holding the built-in kinds, unless
// ExcludeDefaults is set, and every constructor in opts.
func NewRegistry(opts RegistryOpts) (*Registry, error) {
	reg := &Registry{
		m: make(map[Kind]Constructor),
	}

	if !opts.ExcludeDefaults {
		for kind, ctor := range _defaultConstructors {
			if err := reg.Register(kind, ctor); err != nil {
				return nil, err
			}
		}
	}

	for kind, ctor := range opts.Constructors {
		if err := reg.Register(kind, ctor); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register adds a constructor for kind. Registering the same kind twice
// is an error.
func (reg *Registry) Register(kind Kind, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("kind %q: constructor cannot be nil", kind)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.m[kind]; exists {
		return fmt.Errorf("%w: %s", ErrKindRegistered, kind)
	}

	reg.m[kind] = ctor
	return nil
}

// New constructs a field of the given kind.
func (reg *Registry) New(kind Kind, cfg *Config, opts FieldOpts) (Behavior, error) {
	reg.mu.RLock()
	ctor, exists := reg.m[kind]
	reg.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return ctor(cfg, opts)
}

// Has reports whether kind has a registered constructor.
func (reg *Registry) Has(kind Kind) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	_, exists := reg.m[kind]
	return exists
}

// Kinds returns the registered kinds in sorted order.
func (reg *Registry) Kinds() []Kind {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	kinds := make([]Kind, 0, len(reg.m))
	for kind := range reg.m {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _globalRegistry *Registry = nil

func init() {
	var err error
	_globalRegistry, err = NewRegistry(RegistryOpts{})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize global registry: %v", err))
	}
}

// RegisterKind registers a field kind with the global registry.
func RegisterKind(kind Kind, ctor Constructor) error {
	return _globalRegistry.Register(kind, ctor)
}

// DefaultRegistry returns the global registry.
func DefaultRegistry() *Registry {
	return _globalRegistry
}
