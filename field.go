package formval

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// Callbacks & Configuration
///////////////////////////////////////////////////////////////////////////////

// FetchFunc reads the raw value of the field identified by id.
//
// A returned error (or a panic) is logged and the field's data is treated
// as absent (nil).
type FetchFunc func(id any) (any, error)

// SuccessFunc is invoked once when every validator of a field passed.
type SuccessFunc func(id any) error

// FailureFunc is invoked with the message of the first failing validator.
type FailureFunc func(id any, message string) error

// ValidatorEntry pairs a validator with the name of the configuration
// option passed as its second argument. An empty Option passes nil.
type ValidatorEntry struct {
	Validator ValidatorFunc
	Option    string
}

// Option keys read by the built-in validator lists.
const (
	RequiredOption       = "required"
	MinOption            = "min"
	MaxOption            = "max"
	CheckboxValuesOption = "checkboxValues"
)

// Config is the caller supplied configuration of a single field.
//
// Name, ID, Fetch, Success and Failure are required. Validators defaults
// to the field type's own list when nil. Options holds the values that
// validator entries refer to by key (required, min, max, ...).
//
// A field keeps a pointer to its Config until it is initialized, at which
// point everything it needs is copied out. Changes made to the Config
// afterwards are not seen by the field.
type Config struct {
	Name       string
	ID         any
	Fetch      FetchFunc
	Success    SuccessFunc
	Failure    FailureFunc
	Validators []ValidatorEntry
	Options    map[string]any
}

// Option returns the option stored under key. A missing key, or a nil
// value, is a *ConfigError naming the key.
func (c *Config) Option(key string) (any, error) {
	return lookupOption(c.Options, key)
}

func lookupOption(options map[string]any, key string) (any, error) {
	value, ok := options[key]
	if !ok || value == nil {
		return nil, missingKey(key)
	}
	return value, nil
}

// Value is the result of a field that passed validation.
type Value struct {
	Name  string
	Value any
}

///////////////////////////////////////////////////////////////////////////////
// Field
///////////////////////////////////////////////////////////////////////////////

// Behavior is the capability set shared by every field type.
type Behavior interface {
	// Init resolves the configuration. It is called by GetData when needed.
	Init() error
	// GetData fetches and validates the field's data. The bool is false
	// when a validator rejected the data. The error is reserved for
	// configuration errors.
	GetData() (Value, bool, error)
	// Validate runs the validator chain against data and dispatches the
	// success or failure callback.
	Validate(data any) (bool, error)
	// Name returns the resolved field name, or "" before initialization.
	Name() string
}

// Field is a single validated input: configuration, fetch accessor,
// validator chain and success/failure dispatch.
//
// The typed variants (EmailField, CheckboxField, PhoneField) are Fields
// built with a different default validator list.
type Field struct {
	cfg      *Config
	defaults []ValidatorEntry
	logger   *zap.Logger

	isInitialized bool
	name          string
	id            any
	fetch         FetchFunc
	success       SuccessFunc
	failure       FailureFunc
	validators    []ValidatorEntry
	options       map[string]any
}

type FieldOpts struct {
	// Logger receives diagnostics about swallowed callback failures.
	// Defaults to a no-op logger.
	Logger *zap.Logger
}

var _ Behavior = (*Field)(nil)

// NewField creates a text field. Its default validators are, in order:
// required, minimum length, maximum length and no-HTML.
func NewField(cfg *Config, opts FieldOpts) (*Field, error) {
	return newField(cfg, TextValidators(), opts)
}

func newField(cfg *Config, defaults []ValidatorEntry, opts FieldOpts) (*Field, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Field{
		cfg:      cfg,
		defaults: defaults,
		logger:   logger,
	}, nil
}

// Init resolves name, id, fetch, success and failure from the
// configuration, returning a *ConfigError naming the first missing key.
// The validator list falls back to the field type's defaults.
//
// Calling Init on an initialized field is a no-op.
func (f *Field) Init() error {
	if f.isInitialized {
		return nil
	}

	cfg := f.cfg
	switch {
	case cfg.Name == "":
		return missingKey("name")
	case cfg.ID == nil:
		return missingKey("id")
	case cfg.Fetch == nil:
		return missingKey("fetch")
	case cfg.Success == nil:
		return missingKey("success")
	case cfg.Failure == nil:
		return missingKey("failure")
	}

	validators := cfg.Validators
	if validators == nil {
		validators = f.defaults
	}

	f.name = cfg.Name
	f.id = cfg.ID
	f.fetch = cfg.Fetch
	f.success = cfg.Success
	f.failure = cfg.Failure
	f.validators = slices.Clone(validators)
	f.options = maps.Clone(cfg.Options)
	f.isInitialized = true

	return nil
}

// IsInitialized reports whether Init has completed.
func (f *Field) IsInitialized() bool {
	return f.isInitialized
}

func (f *Field) Name() string {
	return f.name
}

func (f *Field) ID() any {
	return f.id
}

// Validators returns a copy of the resolved validator list.
func (f *Field) Validators() []ValidatorEntry {
	return slices.Clone(f.validators)
}

// GetData initializes the field if needed, fetches its data and runs it
// through Validate.
func (f *Field) GetData() (Value, bool, error) {
	if err := f.Init(); err != nil {
		return Value{}, false, err
	}

	data := f.fetchData()

	ok, err := f.Validate(data)
	if err != nil || !ok {
		return Value{}, false, err
	}

	return Value{Name: f.name, Value: data}, true, nil
}

// Validate runs the validator chain against data.
//
// The chain stops at the first validator that returns a message: the
// failure callback is invoked with it and Validate returns false. When
// every validator passes the success callback is invoked.
func (f *Field) Validate(data any) (bool, error) {
	if err := f.Init(); err != nil {
		return false, err
	}

	for i, entry := range f.validators {
		if entry.Validator == nil {
			return false, fmt.Errorf("field %s, validator %d: %w", f.name, i, ErrNilValidator)
		}

		option, err := f.option(entry.Option)
		if err != nil {
			return false, err
		}

		message, err := entry.Validator(data, option)
		if err != nil {
			return false, fmt.Errorf("field %s: %w", f.name, err)
		}

		if message != Valid {
			f.useCallback("failure", func() error {
				return f.failure(f.id, message)
			})
			return false, nil
		}
	}

	f.useCallback("success", func() error {
		return f.success(f.id)
	})
	return true, nil
}

// option resolves an option key. An empty key resolves to nil.
func (f *Field) option(key string) (any, error) {
	if key == "" {
		return nil, nil
	}

	return lookupOption(f.options, key)
}

// fetchData invokes the fetch accessor. Errors and panics are logged and
// yield nil.
func (f *Field) fetchData() (data any) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("panic fetching field data",
				zap.String("field", f.name),
				zap.Any("id", f.id),
				zap.Any("panic", r),
			)
			data = nil
		}
	}()

	data, err := f.fetch(f.id)
	if err != nil {
		f.logger.Warn("error fetching field data",
			zap.String("field", f.name),
			zap.Any("id", f.id),
			zap.Error(err),
		)
		return nil
	}
	return data
}

// useCallback runs a caller supplied callback. Errors and panics are
// logged and never reach the validation pipeline.
func (f *Field) useCallback(kind string, callback func() error) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Warn("panic running callback",
				zap.String("callback", kind),
				zap.String("field", f.name),
				zap.Any("id", f.id),
				zap.Any("panic", r),
			)
		}
	}()

	if err := callback(); err != nil {
		f.logger.Warn("error running callback",
			zap.String("callback", kind),
			zap.String("field", f.name),
			zap.Any("id", f.id),
			zap.Error(err),
		)
	}
}
