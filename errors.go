package formval

import (
	"errors"
	"fmt"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

// Configuration errors. These represent programmer error and are always
// returned to the caller, never routed to a failure callback.
var (
	ErrNilConfig         = errors.New("no configuration was provided")
	ErrMissingKey        = errors.New("was not given in the configuration but is needed")
	ErrMissingMinimum    = errors.New("no minimum value was provided")
	ErrMissingMaximum    = errors.New("no maximum value was provided")
	ErrInvalidBound      = errors.New("length bound is not an integer")
	ErrConfigNotObject   = errors.New("the configuration for AddField must be a non-nil *Config")
	ErrNotSequence       = errors.New("MakeFields accepts a list of field kinds and their configurations")
	ErrUnknownKind       = errors.New("unknown field kind")
	ErrKindRegistered    = errors.New("a constructor for this field kind is already registered")
	ErrNilValidator      = errors.New("validator entry has no validator function")
	ErrInvalidDefinition = errors.New("invalid form definition")
)

// ConfigError is returned when a field cannot resolve a configuration key,
// either one of the required keys or an option named by a validator entry.
type ConfigError struct {
	Key string
	err error
}

// Error implements the error interface
func (ce *ConfigError) Error() string {
	return fmt.Sprintf("%s %s", ce.Key, ce.err.Error())
}

// Unwrap lets errors.Is match the underlying sentinel.
func (ce *ConfigError) Unwrap() error {
	return ce.err
}

func missingKey(key string) error {
	return &ConfigError{Key: key, err: ErrMissingKey}
}

// IsConfigError reports whether err is (or wraps) a configuration error
// raised by this package.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}

	var ce *ConfigError
	if errors.As(err, &ce) {
		return true
	}

	for _, sentinel := range []error{
		ErrNilConfig,
		ErrMissingMinimum,
		ErrMissingMaximum,
		ErrInvalidBound,
		ErrConfigNotObject,
		ErrNotSequence,
		ErrUnknownKind,
		ErrKindRegistered,
		ErrNilValidator,
		ErrInvalidDefinition,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
