package formval

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Descriptor declares one field of a Handler: its kind and configuration.
type Descriptor struct {
	Kind   Kind
	Config *Config
}

// Handler owns an ordered list of fields, validates them as a group and
// assembles their values.
//
// Fields are evaluated in the order they were added. Unlike a field's own
// validator chain, a Handler never stops early: every field is fetched and
// validated, and its callbacks fire, on every pass.
type Handler struct {
	fields   []Behavior
	registry *Registry
	logger   *zap.Logger
}

type HandlerOpts struct {
	// Logger is shared with every field the Handler constructs.
	// Defaults to a no-op logger.
	Logger *zap.Logger
	// Registry resolves field kinds. Defaults to the global registry.
	Registry *Registry
}

// NewHandler creates an empty Handler.
func NewHandler(opts HandlerOpts) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := opts.Registry
	if registry == nil {
		registry = _globalRegistry
	}

	return &Handler{
		registry: registry,
		logger:   logger,
	}
}

// AddField constructs a field of the given kind and appends it.
func (h *Handler) AddField(kind Kind, cfg *Config) error {
	if cfg == nil {
		return ErrConfigNotObject
	}

	field, err := h.registry.New(kind, cfg, FieldOpts{Logger: h.logger})
	if err != nil {
		return err
	}

	h.fields = append(h.fields, field)
	return nil
}

// Add appends already constructed fields. nil fields, including typed nil
// pointers, are skipped.
func (h *Handler) Add(fields ...Behavior) {
	for _, field := range fields {
		if IsAbsent(field) {
			continue
		}
		h.fields = append(h.fields, field)
	}
}

// MakeFields calls AddField for each descriptor, in order, stopping at the
// first error. A nil list is rejected.
func (h *Handler) MakeFields(entries []Descriptor) error {
	if entries == nil {
		return ErrNotSequence
	}

	for i, entry := range entries {
		if err := h.AddField(entry.Kind, entry.Config); err != nil {
			return fmt.Errorf("descriptor %d: %w", i, err)
		}
	}
	return nil
}

// Fields returns the owned fields in evaluation order.
func (h *Handler) Fields() []Behavior {
	return slices.Clone(h.fields)
}

func (h *Handler) Len() int {
	return len(h.fields)
}

// ValidateFields evaluates every field and reports whether all of them
// passed.
func (h *Handler) ValidateFields() (bool, error) {
	_, ok, err := h.evaluate()
	return ok, err
}

// GetData evaluates every field once and, when all of them passed,
// returns their values keyed by field name. When two fields share a name
// the later one wins.
func (h *Handler) GetData() (map[string]any, bool, error) {
	values, ok, err := h.evaluate()
	if err != nil || !ok {
		return nil, false, err
	}

	data := make(map[string]any, len(values))
	for _, v := range values {
		data[v.Name] = v.Value
	}
	return data, true, nil
}

// evaluate runs GetData on every field. A configuration error stops the
// pass immediately.
func (h *Handler) evaluate() ([]Value, bool, error) {
	logger := h.logger.With(zap.String("pass", uuid.NewString()))

	values := make([]Value, 0, len(h.fields))
	valid := true

	for i, field := range h.fields {
		value, ok, err := field.GetData()
		if err != nil {
			logger.Error("field configuration error", zap.Int("index", i), zap.Error(err))
			return nil, false, fmt.Errorf("field %d: %w", i, err)
		}

		if !ok {
			valid = false
			continue
		}
		values = append(values, value)
	}

	logger.Debug("validated fields",
		zap.Int("fields", len(h.fields)),
		zap.Int("passed", len(values)),
		zap.Bool("valid", valid),
	)

	return values, valid, nil
}
