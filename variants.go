package formval

///////////////////////////////////////////////////////////////////////////////
// Default Validator Lists
///////////////////////////////////////////////////////////////////////////////

// Each call returns a fresh slice, so no two fields share a default list.

// TextValidators is the default chain of a text field.
func TextValidators() []ValidatorEntry {
	return []ValidatorEntry{
		{Validator: ValidateRequired, Option: RequiredOption},
		{Validator: ValidateMinLength, Option: MinOption},
		{Validator: ValidateMaxLength, Option: MaxOption},
		{Validator: ValidateNoHTML},
	}
}

// EmailValidators is the default chain of an E-Mail field.
func EmailValidators() []ValidatorEntry {
	return []ValidatorEntry{
		{Validator: ValidateNoHTML},
		{Validator: ValidateEmailAddress},
		{Validator: ValidateRequired, Option: RequiredOption},
	}
}

// CheckboxValidators is the default chain of a checkbox group.
func CheckboxValidators() []ValidatorEntry {
	return []ValidatorEntry{
		{Validator: ValidateNoHTML},
		{Validator: ValidateCheckbox, Option: CheckboxValuesOption},
		{Validator: ValidateRequired, Option: RequiredOption},
	}
}

// PhoneValidators is the default chain of a phone number field.
func PhoneValidators() []ValidatorEntry {
	return []ValidatorEntry{
		{Validator: ValidateNoHTML},
		{Validator: ValidatePhoneNumber},
		{Validator: ValidateRequired, Option: RequiredOption},
	}
}

///////////////////////////////////////////////////////////////////////////////
// Typed Fields
///////////////////////////////////////////////////////////////////////////////

// EmailField is a Field that by default rejects HTML, requires a well
// formed E-Mail address and honours the "required" option.
type EmailField struct {
	*Field
}

// NewEmailField creates an E-Mail field using EmailValidators by default.
func NewEmailField(cfg *Config, opts FieldOpts) (*EmailField, error) {
	f, err := newField(cfg, EmailValidators(), opts)
	if err != nil {
		return nil, err
	}
	return &EmailField{Field: f}, nil
}

// CheckboxField is a Field whose data is the list of checked values. By
// default every checked value must appear in the "checkboxValues" option.
type CheckboxField struct {
	*Field
}

// NewCheckboxField creates a checkbox group using CheckboxValidators by default.
func NewCheckboxField(cfg *Config, opts FieldOpts) (*CheckboxField, error) {
	f, err := newField(cfg, CheckboxValidators(), opts)
	if err != nil {
		return nil, err
	}
	return &CheckboxField{Field: f}, nil
}

// PhoneField is a Field that by default requires 7 to 15 digits.
type PhoneField struct {
	*Field
}

// NewPhoneField creates a phone number field using PhoneValidators by default.
func NewPhoneField(cfg *Config, opts FieldOpts) (*PhoneField, error) {
	f, err := newField(cfg, PhoneValidators(), opts)
	if err != nil {
		return nil, err
	}
	return &PhoneField{Field: f}, nil
}
