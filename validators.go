package formval

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Valid is the result a ValidatorFunc returns when data passes.
const Valid = ""

// ValidatorFunc checks a single rule against data.
//
// It returns Valid ("") when data passes and a non-empty, human readable
// message when it does not. A non-nil error means the validator itself
// is misconfigured (e.g. a missing bound) and is never shown to a user.
//
// option is the resolved value of the ValidatorEntry's Option key, or nil
// when the entry names no option.
type ValidatorFunc func(data any, option any) (string, error)

// Failure messages of the built-in validators.
const (
	MsgRequired       = "This field is required"
	MsgNoHTML         = "This form doesn't accept html"
	MsgEmailInvalid   = "Your E-Mail address appears invalid"
	MsgEmailLength    = "An E-Mail address must be between 1-254 characters"
	MsgEmailLocalLong = "The part before the '@' in your E-Mail is too long"
	MsgEmailHostLong  = "The part after the '@' in your E-Mail is too long"
	MsgCheckbox       = "Something is wrong with the form, please reload the page"
	MsgPhoneInvalid   = "Your Phone Number appears invalid"
	MsgPhoneShort     = "Your Phone Number should be at least 7 digits"
	MsgPhoneLong      = "Your Phone Number shouldn't have more than 15 digits"
	MsgUUIDInvalid    = "Your identifier appears invalid"
)

const (
	maxEmailLength      = 254
	maxEmailLocalLength = 64
	maxEmailHostLength  = 189
	minPhoneDigits      = 7
	maxPhoneDigits      = 15
)

const emailLocalChars = "[a-z0-9!#$%&'*+/=?^_`{|}~-]"

var (
	htmlTagRegex = regexp.MustCompile(`(?s)<.*?>`)

	// group 1 is the local part, group 2 the domain
	emailRegex = regexp.MustCompile(
		`(?i)^(` + emailLocalChars + `+(?:\.` + emailLocalChars + `+)*)` +
			`@((?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.?)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)$`,
	)
)

///////////////////////////////////////////////////////////////////////////////
// Built-in Validators
///////////////////////////////////////////////////////////////////////////////

// ValidateRequired fails when required is exactly true and data is not
// present (see IsPresent). Any other value of required always passes.
func ValidateRequired(data any, required any) (string, error) {
	if r, ok := required.(bool); !ok || !r {
		return Valid, nil
	}

	if IsPresent(data) {
		return Valid, nil
	}
	return MsgRequired, nil
}

// ValidateMinLength requires data to be at least min characters long.
// Absent data always fails. A missing min is a configuration error.
func ValidateMinLength(data any, min any) (string, error) {
	if IsAbsent(min) {
		return Valid, ErrMissingMinimum
	}

	bound, err := toBound(min)
	if err != nil {
		return Valid, err
	}

	if IsAbsent(data) || lengthOf(data) < bound {
		return fmt.Sprintf("You need a minimum of %d characters in this field", bound), nil
	}
	return Valid, nil
}

// ValidateMaxLength requires data to be at most max characters long.
// Absent data counts as length 0. A missing max is a configuration error.
func ValidateMaxLength(data any, max any) (string, error) {
	if IsAbsent(max) {
		return Valid, ErrMissingMaximum
	}

	bound, err := toBound(max)
	if err != nil {
		return Valid, err
	}

	if lengthOf(data) > bound {
		return fmt.Sprintf("You can have a maximum of %d characters in this field", bound), nil
	}
	return Valid, nil
}

// ValidateNoHTML rejects anything that looks like a markup tag, including
// tags broken up by newlines. Absent data passes.
func ValidateNoHTML(data any, _ any) (string, error) {
	if IsAbsent(data) {
		return Valid, nil
	}

	if htmlTagRegex.MatchString(toText(data)) {
		return MsgNoHTML, nil
	}
	return Valid, nil
}

// ValidateEmailAddress checks the overall shape of an E-Mail address and
// the length limits of each part.
//
// Matching is case-insensitive, so "Bob@Example.COM" passes. Earlier
// versions of this form validation rejected upper case letters.
func ValidateEmailAddress(email any, _ any) (string, error) {
	if IsAbsent(email) {
		return MsgEmailInvalid, nil
	}

	address := strings.TrimSpace(toText(email))
	if utf8.RuneCountInString(address) > maxEmailLength {
		return MsgEmailLength, nil
	}

	match := emailRegex.FindStringSubmatch(address)
	if match == nil {
		return MsgEmailInvalid, nil
	}

	local, host := match[1], match[2]
	switch {
	case len(local) > maxEmailLocalLength:
		return MsgEmailLocalLong, nil
	case len(host) > maxEmailHostLength:
		return MsgEmailHostLong, nil
	case len(local) < 1 || len(host) < 1:
		return MsgEmailInvalid, nil
	default:
		return Valid, nil
	}
}

// ValidateCheckbox requires data to be a sequence whose every element is
// one of allowed. An empty selection passes.
//
// Only a tampered or broken form can fail this check, so the message asks
// the user to reload.
func ValidateCheckbox(data any, allowed any) (string, error) {
	selected, ok := asSequence(data)
	if !ok {
		return MsgCheckbox, nil
	}

	if len(selected) == 0 {
		return Valid, nil
	}

	choices, _ := asSequence(allowed)
	for _, value := range selected {
		if !containsValue(choices, value) {
			return MsgCheckbox, nil
		}
	}
	return Valid, nil
}

// ValidatePhoneNumber counts the digits of number, ignoring every other
// character, and requires between 7 and 15 of them.
func ValidatePhoneNumber(number any, _ any) (string, error) {
	if IsAbsent(number) {
		return MsgPhoneInvalid, nil
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, toText(number))

	switch {
	case len(digits) < minPhoneDigits:
		return MsgPhoneShort, nil
	case len(digits) > maxPhoneDigits:
		return MsgPhoneLong, nil
	default:
		return Valid, nil
	}
}

// ValidateUUID requires data to be a canonical, hyphenated UUID string.
func ValidateUUID(data any, _ any) (string, error) {
	if IsAbsent(data) {
		return MsgUUIDInvalid, nil
	}

	value := strings.TrimSpace(toText(data))

	// cheap shape check before parsing
	if len(value) != 36 || value[8] != '-' || value[13] != '-' || value[18] != '-' || value[23] != '-' {
		return MsgUUIDInvalid, nil
	}

	if _, err := uuid.Parse(value); err != nil {
		return MsgUUIDInvalid, nil
	}
	return Valid, nil
}

///////////////////////////////////////////////////////////////////////////////
// Validator Lookup
///////////////////////////////////////////////////////////////////////////////

// Names of the built-in validators, as used by form definitions.
const (
	RequiredValidatorName  = "required"
	MinLengthValidatorName = "minLength"
	MaxLengthValidatorName = "maxLength"
	NoHTMLValidatorName    = "noHtml"
	EmailValidatorName     = "email"
	CheckboxValidatorName  = "checkbox"
	PhoneValidatorName     = "phone"
	UUIDValidatorName      = "uuid"
)

var _builtinValidators = map[string]ValidatorFunc{
	RequiredValidatorName:  ValidateRequired,
	MinLengthValidatorName: ValidateMinLength,
	MaxLengthValidatorName: ValidateMaxLength,
	NoHTMLValidatorName:    ValidateNoHTML,
	EmailValidatorName:     ValidateEmailAddress,
	CheckboxValidatorName:  ValidateCheckbox,
	PhoneValidatorName:     ValidatePhoneNumber,
	UUIDValidatorName:      ValidateUUID,
}

// LookupValidator returns the built-in validator registered under name.
func LookupValidator(name string) (ValidatorFunc, bool) {
	fn, ok := _builtinValidators[name]
	return fn, ok
}
