// Package formval validates form fields.
//
// A field reads its raw value through a caller supplied fetch accessor,
// runs it through an ordered list of validators and reports the outcome
// through success and failure callbacks:
//
//	field, err := formval.NewField(&formval.Config{
//		Name:    "username",
//		ID:      "username-input",
//		Fetch:   fetch,
//		Success: onSuccess,
//		Failure: onFailure,
//		Options: map[string]any{"required": true, "min": 3, "max": 10},
//	}, formval.FieldOpts{})
//
// The validator chain stops at the first failing validator, whose message
// is handed to the failure callback. Configuration problems such as a
// missing option are returned as errors and never reach the callbacks.
//
// The package provides the following field types:
//   - Field: required, minimum length, maximum length and no-HTML checks
//   - EmailField: no-HTML, E-Mail address and required checks
//   - CheckboxField: no-HTML, allowed checkbox values and required checks
//   - PhoneField: no-HTML, phone number and required checks
//
// A Handler groups fields, validates all of them on every pass and, when
// every field passed, assembles their values into one name to value map.
// Fields are created from (kind, configuration) descriptors through a
// Registry, which custom field kinds can be added to.
//
// Fetch accessors can be written by hand or built from a binding spec
// against a Source:
//
//	fetch, err := formval.Bind(src, "form:'email,omitempty' json:'user.email' default:'none'")
//
// Built-in sources read from JSON documents (JSONSource), HTTP requests
// (RequestSource, shared per request by a RequestBinder) and plain maps
// (MapSource). Whole forms can also be declared in YAML and loaded with
// LoadDefinition.
package formval
