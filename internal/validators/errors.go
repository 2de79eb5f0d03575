package validators

import "errors"

// Sentinel validation errors. They are wrapped with the offending field
// name; match with [errors.Is].
var (
	ErrMissingField     = errors.New("required field is missing")
	ErrUnknownField     = errors.New("unknown field for entity")
	ErrInvalidFieldType = errors.New("field value has invalid type")
	ErrEmptyField       = errors.New("field value must not be empty")
)
