// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package validators

import (
	"context"
	"fmt"

	"github.com/dkotelnikov/sos-vault/models"
)

// schemaValidator validates a field mapping against a fixed schema:
// required fields must be present as non-empty strings, optional fields
// may be absent, nil or a (possibly nil) *string, and any other field is
// rejected.
type schemaValidator struct {
	kind     models.EntityKind
	required []string
	optional []string
}

// NewUserValidator returns the schema validator for user records.
// The payload carries the derived verifier, never the raw password;
// the vault proxy performs that substitution before the store validates.
func NewUserValidator() Validator {
	return &schemaValidator{
		kind:     models.KindUser,
		required: []string{models.FieldUsername, models.FieldPasswordVerifier},
	}
}

// NewCategoryValidator returns the schema validator for category records.
func NewCategoryValidator() Validator {
	return &schemaValidator{
		kind:     models.KindCategory,
		required: []string{models.FieldName},
	}
}

// NewUnitValidator returns the schema validator for unit records. The
// secret field is the already-encrypted blob; cleartext never reaches
// this layer.
func NewUnitValidator() Validator {
	return &schemaValidator{
		kind:     models.KindUnit,
		required: []string{models.FieldOwnerID, models.FieldLogin, models.FieldSecret},
		optional: []string{models.FieldCategoryID, models.FieldURL, models.FieldAlias},
	}
}

// Validate implements [Validator].
func (v *schemaValidator) Validate(_ context.Context, data models.Fields) error {
	for _, field := range v.required {
		value, ok := data[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingField, field)
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s", ErrInvalidFieldType, field)
		}
		if s == "" {
			return fmt.Errorf("%w: %s", ErrEmptyField, field)
		}
	}

	for field, value := range data {
		if v.isRequired(field) {
			continue
		}
		if !v.isOptional(field) {
			return fmt.Errorf("%w: %s (%s)", ErrUnknownField, field, v.kind)
		}
		if !isNullableString(value) {
			return fmt.Errorf("%w: %s", ErrInvalidFieldType, field)
		}
	}

	return nil
}

func (v *schemaValidator) isRequired(field string) bool {
	for _, f := range v.required {
		if f == field {
			return true
		}
	}
	return false
}

func (v *schemaValidator) isOptional(field string) bool {
	for _, f := range v.optional {
		if f == field {
			return true
		}
	}
	return false
}

// isNullableString accepts the representations an optional column value
// may arrive in: absent handled by the caller, nil, a string, or a
// *string (nil pointer included).
func isNullableString(value any) bool {
	switch value.(type) {
	case nil, string, *string:
		return true
	default:
		return false
	}
}
