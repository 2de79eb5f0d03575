// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

// Package validators provides the schema checks that guard the record
// store: every create payload is validated against the schema of its
// entity before anything touches the database.
//
// Core concepts:
//   - Validator: validates one entity's field mapping. Implementations
//     encode the "well-formed record" rules of exactly one entity type.
//
// Usage patterns:
//  1. Construct the validator for an entity (NewUserValidator etc.).
//  2. Hand it to the record store bound to that entity.
//  3. The store calls Validate before every insert; a validation error
//     means nothing was written.
//
// This package decouples validation logic from storage, enabling
// reusable and testable schema rules.
package validators

import (
	"context"

	"github.com/dkotelnikov/sos-vault/models"
)

// Validator validates a create payload for one entity type.
type Validator interface {
	// Validate checks data against the entity schema. It returns nil for
	// a well-formed payload and a sentinel-wrapped error naming the
	// offending field otherwise.
	Validate(ctx context.Context, data models.Fields) error
}
