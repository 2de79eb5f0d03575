package store

import (
	"context"

	"github.com/dkotelnikov/sos-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/record_store_mock.go -package=mock

// RecordStore is the generic persistence surface of the vault. One
// instance is permanently bound to a single entity type (its table,
// schema validator and row shape); the vault proxy dispatches all CRUD
// traffic through this interface and inspects Kind to enforce
// entity-specific behavior.
//
// Filter semantics are equality-only: every key/value pair of a
// [models.Filters] must match. An empty filter set matches everything.
type RecordStore interface {
	// Kind reports which entity type this store is bound to.
	Kind() models.EntityKind

	// Get returns the first record matching filters, or
	// [ErrRecordNotFound] when nothing matches. Absence is an expected
	// outcome, not a store fault.
	Get(ctx context.Context, filters models.Filters) (models.Record, error)

	// GetMany returns every record matching filters, ordered by the
	// entity's display column. An empty result is a nil-error empty
	// slice.
	GetMany(ctx context.Context, filters models.Filters) ([]models.Record, error)

	// Create validates data against the bound schema and inserts a new
	// record with a fresh surrogate key. Validation failures and unique
	// constraint violations reject the payload without touching the
	// store.
	Create(ctx context.Context, data models.Fields) error

	// Update applies data to every record matching filters. Matching
	// zero records is success; only a genuine persistence fault is an
	// error.
	Update(ctx context.Context, filters models.Filters, data models.Fields) error

	// Delete removes every record matching filters, with the same
	// zero-match-is-success semantics as Update.
	Delete(ctx context.Context, filters models.Filters) error
}
