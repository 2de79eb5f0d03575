package store

import "errors"

// Sentinel errors returned by record store methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrRecordNotFound is returned by Get when no record matches the
	// supplied filters. Callers that treat absence as a normal outcome
	// (existence probes) swallow it; callers that require a match
	// propagate it.
	ErrRecordNotFound = errors.New("no record was found")

	// ErrAlreadyExists is returned when an insert violates a uniqueness
	// rule of the bound entity (duplicate username, duplicate login per
	// owner, duplicate category name). The store is left unchanged.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrStoreFailure wraps genuine persistence faults (connection loss,
	// malformed statements, driver errors). It is never used for
	// validation rejections or zero-match writes.
	ErrStoreFailure = errors.New("persistence operation failed")

	// ErrNoFieldsToUpdate is returned by Update when the data payload is
	// empty: an UPDATE without a SET clause is a programming error, not a
	// no-op.
	ErrNoFieldsToUpdate = errors.New("at least one field must be provided for update")
)

// Low-level database operation errors. These are wrapped by record store
// methods when a SQL-level operation fails before any domain logic can be
// applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised
	// SQL query fails (e.g. unsupported filter value type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrScanningRow is returned when scanning column values from a
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan record row")
)
