package vault

import "errors"

// Sentinel errors returned by proxy operations. Callers match them with
// [errors.Is]. Store-level sentinels (not found, already exists) and
// crypto.ErrDecryptionFailed pass through the proxy untouched so that a
// front end can tell "no such login" from "wrong password".
var (
	// ErrTypeMismatch is returned when an entity-specific operation is
	// invoked while the proxy is bound to the wrong manager (e.g.
	// CheckPassword against the unit manager). This is a
	// programming-contract violation, not a user input problem.
	ErrTypeMismatch = errors.New("operation is invalid for the bound entity type")

	// ErrWrongCredentials is returned when a supplied username/password
	// pair does not verify against the users table. Write operations
	// (CreateRecord for units, UpdateSecret, RotateCredentials) check
	// credentials up front so a wrong password can never write a secret
	// under a key its owner cannot re-derive. RevealSecret instead lets
	// decryption prove the password and fails with
	// crypto.ErrDecryptionFailed.
	ErrWrongCredentials = errors.New("wrong username or password")

	// ErrCredentialsRequired is returned when an operation that needs
	// credentials (for key derivation) did not receive both username and
	// password in its payload.
	ErrCredentialsRequired = errors.New("username and password must be provided")
)
