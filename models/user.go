package models

// User represents a vault account. It contains identity attributes and
// credential-related data. Sensitive fields must never be exposed outside
// trusted boundaries.
type User struct {
	// ID is the surrogate key of the account, assigned by the store.
	ID string `json:"-"`

	// Username is the unique, case-sensitive account name. It participates
	// in key derivation, so it is immutable except through the explicit
	// credential rotation operation.
	Username string `json:"username"`

	// PasswordVerifier is the one-way derived value checked at login.
	// It MUST be a KDF output, never a plaintext password, and it is
	// independent from the encryption key derived from the same
	// credentials.
	PasswordVerifier string `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// RecordID returns the surrogate key of the user.
func (u User) RecordID() string {
	return u.ID
}
