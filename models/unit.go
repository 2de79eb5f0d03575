package models

// Unit is one stored login/secret pair owned by a user. The secret is
// kept as an opaque base64 ciphertext blob and is never persisted in
// cleartext; decryption requires re-deriving the owner's key from their
// credentials.
type Unit struct {
	// ID is the surrogate key of the unit.
	ID string `json:"-"`

	// OwnerID references the owning user. Units are deleted together
	// with their owner.
	OwnerID string `json:"-"`

	// Login is the stored account login, unique per owner.
	Login string `json:"login"`

	// Secret is the encrypted secret blob (nonce-prefixed AES-GCM
	// ciphertext, base64 encoded).
	Secret string `json:"-"`

	// CategoryID optionally references a category. Deleting the category
	// nullifies the reference, it never deletes the unit.
	CategoryID *string `json:"category_id,omitempty"`

	// URL is an optional address the login belongs to.
	URL *string `json:"url,omitempty"`

	// Alias is an optional human-friendly label for the unit.
	Alias *string `json:"alias,omitempty"`
}

// TableName returns the name of the database table
// associated with the Unit model.
func (u Unit) TableName() string {
	return "units"
}

// RecordID returns the surrogate key of the unit.
func (u Unit) RecordID() string {
	return u.ID
}
