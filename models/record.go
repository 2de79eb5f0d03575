// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

// Package models defines the persisted entities of the vault (User,
// Category, Unit) together with the filter and field mappings that the
// generic record store and the vault proxy exchange.
package models

// EntityKind identifies which entity type a record store is bound to.
// The vault proxy matches on it to decide where credential hashing and
// secret encryption apply.
type EntityKind string

const (
	KindUser     EntityKind = "user"
	KindCategory EntityKind = "category"
	KindUnit     EntityKind = "unit"
)

// Record is the common shape of every persisted entity.
type Record interface {
	// TableName returns the database table the record lives in.
	TableName() string

	// RecordID returns the surrogate key of the record.
	RecordID() string
}

// Filters is an equality filter set keyed by column name. A nil or empty
// Filters matches every record of the bound entity.
type Filters map[string]any

// Fields is a column-to-value mapping used as the payload of create and
// update operations.
type Fields map[string]any

// Column names shared by the store, the validators and the vault proxy.
// FieldPassword never reaches storage: the proxy pops it and stores the
// derived verifier instead.
const (
	FieldID               = "id"
	FieldUsername         = "username"
	FieldPassword         = "password"
	FieldPasswordVerifier = "password_verifier"
	FieldName             = "name"
	FieldOwnerID          = "owner_id"
	FieldLogin            = "login"
	FieldSecret           = "secret"
	FieldCategoryID       = "category_id"
	FieldURL              = "url"
	FieldAlias            = "alias"
)

// PopString removes key from f and returns its value as a string.
// The second return value reports whether the key was present and held a
// non-empty string.
func (f Fields) PopString(key string) (string, bool) {
	v, ok := f[key]
	if !ok {
		return "", false
	}
	delete(f, key)

	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// PopString removes key from f and returns its value as a string, with
// the same semantics as [Fields.PopString].
func (f Filters) PopString(key string) (string, bool) {
	return Fields(f).PopString(key)
}

// Clone returns a shallow copy of f. The proxy mutates payloads in place
// (popping credentials, replacing secrets), so callers that need to keep
// the original intact hand the proxy a clone.
func (f Fields) Clone() Fields {
	cp := make(Fields, len(f))
	for k, v := range f {
		cp[k] = v
	}
	return cp
}

// Clone returns a shallow copy of f.
func (f Filters) Clone() Filters {
	return Filters(Fields(f).Clone())
}
