// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

// Package vault implements the orchestration layer of the credential
// vault: it authenticates users, derives keys, encrypts secrets on the
// way into the record store and decrypts them on the way out, and
// dispatches generic CRUD calls to whichever entity manager is currently
// bound.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkotelnikov/sos-vault/internal/crypto"
	"github.com/dkotelnikov/sos-vault/internal/logger"
	"github.com/dkotelnikov/sos-vault/internal/store"
	"github.com/dkotelnikov/sos-vault/models"
)

// Proxy holds exactly one currently bound entity manager and routes all
// CRUD traffic through it. Rebinding is an explicit operation; there are
// no implicit transitions. A Proxy additionally keeps a permanent
// reference to the user manager, because every credential check and every
// owner resolution goes through the users table regardless of the bound
// entity.
//
// A Proxy instance is meant to live for one session; concurrent callers
// should each construct their own.
type Proxy struct {
	bound    store.RecordStore
	users    store.RecordStore
	keychain crypto.KeyChain
	cipher   crypto.Cipher
	logger   *logger.Logger
}

// NewProxy constructs a Proxy initially bound to bound. users must be the
// user manager; it is the authentication authority for the lifetime of
// the proxy.
func NewProxy(bound, users store.RecordStore, keychain crypto.KeyChain, cipher crypto.Cipher, log *logger.Logger) (*Proxy, error) {
	if users == nil || users.Kind() != models.KindUser {
		return nil, fmt.Errorf("%w: users manager is required", ErrTypeMismatch)
	}
	if bound == nil {
		bound = users
	}

	return &Proxy{
		bound:    bound,
		users:    users,
		keychain: keychain,
		cipher:   cipher,
		logger:   log,
	}, nil
}

// Rebind switches the proxy to a different entity manager. This is the
// only state transition of the proxy.
func (p *Proxy) Rebind(manager store.RecordStore) {
	p.logger.Debug().
		Str("from", string(p.bound.Kind())).
		Str("to", string(manager.Kind())).
		Msg("rebinding proxy")
	p.bound = manager
}

// Manager returns the currently bound entity manager.
func (p *Proxy) Manager() store.RecordStore {
	return p.bound
}

// CheckExists probes the bound manager for a record matching filters.
// No decryption is involved; absence is not an error.
func (p *Proxy) CheckExists(ctx context.Context, filters models.Filters) (bool, error) {
	_, err := p.bound.Get(ctx, filters)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreateRecord creates a record through the bound manager, applying the
// entity-specific credential handling first:
//
//   - user manager: data must carry username and password; the raw
//     password is popped and replaced with the derived verifier.
//   - unit manager: data must carry username, password and a cleartext
//     secret; the credentials are popped and verified, the owner is
//     resolved from them, and the secret is encrypted in place.
//   - category manager: data passes through untouched.
//
// The caller's map is never mutated; the proxy works on a clone.
func (p *Proxy) CreateRecord(ctx context.Context, data models.Fields) error {
	payload := data.Clone()

	switch p.bound.Kind() {
	case models.KindUser:
		username, okUser := payload[models.FieldUsername].(string)
		password, okPass := payload.PopString(models.FieldPassword)
		if !okUser || username == "" || !okPass {
			return ErrCredentialsRequired
		}
		payload[models.FieldPasswordVerifier] = p.keychain.DeriveVerifier(username, password)

	case models.KindUnit:
		username, okUser := payload.PopString(models.FieldUsername)
		password, okPass := payload.PopString(models.FieldPassword)
		if !okUser || !okPass {
			return ErrCredentialsRequired
		}

		owner, err := p.authenticate(ctx, username, password)
		if err != nil {
			return err
		}
		payload[models.FieldOwnerID] = owner.ID

		// Encrypt when a cleartext secret is present; an absent secret is
		// left for the schema validator to reject.
		if secret, ok := payload[models.FieldSecret].(string); ok && secret != "" {
			encrypted, encErr := p.cipher.Encrypt(p.keychain.DeriveKey(username, password), secret)
			if encErr != nil {
				return fmt.Errorf("encrypting secret: %w", encErr)
			}
			payload[models.FieldSecret] = encrypted
		}

	case models.KindCategory:
		// generic create, nothing to derive

	default:
		return ErrTypeMismatch
	}

	return p.bound.Create(ctx, payload)
}

// UpdateRecord delegates to the bound manager without any re-encryption:
// a secret supplied here must already be ciphertext. Callers changing a
// secret should use UpdateSecret, which re-encrypts explicitly.
func (p *Proxy) UpdateRecord(ctx context.Context, filters models.Filters, data models.Fields) error {
	return p.bound.Update(ctx, filters, data)
}

// DeleteRecord delegates to the bound manager. Deleting a user cascades
// to their units at the schema level; deleting a category detaches its
// units.
func (p *Proxy) DeleteRecord(ctx context.Context, filters models.Filters) error {
	return p.bound.Delete(ctx, filters)
}

// CheckPassword reports whether a user exists with the given username and
// a verifier derived from the given password. Only valid while bound to
// the user manager.
func (p *Proxy) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	if p.bound.Kind() != models.KindUser {
		return false, ErrTypeMismatch
	}

	_, err := p.authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RevealSecret looks up a single unit and returns its decrypted secret.
// Only valid while bound to the unit manager. filters must carry username
// and password; both are popped before querying. The remaining filters
// are scoped to the owner resolved from the username, and the password
// proves itself through decryption: the derived key either opens the
// stored blob or it does not.
//
// Failure modes stay distinct: [store.ErrRecordNotFound] when the owner
// or the unit does not exist (including units gone through the owner
// cascade), and [crypto.ErrDecryptionFailed] when the password is wrong
// or the blob is corrupted at rest. Callers can therefore report "no
// such login" and "wrong password" separately.
func (p *Proxy) RevealSecret(ctx context.Context, filters models.Filters) (string, error) {
	if p.bound.Kind() != models.KindUnit {
		return "", ErrTypeMismatch
	}

	remaining := filters.Clone()
	username, okUser := remaining.PopString(models.FieldUsername)
	password, okPass := remaining.PopString(models.FieldPassword)
	if !okUser || !okPass {
		return "", ErrCredentialsRequired
	}

	owner, err := p.resolveOwner(ctx, username)
	if err != nil {
		return "", err
	}
	remaining[models.FieldOwnerID] = owner.ID

	record, err := p.bound.Get(ctx, remaining)
	if err != nil {
		return "", err
	}
	unit, ok := record.(models.Unit)
	if !ok {
		return "", fmt.Errorf("%w: unit manager returned %T", ErrTypeMismatch, record)
	}

	return p.cipher.Decrypt(p.keychain.DeriveKey(username, password), unit.Secret)
}

// UpdateSecret replaces the secret of every unit matching filters with
// newSecret, re-encrypted under the caller's credentials. Only valid
// while bound to the unit manager. This is the explicit counterpart to
// the deliberately crypto-free UpdateRecord.
func (p *Proxy) UpdateSecret(ctx context.Context, filters models.Filters, username, password, newSecret string) error {
	if p.bound.Kind() != models.KindUnit {
		return ErrTypeMismatch
	}
	if username == "" || password == "" {
		return ErrCredentialsRequired
	}

	owner, err := p.authenticate(ctx, username, password)
	if err != nil {
		return err
	}

	encrypted, err := p.cipher.Encrypt(p.keychain.DeriveKey(username, password), newSecret)
	if err != nil {
		return fmt.Errorf("encrypting secret: %w", err)
	}

	scoped := filters.Clone()
	scoped[models.FieldOwnerID] = owner.ID

	return p.bound.Update(ctx, scoped, models.Fields{models.FieldSecret: encrypted})
}

// RotateCredentials renames a user and/or changes their password,
// re-wrapping every owned secret under the new key. Only valid while
// bound to the unit manager, which gives the proxy access to the owned
// units. Empty newUsername or newPassword keeps the current value.
//
// The user row is updated last, so the old credentials stay valid until
// every unit has been re-encrypted. The per-unit updates are individually
// transactional but the rotation as a whole is not; a mid-flight fault is
// recoverable by re-running the rotation (already re-wrapped units fail
// decryption with the old key and are reported, not silently skipped).
func (p *Proxy) RotateCredentials(ctx context.Context, username, oldPassword, newUsername, newPassword string) error {
	log := logger.FromContext(ctx)

	if p.bound.Kind() != models.KindUnit {
		return ErrTypeMismatch
	}
	if username == "" || oldPassword == "" {
		return ErrCredentialsRequired
	}
	if newUsername == "" {
		newUsername = username
	}
	if newPassword == "" {
		newPassword = oldPassword
	}

	owner, err := p.authenticate(ctx, username, oldPassword)
	if err != nil {
		return err
	}

	oldKey := p.keychain.DeriveKey(username, oldPassword)
	newKey := p.keychain.DeriveKey(newUsername, newPassword)

	records, err := p.bound.GetMany(ctx, models.Filters{models.FieldOwnerID: owner.ID})
	if err != nil {
		return err
	}

	for _, record := range records {
		unit, ok := record.(models.Unit)
		if !ok {
			return fmt.Errorf("%w: unit manager returned %T", ErrTypeMismatch, record)
		}

		secret, decErr := p.cipher.Decrypt(oldKey, unit.Secret)
		if decErr != nil {
			log.Err(decErr).Str("unit_id", unit.ID).Msg("unit cannot be re-wrapped with the old key")
			return decErr
		}

		rewrapped, encErr := p.cipher.Encrypt(newKey, secret)
		if encErr != nil {
			return fmt.Errorf("re-encrypting secret: %w", encErr)
		}

		if err := p.bound.Update(ctx, models.Filters{models.FieldID: unit.ID}, models.Fields{models.FieldSecret: rewrapped}); err != nil {
			return err
		}
	}

	return p.users.Update(ctx,
		models.Filters{models.FieldID: owner.ID},
		models.Fields{
			models.FieldUsername:         newUsername,
			models.FieldPasswordVerifier: p.keychain.DeriveVerifier(newUsername, newPassword),
		})
}

// authenticate resolves (username, password) to the owning user record by
// matching the derived verifier. A missing match collapses into
// [ErrWrongCredentials]: an unauthenticated caller cannot distinguish an
// unknown username from a wrong password.
func (p *Proxy) authenticate(ctx context.Context, username, password string) (models.User, error) {
	record, err := p.users.Get(ctx, models.Filters{
		models.FieldUsername:         username,
		models.FieldPasswordVerifier: p.keychain.DeriveVerifier(username, password),
	})
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return models.User{}, ErrWrongCredentials
		}
		return models.User{}, err
	}

	user, ok := record.(models.User)
	if !ok {
		return models.User{}, fmt.Errorf("%w: user manager returned %T", ErrTypeMismatch, record)
	}
	return user, nil
}

// resolveOwner maps a username to its user record without checking the
// password. Used by RevealSecret, where the password proves itself
// through decryption; an unknown username is a not-found condition, the
// same as a missing unit.
func (p *Proxy) resolveOwner(ctx context.Context, username string) (models.User, error) {
	record, err := p.users.Get(ctx, models.Filters{models.FieldUsername: username})
	if err != nil {
		return models.User{}, err
	}

	user, ok := record.(models.User)
	if !ok {
		return models.User{}, fmt.Errorf("%w: user manager returned %T", ErrTypeMismatch, record)
	}
	return user, nil
}
