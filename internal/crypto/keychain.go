// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Domain-separation tags. Each derivation salts Argon2id with
// SHA-256(tag ‖ username), so the verifier and the encryption key are
// independent outputs even though they come from the same credentials.
const (
	verifierDomainTag = "sos-vault/verifier/v1"
	keyDomainTag      = "sos-vault/encryption-key/v1"
)

// keyChain is the private implementation of [KeyChain].
type keyChain struct {
	// Argon2id tuning parameters. Stored in the struct so they can be
	// adjusted per deployment target (e.g. laptop vs. CI).
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyChain constructs a [KeyChain] with the Argon2id parameters
// recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChain() KeyChain {
	return &keyChain{
		argonTime:    1,
		argonMemory:  64 * 1024, // 64 MiB
		argonThreads: 4,
		argonKeyLen:  32, // 256 bits
	}
}

// DeriveVerifier implements [KeyChain]. It returns the hex encoding of
// the Argon2id digest salted with the verifier domain tag. Hex keeps the
// stored value trivially comparable in SQL equality filters.
func (k *keyChain) DeriveVerifier(username, password string) string {
	return hex.EncodeToString(k.derive(username, password, verifierDomainTag))
}

// DeriveKey implements [KeyChain]. It returns the raw 32-byte Argon2id
// digest salted with the encryption-key domain tag, suitable for
// AES-256-GCM.
func (k *keyChain) DeriveKey(username, password string) []byte {
	return k.derive(username, password, keyDomainTag)
}

// derive runs Argon2id over password with a salt bound to both the
// domain tag and the username. Binding the username into the salt makes
// identical passwords of different users derive unrelated material.
func (k *keyChain) derive(username, password, domainTag string) []byte {
	h := sha256.New()
	h.Write([]byte(domainTag))
	h.Write([]byte(username))
	salt := h.Sum(nil)

	return argon2.IDKey(
		[]byte(password),
		salt,
		k.argonTime,
		k.argonMemory,
		k.argonThreads,
		k.argonKeyLen,
	)
}
