package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

// KeyChain derives the two per-user secrets of the vault from one set of
// credentials. It knows nothing about storage or users; its only job is
// deterministic key material.
//
// Both derivations share one primitive (Argon2id) but use domain-separated
// salts, so the verifier and the encryption key are computationally
// independent: learning the stored verifier reveals nothing about the key
// that protects the secrets.
type KeyChain interface {
	// DeriveVerifier derives the one-way authentication verifier for
	// (username, password). The result is safe to persist and is compared
	// verbatim at login. Pure and deterministic; never fails for
	// non-empty input.
	DeriveVerifier(username, password string) string

	// DeriveKey derives the 256-bit symmetric encryption key for
	// (username, password). The key exists only in process memory and is
	// never persisted. Pure and deterministic.
	DeriveKey(username, password string) []byte
}

// Cipher performs symmetric authenticated encryption of opaque string
// payloads. Implementations are stateless and safe for concurrent use
// with different keys.
type Cipher interface {
	// Encrypt encrypts plaintext with key and returns an opaque blob safe
	// to persist. The blob embeds everything needed for decryption except
	// the key itself.
	Encrypt(key []byte, plaintext string) (string, error)

	// Decrypt reverses Encrypt. A wrong key, a truncated blob or any
	// corruption fails deterministically with [ErrDecryptionFailed] —
	// never with garbage plaintext.
	Decrypt(key []byte, ciphertext string) (string, error)
}
