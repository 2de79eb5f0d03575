// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Dmitry Kotelnikov

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// aesCipher is the private implementation of [Cipher] based on
// AES-256-GCM. The encrypted blob layout is nonce (12 bytes) ‖
// ciphertext, Base64 (standard encoding) as a whole, so a single TEXT
// column can hold it.
type aesCipher struct{}

// NewCipher constructs the AES-256-GCM [Cipher] used for unit secrets.
func NewCipher() Cipher {
	return &aesCipher{}
}

// Encrypt implements [Cipher]. It seals plaintext with key under a fresh
// random nonce read from the OS CSPRNG. Returns an error if cipher
// construction or the nonce read fails; key must be 16, 24 or 32 bytes
// (the keychain always hands over 32).
func (c *aesCipher) Encrypt(key []byte, plaintext string) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	// Prepend the nonce so Decrypt can split it back out.
	blob := gcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt implements [Cipher]. Every failure mode — bad base64, a blob
// shorter than the nonce, or an authentication-tag mismatch — collapses
// into [ErrDecryptionFailed] so that callers see exactly one failure
// condition regardless of how the blob was damaged.
func (c *aesCipher) Decrypt(key []byte, ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("create gcm: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(blob) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	nonce, sealed := blob[:nonceSize], blob[nonceSize:]

	// An auth-tag mismatch here almost always means the caller supplied
	// the wrong credentials, producing a wrong key.
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryptionFailed, err)
	}

	return string(plaintext), nil
}
