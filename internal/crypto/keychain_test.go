package crypto

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveVerifier_Deterministic(t *testing.T) {
	kc := NewKeyChain()

	first := kc.DeriveVerifier("alice", "secret1")
	second := kc.DeriveVerifier("alice", "secret1")

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestDeriveVerifier_DependsOnBothInputs(t *testing.T) {
	kc := NewKeyChain()

	base := kc.DeriveVerifier("alice", "secret1")

	assert.NotEqual(t, base, kc.DeriveVerifier("alice", "secret2"))
	assert.NotEqual(t, base, kc.DeriveVerifier("bob", "secret1"))
}

func TestDeriveKey_Deterministic256Bit(t *testing.T) {
	kc := NewKeyChain()

	key := kc.DeriveKey("alice", "secret1")

	require.Len(t, key, 32)
	assert.Equal(t, key, kc.DeriveKey("alice", "secret1"))
}

func TestDeriveKey_SamePasswordDifferentUsers(t *testing.T) {
	kc := NewKeyChain()

	// identical passwords must not derive identical keys
	assert.NotEqual(t, kc.DeriveKey("alice", "secret1"), kc.DeriveKey("bob", "secret1"))
}

func TestVerifierAndKeyAreIndependent(t *testing.T) {
	kc := NewKeyChain()

	// The stored verifier must not be a re-encoding of the encryption
	// key: the two derivations are domain-separated.
	verifier := kc.DeriveVerifier("alice", "secret1")
	key := kc.DeriveKey("alice", "secret1")

	assert.NotEqual(t, verifier, hex.EncodeToString(key))
}
