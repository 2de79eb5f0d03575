package crypto

import "errors"

// ErrDecryptionFailed is returned by [Cipher.Decrypt] whenever the
// ciphertext cannot be authenticated: the key is wrong, the blob is
// truncated, or the stored bytes were corrupted. Callers match it with
// [errors.Is] to distinguish "wrong credentials" from "no such record".
var ErrDecryptionFailed = errors.New("decryption failed: wrong key or corrupted ciphertext")
