// Package keystore encodes a secret seed and a passphrase into a
// self-contained, versioned record and decodes it back.
//
// A version 3 record holds:
//   - the AES-128-CTR ciphertext of the seed and its 16-byte IV
//   - the PBKDF2-HMAC-SHA256 parameters, including a 32-byte salt
//   - a MAC: BLAKE2b-256 over the second half of the derived key
//     followed by the ciphertext
//   - a seed fingerprint: BLAKE2b-256 of the plaintext seed
//   - a random UUID and a free-form metadata string
//
// Decode re-derives the key from the stored parameters, checks the MAC,
// the cipher identifier and the fingerprint, and returns the seed only if
// all three pass. Every one of these failures is reported as
// ErrDecryptionFailed. Records that cannot be parsed or carry impossible
// parameters are reported as ErrMalformedRecord instead.
package keystore
