// Package crypto provides the cryptographic primitives behind seedlock
// records.
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 32-byte random salt (stored in the record)
//   - 262,144 iterations by default
//   - 32-byte output, split into a cipher key and MAC material
//
// Encryption uses AES-128 in counter mode:
//   - the 16-byte IV is the initial big-endian 128-bit counter
//   - no padding, ciphertext length equals plaintext length
//   - encryption and decryption are the same operation
//
// Integrity and fingerprints use BLAKE2b with a 32-byte digest.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
