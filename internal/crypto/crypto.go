package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/pbkdf2"
)

// Sizes and defaults of the version 3 record primitives.
const (
	SaltSize     = 32     // Salt size in bytes
	IVSize       = 16     // CTR initial counter size (one AES block)
	KeySize      = 32     // Derived key size
	CipherKeyLen = 16     // AES-128 key, first half of the derived key
	DigestSize   = 32     // BLAKE2b-256 output size
	DefaultIters = 262144 // Default PBKDF2 iterations
)

var (
	// ErrInvalidKeyLength is returned when a cipher key is not CipherKeyLen bytes.
	ErrInvalidKeyLength = errors.New("invalid cipher key length")

	// ErrInvalidIVLength is returned when an IV is not IVSize bytes.
	ErrInvalidIVLength = errors.New("invalid iv length")
)

// DeriveKey stretches a passphrase into keyLen bytes using
// PBKDF2-HMAC-SHA256. iterations and keyLen must be positive.
func DeriveKey(passphrase, salt []byte, iterations, keyLen int) []byte {
	if iterations < 1 || keyLen < 1 {
		panic(fmt.Sprintf("crypto: invalid kdf parameters: iterations=%d keyLen=%d",
			iterations, keyLen))
	}
	return pbkdf2.Key(passphrase, salt, iterations, keyLen, sha256.New)
}

// SplitKey returns the cipher key and MAC material halves of a derived
// key. Both slices alias dk.
func SplitKey(dk []byte) (cipherKey, macKey []byte) {
	return dk[:CipherKeyLen], dk[CipherKeyLen:KeySize]
}

// XORKeyStream applies the AES-128-CTR keystream for key and iv to data
// and returns the result in a fresh slice. The same call encrypts and
// decrypts.
func XORKeyStream(key, iv, data []byte) ([]byte, error) {
	if len(key) != CipherKeyLen {
		return nil, ErrInvalidKeyLength
	}
	if len(iv) != IVSize {
		return nil, ErrInvalidIVLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)
	return out, nil
}

// Digest returns the BLAKE2b-256 hash of the concatenation of parts.
// The concatenation may hold key material and is wiped before returning.
func Digest(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	buf := make([]byte, 0, n)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	defer ClearBytes(buf)

	sum := blake2b.Sum256(buf)
	return sum[:]
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ReadRandom reads n bytes from r, which must be a cryptographically
// secure source.
func ReadRandom(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}
