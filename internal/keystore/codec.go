package keystore

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/illarion/seedlock/internal/crypto"
)

// Codec turns seeds into records and back. A Codec is immutable and safe
// for concurrent use as long as its random source is.
type Codec struct {
	rand       io.Reader
	iterations int
}

// Option configures a Codec.
type Option func(*Codec)

// WithRand sets the random source used for salts, IVs and record ids.
// It must be cryptographically secure outside of tests.
func WithRand(r io.Reader) Option {
	return func(c *Codec) {
		c.rand = r
	}
}

// WithIterations sets the PBKDF2 iteration count for new records.
func WithIterations(n int) Option {
	return func(c *Codec) {
		c.iterations = n
	}
}

// NewCodec returns a codec using crypto/rand and the default iteration
// count unless overridden.
func NewCodec(opts ...Option) *Codec {
	c := &Codec{
		rand:       rand.Reader,
		iterations: crypto.DefaultIters,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Iterations returns the PBKDF2 cost applied to new records.
func (c *Codec) Iterations() int {
	return c.iterations
}

var defaultCodec = NewCodec()

// Encode seals secret under passphrase with the default codec.
func Encode(secret, passphrase []byte, meta string) (*Record, error) {
	return defaultCodec.Encode(secret, passphrase, meta)
}

// Decode opens rec with passphrase.
func Decode(rec *Record, passphrase []byte) ([]byte, error) {
	return defaultCodec.Decode(rec, passphrase)
}

// Encode seals secret under passphrase. Salt, IV and record id are drawn
// fresh from the codec's random source on every call.
func (c *Codec) Encode(secret, passphrase []byte, meta string) (*Record, error) {
	id, err := uuid.NewRandomFromReader(c.rand)
	if err != nil {
		return nil, fmt.Errorf("%w: id: %w", ErrEntropy, err)
	}

	return c.seal(id.String(), secret, passphrase, meta)
}

// Reencode decodes rec with oldPassphrase and seals the recovered secret
// under newPassphrase. The record id and metadata carry over; salt and IV
// are fresh.
func (c *Codec) Reencode(rec *Record, oldPassphrase, newPassphrase []byte) (*Record, error) {
	secret, err := c.Decode(rec, oldPassphrase)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(secret)

	return c.seal(rec.ID, secret, newPassphrase, rec.Meta)
}

func (c *Codec) seal(id string, secret, passphrase []byte, meta string) (*Record, error) {
	if c.iterations < 1 || c.iterations > MaxIterations {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIterations, c.iterations)
	}

	fingerprint := crypto.Digest(secret)

	salt, err := crypto.ReadRandom(c.rand, crypto.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("%w: salt: %w", ErrEntropy, err)
	}
	iv, err := crypto.ReadRandom(c.rand, crypto.IVSize)
	if err != nil {
		return nil, fmt.Errorf("%w: iv: %w", ErrEntropy, err)
	}

	dk := crypto.DeriveKey(passphrase, salt, c.iterations, crypto.KeySize)
	defer crypto.ClearBytes(dk)
	cipherKey, macKey := crypto.SplitKey(dk)

	ciphertext, err := crypto.XORKeyStream(cipherKey, iv, secret)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Crypto: CryptoSection{
			CipherText:   ciphertext,
			CipherParams: CipherParams{IV: iv},
			Cipher:       CipherAES128CTR,
			KDF:          KDFPBKDF2,
			KDFParams: KDFParams{
				DKLen: crypto.KeySize,
				Salt:  salt,
				C:     c.iterations,
				PRF:   PRFHMACSHA256,
			},
			MAC: crypto.Digest(macKey, ciphertext),
		},
		ID:       id,
		Version:  Version,
		SeedHash: fingerprint,
		Meta:     meta,
	}

	log.Debugf("Sealed record %s (%d byte seed, c=%d)", id, len(secret), c.iterations)

	return rec, nil
}

// Decode opens rec with passphrase. The key is derived from the record's
// own KDF parameters. A MAC mismatch, an unknown cipher and a fingerprint
// mismatch all yield ErrDecryptionFailed; nothing is returned unless every
// check passes.
func (c *Codec) Decode(rec *Record, passphrase []byte) ([]byte, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	params := rec.Crypto.KDFParams
	dk := crypto.DeriveKey(passphrase, params.Salt, params.C, params.DKLen)
	defer crypto.ClearBytes(dk)
	cipherKey, macKey := crypto.SplitKey(dk)

	mac := crypto.Digest(macKey, rec.Crypto.CipherText)
	if !crypto.ConstantTimeCompare(mac, rec.Crypto.MAC) {
		return nil, decryptionFailed(rec)
	}

	if rec.Crypto.Cipher != CipherAES128CTR {
		return nil, decryptionFailed(rec)
	}

	secret, err := crypto.XORKeyStream(cipherKey, rec.Crypto.CipherParams.IV, rec.Crypto.CipherText)
	if err != nil {
		return nil, decryptionFailed(rec)
	}

	if !crypto.ConstantTimeCompare(crypto.Digest(secret), rec.SeedHash) {
		crypto.ClearBytes(secret)
		return nil, decryptionFailed(rec)
	}

	log.Debugf("Opened record %s", rec.ID)

	return secret, nil
}

func decryptionFailed(rec *Record) error {
	log.Debugf("Decryption failed for record %s", rec.ID)
	return ErrDecryptionFailed
}
