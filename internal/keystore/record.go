package keystore

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/illarion/seedlock/internal/crypto"
)

// Format constants of version 3 records. The MAC and fingerprint hash is
// BLAKE2b-256 and is implied by the version; it is not stored.
const (
	Version         = 3
	CipherAES128CTR = "aes-128-ctr"
	KDFPBKDF2       = "pbkdf2"
	PRFHMACSHA256   = "hmac-sha256"

	// MaxIterations bounds the PBKDF2 cost a record may demand, so a
	// hostile record cannot pin the CPU indefinitely.
	MaxIterations = 1 << 24
)

// HexBytes is a byte slice that encodes as a lowercase hex string.
type HexBytes []byte

// MarshalText implements encoding.TextMarshaler.
func (h HexBytes) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(h)))
	hex.Encode(out, h)
	return out, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HexBytes) UnmarshalText(text []byte) error {
	b := make([]byte, hex.DecodedLen(len(text)))
	n, err := hex.Decode(b, text)
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	*h = b[:n]
	return nil
}

// KDFParams are the PBKDF2 parameters needed to re-derive the key.
type KDFParams struct {
	DKLen int      `json:"dklen"`
	Salt  HexBytes `json:"salt"`
	C     int      `json:"c"`
	PRF   string   `json:"prf"`
}

// CipherParams holds the stream cipher's initial counter.
type CipherParams struct {
	IV HexBytes `json:"iv"`
}

// CryptoSection is the "crypto" object of a record.
type CryptoSection struct {
	CipherText   HexBytes     `json:"ciphertext"`
	CipherParams CipherParams `json:"cipherparams"`
	Cipher       string       `json:"cipher"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          HexBytes     `json:"mac"`
}

// Record is a persisted, passphrase-protected seed.
type Record struct {
	Crypto   CryptoSection `json:"crypto"`
	ID       string        `json:"id"`
	Version  int           `json:"version"`
	SeedHash HexBytes      `json:"seedHash"`
	Meta     string        `json:"meta"`
}

// ParseRecord decodes a JSON record. The version discriminant is checked
// before anything else is interpreted.
func ParseRecord(data []byte) (*Record, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if probe.Version == nil {
		return nil, fmt.Errorf("%w: missing version", ErrMalformedRecord)
	}
	if *probe.Version != Version {
		return nil, fmt.Errorf("%w: %w %d", ErrMalformedRecord,
			ErrUnsupportedVersion, *probe.Version)
	}

	if err := checkRequired(data); err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}

// checkRequired rejects records that omit fields whose zero value is
// legal once present: an empty ciphertext, an empty cipher and empty meta
// all parse, a missing or null one does not.
func checkRequired(data []byte) error {
	var fields struct {
		Crypto *struct {
			CipherText *string `json:"ciphertext"`
			Cipher     *string `json:"cipher"`
		} `json:"crypto"`
		Meta *string `json:"meta"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedRecord, err)
	}

	switch {
	case fields.Crypto == nil:
		return fmt.Errorf("%w: missing crypto", ErrMalformedRecord)
	case fields.Crypto.CipherText == nil:
		return fmt.Errorf("%w: missing ciphertext", ErrMalformedRecord)
	case fields.Crypto.Cipher == nil:
		return fmt.Errorf("%w: missing cipher", ErrMalformedRecord)
	case fields.Meta == nil:
		return fmt.Errorf("%w: missing meta", ErrMalformedRecord)
	}
	return nil
}

// Marshal encodes the record as indented JSON.
func (r *Record) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record: %w", err)
	}
	return data, nil
}

// Validate checks the record's structure. It does not look at the cipher
// identifier; an unknown cipher is a decryption failure, not a format
// error.
func (r *Record) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil record", ErrMalformedRecord)
	}

	switch {
	case r.Version != Version:
		return fmt.Errorf("%w: %w %d", ErrMalformedRecord, ErrUnsupportedVersion, r.Version)
	case r.ID == "":
		return fmt.Errorf("%w: missing id", ErrMalformedRecord)
	case len(r.SeedHash) != crypto.DigestSize:
		return fmt.Errorf("%w: seedHash must be %d bytes, got %d",
			ErrMalformedRecord, crypto.DigestSize, len(r.SeedHash))
	case len(r.Crypto.MAC) != crypto.DigestSize:
		return fmt.Errorf("%w: mac must be %d bytes, got %d",
			ErrMalformedRecord, crypto.DigestSize, len(r.Crypto.MAC))
	case len(r.Crypto.CipherParams.IV) != crypto.IVSize:
		return fmt.Errorf("%w: iv must be %d bytes, got %d",
			ErrMalformedRecord, crypto.IVSize, len(r.Crypto.CipherParams.IV))
	}

	if r.Crypto.KDF != KDFPBKDF2 {
		return fmt.Errorf("%w: unsupported kdf %q", ErrMalformedRecord, r.Crypto.KDF)
	}

	p := r.Crypto.KDFParams
	switch {
	case p.PRF != PRFHMACSHA256:
		return fmt.Errorf("%w: unsupported prf %q", ErrMalformedRecord, p.PRF)
	case len(p.Salt) != crypto.SaltSize:
		return fmt.Errorf("%w: salt must be %d bytes, got %d",
			ErrMalformedRecord, crypto.SaltSize, len(p.Salt))
	case p.C < 1 || p.C > MaxIterations:
		return fmt.Errorf("%w: iteration count %d out of range", ErrMalformedRecord, p.C)
	case p.DKLen != crypto.KeySize:
		return fmt.Errorf("%w: dklen must be %d, got %d",
			ErrMalformedRecord, crypto.KeySize, p.DKLen)
	}

	return nil
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := *r
	c.SeedHash = bytes.Clone(r.SeedHash)
	c.Crypto.CipherText = bytes.Clone(r.Crypto.CipherText)
	c.Crypto.CipherParams.IV = bytes.Clone(r.Crypto.CipherParams.IV)
	c.Crypto.KDFParams.Salt = bytes.Clone(r.Crypto.KDFParams.Salt)
	c.Crypto.MAC = bytes.Clone(r.Crypto.MAC)
	return &c
}
