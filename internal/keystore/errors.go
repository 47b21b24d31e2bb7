package keystore

import "errors"

var (
	// ErrDecryptionFailed is returned for a wrong passphrase, a tampered
	// record, or an unknown cipher. The cause is deliberately not exposed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedRecord indicates a structurally invalid record.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrUnsupportedVersion indicates a record version other than 3. It is
	// always reported wrapped together with ErrMalformedRecord.
	ErrUnsupportedVersion = errors.New("unsupported record version")

	// ErrEntropy indicates the random source could not supply bytes.
	ErrEntropy = errors.New("random source failed")

	// ErrInvalidIterations indicates a codec configured with an iteration
	// count outside [1, MaxIterations].
	ErrInvalidIterations = errors.New("invalid iteration count")
)
