// Package core provides the seedlock record file operations.
//
// Core operations include:
//   - Seal: Encrypt a seed under a passphrase and write the record file
//   - Open: Read a record file and decrypt the seed
//   - VerifyPassphrase: Check a passphrase without returning the seed
//   - ChangePassphrase: Re-encrypt the seed under a new passphrase
//   - Load: Read and validate a record file without a passphrase
//
// Record files are JSON, written with owner-only permissions.
package core
