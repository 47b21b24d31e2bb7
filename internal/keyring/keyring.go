// Package keyring caches record passphrases in the OS keyring. Entries
// live under the "seedlock" service with one account per record id, so a
// passphrase change that keeps the id keeps its entry.
package keyring

import (
	"github.com/zalando/go-keyring"
)

const (
	serviceName   = "seedlock"
	accountPrefix = "record:"
)

// account maps a record id to its keyring account name.
func account(recordID string) string {
	return accountPrefix + recordID
}

// SavePassphrase stores the passphrase for a record
func SavePassphrase(recordID string, passphrase string) error {
	return keyring.Set(serviceName, account(recordID), passphrase)
}

// GetPassphrase retrieves the passphrase for a record
func GetPassphrase(recordID string) (string, error) {
	return keyring.Get(serviceName, account(recordID))
}

// DeletePassphrase removes the passphrase for a record
func DeletePassphrase(recordID string) error {
	return keyring.Delete(serviceName, account(recordID))
}

// HasPassphrase reports whether a passphrase is stored for a record
func HasPassphrase(recordID string) bool {
	_, err := GetPassphrase(recordID)
	return err == nil
}
