package core

import (
	"fmt"
	"os"
	"syscall"

	"github.com/illarion/seedlock/internal/crypto"
	"golang.org/x/term"
)

// PassphraseEnvVar supplies the passphrase non-interactively.
const PassphraseEnvVar = "SEEDLOCK_PASSPHRASE"

// ReadPassword reads a passphrase from the terminal without echoing.
// Prompts go to stderr so stdout stays clean for records and seeds. When
// stdin is piped the passphrase is read from /dev/tty.
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(syscall.Stdin)
	if !term.IsTerminal(fd) {
		tty, err := os.Open("/dev/tty")
		if err != nil {
			fmt.Fprintln(os.Stderr)
			return nil, fmt.Errorf("cannot read passphrase: stdin is piped and /dev/tty is not available; set %s", PassphraseEnvVar)
		}
		defer tty.Close()
		fd = int(tty.Fd())
	}

	// Read password without echo
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a passphrase twice and ensures they match
func ReadPasswordConfirm() ([]byte, error) {
	password1, err := ReadPassword("Enter passphrase: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm passphrase: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, fmt.Errorf("passphrases do not match")
	}

	// Return a copy of the password
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// GetPasswordFromEnv reads the passphrase from SEEDLOCK_PASSPHRASE
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PassphraseEnvVar)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, []byte(password))
	return result
}
