package cmd

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/illarion/seedlock/internal/core"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/git"
	"github.com/illarion/seedlock/internal/keyring"
	"github.com/illarion/seedlock/internal/keystore"
	"golang.org/x/term"
)

// PassphraseSource tells where a passphrase came from
type PassphraseSource int

const (
	SourceEnv PassphraseSource = iota
	SourceKeyring
	SourcePrompt
)

// withPassphrase obtains the passphrase for an existing record and runs
// fn with it. A keyring entry that fails with ErrDecryptionFailed is
// treated as stale and the user is prompted instead. The passphrase is
// cleared when fn returns.
func (a *app) withPassphrase(prompt, recordID string, fn func([]byte, PassphraseSource) error) error {
	if password := core.GetPasswordFromEnv(); password != nil {
		defer crypto.ClearBytes(password)
		return fn(password, SourceEnv)
	}

	if a.cfg.Keyring && recordID != "" {
		if stored, err := keyring.GetPassphrase(recordID); err == nil {
			password := []byte(stored)
			err := fn(password, SourceKeyring)
			crypto.ClearBytes(password)

			if !errors.Is(err, keystore.ErrDecryptionFailed) {
				return err
			}
			fmt.Fprintln(os.Stderr, "warning: passphrase in keyring does not open this record")
		}
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	return fn(password, SourcePrompt)
}

// getNewPassphrase reads a passphrase for a new record from the
// environment or with a confirmation prompt. The caller clears it.
func getNewPassphrase() ([]byte, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, nil
	}
	return core.ReadPasswordConfirm()
}

// offerToSavePassphrase asks whether to cache a prompted passphrase
func (a *app) offerToSavePassphrase(recordID string, passphrase []byte) {
	if !a.cfg.Keyring || !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}

	fmt.Fprint(os.Stderr, "Save passphrase to OS keyring? [y/N]: ")
	answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		return
	}

	if err := keyring.SavePassphrase(recordID, string(passphrase)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, "Passphrase saved to keyring")
}

// parseSeedHex decodes a hex seed, tolerating a 0x prefix and whitespace
func parseSeedHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("seed must be hex: %w", err)
	}
	return seed, nil
}

// readSeed reads a hex seed from in, hiding input on a terminal
func readSeed(in io.Reader) ([]byte, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(os.Stderr, "Enter seed (hex): ")
		line, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed: %w", err)
		}
		defer crypto.ClearBytes(line)
		return parseSeedHex(string(line))
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed: %w", err)
	}
	defer crypto.ClearBytes(data)
	return parseSeedHex(string(data))
}

// warnGitExposure prints a warning when a record file is visible to git
func warnGitExposure(w io.Writer, path string) {
	if warning := git.CheckRecordFile(path).Warning(path); warning != "" {
		fmt.Fprintln(w, warning)
	}
}

// HandleError prints err in a friendly form and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, keystore.ErrDecryptionFailed):
		fmt.Fprintf(os.Stderr, "Error: wrong passphrase or corrupted record\n")
	case errors.Is(err, keystore.ErrUnsupportedVersion):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Only version %d records are supported\n", keystore.Version)
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Run 'seedlock encode --out FILE' first\n")
	case errors.Is(err, core.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		fmt.Fprintf(os.Stderr, "Use --force to overwrite\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
