package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/seedlock/internal/core"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/keyring"
	"github.com/spf13/cobra"
)

func newPasswdCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "passwd FILE",
		Short: "Change the passphrase of a record",
		Long: `Re-encrypts the seed under a new passphrase with a fresh salt and IV.
The record id and metadata are kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := core.New(args[0], a.codec())

			recordID, err := s.RecordID()
			if err != nil {
				return err
			}

			// The current passphrase is never taken from the environment
			// here: the new one would come from the same variable.
			current, err := a.currentPassphrase(recordID, s)
			if err != nil {
				return err
			}
			defer crypto.ClearBytes(current)

			fmt.Fprintln(os.Stderr, "New passphrase")
			newPassphrase, err := core.ReadPasswordConfirm()
			if err != nil {
				return err
			}
			defer crypto.ClearBytes(newPassphrase)

			if _, err := s.ChangePassphrase(current, newPassphrase); err != nil {
				return err
			}

			// Always try to update keyring if it holds an entry for this record
			if a.cfg.Keyring && keyring.HasPassphrase(recordID) {
				if err := keyring.SavePassphrase(recordID, string(newPassphrase)); err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Keyring updated with new passphrase")
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), "passphrase changed successfully")
			return nil
		},
	}
}

// currentPassphrase returns a verified copy of the record's current
// passphrase from the keyring or a prompt.
func (a *app) currentPassphrase(recordID string, s *core.SeedLock) ([]byte, error) {
	if a.cfg.Keyring {
		if stored, err := keyring.GetPassphrase(recordID); err == nil {
			password := []byte(stored)
			if err := s.VerifyPassphrase(password); err == nil {
				return password, nil
			}
			crypto.ClearBytes(password)
			fmt.Fprintln(os.Stderr, "warning: passphrase in keyring does not open this record")
		}
	}

	password, err := core.ReadPassword("Enter current passphrase: ")
	if err != nil {
		return nil, err
	}
	if err := s.VerifyPassphrase(password); err != nil {
		crypto.ClearBytes(password)
		return nil, err
	}
	return password, nil
}
