package cmd

import (
	"errors"
	"fmt"

	"github.com/illarion/seedlock/internal/core"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/illarion/seedlock/internal/keyring"
	"github.com/spf13/cobra"
)

var errKeyringDisabled = errors.New("keyring is disabled by configuration")

func newKeyringCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage cached passphrases in the OS keyring",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			if !a.cfg.Keyring {
				return errKeyringDisabled
			}
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save FILE",
			Short: "Save the record's passphrase to the OS keyring",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s := core.New(args[0], a.codec())
				recordID, err := s.RecordID()
				if err != nil {
					return err
				}

				password := core.GetPasswordFromEnv()
				if password == nil {
					if password, err = core.ReadPassword("Enter passphrase: "); err != nil {
						return err
					}
				}
				defer crypto.ClearBytes(password)

				// Verify passphrase is correct
				if err := s.VerifyPassphrase(password); err != nil {
					return err
				}

				if err := keyring.SavePassphrase(recordID, string(password)); err != nil {
					return fmt.Errorf("failed to save to keyring: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Passphrase saved to keyring")
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete FILE",
			Short: "Remove the record's passphrase from the OS keyring",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				recordID, err := core.New(args[0], nil).RecordID()
				if err != nil {
					return err
				}

				if err := keyring.DeletePassphrase(recordID); err != nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No passphrase stored in keyring")
					return nil
				}

				fmt.Fprintln(cmd.OutOrStdout(), "Passphrase removed from keyring")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status FILE",
			Short: "Check whether the record's passphrase is in the OS keyring",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				recordID, err := core.New(args[0], nil).RecordID()
				if err != nil {
					return err
				}

				if keyring.HasPassphrase(recordID) {
					fmt.Fprintln(cmd.OutOrStdout(), "Passphrase: stored in keyring")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Passphrase: not stored")
				}
				return nil
			},
		},
	)

	return cmd
}
