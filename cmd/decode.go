package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/illarion/seedlock/internal/core"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/spf13/cobra"
)

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode FILE",
		Short: "Decrypt a record and print the seed as hex",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := core.New(args[0], a.codec())

			recordID, err := s.RecordID()
			if err != nil {
				return err
			}

			return a.withPassphrase("Enter passphrase: ", recordID, func(p []byte, source PassphraseSource) error {
				seed, err := s.Open(p)
				if err != nil {
					return err
				}
				defer crypto.ClearBytes(seed)

				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(seed))

				if source == SourcePrompt {
					a.offerToSavePassphrase(recordID, p)
				}
				return nil
			})
		},
	}
}

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE",
		Short: "Check that a passphrase opens a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := core.New(args[0], a.codec())

			recordID, err := s.RecordID()
			if err != nil {
				return err
			}

			return a.withPassphrase("Enter passphrase: ", recordID, func(p []byte, _ PassphraseSource) error {
				if err := s.VerifyPassphrase(p); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "passphrase ok")
				return nil
			})
		},
	}
}
