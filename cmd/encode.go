package cmd

import (
	"fmt"
	"os"

	"github.com/illarion/seedlock/internal/core"
	"github.com/illarion/seedlock/internal/crypto"
	"github.com/spf13/cobra"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		meta  string
		out   string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "encode [SEED_HEX]",
		Short: "Encrypt a seed into a record",
		Long: `Encrypts a hex seed under a passphrase.

The seed is taken from the argument, or read from stdin when omitted.
Without --out the record JSON is printed to stdout.`,
		Example: `  seedlock encode --out seed.json 000102...1f
  echo 000102...1f | seedlock encode --meta "cold wallet" > seed.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				seed []byte
				err  error
			)
			if len(args) == 1 {
				seed, err = parseSeedHex(args[0])
			} else {
				seed, err = readSeed(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			defer crypto.ClearBytes(seed)

			if out != "" && !force {
				if _, err := os.Stat(out); err == nil {
					return fmt.Errorf("%w: %s", core.ErrAlreadyExists, out)
				}
			}

			passphrase, err := getNewPassphrase()
			if err != nil {
				return err
			}
			defer crypto.ClearBytes(passphrase)

			if out == "" {
				rec, err := a.codec().Encode(seed, passphrase, meta)
				if err != nil {
					return err
				}
				data, err := rec.Marshal()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			rec, err := core.New(out, a.codec()).Seal(seed, passphrase, meta, force)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sealed %s (id %s)\n", out, rec.ID)
			warnGitExposure(cmd.ErrOrStderr(), out)

			if core.GetPasswordFromEnv() == nil {
				a.offerToSavePassphrase(rec.ID, passphrase)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&meta, "meta", "", "free-form metadata stored in the record")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the record to FILE instead of stdout")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing record file")

	return cmd
}
