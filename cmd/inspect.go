package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/illarion/seedlock/internal/core"
	"github.com/illarion/seedlock/internal/keyring"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show the public fields of a record",
		Long: `Shows a record's id, metadata and encryption parameters.

Does not require a passphrase.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := core.New(args[0], nil).Load()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			p := rec.Crypto.KDFParams
			fmt.Fprintf(w, "Record:     %s\n", args[0])
			fmt.Fprintf(w, "  id:       %s\n", rec.ID)
			fmt.Fprintf(w, "  version:  %d\n", rec.Version)
			fmt.Fprintf(w, "  meta:     %q\n", rec.Meta)
			fmt.Fprintf(w, "  seedHash: %s\n", hex.EncodeToString(rec.SeedHash))
			fmt.Fprintf(w, "  seed:     %d bytes\n", len(rec.Crypto.CipherText))
			fmt.Fprintf(w, "Encryption:\n")
			fmt.Fprintf(w, "  cipher:   %s\n", rec.Crypto.Cipher)
			fmt.Fprintf(w, "  kdf:      %s (%s, c=%d, dklen=%d)\n", rec.Crypto.KDF, p.PRF, p.C, p.DKLen)

			if a.cfg.Keyring {
				status := "not stored"
				if keyring.HasPassphrase(rec.ID) {
					status = "stored in keyring"
				}
				fmt.Fprintf(w, "Passphrase: %s\n", status)
			}

			warnGitExposure(w, args[0])
			return nil
		},
	}
}
