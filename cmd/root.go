package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/seedlock/internal/config"
	"github.com/illarion/seedlock/internal/keystore"
	"github.com/illarion/seedlock/internal/logging"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	noKeyring  bool
	iterations int
}

// app is the state built once per invocation in PersistentPreRunE.
type app struct {
	opts globalOptions
	cfg  *config.Config
}

// NewRootCmd builds the seedlock command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "seedlock",
		Short: "Passphrase-protected storage for secret seeds",
		Long: `seedlock encrypts a secret seed under a passphrase into a self-contained
JSON record (version 3: PBKDF2-HMAC-SHA256, AES-128-CTR, BLAKE2b-256 MAC)
and decrypts it again.

The passphrase is read from $SEEDLOCK_PASSPHRASE, the OS keyring, or the
terminal, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", "", "config file (default: user config dir/seedlock/config.yaml)")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "log level: off, trace, debug, info, warn, error, critical")
	flags.BoolVar(&a.opts.noKeyring, "no-keyring", false, "do not read or write the OS keyring")
	flags.IntVar(&a.opts.iterations, "iterations", 0, "PBKDF2 iterations for new records")

	root.AddCommand(
		newEncodeCmd(a),
		newDecodeCmd(a),
		newVerifyCmd(a),
		newInspectCmd(a),
		newPasswdCmd(a),
		newKeyringCmd(a),
	)

	return root
}

// Execute runs the command tree with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	path, mustExist := a.opts.configPath, true
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path, mustExist = p, false
	}

	cfg, err := config.Load(path, mustExist)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.opts.logLevel
	}
	if flags.Changed("iterations") {
		cfg.Iterations = a.opts.iterations
	}
	if a.opts.noKeyring {
		cfg.Keyring = false
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.Setup(cfg.LogLevel, os.Stderr); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

func (a *app) codec() *keystore.Codec {
	return keystore.NewCodec(keystore.WithIterations(a.cfg.Iterations))
}
