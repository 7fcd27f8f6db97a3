// Command verify checks public keys against addresses and recovers signers
// from ECDSA signatures over candidate hashes.
//
// Usage:
//
//	verify address <pubkey-hex>...
//	verify check-key <pubkey-hex> --expected <address>
//	verify recover <signature-hex> --expected <address> --digest label=hex [--parallel]
//	verify candidates --preimage <hex> [--label name]
//	verify run <case.toml>
//
// The exit status is 0 when every check passed and 1 otherwise.
package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/ecdsa-verify/pkg/ecdsaverify"
)

// errChecksFailed is returned when the command ran but at least one check did not pass.
var errChecksFailed = errors.New("one or more checks failed")

type app struct {
	logLevel string
	logFile  string
	logger   *zap.Logger
}

func (a *app) client() *ecdsaverify.Client {
	return ecdsaverify.NewClient().WithLogger(a.logger)
}

// RootCmd returns the verify command with all subcommands attached.
func RootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           "verify",
		Short:         "Key-to-address checks and signature signer recovery for secp256k1",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(a.logLevel, a.logFile, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "write JSON logs to this file instead of stderr")

	cmd.AddCommand(
		AddressCmd(a),
		CheckKeyCmd(a),
		RecoverCmd(a),
		CandidatesCmd(),
		RunCmd(a),
	)
	return cmd
}

func main() {
	if err := RootCmd().Execute(); err != nil {
		if !errors.Is(err, errChecksFailed) {
			pterm.Error.WithWriter(os.Stderr).Println(err)
		}
		os.Exit(1)
	}
}
