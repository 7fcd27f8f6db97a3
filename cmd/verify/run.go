package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mahdiidarabi/ecdsa-verify/internal/config"
)

// RunCmd runs every check of a case file
func RunCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <case.toml>",
		Short: "Run the key and signature checks listed in a case file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCase(a, cmd, args[0])
		},
	}
	return cmd
}

func runCase(a *app, cmd *cobra.Command, path string) error {
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	a.logger.Info("loaded case",
		zap.String("path", path),
		zap.Int("keys", len(c.Keys)),
		zap.Int("signatures", len(c.Signatures)))

	client := a.client().WithStrategy(c.Strategy())
	r := newReporter(cmd.OutOrStdout())

	if len(c.Keys) > 0 {
		r.section("Public keys")
		for _, k := range c.Keys {
			report, err := client.CheckKey(k.PublicKey, k.Expected)
			r.key(k.Name, report, err)
		}
	}

	if len(c.Signatures) > 0 {
		r.section(fmt.Sprintf("Signatures (%s search)", c.Strategy().Name()))
		for i := range c.Signatures {
			s := &c.Signatures[i]
			candidates, err := c.BuildCandidates(s)
			if err != nil {
				r.failf("%s: %v", s.Name, err)
				continue
			}
			result, err := client.VerifySignature(s.Signature, candidates, s.Expected)
			r.match(s.Name, result, s.Expected, len(candidates), err)
		}
	}

	fmt.Fprintln(r.w)
	r.summary()
	return r.err()
}
