package main

import (
	"github.com/spf13/cobra"
)

// AddressCmd derives addresses from public keys
func AddressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address <pubkey-hex>...",
		Short: "Derive the address of one or more secp256k1 public keys",
		Long: "Accepts 33-byte compressed, 65-byte uncompressed and 64-byte raw X||Y keys.\n" +
			"A key that cannot be decoded is reported and the others are still processed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deriveAddresses(a, cmd, args)
		},
	}
	return cmd
}

func deriveAddresses(a *app, cmd *cobra.Command, keys []string) error {
	client := a.client()
	r := newReporter(cmd.OutOrStdout())
	for _, key := range keys {
		report, err := client.DeriveAddress(key)
		r.key(key, report, err)
	}
	return r.err()
}

// CheckKeyCmd compares the address of a public key with an expected address
func CheckKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-key <pubkey-hex>",
		Short: "Check that a public key derives to the expected address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkKey(a, cmd, args[0])
		},
	}
	addCheckKeyFlags(cmd)
	return cmd
}

func addCheckKeyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("expected", "e", "", "expected address (0x-prefixed hex)")
	_ = cmd.MarkFlagRequired("expected")
}

func checkKey(a *app, cmd *cobra.Command, key string) error {
	expected, _ := cmd.Flags().GetString("expected")

	r := newReporter(cmd.OutOrStdout())
	report, err := a.client().CheckKey(key, expected)
	r.key(key, report, err)
	return r.err()
}
