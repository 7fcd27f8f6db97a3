package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/ecdsa-verify/internal/config"
	"github.com/mahdiidarabi/ecdsa-verify/pkg/ecdsaverify"
)

// RecoverCmd searches candidate hashes for the one a signature was made over
func RecoverCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recover <signature-hex>",
		Short: "Find which candidate hash and parity recover the expected signer",
		Long: "Tries every candidate with parity 0 and then parity 1, in the order given:\n" +
			"--digest values first, then --preimage variants, then the --candidates file.\n" +
			"The first (candidate, parity) whose recovered address equals --expected wins.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recoverSigner(a, cmd, args[0])
		},
	}
	addRecoverFlags(cmd)
	return cmd
}

func addRecoverFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("expected", "e", "", "expected signer address (0x-prefixed hex)")
	_ = cmd.MarkFlagRequired("expected")
	cmd.Flags().StringArrayP("digest", "d", nil, "candidate digest as label=hex or hex (repeatable)")
	addPreimageFlags(cmd)
	cmd.Flags().StringP("candidates", "c", "", "JSON or CSV file of candidates")
	cmd.Flags().Bool("parallel", false, "search with a worker pool")
	cmd.Flags().Int("workers", 0, "number of workers for --parallel (0 = number of CPUs)")
	cmd.Flags().Bool("require-low-s", false, "reject signatures whose s is above half the curve order")
	cmd.Flags().Bool("all", false, "print the outcome of every trial")
}

func addPreimageFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("preimage", "p", nil, "pre-image as label=hex or hex, expanded into hash variants (repeatable)")
	cmd.Flags().StringSlice("kinds", nil, "hash variants for pre-images (raw, sha256, sha256d, keccak256, personal)")
}

func recoverSigner(a *app, cmd *cobra.Command, sigHex string) error {
	expected, _ := cmd.Flags().GetString("expected")
	parallel, _ := cmd.Flags().GetBool("parallel")
	workers, _ := cmd.Flags().GetInt("workers")
	requireLowS, _ := cmd.Flags().GetBool("require-low-s")
	all, _ := cmd.Flags().GetBool("all")

	sc, err := signatureCaseFromFlags(cmd)
	if err != nil {
		return err
	}
	candidates, err := (&config.Case{}).BuildCandidates(sc)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return errors.New("no candidates: pass --digest, --preimage or --candidates")
	}

	r := newReporter(cmd.OutOrStdout())
	sig, err := ecdsaverify.ParseSignatureHex(sigHex)
	if err != nil {
		r.failf("signature: %v", err)
		return r.err()
	}
	want, err := ecdsaverify.ParseAddress(expected)
	if err != nil {
		return errors.Wrap(err, "expected address")
	}

	search := config.Search{Parallel: parallel, Workers: workers, RequireLowS: requireLowS}
	client := a.client().WithStrategy(search.Strategy())

	result := client.Verify(sig, candidates, want)
	r.match("signature", result, expected, len(candidates), nil)
	if all {
		outcomes := ecdsaverify.NewTrialIterator(sig, candidates).WithRequireLowS(requireLowS).All()
		if err := r.outcomes(outcomes, want); err != nil {
			return err
		}
	}
	return r.err()
}

// signatureCaseFromFlags maps the candidate flags onto a case entry so the
// command line and case files share one candidate builder.
func signatureCaseFromFlags(cmd *cobra.Command) (*config.SignatureCase, error) {
	sc := &config.SignatureCase{}
	if cmd.Flags().Lookup("candidates") != nil {
		sc.CandidatesFile, _ = cmd.Flags().GetString("candidates")
	}
	if cmd.Flags().Lookup("digest") != nil {
		digests, _ := cmd.Flags().GetStringArray("digest")
		for i, d := range digests {
			label, value := splitLabel(d, fmt.Sprintf("digest[%d]", i))
			sc.Candidates = append(sc.Candidates, config.Candidate{Label: label, Digest: value})
		}
	}

	preimages, _ := cmd.Flags().GetStringArray("preimage")
	kinds, _ := cmd.Flags().GetStringSlice("kinds")
	for _, k := range kinds {
		if _, err := ecdsaverify.ParseHashKind(k); err != nil {
			return nil, err
		}
	}
	for i, p := range preimages {
		name := "preimage"
		if len(preimages) > 1 {
			name = fmt.Sprintf("preimage[%d]", i)
		}
		label, value := splitLabel(p, name)
		sc.Preimages = append(sc.Preimages, config.Preimage{Label: label, Value: value, Kinds: kinds})
	}
	return sc, nil
}

// splitLabel splits "label=hex"; a bare value gets the fallback label.
func splitLabel(s, fallback string) (label, value string) {
	if label, value, ok := strings.Cut(s, "="); ok {
		return strings.TrimSpace(label), strings.TrimSpace(value)
	}
	return fallback, strings.TrimSpace(s)
}

// CandidatesCmd lists the hash variants of pre-images
func CandidatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "Print the candidate digests derived from pre-images",
		Args:  cobra.NoArgs,
		RunE:  listCandidates,
	}
	addPreimageFlags(cmd)
	_ = cmd.MarkFlagRequired("preimage")
	return cmd
}

func listCandidates(cmd *cobra.Command, args []string) error {
	sc, err := signatureCaseFromFlags(cmd)
	if err != nil {
		return err
	}
	candidates, err := (&config.Case{}).BuildCandidates(sc)
	if err != nil {
		return err
	}
	return newReporter(cmd.OutOrStdout()).candidates(candidates)
}
