// Package ecdsaverify checks secp256k1 public keys and ECDSA signatures against
// Ethereum-style account addresses.
//
// It covers two questions that come up when a signer (a hardware card, an SDK,
// a remote service) produces keys or signatures that do not verify:
//
//   - Which address does this public key belong to, whatever encoding it came in?
//   - Which of several candidate hashes was this signature actually made over,
//     and with which recovery parity?
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/ecdsa-verify/pkg/ecdsaverify"
//
//	pk, _, err := ecdsaverify.NormalizePublicKeyHex("032c6f57...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ecdsaverify.DeriveAddress(pk))
//
// # Recovery Search
//
// Candidates are tried in the order given, parity 0 before parity 1, and the
// first match wins:
//
//	candidates, err := ecdsaverify.NewCandidateBuilder().
//	    AddPreimage("safeTxHash", txHash).
//	    Build()
//
//	sig, err := ecdsaverify.ParseSignatureHex("0x2caa...")
//	expected, err := ecdsaverify.ParseAddress("0xe104...")
//
//	if m := ecdsaverify.FindMatch(sig, candidates, expected); m != nil {
//	    fmt.Printf("signed %s with v=%d\n", m.Label, m.V)
//	}
//
// # Custom Strategies
//
// ParallelSearch spreads trials over workers and still reports the earliest
// match. Implement the SearchStrategy interface to plug in your own:
//
//	client := ecdsaverify.NewClient().WithStrategy(
//	    ecdsaverify.NewParallelSearch().WithConfig(ecdsaverify.SearchConfig{NumWorkers: 8}))
package ecdsaverify
