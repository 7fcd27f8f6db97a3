package ecdsaverify

import (
	"math/big"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestRecoverPublicKey(t *testing.T) {
	key := testKey(1)
	digest := testDigest("recover")
	sig := mustSignature(t, key, digest)

	pk, err := RecoverPublicKey(sig, sig.Parity, digest)
	if err != nil {
		t.Fatalf("Failed to recover public key: %v", err)
	}

	want := publicKeyFromSecp256k1(key.PubKey())
	if pk != want {
		t.Errorf("Recovered key mismatch. Got: %s, Expected: %s", pk.Hex(), want.Hex())
	}
}

func TestRecoverPublicKey_WrongParity(t *testing.T) {
	key := testKey(1)
	digest := testDigest("recover")
	sig := mustSignature(t, key, digest)

	pk, err := RecoverPublicKey(sig, 1-sig.Parity, digest)
	if err != nil {
		// Some r values have no point for the other parity; that is a valid failure.
		if !errors.Is(err, ErrInvalidRecovery) {
			t.Fatalf("Expected ErrInvalidRecovery, got %v", err)
		}
		return
	}
	if pk == publicKeyFromSecp256k1(key.PubKey()) {
		t.Error("Wrong parity should not recover the signer's key")
	}
}

func TestRecoverPublicKey_InvalidInputs(t *testing.T) {
	sig := mustSignature(t, testKey(1), testDigest("invalid"))
	digest := testDigest("invalid")

	zeroR := *sig
	zeroR.R = [32]byte{}

	zeroS := *sig
	zeroS.S = [32]byte{}

	bigR := *sig
	CurveOrder().FillBytes(bigR.R[:])

	tests := []struct {
		name   string
		sig    *Signature
		parity byte
	}{
		{"nil signature", nil, 0},
		{"r is zero", &zeroR, 0},
		{"s is zero", &zeroS, 1},
		{"r equals N", &bigR, 0},
		{"parity 2", sig, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RecoverPublicKey(tt.sig, tt.parity, digest)
			if !errors.Is(err, ErrInvalidRecovery) {
				t.Errorf("Expected ErrInvalidRecovery, got %v", err)
			}
		})
	}
}

func TestRecoverPublicKey_HighS(t *testing.T) {
	key := testKey(4)
	digest := testDigest("high-s")
	sig := mustSignature(t, key, digest)

	// (r, N-s) with the other parity is the malleated twin of (r, s).
	high := *sig
	new(big.Int).Sub(CurveOrder(), sig.SInt()).FillBytes(high.S[:])

	pk, err := RecoverPublicKey(&high, 1-sig.Parity, digest)
	if err != nil {
		t.Fatalf("High-S signature should still recover: %v", err)
	}
	if pk != publicKeyFromSecp256k1(key.PubKey()) {
		t.Error("High-S twin recovered a different key")
	}
}

func TestTrialIterator_Order(t *testing.T) {
	sig := mustSignature(t, testKey(1), testDigest("order"))
	candidates := []HashCandidate{
		{Label: "A", Digest: testDigest("a")},
		{Label: "B", Digest: testDigest("b")},
		{Label: "C", Digest: testDigest("c")},
	}

	it := NewTrialIterator(sig, candidates)
	if it.Len() != 6 {
		t.Fatalf("Expected 6 trials, got %d", it.Len())
	}

	wantLabels := []string{"A", "A", "B", "B", "C", "C"}
	collect := func() []*Outcome {
		var outs []*Outcome
		for out, ok := it.Next(); ok; out, ok = it.Next() {
			outs = append(outs, out)
		}
		return outs
	}

	first := collect()
	if len(first) != len(wantLabels) {
		t.Fatalf("Expected %d outcomes, got %d", len(wantLabels), len(first))
	}
	for i, out := range first {
		if out.Index != i {
			t.Errorf("Outcome %d has index %d", i, out.Index)
		}
		if out.Candidate.Label != wantLabels[i] {
			t.Errorf("Outcome %d: expected candidate %s, got %s", i, wantLabels[i], out.Candidate.Label)
		}
		if out.Parity != byte(i%2) {
			t.Errorf("Outcome %d: expected parity %d, got %d", i, i%2, out.Parity)
		}
		if out.CandidateIndex() != i/2 {
			t.Errorf("Outcome %d: expected candidate index %d, got %d", i, i/2, out.CandidateIndex())
		}
	}

	if _, ok := it.Next(); ok {
		t.Error("Exhausted iterator should stay exhausted")
	}

	it.Reset()
	second := collect()
	if len(second) != len(first) {
		t.Fatalf("Restarted iterator yielded %d outcomes, expected %d", len(second), len(first))
	}
	for i := range first {
		if first[i].Address != second[i].Address || first[i].Recovered() != second[i].Recovered() {
			t.Errorf("Outcome %d differs after Reset", i)
		}
	}
}

func TestTrialIterator_Empty(t *testing.T) {
	sig := mustSignature(t, testKey(1), testDigest("empty"))
	it := NewTrialIterator(sig, nil)
	if _, ok := it.Next(); ok {
		t.Error("Iterator over no candidates should be empty")
	}
}

func TestEvaluateAll(t *testing.T) {
	key := testKey(5)
	digest := testDigest("evaluate")
	sig := mustSignature(t, key, digest)
	expected := testAddress(key)

	outcomes := EvaluateAll(sig, []HashCandidate{
		{Label: "other", Digest: testDigest("other")},
		{Label: "signed", Digest: digest},
	})
	if len(outcomes) != 4 {
		t.Fatalf("Expected 4 outcomes, got %d", len(outcomes))
	}

	matches := 0
	for _, out := range outcomes {
		if out.Recovered() && out.Address == expected {
			matches++
			if out.Candidate.Label != "signed" || out.Parity != sig.Parity {
				t.Errorf("Unexpected match at %s parity %d", out.Candidate.Label, out.Parity)
			}
		}
	}
	if matches != 1 {
		t.Errorf("Expected exactly one matching trial, got %d", matches)
	}
}

func TestEvaluateAll_InvalidSignature(t *testing.T) {
	sig := mustSignature(t, testKey(1), testDigest("zero"))
	sig.R = [32]byte{}

	for _, out := range EvaluateAll(sig, []HashCandidate{{Label: "x", Digest: testDigest("x")}}) {
		if out.Recovered() {
			t.Errorf("Trial %d should fail for r=0", out.Index)
		}
		if !errors.Is(out.Err, ErrInvalidRecovery) {
			t.Errorf("Trial %d: expected ErrInvalidRecovery, got %v", out.Index, out.Err)
		}
		if out.Address != (Address{}) {
			t.Errorf("Trial %d: failed trial should carry no address", out.Index)
		}
	}
}

func TestTrialIterator_AllRequireLowS(t *testing.T) {
	key := testKey(6)
	digest := testDigest("all")
	sig := mustSignature(t, key, digest)
	candidates := []HashCandidate{{Label: "signed", Digest: digest}}

	high := *sig
	new(big.Int).Sub(CurveOrder(), sig.SInt()).FillBytes(high.S[:])

	permissive := NewTrialIterator(&high, candidates).All()
	matched := false
	for _, out := range permissive {
		matched = matched || (out.Recovered() && out.Address == testAddress(key))
	}
	if !matched {
		t.Error("Permissive trials should recover the signer from the high-S twin")
	}

	strict := NewTrialIterator(&high, candidates).WithRequireLowS(true).All()
	if len(strict) != 2 {
		t.Fatalf("Expected 2 outcomes, got %d", len(strict))
	}
	for _, out := range strict {
		if out.Recovered() {
			t.Errorf("Trial %d should be rejected for high s", out.Index)
		}
		if !errors.Is(out.Err, ErrInvalidRecovery) || !strings.Contains(out.Err.Error(), "high s rejected") {
			t.Errorf("Trial %d: unexpected error %v", out.Index, out.Err)
		}
	}
}

func TestTrialIterator_AllAfterNext(t *testing.T) {
	sig := mustSignature(t, testKey(1), testDigest("rest"))
	it := NewTrialIterator(sig, []HashCandidate{
		{Label: "A", Digest: testDigest("a")},
		{Label: "B", Digest: testDigest("b")},
	})

	it.Next()
	rest := it.All()
	if len(rest) != 3 || rest[0].Index != 1 {
		t.Errorf("Expected the 3 remaining trials starting at index 1, got %d", len(rest))
	}
	if more := it.All(); len(more) != 0 {
		t.Errorf("Exhausted iterator returned %d outcomes", len(more))
	}
}
