package ecdsaverify

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"
)

// RecoverPublicKey recovers the public key that produced sig over digest,
// assuming the given recovery parity.
//
// Args:
//   - sig: Parsed signature; its own V is ignored in favor of parity
//   - parity: Recovery parity to try (0 or 1)
//   - digest: 32-byte message hash the signature is assumed to be over
//
// Returns:
//   - The recovered key, or an error wrapping ErrInvalidRecovery
func RecoverPublicKey(sig *Signature, parity byte, digest [32]byte) (PublicKey, error) {
	if sig == nil {
		return PublicKey{}, errors.Wrap(ErrInvalidRecovery, "nil signature")
	}
	if parity > 1 {
		return PublicKey{}, errors.Wrapf(ErrInvalidRecovery, "parity %d", parity)
	}
	if err := sig.CheckRange(); err != nil {
		return PublicKey{}, err
	}

	key, _, err := ecdsa.RecoverCompact(sig.compact(parity), digest[:])
	if err != nil {
		return PublicKey{}, errors.Wrapf(ErrInvalidRecovery, "parity %d: %v", parity, err)
	}
	return publicKeyFromSecp256k1(key), nil
}

// Outcome is the result of one (candidate, parity) recovery trial.
type Outcome struct {
	Index     int           // Trial position in candidate-then-parity order, 0-based
	Candidate HashCandidate // Candidate the trial used
	Parity    byte          // Parity the trial used
	PublicKey PublicKey     // Recovered key, zero when Err is set
	Address   Address       // Address of PublicKey, zero when Err is set
	Err       error         // Why the trial failed, wraps ErrInvalidRecovery
}

// Recovered reports whether the trial produced a public key.
func (o *Outcome) Recovered() bool {
	return o.Err == nil
}

// CandidateIndex returns the position of the trial's candidate in the input slice.
func (o *Outcome) CandidateIndex() int {
	return o.Index / 2
}

// trialCount is the number of trials for n candidates.
func trialCount(n int) int {
	return n * 2
}

// evaluateTrial runs trial i: candidate i/2 with parity i%2.
func evaluateTrial(sig *Signature, candidates []HashCandidate, i int, requireLowS bool) *Outcome {
	out := &Outcome{
		Index:     i,
		Candidate: candidates[i/2],
		Parity:    byte(i % 2),
	}

	if requireLowS && !sig.IsLowS() {
		out.Err = errors.Wrap(ErrInvalidRecovery, "high s rejected")
		return out
	}

	pk, err := RecoverPublicKey(sig, out.Parity, out.Candidate.Digest)
	if err != nil {
		out.Err = err
		return out
	}
	out.PublicKey = pk
	out.Address = DeriveAddress(pk)
	return out
}

// TrialIterator lazily yields the outcomes of every (candidate, parity) trial,
// candidates in input order and parity 0 before parity 1. Reset restarts it.
type TrialIterator struct {
	sig         *Signature
	candidates  []HashCandidate
	requireLowS bool
	pos         int
}

// NewTrialIterator creates an iterator over all trials for sig and candidates.
func NewTrialIterator(sig *Signature, candidates []HashCandidate) *TrialIterator {
	return &TrialIterator{sig: sig, candidates: candidates}
}

// WithRequireLowS makes every trial of a high-S signature fail.
func (it *TrialIterator) WithRequireLowS(require bool) *TrialIterator {
	it.requireLowS = require
	return it
}

// Next evaluates and returns the next trial. ok is false once all trials were yielded.
func (it *TrialIterator) Next() (out *Outcome, ok bool) {
	if it.pos >= it.Len() {
		return nil, false
	}
	out = evaluateTrial(it.sig, it.candidates, it.pos, it.requireLowS)
	it.pos++
	return out, true
}

// Reset rewinds the iterator to the first trial.
func (it *TrialIterator) Reset() {
	it.pos = 0
}

// Len returns the total number of trials.
func (it *TrialIterator) Len() int {
	return trialCount(len(it.candidates))
}

// All evaluates the remaining trials and returns their outcomes in order.
func (it *TrialIterator) All() []*Outcome {
	outcomes := make([]*Outcome, 0, it.Len()-it.pos)
	for out, ok := it.Next(); ok; out, ok = it.Next() {
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// EvaluateAll runs every trial without short-circuiting and without a low-S
// rule. It is meant for diagnostic reports that list each candidate and parity;
// use a TrialIterator with WithRequireLowS to apply the rule.
func EvaluateAll(sig *Signature, candidates []HashCandidate) []*Outcome {
	return NewTrialIterator(sig, candidates).All()
}

// matchFromOutcome builds the result reported for a matching trial.
func matchFromOutcome(sig *Signature, out *Outcome) *MatchResult {
	return &MatchResult{
		Label:          out.Candidate.Label,
		Index:          out.CandidateIndex(),
		Digest:         out.Candidate.Digest,
		Parity:         out.Parity,
		V:              27 + out.Parity,
		Trial:          out.Index + 1,
		PublicKey:      out.PublicKey,
		Address:        out.Address,
		DeclaredParity: out.Parity == sig.Parity,
	}
}
