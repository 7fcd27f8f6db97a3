package ecdsaverify

import (
	"encoding/hex"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// SignatureLength is the size of an r || s || v signature.
const SignatureLength = 65

var (
	curveOrder     = new(big.Int).Set(secp256k1.S256().N)
	curveHalfOrder = new(big.Int).Rsh(curveOrder, 1)
)

// CurveOrder returns a copy of the order N of the secp256k1 curve.
func CurveOrder() *big.Int {
	return new(big.Int).Set(curveOrder)
}

// Signature is an ECDSA signature split into its fixed-width parts.
type Signature struct {
	R      [32]byte // r component, big-endian
	S      [32]byte // s component, big-endian
	V      byte     // v exactly as supplied (0/1 or 27/28)
	Parity byte     // recovery parity derived from V, always 0 or 1
}

// ParseSignature splits a 65-byte r || s || v signature.
//
// v may be a raw parity (0/1) or Ethereum-style (27/28). High-S values are accepted.
func ParseSignature(b []byte) (*Signature, error) {
	if len(b) != SignatureLength {
		return nil, &LengthError{What: "signature", Got: len(b), Expected: []int{SignatureLength}}
	}

	parity, err := ParityFromV(b[64])
	if err != nil {
		return nil, err
	}

	sig := &Signature{V: b[64], Parity: parity}
	copy(sig.R[:], b[0:32])
	copy(sig.S[:], b[32:64])
	return sig, nil
}

// ParseSignatureHex is ParseSignature for hex input.
func ParseSignatureHex(s string) (*Signature, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return nil, errors.Wrap(err, "signature")
	}
	return ParseSignature(b)
}

// ParityFromV maps v to a recovery parity: v >= 27 ? v - 27 : v.
func ParityFromV(v byte) (byte, error) {
	parity := v
	if v >= 27 {
		parity = v - 27
	}
	if parity > 1 {
		return 0, errors.Wrapf(ErrInvalidParity, "v=%d", v)
	}
	return parity, nil
}

// RInt returns r as an integer.
func (sig *Signature) RInt() *big.Int { return new(big.Int).SetBytes(sig.R[:]) }

// SInt returns s as an integer.
func (sig *Signature) SInt() *big.Int { return new(big.Int).SetBytes(sig.S[:]) }

// IsLowS reports whether s <= N/2.
func (sig *Signature) IsLowS() bool {
	return sig.SInt().Cmp(curveHalfOrder) <= 0
}

// CheckRange verifies 0 < r < N and 0 < s < N.
func (sig *Signature) CheckRange() error {
	r, s := sig.RInt(), sig.SInt()
	if r.Sign() == 0 || r.Cmp(curveOrder) >= 0 {
		return errors.Wrap(ErrInvalidRecovery, "r out of range")
	}
	if s.Sign() == 0 || s.Cmp(curveOrder) >= 0 {
		return errors.Wrap(ErrInvalidRecovery, "s out of range")
	}
	return nil
}

// Bytes returns the 65-byte r || s || v form with v as supplied.
func (sig *Signature) Bytes() []byte {
	out := make([]byte, 0, SignatureLength)
	out = append(out, sig.R[:]...)
	out = append(out, sig.S[:]...)
	return append(out, sig.V)
}

// Hex returns the 0x-prefixed hex of Bytes.
func (sig *Signature) Hex() string {
	return "0x" + hex.EncodeToString(sig.Bytes())
}

// compact returns the 27+parity || r || s form expected by compact recovery,
// flagged as an uncompressed key.
func (sig *Signature) compact(parity byte) []byte {
	out := make([]byte, 0, SignatureLength)
	out = append(out, 27+parity)
	out = append(out, sig.R[:]...)
	return append(out, sig.S[:]...)
}

// HashCandidate is one labeled pre-image hash a signature may have been made over.
type HashCandidate struct {
	Label  string
	Digest [32]byte
}

// MatchResult describes the first trial whose recovered address equals the expected one.
type MatchResult struct {
	Label          string    // Label of the matching candidate
	Index          int       // Position of the candidate in the input slice
	Digest         [32]byte  // Digest of the matching candidate
	Parity         byte      // Recovery parity that matched (0 or 1)
	V              byte      // Ethereum-style v for Parity (27 or 28)
	Trial          int       // 1-based position of the trial in candidate-then-parity order
	PublicKey      PublicKey // Recovered public key
	Address        Address   // Address derived from PublicKey
	DeclaredParity bool      // Whether Parity equals the signature's own parity
}
