package ecdsaverify

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// HashKind names a way of turning a pre-image into a candidate digest.
type HashKind string

const (
	HashRaw          HashKind = "raw"       // the pre-image itself, must be 32 bytes
	HashSHA256       HashKind = "sha256"    // sha256(pre-image)
	HashDoubleSHA256 HashKind = "sha256d"   // sha256(sha256(pre-image))
	HashKeccak256    HashKind = "keccak256" // keccak256(pre-image)
	HashPersonalSign HashKind = "personal"  // keccak256("\x19Ethereum Signed Message:\n" + len + pre-image)
)

// DefaultHashKinds is the order variants are added in when none are specified.
var DefaultHashKinds = []HashKind{HashRaw, HashSHA256, HashDoubleSHA256, HashKeccak256, HashPersonalSign}

// ParseHashKind accepts a kind name in any case.
func ParseHashKind(s string) (HashKind, error) {
	kind := HashKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range DefaultHashKinds {
		if k == kind {
			return kind, nil
		}
	}
	return "", errors.Errorf("unknown hash kind %q", s)
}

// Digest applies the hash kind to a pre-image.
func (k HashKind) Digest(preimage []byte) ([32]byte, error) {
	var digest [32]byte
	switch k {
	case HashRaw:
		if len(preimage) != len(digest) {
			return digest, &LengthError{What: "raw digest", Got: len(preimage), Expected: []int{len(digest)}}
		}
		copy(digest[:], preimage)
	case HashSHA256:
		digest = sha256.Sum256(preimage)
	case HashDoubleSHA256:
		first := sha256.Sum256(preimage)
		digest = sha256.Sum256(first[:])
	case HashKeccak256:
		copy(digest[:], crypto.Keccak256(preimage))
	case HashPersonalSign:
		copy(digest[:], accounts.TextHash(preimage))
	default:
		return digest, errors.Errorf("unknown hash kind %q", string(k))
	}
	return digest, nil
}

// Label formats the candidate label for a pre-image label.
func (k HashKind) Label(name string) string {
	switch k {
	case HashRaw:
		return fmt.Sprintf("Raw %s", name)
	case HashSHA256:
		return fmt.Sprintf("SHA256(%s)", name)
	case HashDoubleSHA256:
		return fmt.Sprintf("SHA256(SHA256(%s))", name)
	case HashKeccak256:
		return fmt.Sprintf("Keccak256(%s)", name)
	case HashPersonalSign:
		return fmt.Sprintf("PersonalSign(%s)", name)
	default:
		return fmt.Sprintf("%s(%s)", string(k), name)
	}
}

// CandidateBuilder assembles an ordered candidate set. The first error is kept
// and returned by Build; later calls become no-ops.
type CandidateBuilder struct {
	candidates []HashCandidate
	err        error
}

// NewCandidateBuilder creates an empty builder.
func NewCandidateBuilder() *CandidateBuilder {
	return &CandidateBuilder{}
}

// Add appends a candidate with a precomputed digest.
func (b *CandidateBuilder) Add(label string, digest [32]byte) *CandidateBuilder {
	if b.err == nil {
		b.candidates = append(b.candidates, HashCandidate{Label: label, Digest: digest})
	}
	return b
}

// AddHex appends a candidate whose digest is given as hex.
func (b *CandidateBuilder) AddHex(label, digestHex string) *CandidateBuilder {
	if b.err != nil {
		return b
	}
	digest, err := ParseDigest(digestHex)
	if err != nil {
		b.err = errors.Wrapf(err, "candidate %q", label)
		return b
	}
	return b.Add(label, digest)
}

// AddVariant appends hash kind k of the pre-image.
func (b *CandidateBuilder) AddVariant(name string, preimage []byte, k HashKind) *CandidateBuilder {
	if b.err != nil {
		return b
	}
	digest, err := k.Digest(preimage)
	if err != nil {
		b.err = errors.Wrapf(err, "candidate %q", k.Label(name))
		return b
	}
	return b.Add(k.Label(name), digest)
}

// AddPreimage appends one candidate per kind, in the given order. With no kinds,
// DefaultHashKinds is used and the raw variant is skipped for pre-images that are
// not 32 bytes long.
func (b *CandidateBuilder) AddPreimage(name string, preimage []byte, kinds ...HashKind) *CandidateBuilder {
	if len(kinds) == 0 {
		for _, k := range DefaultHashKinds {
			if k == HashRaw && len(preimage) != 32 {
				continue
			}
			b.AddVariant(name, preimage, k)
		}
		return b
	}
	for _, k := range kinds {
		b.AddVariant(name, preimage, k)
	}
	return b
}

// Build returns the candidates in insertion order.
func (b *CandidateBuilder) Build() ([]HashCandidate, error) {
	if b.err != nil {
		return nil, b.err
	}
	out := make([]HashCandidate, len(b.candidates))
	copy(out, b.candidates)
	return out, nil
}
