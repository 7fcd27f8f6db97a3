package ecdsaverify

import (
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// DecodeHex decodes a hex string, handling an optional 0x prefix. Case is ignored.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidHex, "%q: %v", s, err)
	}
	return b, nil
}

// decodeHexExact decodes s and checks the result is exactly n bytes long.
func decodeHexExact(what, s string, n int) ([]byte, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return nil, errors.Wrap(err, what)
	}
	if len(b) != n {
		return nil, &LengthError{What: what, Got: len(b), Expected: []int{n}}
	}
	return b, nil
}

// ParseDigest decodes a 32-byte digest from hex.
func ParseDigest(s string) ([32]byte, error) {
	var digest [32]byte
	b, err := decodeHexExact("digest", s, len(digest))
	if err != nil {
		return digest, err
	}
	copy(digest[:], b)
	return digest, nil
}
