package ecdsaverify

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"
)

// Public key encoding sizes and prefixes.
const (
	PubKeyBytesLenCompressed   = 33
	PubKeyBytesLenRaw          = 64
	PubKeyBytesLenUncompressed = 65

	pubKeyCompressedEven byte = 0x02
	pubKeyCompressedOdd  byte = 0x03
	pubKeyUncompressed   byte = 0x04
)

var pubKeyLengths = []int{PubKeyBytesLenCompressed, PubKeyBytesLenRaw, PubKeyBytesLenUncompressed}

// Encoding identifies the on-wire form a public key was supplied in.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	EncodingCompressed33
	EncodingUncompressedPrefixed65
	EncodingUncompressedRaw64
)

func (e Encoding) String() string {
	switch e {
	case EncodingCompressed33:
		return "compressed (33 bytes)"
	case EncodingUncompressedPrefixed65:
		return "uncompressed (65 bytes, 0x04 prefix)"
	case EncodingUncompressedRaw64:
		return "uncompressed (64 bytes, no prefix)"
	default:
		return "unknown"
	}
}

// PublicKey is a secp256k1 point in canonical form: X || Y, 32 bytes each, big-endian.
// Values are only produced by NormalizePublicKey or by recovery, so they always lie on the curve.
type PublicKey [64]byte

// X returns the big-endian X coordinate.
func (pk PublicKey) X() []byte { return pk[:32] }

// Y returns the big-endian Y coordinate.
func (pk PublicKey) Y() []byte { return pk[32:] }

// SerializeUncompressed returns the 65-byte 0x04 || X || Y form.
func (pk PublicKey) SerializeUncompressed() []byte {
	out := make([]byte, 0, PubKeyBytesLenUncompressed)
	out = append(out, pubKeyUncompressed)
	return append(out, pk[:]...)
}

// SerializeCompressed returns the 33-byte form with the parity of Y in the prefix.
func (pk PublicKey) SerializeCompressed() []byte {
	prefix := pubKeyCompressedEven
	if pk[63]&1 == 1 {
		prefix = pubKeyCompressedOdd
	}
	out := make([]byte, 0, PubKeyBytesLenCompressed)
	out = append(out, prefix)
	return append(out, pk[:32]...)
}

// Hex returns the 0x-prefixed hex of the 64-byte form.
func (pk PublicKey) Hex() string {
	return "0x" + hex.EncodeToString(pk[:])
}

// Address derives the account address of the key.
func (pk PublicKey) Address() Address {
	return DeriveAddress(pk)
}

// DetectEncoding classifies a serialized public key by its length and prefix byte.
func DetectEncoding(b []byte) (Encoding, error) {
	switch len(b) {
	case PubKeyBytesLenCompressed:
		if b[0] != pubKeyCompressedEven && b[0] != pubKeyCompressedOdd {
			return EncodingUnknown, errors.Wrapf(ErrInvalidEncoding, "compressed key prefix 0x%02x", b[0])
		}
		return EncodingCompressed33, nil
	case PubKeyBytesLenRaw:
		return EncodingUncompressedRaw64, nil
	case PubKeyBytesLenUncompressed:
		if b[0] != pubKeyUncompressed {
			return EncodingUnknown, errors.Wrapf(ErrInvalidEncoding, "uncompressed key prefix 0x%02x", b[0])
		}
		return EncodingUncompressedPrefixed65, nil
	default:
		return EncodingUnknown, &LengthError{What: "public key", Got: len(b), Expected: pubKeyLengths}
	}
}

// NormalizePublicKey parses a secp256k1 public key in any supported encoding and
// returns its canonical 64-byte form together with the detected encoding.
//
// Args:
//   - b: 33-byte compressed, 65-byte 0x04-prefixed or 64-byte raw X || Y
//
// Returns:
//   - The canonical key, or ErrInvalidEncoding / *LengthError
func NormalizePublicKey(b []byte) (PublicKey, Encoding, error) {
	var pk PublicKey

	enc, err := DetectEncoding(b)
	if err != nil {
		return pk, EncodingUnknown, err
	}

	serialized := b
	if enc == EncodingUncompressedRaw64 {
		serialized = make([]byte, 0, PubKeyBytesLenUncompressed)
		serialized = append(serialized, pubKeyUncompressed)
		serialized = append(serialized, b...)
	}

	// ParsePubKey rejects coordinates >= p, off-curve points and X without a square root.
	key, err := secp256k1.ParsePubKey(serialized)
	if err != nil {
		return pk, EncodingUnknown, errors.Wrapf(ErrInvalidEncoding, "%s: %v", enc, err)
	}

	return publicKeyFromSecp256k1(key), enc, nil
}

// NormalizePublicKeyHex is NormalizePublicKey for hex input.
func NormalizePublicKeyHex(s string) (PublicKey, Encoding, error) {
	b, err := DecodeHex(s)
	if err != nil {
		return PublicKey{}, EncodingUnknown, errors.Wrap(err, "public key")
	}
	return NormalizePublicKey(b)
}

// publicKeyFromSecp256k1 converts a decred key to the canonical form.
func publicKeyFromSecp256k1(key *secp256k1.PublicKey) PublicKey {
	var pk PublicKey
	copy(pk[:], key.SerializeUncompressed()[1:])
	return pk
}
