package ecdsaverify

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Canonical regression vector: Wallet[0] of the card.
const (
	vectorPublicKeyHex = "032c6f575345bafa41227d802afaa251f9fd1d5613a0f729b46a200ac90a92f6df"
	vectorAddressHex   = "0x9fe13b041b6811b717b311fce887146972b20d6a"
)

func fixturesDir() string {
	return "testdata"
}

func fixturePath(name string) string {
	return filepath.Join(fixturesDir(), name)
}

// testKey returns a deterministic private key for seed.
func testKey(seed byte) *secp256k1.PrivateKey {
	var b [32]byte
	for i := range b {
		b[i] = 0x5a
	}
	b[31] = seed
	return secp256k1.PrivKeyFromBytes(b[:])
}

func testAddress(key *secp256k1.PrivateKey) Address {
	return DeriveAddress(publicKeyFromSecp256k1(key.PubKey()))
}

func testDigest(s string) [32]byte {
	return sha256.Sum256([]byte(s))
}

// signDigest signs digest and returns r || s || v with v in {27, 28}.
func signDigest(key *secp256k1.PrivateKey, digest [32]byte) []byte {
	compact := ecdsa.SignCompact(key, digest[:], false)
	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig
}

// mustSignature signs digest and parses the result.
func mustSignature(t *testing.T, key *secp256k1.PrivateKey, digest [32]byte) *Signature {
	t.Helper()
	sig, err := ParseSignature(signDigest(key, digest))
	if err != nil {
		t.Fatalf("Failed to parse generated signature: %v", err)
	}
	return sig
}

// signatureWithParity searches for a digest whose signature by key has the wanted parity.
func signatureWithParity(t *testing.T, key *secp256k1.PrivateKey, parity byte) (*Signature, [32]byte) {
	t.Helper()
	for i := 0; i < 256; i++ {
		digest := testDigest(fmt.Sprintf("message-%d", i))
		sig := mustSignature(t, key, digest)
		if sig.Parity == parity {
			return sig, digest
		}
	}
	t.Fatalf("No signature with parity %d found", parity)
	return nil, [32]byte{}
}
