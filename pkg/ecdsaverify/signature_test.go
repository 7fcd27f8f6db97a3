package ecdsaverify

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/pkg/errors"
)

func rawSignature(v byte) []byte {
	b := make([]byte, SignatureLength)
	b[31] = 1
	b[63] = 2
	b[64] = v
	return b
}

func TestParseSignature_Parity(t *testing.T) {
	tests := []struct {
		v      byte
		parity byte
	}{
		{0, 0},
		{1, 1},
		{27, 0},
		{28, 1},
	}

	for _, tt := range tests {
		sig, err := ParseSignature(rawSignature(tt.v))
		if err != nil {
			t.Errorf("v=%d: unexpected error %v", tt.v, err)
			continue
		}
		if sig.Parity != tt.parity {
			t.Errorf("v=%d: expected parity %d, got %d", tt.v, tt.parity, sig.Parity)
		}
		if sig.V != tt.v {
			t.Errorf("v=%d: V not preserved, got %d", tt.v, sig.V)
		}
	}
}

func TestParseSignature_InvalidParity(t *testing.T) {
	for _, v := range []byte{2, 3, 26, 29, 30, 35, 255} {
		_, err := ParseSignature(rawSignature(v))
		if !errors.Is(err, ErrInvalidParity) {
			t.Errorf("v=%d: expected ErrInvalidParity, got %v", v, err)
		}
	}
}

func TestParseSignature_InvalidLength(t *testing.T) {
	for _, n := range []int{0, 64, 66, 130} {
		_, err := ParseSignature(make([]byte, n))
		var lerr *LengthError
		if !errors.As(err, &lerr) {
			t.Errorf("Length %d: expected *LengthError, got %v", n, err)
			continue
		}
		if lerr.Got != n || len(lerr.Expected) != 1 || lerr.Expected[0] != SignatureLength {
			t.Errorf("Length %d: unexpected error contents %+v", n, lerr)
		}
	}
}

func TestParseSignature_Components(t *testing.T) {
	raw := signDigest(testKey(1), testDigest("components"))

	sig, err := ParseSignature(raw)
	if err != nil {
		t.Fatalf("Failed to parse signature: %v", err)
	}

	if !bytes.Equal(sig.R[:], raw[0:32]) {
		t.Error("R does not match bytes 0..32")
	}
	if !bytes.Equal(sig.S[:], raw[32:64]) {
		t.Error("S does not match bytes 32..64")
	}
	if !bytes.Equal(sig.Bytes(), raw) {
		t.Error("Bytes does not rebuild the input")
	}

	fromHex, err := ParseSignatureHex(sig.Hex())
	if err != nil {
		t.Fatalf("Failed to parse hex signature: %v", err)
	}
	if *fromHex != *sig {
		t.Error("Hex round trip changed the signature")
	}
}

func TestSignature_CheckRange(t *testing.T) {
	sig, err := ParseSignature(rawSignature(27))
	if err != nil {
		t.Fatalf("Failed to parse signature: %v", err)
	}
	if err := sig.CheckRange(); err != nil {
		t.Errorf("Small r and s should be in range: %v", err)
	}

	zeroR := *sig
	zeroR.R = [32]byte{}
	if err := zeroR.CheckRange(); !errors.Is(err, ErrInvalidRecovery) {
		t.Errorf("Expected ErrInvalidRecovery for r=0, got %v", err)
	}

	bigS := *sig
	CurveOrder().FillBytes(bigS.S[:])
	if err := bigS.CheckRange(); !errors.Is(err, ErrInvalidRecovery) {
		t.Errorf("Expected ErrInvalidRecovery for s=N, got %v", err)
	}
}

func TestCurveOrder(t *testing.T) {
	want, _ := new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141", 16)
	if CurveOrder().Cmp(want) != 0 {
		t.Fatalf("Unexpected curve order %x", CurveOrder())
	}

	// Changing the returned value must not affect range checks.
	n := CurveOrder()
	n.SetInt64(1)
	if CurveOrder().Cmp(want) != 0 {
		t.Error("CurveOrder returned shared state")
	}

	sig, err := ParseSignature(signDigest(testKey(3), testDigest("order")))
	if err != nil {
		t.Fatalf("Failed to parse signature: %v", err)
	}
	if err := sig.CheckRange(); err != nil {
		t.Errorf("Valid signature out of range after mutating a copy: %v", err)
	}
}

func TestSignature_IsLowS(t *testing.T) {
	sig, err := ParseSignature(signDigest(testKey(2), testDigest("low-s")))
	if err != nil {
		t.Fatalf("Failed to parse signature: %v", err)
	}
	// SignCompact always produces canonical signatures.
	if !sig.IsLowS() {
		t.Fatal("Generated signature should be low-S")
	}

	high := *sig
	new(big.Int).Sub(CurveOrder(), sig.SInt()).FillBytes(high.S[:])
	if high.IsLowS() {
		t.Error("N - s should be high-S")
	}
}
