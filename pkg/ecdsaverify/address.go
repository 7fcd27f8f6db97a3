package ecdsaverify

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AddressLength is the size of an account address in bytes.
const AddressLength = 20

// Address is an Ethereum-style account address. Compare addresses with ==,
// never through their string forms.
type Address [AddressLength]byte

// DeriveAddress returns the last 20 bytes of keccak256(X || Y).
func DeriveAddress(pk PublicKey) Address {
	var addr Address
	hash := crypto.Keccak256(pk[:])
	copy(addr[:], hash[32-AddressLength:])
	return addr
}

// String returns the lower-case 0x-prefixed hex form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// Checksum returns the EIP-55 mixed-case form. Display only.
func (a Address) Checksum() string {
	return common.Address(a).Hex()
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// ParseAddress decodes a 20-byte address from hex, with or without 0x, in any case.
func ParseAddress(s string) (Address, error) {
	var addr Address
	b, err := decodeHexExact("address", s, AddressLength)
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}
