package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
)

// AddressPrefix is the human-readable part used when rendering
// addresses for operators and tooling.
const AddressPrefix = "jolt"

// AddressLength is the raw address size. Addresses are the account's
// ed25519 public key verbatim.
const AddressLength = 32

// Address represents a 32-byte joltchain account address.
type Address [AddressLength]byte

// ZeroAddress is the sentinel used by transaction fields that must be
// left empty (close-to, rekey-to, clawback).
var ZeroAddress Address

// AddressFromBytes copies b into an Address, rejecting any length
// other than the canonical 32 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressLength {
		return addr, fmt.Errorf("crypto: address must be %d bytes, got %d", AddressLength, len(b))
	}
	copy(addr[:], b)
	return addr, nil
}

// MustAddress is AddressFromBytes for callers holding a known-good
// slice; it panics on bad input.
func MustAddress(b []byte) Address {
	addr, err := AddressFromBytes(b)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) Bytes() []byte { return a[:] }

// IsZero reports whether the address is the empty sentinel.
func (a Address) IsZero() bool { return a == ZeroAddress }

// String renders the address as bech32 with the jolt prefix.
func (a Address) String() string {
	conv, err := bech32.ConvertBits(a[:], 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(AddressPrefix, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// DecodeAddress parses a bech32-rendered address back into its raw
// 32-byte form.
func DecodeAddress(s string) (Address, error) {
	prefix, decoded, err := bech32.Decode(s)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: invalid bech32 string: %w", err)
	}
	if prefix != AddressPrefix {
		return Address{}, fmt.Errorf("crypto: unexpected address prefix %q", prefix)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("crypto: error converting bits: %w", err)
	}
	return AddressFromBytes(conv)
}

// --- Key Management ---

// PrivateKey wraps an ed25519 signing key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GeneratePrivateKey creates a fresh ed25519 keypair.
func GeneratePrivateKey() (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromSeed derives a deterministic keypair from a 32-byte
// seed. Intended for tests and genesis tooling.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("crypto: seed must be %d bytes", ed25519.SeedSize)
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Bytes returns the private key material.
func (k *PrivateKey) Bytes() []byte {
	return append([]byte(nil), k.key...)
}

// Address returns the account address, i.e. the raw public key.
func (k *PrivateKey) Address() Address {
	pub := k.key.Public().(ed25519.PublicKey)
	return MustAddress(pub)
}

// Sign signs msg with the private key.
func (k *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(k.key, msg)
}

// Verify checks an ed25519 signature against the address acting as the
// public key.
func Verify(addr Address, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(addr[:]), msg, sig)
}
