package crypto

import (
	"bytes"
	"strings"
	"testing"
)

func TestAddressRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	addr := key.Address()
	encoded := addr.String()
	if !strings.HasPrefix(encoded, AddressPrefix+"1") {
		t.Fatalf("unexpected encoding %q", encoded)
	}
	decoded, err := DecodeAddress(encoded)
	if err != nil {
		t.Fatalf("decoding address: %v", err)
	}
	if decoded != addr {
		t.Fatalf("round trip mismatch: %v != %v", decoded, addr)
	}
}

func TestAddressFromBytesRejectsBadLength(t *testing.T) {
	if _, err := AddressFromBytes(make([]byte, 20)); err == nil {
		t.Fatalf("expected error for 20-byte input")
	}
	if _, err := AddressFromBytes(nil); err == nil {
		t.Fatalf("expected error for nil input")
	}
}

func TestPrivateKeyFromSeedDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 32)
	a, err := PrivateKeyFromSeed(seed)
	if err != nil {
		t.Fatalf("deriving key: %v", err)
	}
	b, err := PrivateKeyFromSeed(seed)
	if err != nil {
		t.Fatalf("deriving key: %v", err)
	}
	if a.Address() != b.Address() {
		t.Fatalf("same seed produced different addresses")
	}
}

func TestSignVerify(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generating key: %v", err)
	}
	msg := []byte("purchase group")
	sig := key.Sign(msg)
	if !Verify(key.Address(), msg, sig) {
		t.Fatalf("signature did not verify")
	}
	if Verify(key.Address(), []byte("tampered"), sig) {
		t.Fatalf("tampered message verified")
	}
}
