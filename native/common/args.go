package common

import (
	"encoding/binary"
	"errors"
	"fmt"

	"joltchain/crypto"
)

var (
	ErrArgTooLong  = errors.New("common: integer argument longer than 8 bytes")
	ErrBadAddress  = errors.New("common: address argument must be 32 bytes")
	ErrMissingArgs = errors.New("common: missing application arguments")
)

// DecodeUint64 parses a big-endian integer argument of up to 8 bytes,
// matching the wire form the external tooling produces.
func DecodeUint64(arg []byte) (uint64, error) {
	if len(arg) > 8 {
		return 0, ErrArgTooLong
	}
	var buf [8]byte
	copy(buf[8-len(arg):], arg)
	return binary.BigEndian.Uint64(buf[:]), nil
}

// EncodeUint64 renders v as an 8-byte big-endian argument.
func EncodeUint64(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

// DecodeAddress parses a raw 32-byte address argument.
func DecodeAddress(arg []byte) (crypto.Address, error) {
	addr, err := crypto.AddressFromBytes(arg)
	if err != nil {
		return crypto.Address{}, fmt.Errorf("%w: %d bytes", ErrBadAddress, len(arg))
	}
	return addr, nil
}

// RequireArgs asserts a minimum application-argument count.
func RequireArgs(args [][]byte, n int) error {
	if len(args) < n {
		return fmt.Errorf("%w: need %d, got %d", ErrMissingArgs, n, len(args))
	}
	return nil
}
