package types

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"joltchain/crypto"
)

var appAddressPrefix = []byte("jolt/appID")

// AppAddress derives the account address owned by a deployed
// application. Sub-payments are emitted from this account, and
// purchase groups must pay into it.
func AppAddress(appID uint64) crypto.Address {
	buf := make([]byte, len(appAddressPrefix)+8)
	copy(buf, appAddressPrefix)
	binary.BigEndian.PutUint64(buf[len(appAddressPrefix):], appID)
	return crypto.MustAddress(ethcrypto.Keccak256(buf))
}
