package state

import (
	"encoding/binary"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"joltchain/crypto"
)

var (
	accountPrefix  = []byte("acct:")
	appPrefix      = []byte("app:")
	appKVPrefix    = []byte("appkv:")
	localPrefix    = []byte("local:")
	appSequenceKey = ethcrypto.Keccak256([]byte("app-sequence"))
)

func accountKey(addr crypto.Address) []byte {
	buf := make([]byte, len(accountPrefix)+len(addr))
	copy(buf, accountPrefix)
	copy(buf[len(accountPrefix):], addr[:])
	return ethcrypto.Keccak256(buf)
}

func appParamsKey(appID uint64) []byte {
	buf := make([]byte, len(appPrefix)+8)
	copy(buf, appPrefix)
	binary.BigEndian.PutUint64(buf[len(appPrefix):], appID)
	return ethcrypto.Keccak256(buf)
}

func appGlobalKey(appID uint64) []byte {
	buf := make([]byte, len(appKVPrefix)+8)
	copy(buf, appKVPrefix)
	binary.BigEndian.PutUint64(buf[len(appKVPrefix):], appID)
	return ethcrypto.Keccak256(buf)
}

func appLocalKey(appID uint64, addr crypto.Address) []byte {
	buf := make([]byte, len(localPrefix)+8+1+len(addr))
	copy(buf, localPrefix)
	binary.BigEndian.PutUint64(buf[len(localPrefix):], appID)
	buf[len(localPrefix)+8] = ':'
	copy(buf[len(localPrefix)+8+1:], addr[:])
	return ethcrypto.Keccak256(buf)
}
