package types

import (
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"joltchain/crypto"
)

// TxType defines the purpose of a transaction.
type TxType byte

const (
	TxTypePayment         TxType = 0x01 // µ-unit value transfer
	TxTypeAssetTransfer   TxType = 0x02 // transfer of a reference asset
	TxTypeApplicationCall TxType = 0x03 // invocation of a deployed program
)

// OnCompletion selects the lifecycle effect of an application call.
// Entry-point selection inside a NoOp call happens via the leading
// application argument instead.
type OnCompletion uint8

const (
	OnCompletionNoOp OnCompletion = iota
	OnCompletionOptIn
	OnCompletionCloseOut
	OnCompletionClearState
	OnCompletionUpdate
	OnCompletionDelete
)

func (oc OnCompletion) String() string {
	switch oc {
	case OnCompletionNoOp:
		return "noop"
	case OnCompletionOptIn:
		return "optin"
	case OnCompletionCloseOut:
		return "closeout"
	case OnCompletionClearState:
		return "clearstate"
	case OnCompletionUpdate:
		return "update"
	case OnCompletionDelete:
		return "delete"
	}
	return "unknown"
}

// Transaction carries the union of the fields used by the three
// transaction types. Unused fields stay at their zero value; the
// hardened group validators rely on that sentinel to reject close-to,
// rekey-to and clawback abuse.
type Transaction struct {
	Type   TxType
	Sender crypto.Address
	Fee    uint64

	// Payment fields.
	Receiver         crypto.Address
	Amount           uint64
	CloseRemainderTo crypto.Address
	RekeyTo          crypto.Address

	// Asset transfer fields. AssetSender is the clawback override: when
	// set, the asset moves out of that account instead of Sender.
	XferAsset     uint64
	AssetAmount   uint64
	AssetSender   crypto.Address
	AssetReceiver crypto.Address
	AssetCloseTo  crypto.Address

	// Application call fields.
	ApplicationID   uint64
	OnCompletion    OnCompletion
	ApplicationArgs [][]byte
	Accounts        []crypto.Address
	ApprovalProgram string
	GlobalSchema    Schema
	LocalSchema     Schema

	// Group is the shared atomic-group identifier, stamped by
	// TxGroup.Seal. It is excluded from Hash so the id derivation is
	// not circular.
	Group [32]byte
}

// Schema declares the key-value slot budget an application reserves at
// creation time. The budget is permanent; writes beyond it fail.
type Schema struct {
	ByteSlices uint64
	Uints      uint64
}

type hashableTx struct {
	Type             TxType
	Sender           crypto.Address
	Fee              uint64
	Receiver         crypto.Address
	Amount           uint64
	CloseRemainderTo crypto.Address
	RekeyTo          crypto.Address
	XferAsset        uint64
	AssetAmount      uint64
	AssetSender      crypto.Address
	AssetReceiver    crypto.Address
	AssetCloseTo     crypto.Address
	ApplicationID    uint64
	OnCompletion     OnCompletion
	ApplicationArgs  [][]byte
	Accounts         []crypto.Address
	ApprovalProgram  string
	GlobalSchema     Schema
	LocalSchema      Schema
}

// Hash returns the transaction id: keccak-256 over the RLP encoding of
// every field except Group.
func (tx *Transaction) Hash() ([32]byte, error) {
	var id [32]byte
	encoded, err := rlp.EncodeToBytes(&hashableTx{
		Type:             tx.Type,
		Sender:           tx.Sender,
		Fee:              tx.Fee,
		Receiver:         tx.Receiver,
		Amount:           tx.Amount,
		CloseRemainderTo: tx.CloseRemainderTo,
		RekeyTo:          tx.RekeyTo,
		XferAsset:        tx.XferAsset,
		AssetAmount:      tx.AssetAmount,
		AssetSender:      tx.AssetSender,
		AssetReceiver:    tx.AssetReceiver,
		AssetCloseTo:     tx.AssetCloseTo,
		ApplicationID:    tx.ApplicationID,
		OnCompletion:     tx.OnCompletion,
		ApplicationArgs:  tx.ApplicationArgs,
		Accounts:         tx.Accounts,
		ApprovalProgram:  tx.ApprovalProgram,
		GlobalSchema:     tx.GlobalSchema,
		LocalSchema:      tx.LocalSchema,
	})
	if err != nil {
		return id, err
	}
	copy(id[:], ethcrypto.Keccak256(encoded))
	return id, nil
}

var groupIDPrefix = []byte("jolt/txgroup")

// ComputeGroupID derives the shared group identifier over the member
// transaction hashes in order.
func ComputeGroupID(txns []*Transaction) ([32]byte, error) {
	var gid [32]byte
	buf := make([]byte, 0, len(groupIDPrefix)+32*len(txns))
	buf = append(buf, groupIDPrefix...)
	for _, tx := range txns {
		h, err := tx.Hash()
		if err != nil {
			return gid, err
		}
		buf = append(buf, h[:]...)
	}
	copy(gid[:], ethcrypto.Keccak256(buf))
	return gid, nil
}
