package types

import (
	"errors"
	"fmt"
)

// Purchase groups follow one fixed convention, matching the external
// tooling byte for byte: the application call is transaction 0, the
// value payment is transaction 1 and the asset transfer is transaction
// 2. The named leg accessors below exist so validators never index the
// group positionally.
const (
	PurchaseGroupSize    = 3
	PurchaseAppCallIndex = 0
	PurchasePaymentIndex = 1
	PurchaseAssetIndex   = 2
)

var errEmptyGroup = errors.New("types: empty transaction group")

// TxGroup is an ordered, sealed atomic group. All members carry the
// same group identifier; the substrate commits or rejects them as one
// unit.
type TxGroup struct {
	txns []*Transaction
	id   [32]byte
}

// NewTxGroup seals the supplied transactions into an atomic group,
// computing the shared identifier and stamping it onto every member.
// Single transactions may be submitted unsealed; groups of two or more
// must be built through this constructor.
func NewTxGroup(txns ...*Transaction) (*TxGroup, error) {
	if len(txns) == 0 {
		return nil, errEmptyGroup
	}
	gid, err := ComputeGroupID(txns)
	if err != nil {
		return nil, fmt.Errorf("types: computing group id: %w", err)
	}
	for _, tx := range txns {
		tx.Group = gid
	}
	return &TxGroup{txns: txns, id: gid}, nil
}

// SealedGroup re-derives the group id for already-stamped members and
// verifies every transaction carries it. Used at submission time.
func SealedGroup(txns []*Transaction) (*TxGroup, error) {
	if len(txns) == 0 {
		return nil, errEmptyGroup
	}
	gid, err := ComputeGroupID(txns)
	if err != nil {
		return nil, fmt.Errorf("types: computing group id: %w", err)
	}
	for i, tx := range txns {
		if tx.Group != gid {
			return nil, fmt.Errorf("types: transaction %d group id mismatch", i)
		}
	}
	return &TxGroup{txns: txns, id: gid}, nil
}

// WrapSingle wraps a lone transaction without stamping a group id.
func WrapSingle(tx *Transaction) *TxGroup {
	return &TxGroup{txns: []*Transaction{tx}}
}

func (g *TxGroup) Len() int     { return len(g.txns) }
func (g *TxGroup) ID() [32]byte { return g.id }

func (g *TxGroup) Txn(i int) *Transaction {
	if i < 0 || i >= len(g.txns) {
		return nil
	}
	return g.txns[i]
}

// Transactions returns the ordered members.
func (g *TxGroup) Transactions() []*Transaction { return g.txns }

// AppCallLeg returns the application call of a purchase-shaped group,
// or nil when the group does not have one at the conventional index.
func (g *TxGroup) AppCallLeg() *Transaction {
	return g.legOfType(PurchaseAppCallIndex, TxTypeApplicationCall)
}

// PaymentLeg returns the value payment of a purchase-shaped group.
func (g *TxGroup) PaymentLeg() *Transaction {
	return g.legOfType(PurchasePaymentIndex, TxTypePayment)
}

// AssetTransferLeg returns the asset transfer of a purchase-shaped group.
func (g *TxGroup) AssetTransferLeg() *Transaction {
	return g.legOfType(PurchaseAssetIndex, TxTypeAssetTransfer)
}

func (g *TxGroup) legOfType(index int, typ TxType) *Transaction {
	tx := g.Txn(index)
	if tx == nil || tx.Type != typ {
		return nil
	}
	return tx
}
