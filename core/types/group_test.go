package types

import (
	"testing"

	"joltchain/crypto"
)

func testAddr(b byte) crypto.Address {
	var addr crypto.Address
	for i := range addr {
		addr[i] = b
	}
	return addr
}

func TestHashDeterministicAndGroupFree(t *testing.T) {
	tx := &Transaction{Type: TxTypePayment, Sender: testAddr(1), Receiver: testAddr(2), Amount: 5, Fee: 1_000}
	h1, err := tx.Hash()
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	tx.Group = [32]byte{0xff}
	h2, err := tx.Hash()
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("group id leaked into the transaction hash")
	}
	tx.Amount = 6
	h3, err := tx.Hash()
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	if h1 == h3 {
		t.Fatalf("amount change did not change the hash")
	}
}

func TestGroupIDDependsOnOrder(t *testing.T) {
	a := &Transaction{Type: TxTypePayment, Sender: testAddr(1), Receiver: testAddr(2), Amount: 1}
	b := &Transaction{Type: TxTypePayment, Sender: testAddr(2), Receiver: testAddr(1), Amount: 2}
	gid1, err := ComputeGroupID([]*Transaction{a, b})
	if err != nil {
		t.Fatalf("computing group id: %v", err)
	}
	gid2, err := ComputeGroupID([]*Transaction{b, a})
	if err != nil {
		t.Fatalf("computing group id: %v", err)
	}
	if gid1 == gid2 {
		t.Fatalf("reordering the group did not change its id")
	}
}

func TestNewTxGroupStampsMembers(t *testing.T) {
	a := &Transaction{Type: TxTypePayment, Sender: testAddr(1), Receiver: testAddr(2), Amount: 1}
	b := &Transaction{Type: TxTypeAssetTransfer, Sender: testAddr(2), AssetReceiver: testAddr(1), XferAsset: 1, AssetAmount: 1}
	group, err := NewTxGroup(a, b)
	if err != nil {
		t.Fatalf("sealing group: %v", err)
	}
	if a.Group != group.ID() || b.Group != group.ID() {
		t.Fatalf("members not stamped with the group id")
	}
	if _, err := SealedGroup([]*Transaction{a, b}); err != nil {
		t.Fatalf("sealed group did not verify: %v", err)
	}
}

func TestSealedGroupRejectsTamperedMember(t *testing.T) {
	a := &Transaction{Type: TxTypePayment, Sender: testAddr(1), Receiver: testAddr(2), Amount: 1}
	b := &Transaction{Type: TxTypePayment, Sender: testAddr(2), Receiver: testAddr(1), Amount: 2}
	if _, err := NewTxGroup(a, b); err != nil {
		t.Fatalf("sealing group: %v", err)
	}
	a.Amount = 100
	if _, err := SealedGroup([]*Transaction{a, b}); err == nil {
		t.Fatalf("expected tampered member to fail verification")
	}
}

func TestPurchaseLegAccessors(t *testing.T) {
	call := &Transaction{Type: TxTypeApplicationCall, Sender: testAddr(1), ApplicationID: 1}
	pay := &Transaction{Type: TxTypePayment, Sender: testAddr(1), Receiver: testAddr(3), Amount: 10}
	xfer := &Transaction{Type: TxTypeAssetTransfer, Sender: testAddr(2), AssetReceiver: testAddr(1), XferAsset: 1, AssetAmount: 1}
	group, err := NewTxGroup(call, pay, xfer)
	if err != nil {
		t.Fatalf("sealing group: %v", err)
	}
	if group.AppCallLeg() != call {
		t.Fatalf("app call leg not found at its conventional index")
	}
	if group.PaymentLeg() != pay {
		t.Fatalf("payment leg not found at its conventional index")
	}
	if group.AssetTransferLeg() != xfer {
		t.Fatalf("asset transfer leg not found at its conventional index")
	}

	// Swapping the payment and transfer positions must blind the accessors.
	swapped, err := NewTxGroup(call, xfer, pay)
	if err != nil {
		t.Fatalf("sealing group: %v", err)
	}
	if swapped.PaymentLeg() != nil || swapped.AssetTransferLeg() != nil {
		t.Fatalf("accessors matched legs at the wrong indices")
	}
}
