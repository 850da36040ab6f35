package router

import (
	"fmt"

	"joltchain/core/types"
	"joltchain/core/vm"
	"joltchain/crypto"
)

// purchase captures the facts a settlement needs once the group shape
// has been proven: the paid principal, the paying buyer, and whoever
// is transferring the asset (the stored seller on primary sales, the
// current holder on resales).
type purchase struct {
	principal   uint64
	buyer       crypto.Address
	assetSender crypto.Address
}

// validatePurchaseGroup asserts the full shape of the enclosing atomic
// group before any sub-payment is emitted. innerCount is the number of
// sub-payments the entrypoint is about to emit; the outer call must
// have pre-paid that many minimum fees because the inner payments are
// sent at zero fee. requireSeller pins the asset sender to the stored
// SELLER (primary sales); resales read it dynamically instead.
func validatePurchaseGroup(ctx *vm.Context, cfg *Config, innerCount uint64, requireSeller bool) (*purchase, error) {
	group := ctx.Group()
	if group.Len() != types.PurchaseGroupSize {
		return nil, fmt.Errorf("%w: group size %d", ErrGroupShape, group.Len())
	}
	if group.AppCallLeg() != ctx.Txn() {
		return nil, fmt.Errorf("%w: call not at group index %d", ErrGroupShape, types.PurchaseAppCallIndex)
	}
	if ctx.Txn().Fee < innerCount*ctx.MinFee() {
		return nil, fmt.Errorf("%w: need %d", ErrFeeTooLow, innerCount*ctx.MinFee())
	}

	pay := group.PaymentLeg()
	if pay == nil {
		return nil, fmt.Errorf("%w: missing payment leg", ErrGroupShape)
	}
	if pay.Receiver != ctx.AppAddress() {
		return nil, fmt.Errorf("%w: payment not addressed to application", ErrGroupShape)
	}
	if !pay.CloseRemainderTo.IsZero() {
		return nil, fmt.Errorf("%w: payment close-to set", ErrGroupShape)
	}
	if !pay.RekeyTo.IsZero() {
		return nil, fmt.Errorf("%w: payment rekey-to set", ErrGroupShape)
	}

	xfer := group.AssetTransferLeg()
	if xfer == nil {
		return nil, fmt.Errorf("%w: missing asset transfer leg", ErrGroupShape)
	}
	if xfer.XferAsset != cfg.AssetID {
		return nil, fmt.Errorf("%w: wrong asset id %d", ErrGroupShape, xfer.XferAsset)
	}
	if xfer.AssetAmount != 1 {
		return nil, fmt.Errorf("%w: asset amount %d", ErrGroupShape, xfer.AssetAmount)
	}
	if requireSeller && xfer.Sender != cfg.Seller {
		return nil, fmt.Errorf("%w: asset not sent by configured seller", ErrGroupShape)
	}
	// Buyer symmetry: the asset must land with whoever paid.
	if xfer.AssetReceiver != pay.Sender {
		return nil, fmt.Errorf("%w: asset receiver is not the payer", ErrGroupShape)
	}
	if !xfer.AssetCloseTo.IsZero() {
		return nil, fmt.Errorf("%w: asset close-to set", ErrGroupShape)
	}
	if !xfer.RekeyTo.IsZero() {
		return nil, fmt.Errorf("%w: asset rekey-to set", ErrGroupShape)
	}
	if !xfer.AssetSender.IsZero() {
		return nil, fmt.Errorf("%w: clawback transfer not allowed", ErrGroupShape)
	}

	return &purchase{
		principal:   pay.Amount,
		buyer:       pay.Sender,
		assetSender: xfer.Sender,
	}, nil
}
