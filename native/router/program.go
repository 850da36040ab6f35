package router

import (
	"fmt"

	"joltchain/core/types"
	"joltchain/core/vm"
	"joltchain/native/common"
)

const (
	selectorBuy    = "buy"
	selectorResale = "resale"
)

// Program is the Royalty Router: it routes primary sale revenue to up
// to three payout addresses per basis-point weights, and settles
// secondary sales as an artist royalty plus a remainder to the current
// seller. All configuration is written once at creation and immutable
// thereafter; only the creator may update or delete the application.
type Program struct{}

var _ vm.Program = (*Program)(nil)

// NewProgram returns the router decision procedure.
func NewProgram() *Program { return &Program{} }

// Approve is the router's approval program. Any returned error rejects
// and rolls back the entire enclosing group.
func (p *Program) Approve(ctx *vm.Context) error {
	if ctx.Creation() {
		return p.handleCreate(ctx)
	}
	switch ctx.Txn().OnCompletion {
	case types.OnCompletionNoOp:
		args := ctx.Txn().ApplicationArgs
		if err := common.RequireArgs(args, 1); err != nil {
			return err
		}
		switch string(args[0]) {
		case selectorBuy:
			return p.handleBuy(ctx)
		case selectorResale:
			return p.handleResale(ctx)
		}
		return fmt.Errorf("%w: %q", ErrUnknownSelector, args[0])
	case types.OnCompletionOptIn, types.OnCompletionCloseOut:
		// The router carries no local state; opt-in and close-out are
		// vacuous approvals.
		return nil
	case types.OnCompletionUpdate, types.OnCompletionDelete:
		if ctx.Sender() != ctx.Creator() {
			return ErrUnauthorized
		}
		return nil
	}
	return fmt.Errorf("router: unsupported on-completion %s", ctx.Txn().OnCompletion)
}

// Clear is the clear-state escape hatch; it never blocks.
func (p *Program) Clear(ctx *vm.Context) error { return nil }

// handleCreate reads the nine positional creation arguments in their
// strict order (P1, P2, P3, BPS1, BPS2, BPS3, ROY_BPS, ASA, SELLER),
// validates them and writes the configuration exactly once.
func (p *Program) handleCreate(ctx *vm.Context) error {
	args := ctx.Txn().ApplicationArgs
	if len(args) != 9 {
		return fmt.Errorf("%w: got %d", ErrBadArgCount, len(args))
	}
	cfg := &Config{}
	var err error
	if cfg.P1, err = common.DecodeAddress(args[0]); err != nil {
		return err
	}
	if cfg.P2, err = common.DecodeAddress(args[1]); err != nil {
		return err
	}
	if cfg.P3, err = common.DecodeAddress(args[2]); err != nil {
		return err
	}
	if cfg.Bps1, err = common.DecodeUint64(args[3]); err != nil {
		return err
	}
	if cfg.Bps2, err = common.DecodeUint64(args[4]); err != nil {
		return err
	}
	if cfg.Bps3, err = common.DecodeUint64(args[5]); err != nil {
		return err
	}
	if cfg.RoyaltyBps, err = common.DecodeUint64(args[6]); err != nil {
		return err
	}
	if cfg.AssetID, err = common.DecodeUint64(args[7]); err != nil {
		return err
	}
	if cfg.Seller, err = common.DecodeAddress(args[8]); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := storeConfig(ctx, cfg); err != nil {
		return err
	}
	ctx.Emit(Created{AppID: ctx.AppID(), Seller: cfg.Seller, AssetID: cfg.AssetID})
	return nil
}

// handleBuy settles a primary sale: the paid principal is split to
// P1/P2/P3 by basis points. Flooring dust stays in the application
// account; that residual is accepted behavior, not redistributed.
func (p *Program) handleBuy(ctx *vm.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	sale, err := validatePurchaseGroup(ctx, cfg, 3, true)
	if err != nil {
		return err
	}
	split1, err := common.MulBps(sale.principal, cfg.Bps1)
	if err != nil {
		return err
	}
	split2, err := common.MulBps(sale.principal, cfg.Bps2)
	if err != nil {
		return err
	}
	split3, err := common.MulBps(sale.principal, cfg.Bps3)
	if err != nil {
		return err
	}
	if err := ctx.Pay(cfg.P1, split1); err != nil {
		return err
	}
	if err := ctx.Pay(cfg.P2, split2); err != nil {
		return err
	}
	if err := ctx.Pay(cfg.P3, split3); err != nil {
		return err
	}
	ctx.Emit(BuySettled{
		AppID:     ctx.AppID(),
		Buyer:     sale.buyer,
		Principal: sale.principal,
		Split1:    split1,
		Split2:    split2,
		Split3:    split3,
	})
	return nil
}

// handleResale settles a secondary sale: royalty to P1, exact
// remainder to whoever transferred the asset in this group.
func (p *Program) handleResale(ctx *vm.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	sale, err := validatePurchaseGroup(ctx, cfg, 2, false)
	if err != nil {
		return err
	}
	royalty, err := common.MulBps(sale.principal, cfg.RoyaltyBps)
	if err != nil {
		return err
	}
	remainder := sale.principal - royalty
	if err := ctx.Pay(cfg.P1, royalty); err != nil {
		return err
	}
	if err := ctx.Pay(sale.assetSender, remainder); err != nil {
		return err
	}
	ctx.Emit(ResaleSettled{
		AppID:     ctx.AppID(),
		Buyer:     sale.buyer,
		Seller:    sale.assetSender,
		Principal: sale.principal,
		Royalty:   royalty,
		Remainder: remainder,
	})
	return nil
}
