package superfan

import (
	"fmt"
	"math"

	"joltchain/core/state"
	"joltchain/core/types"
	"joltchain/core/vm"
	"joltchain/crypto"
	"joltchain/native/common"
)

// ProgramName is the registry name creation and update calls refer to.
const ProgramName = "superfan-pass"

// State keys, part of the externally observable contract.
const (
	keyAdmin  = "admin"
	keyPoints = "pts"
	keyTier   = "tier"
)

const (
	selectorAddPoints = "add_points"
	selectorClaimTier = "claim_tier"
)

// Schemas: one admin address globally, two integer counters per
// opted-in account. The budget is permanent once declared.
var (
	GlobalSchema = types.Schema{ByteSlices: 1, Uints: 0}
	LocalSchema  = types.Schema{ByteSlices: 0, Uints: 2}
)

// Program is the Superfan Pass: admin-gated point issuance and
// self-service tier claiming against per-account counters. Points only
// ever increase; the tier is "last claimed value", gated by the
// current points balance.
type Program struct{}

var _ vm.Program = (*Program)(nil)

// NewProgram returns the pass decision procedure.
func NewProgram() *Program { return &Program{} }

// Approve is the pass's approval program.
func (p *Program) Approve(ctx *vm.Context) error {
	if ctx.Creation() {
		return p.handleCreate(ctx)
	}
	switch ctx.Txn().OnCompletion {
	case types.OnCompletionOptIn:
		return p.handleOptIn(ctx)
	case types.OnCompletionCloseOut:
		// Local state is discarded by the substrate.
		return nil
	case types.OnCompletionNoOp:
		args := ctx.Txn().ApplicationArgs
		if err := common.RequireArgs(args, 1); err != nil {
			return err
		}
		switch string(args[0]) {
		case selectorAddPoints:
			return p.handleAddPoints(ctx)
		case selectorClaimTier:
			return p.handleClaimTier(ctx)
		}
		return fmt.Errorf("%w: %q", ErrUnknownSelector, args[0])
	case types.OnCompletionUpdate, types.OnCompletionDelete:
		return p.requireAdmin(ctx)
	}
	return fmt.Errorf("superfan: unsupported on-completion %s", ctx.Txn().OnCompletion)
}

// Clear is the clear-state escape hatch; it never blocks.
func (p *Program) Clear(ctx *vm.Context) error { return nil }

func (p *Program) handleCreate(ctx *vm.Context) error {
	args := ctx.Txn().ApplicationArgs
	if err := common.RequireArgs(args, 1); err != nil {
		return err
	}
	admin, err := common.DecodeAddress(args[0])
	if err != nil {
		return err
	}
	if err := ctx.GlobalPut(keyAdmin, state.BytesValue(admin.Bytes())); err != nil {
		return err
	}
	ctx.Emit(Created{AppID: ctx.AppID(), Admin: admin})
	return nil
}

func (p *Program) admin(ctx *vm.Context) (crypto.Address, error) {
	v, ok, err := ctx.GlobalGet(keyAdmin)
	if err != nil {
		return crypto.Address{}, err
	}
	if !ok || v.Kind != state.KindBytes {
		return crypto.Address{}, ErrNotConfigured
	}
	return crypto.AddressFromBytes(v.Bytes)
}

func (p *Program) requireAdmin(ctx *vm.Context) error {
	admin, err := p.admin(ctx)
	if err != nil {
		return err
	}
	if ctx.Sender() != admin {
		return ErrUnauthorized
	}
	return nil
}

// handleOptIn zero-initializes the caller's counters. A repeated
// opt-in simply re-zeroes them; callers who care must check their
// opt-in status beforehand.
func (p *Program) handleOptIn(ctx *vm.Context) error {
	sender := ctx.Sender()
	if err := ctx.LocalPut(sender, keyPoints, state.UintValue(0)); err != nil {
		return err
	}
	if err := ctx.LocalPut(sender, keyTier, state.UintValue(0)); err != nil {
		return err
	}
	ctx.Emit(OptedIn{AppID: ctx.AppID(), Account: sender})
	return nil
}

func localUint(ctx *vm.Context, addr crypto.Address, key string) (uint64, error) {
	v, ok, err := ctx.LocalGet(addr, key)
	if err != nil {
		return 0, err
	}
	if !ok || v.Kind != state.KindUint {
		return 0, nil
	}
	return v.Uint, nil
}

// handleAddPoints grants points to the first foreign account reference
// if one is supplied, otherwise to the caller. Admin only.
func (p *Program) handleAddPoints(ctx *vm.Context) error {
	if err := p.requireAdmin(ctx); err != nil {
		return err
	}
	args := ctx.Txn().ApplicationArgs
	if err := common.RequireArgs(args, 2); err != nil {
		return fmt.Errorf("%w: add_points needs an amount", ErrBadArgCount)
	}
	amount, err := common.DecodeUint64(args[1])
	if err != nil {
		return err
	}
	if amount == 0 {
		return ErrZeroAmount
	}
	target := ctx.Sender()
	if len(ctx.Txn().Accounts) > 0 {
		target = ctx.Txn().Accounts[0]
	}
	points, err := localUint(ctx, target, keyPoints)
	if err != nil {
		return err
	}
	if points > math.MaxUint64-amount {
		return ErrPointsOverflow
	}
	points += amount
	if err := ctx.LocalPut(target, keyPoints, state.UintValue(points)); err != nil {
		return err
	}
	ctx.Emit(PointsAdded{AppID: ctx.AppID(), Target: target, Amount: amount, Balance: points})
	return nil
}

// handleClaimTier sets the caller's tier to exactly the claimed
// threshold when their points cover it. A later claim with a lower
// threshold lowers the tier; that is accepted behavior.
func (p *Program) handleClaimTier(ctx *vm.Context) error {
	args := ctx.Txn().ApplicationArgs
	if err := common.RequireArgs(args, 2); err != nil {
		return fmt.Errorf("%w: claim_tier needs a threshold", ErrBadArgCount)
	}
	threshold, err := common.DecodeUint64(args[1])
	if err != nil {
		return err
	}
	if threshold == 0 {
		return ErrZeroThreshold
	}
	sender := ctx.Sender()
	points, err := localUint(ctx, sender, keyPoints)
	if err != nil {
		return err
	}
	if points < threshold {
		return fmt.Errorf("%w: have %d, need %d", ErrBelowThreshold, points, threshold)
	}
	if err := ctx.LocalPut(sender, keyTier, state.UintValue(threshold)); err != nil {
		return err
	}
	ctx.Emit(TierClaimed{AppID: ctx.AppID(), Account: sender, Tier: threshold})
	return nil
}
