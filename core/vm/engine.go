package vm

import (
	"fmt"
	"log/slog"

	"joltchain/core/events"
	"joltchain/core/state"
	"joltchain/core/types"
	"joltchain/crypto"
)

// Params carries the protocol constants the engine and the programs
// consult during evaluation.
type Params struct {
	// MinFee is the protocol minimum fee per transaction. Programs use
	// it to verify fee pooling before emitting zero-fee sub-payments.
	MinFee uint64
	// MaxGroupSize bounds the number of transactions per atomic group.
	MaxGroupSize int
	// MaxForeignAccounts bounds the foreign account reference list an
	// application call may carry.
	MaxForeignAccounts int
}

// DefaultParams mirrors the substrate constants the original contracts
// were written against.
func DefaultParams() Params {
	return Params{MinFee: 1_000, MaxGroupSize: 16, MaxForeignAccounts: 4}
}

// Program is the decision procedure backing one deployed application.
// Approve runs once per incoming application call; a nil return
// approves, any error rejects the entire enclosing group. Clear is the
// state-cleanup escape hatch and must not block.
type Program interface {
	Approve(ctx *Context) error
	Clear(ctx *Context) error
}

// GroupResult summarises a committed group evaluation.
type GroupResult struct {
	CreatedApps []uint64
	Events      []*types.Event
}

// Engine evaluates atomic transaction groups against the ledger state:
// it debits fees, applies payments and asset transfers, dispatches
// application calls to their registered programs, collects the inner
// payments those programs emit, and commits or rolls back the whole
// group as one unit.
type Engine struct {
	st       *state.Manager
	params   Params
	registry map[string]Program
	emitter  events.Emitter
	logger   *slog.Logger

	pending []*types.Event
	created []uint64
	inner   []innerPayment
}

// innerPayment is a program-emitted sub-payment. Emissions queue during
// evaluation and settle after every leg's value movement has applied,
// so a call earlier in the group can spend value a later leg delivers.
type innerPayment struct {
	from   crypto.Address
	to     crypto.Address
	amount uint64
}

// NewEngine creates an engine over the supplied state manager.
func NewEngine(st *state.Manager, params Params) *Engine {
	return &Engine{
		st:       st,
		params:   params,
		registry: make(map[string]Program),
		emitter:  events.NoopEmitter{},
		logger:   slog.Default(),
	}
}

// RegisterProgram makes a program kind available for creation and
// update calls under the given name.
func (e *Engine) RegisterProgram(name string, program Program) error {
	if _, exists := e.registry[name]; exists {
		return ErrProgramRegistered
	}
	e.registry[name] = program
	return nil
}

// SetEmitter configures the event emitter. Passing nil resets it to a
// no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetLogger overrides the engine logger.
func (e *Engine) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	e.logger = logger
}

// State exposes the underlying state manager for genesis tooling and
// inspection.
func (e *Engine) State() *state.Manager { return e.st }

// Params returns the protocol constants in force.
func (e *Engine) Params() Params { return e.params }

// SubmitGroup evaluates an atomic group. Either every member applies
// and the result commits, or the first failed assertion rolls the
// whole group back and the ledger is byte-identical to its pre-call
// value.
func (e *Engine) SubmitGroup(txns ...*types.Transaction) (*GroupResult, error) {
	if len(txns) == 0 {
		return nil, ErrEmptyGroup
	}
	if len(txns) > e.params.MaxGroupSize {
		return nil, ErrGroupTooLarge
	}
	var group *types.TxGroup
	if len(txns) == 1 && txns[0].Group == ([32]byte{}) {
		group = types.WrapSingle(txns[0])
	} else {
		sealed, err := types.SealedGroup(txns)
		if err != nil {
			return nil, fmt.Errorf("vm: %w", err)
		}
		group = sealed
	}

	snap := e.st.Snapshot()
	e.pending = nil
	e.created = nil
	e.inner = nil
	if err := e.applyGroup(group); err != nil {
		e.st.Revert(snap)
		groupsRejected.Inc()
		e.logger.Debug("group rejected", "reason", err)
		return nil, fmt.Errorf("vm: group rejected: %w", err)
	}
	if err := e.st.Commit(); err != nil {
		e.st.Revert(snap)
		groupsRejected.Inc()
		return nil, fmt.Errorf("vm: committing group: %w", err)
	}
	result := &GroupResult{CreatedApps: e.created, Events: e.pending}
	for _, evt := range e.pending {
		e.emitter.Emit(ledgerEvent{evt: evt})
	}
	e.pending = nil
	groupsCommitted.Inc()
	return result, nil
}

type ledgerEvent struct {
	evt *types.Event
}

func (l ledgerEvent) EventType() string {
	if l.evt == nil {
		return ""
	}
	return l.evt.Type
}

func (l ledgerEvent) Event() *types.Event { return l.evt }

func (e *Engine) applyGroup(group *types.TxGroup) error {
	for i, tx := range group.Transactions() {
		if tx.Sender.IsZero() {
			return ErrZeroSender
		}
		if err := e.debitFee(tx); err != nil {
			return fmt.Errorf("txn %d: %w", i, err)
		}
		var err error
		switch tx.Type {
		case types.TxTypePayment:
			err = e.applyPayment(tx)
		case types.TxTypeAssetTransfer:
			err = e.applyAssetTransfer(tx)
		case types.TxTypeApplicationCall:
			err = e.applyAppCall(group, tx)
		default:
			err = ErrUnsupportedTxType
		}
		if err != nil {
			return fmt.Errorf("txn %d: %w", i, err)
		}
	}
	for _, p := range e.inner {
		if err := e.movePayment(p.from, p.to, p.amount); err != nil {
			return fmt.Errorf("inner payment: %w", err)
		}
		innerPaymentsEmitted.Inc()
	}
	return nil
}

func (e *Engine) debitFee(tx *types.Transaction) error {
	if tx.Fee == 0 {
		return nil
	}
	account, err := e.st.GetAccount(tx.Sender)
	if err != nil {
		return err
	}
	if account.Balance < tx.Fee {
		return fmt.Errorf("%w: fee %d exceeds balance %d", ErrInsufficientFunds, tx.Fee, account.Balance)
	}
	account.Balance -= tx.Fee
	return e.st.PutAccount(tx.Sender, account)
}

// movePayment transfers µ-units between two accounts. Used both for
// outer payment legs and program-emitted sub-payments.
func (e *Engine) movePayment(from, to crypto.Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	sender, err := e.st.GetAccount(from)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return fmt.Errorf("%w: payment %d exceeds balance %d", ErrInsufficientFunds, amount, sender.Balance)
	}
	sender.Balance -= amount
	if err := e.st.PutAccount(from, sender); err != nil {
		return err
	}
	receiver, err := e.st.GetAccount(to)
	if err != nil {
		return err
	}
	receiver.Balance += amount
	return e.st.PutAccount(to, receiver)
}

func (e *Engine) applyPayment(tx *types.Transaction) error {
	if err := e.movePayment(tx.Sender, tx.Receiver, tx.Amount); err != nil {
		return err
	}
	// Rekey authority is not modeled by the simulated ledger; the field
	// exists so hardened validators can reject it.
	if !tx.CloseRemainderTo.IsZero() {
		sender, err := e.st.GetAccount(tx.Sender)
		if err != nil {
			return err
		}
		remainder := sender.Balance
		sender.Balance = 0
		if err := e.st.PutAccount(tx.Sender, sender); err != nil {
			return err
		}
		closeTo, err := e.st.GetAccount(tx.CloseRemainderTo)
		if err != nil {
			return err
		}
		closeTo.Balance += remainder
		if err := e.st.PutAccount(tx.CloseRemainderTo, closeTo); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) applyAssetTransfer(tx *types.Transaction) error {
	// Clawback: when AssetSender is set the asset moves out of that
	// account, authorized by the transaction sender.
	source := tx.Sender
	if !tx.AssetSender.IsZero() {
		source = tx.AssetSender
	}
	sender, err := e.st.GetAccount(source)
	if err != nil {
		return err
	}
	held, _ := sender.AssetBalance(tx.XferAsset)
	if held < tx.AssetAmount {
		return fmt.Errorf("%w: asset %d transfer %d exceeds holding %d", ErrInsufficientAsset, tx.XferAsset, tx.AssetAmount, held)
	}
	sender.SetAssetBalance(tx.XferAsset, held-tx.AssetAmount)
	if err := e.st.PutAccount(source, sender); err != nil {
		return err
	}
	if tx.AssetAmount > 0 {
		receiver, err := e.st.GetAccount(tx.AssetReceiver)
		if err != nil {
			return err
		}
		current, _ := receiver.AssetBalance(tx.XferAsset)
		receiver.SetAssetBalance(tx.XferAsset, current+tx.AssetAmount)
		if err := e.st.PutAccount(tx.AssetReceiver, receiver); err != nil {
			return err
		}
	}
	if !tx.AssetCloseTo.IsZero() {
		sender, err = e.st.GetAccount(source)
		if err != nil {
			return err
		}
		remainder, _ := sender.AssetBalance(tx.XferAsset)
		sender.RemoveAsset(tx.XferAsset)
		if err := e.st.PutAccount(source, sender); err != nil {
			return err
		}
		if remainder > 0 {
			closeTo, err := e.st.GetAccount(tx.AssetCloseTo)
			if err != nil {
				return err
			}
			current, _ := closeTo.AssetBalance(tx.XferAsset)
			closeTo.SetAssetBalance(tx.XferAsset, current+remainder)
			if err := e.st.PutAccount(tx.AssetCloseTo, closeTo); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) applyAppCall(group *types.TxGroup, tx *types.Transaction) error {
	if len(tx.Accounts) > e.params.MaxForeignAccounts {
		return ErrTooManyAccounts
	}
	if tx.ApplicationID == 0 {
		return e.applyAppCreate(group, tx)
	}
	params, ok, err := e.st.AppParams(tx.ApplicationID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownApplication
	}
	program, ok := e.registry[params.Program]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProgram, params.Program)
	}
	ctx := &Context{
		engine:  e,
		group:   group,
		txn:     tx,
		appID:   tx.ApplicationID,
		creator: params.Creator,
	}
	switch tx.OnCompletion {
	case types.OnCompletionClearState:
		// The clear program cannot block local-state removal.
		_ = program.Clear(ctx)
		return e.st.CloseOut(tx.ApplicationID, tx.Sender)
	case types.OnCompletionOptIn:
		if err := e.st.OptIn(tx.ApplicationID, tx.Sender); err != nil {
			return err
		}
		return program.Approve(ctx)
	case types.OnCompletionCloseOut:
		if err := program.Approve(ctx); err != nil {
			return err
		}
		return e.st.CloseOut(tx.ApplicationID, tx.Sender)
	case types.OnCompletionUpdate:
		if _, ok := e.registry[tx.ApprovalProgram]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownProgram, tx.ApprovalProgram)
		}
		if err := program.Approve(ctx); err != nil {
			return err
		}
		return e.st.SetAppProgram(tx.ApplicationID, tx.ApprovalProgram)
	case types.OnCompletionDelete:
		if err := program.Approve(ctx); err != nil {
			return err
		}
		return e.st.DeleteApp(tx.ApplicationID)
	case types.OnCompletionNoOp:
		return program.Approve(ctx)
	}
	return fmt.Errorf("vm: unsupported on-completion %d", tx.OnCompletion)
}

func (e *Engine) applyAppCreate(group *types.TxGroup, tx *types.Transaction) error {
	if tx.OnCompletion != types.OnCompletionNoOp {
		return ErrCreationCompletion
	}
	program, ok := e.registry[tx.ApprovalProgram]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProgram, tx.ApprovalProgram)
	}
	appID, err := e.st.CreateApp(tx.Sender, tx.ApprovalProgram, tx.GlobalSchema, tx.LocalSchema)
	if err != nil {
		return err
	}
	ctx := &Context{
		engine:   e,
		group:    group,
		txn:      tx,
		appID:    appID,
		creator:  tx.Sender,
		creation: true,
	}
	if err := program.Approve(ctx); err != nil {
		return err
	}
	e.created = append(e.created, appID)
	return nil
}
