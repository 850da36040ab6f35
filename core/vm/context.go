package vm

import (
	"joltchain/core/events"
	"joltchain/core/state"
	"joltchain/core/types"
	"joltchain/crypto"
)

// Context is the view a program gets of one application call: the
// transaction, its enclosing group, the application's identity and
// state, and the sub-payment emitter. Everything a program decides is
// a pure function of this context plus the ledger state it reads
// through it.
type Context struct {
	engine   *Engine
	group    *types.TxGroup
	txn      *types.Transaction
	appID    uint64
	creator  crypto.Address
	creation bool
}

// Txn returns the application call transaction under evaluation.
func (c *Context) Txn() *types.Transaction { return c.txn }

// Group returns the sealed atomic group containing the call.
func (c *Context) Group() *types.TxGroup { return c.group }

// AppID returns the application id (assigned during creation calls).
func (c *Context) AppID() uint64 { return c.appID }

// Creation reports whether this is the one-shot creation call.
func (c *Context) Creation() bool { return c.creation }

// Sender returns the calling account.
func (c *Context) Sender() crypto.Address { return c.txn.Sender }

// Creator returns the account that created the application.
func (c *Context) Creator() crypto.Address { return c.creator }

// AppAddress returns the application's own derived account address.
func (c *Context) AppAddress() crypto.Address { return types.AppAddress(c.appID) }

// MinFee returns the protocol minimum fee per transaction.
func (c *Context) MinFee() uint64 { return c.engine.params.MinFee }

// GlobalGet reads one global state slot.
func (c *Context) GlobalGet(key string) (state.Value, bool, error) {
	return c.engine.st.AppGlobalGet(c.appID, key)
}

// GlobalPut writes one global state slot within the schema budget.
func (c *Context) GlobalPut(key string, value state.Value) error {
	return c.engine.st.AppGlobalPut(c.appID, key, value)
}

// LocalGet reads one local state slot of an opted-in account.
func (c *Context) LocalGet(addr crypto.Address, key string) (state.Value, bool, error) {
	return c.engine.st.AppLocalGet(c.appID, addr, key)
}

// LocalPut writes one local state slot within the local schema budget.
func (c *Context) LocalPut(addr crypto.Address, key string, value state.Value) error {
	return c.engine.st.AppLocalPut(c.appID, addr, key, value)
}

// OptedIn reports whether addr holds local state for this application.
func (c *Context) OptedIn(addr crypto.Address) (bool, error) {
	return c.engine.st.OptedIn(c.appID, addr)
}

// Pay queues a sub-payment from the application's own account at zero
// declared fee; the cost is borne by the fee pre-paid on the outer
// call. Queued payments settle once the whole group has applied, so
// the call may spend value delivered by a later leg of its own group.
// An underfunded application account fails settlement, which rejects
// and rolls back the group.
func (c *Context) Pay(to crypto.Address, amount uint64) error {
	c.engine.inner = append(c.engine.inner, innerPayment{from: c.AppAddress(), to: to, amount: amount})
	return nil
}

// Emit queues an event; it reaches subscribers only if the group
// commits.
func (c *Context) Emit(evt events.Event) {
	if evt == nil {
		return
	}
	c.engine.pending = append(c.engine.pending, evt.Event())
}
