package superfan

import (
	"errors"
	"testing"

	"joltchain/core/state"
	"joltchain/core/types"
	"joltchain/core/vm"
	"joltchain/crypto"
	"joltchain/native/common"
	"joltchain/storage"
)

const testFunding = 10_000_000

func testAddr(b byte) crypto.Address {
	var addr crypto.Address
	for i := range addr {
		addr[i] = b
	}
	return addr
}

type fixture struct {
	engine *vm.Engine
	appID  uint64
	admin  crypto.Address
	fan    crypto.Address
}

// newFixture deploys a pass with a funded admin and one funded fan.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := state.NewManager(storage.NewMemDB())
	engine := vm.NewEngine(st, vm.DefaultParams())
	if err := engine.RegisterProgram(ProgramName, NewProgram()); err != nil {
		t.Fatalf("registering program: %v", err)
	}
	f := &fixture{engine: engine, admin: testAddr(1), fan: testAddr(2)}
	for _, addr := range []crypto.Address{f.admin, f.fan} {
		if err := st.PutAccount(addr, &types.Account{Balance: testFunding}); err != nil {
			t.Fatalf("funding %v: %v", addr, err)
		}
	}
	if err := st.Commit(); err != nil {
		t.Fatalf("committing genesis: %v", err)
	}

	result, err := engine.SubmitGroup(&types.Transaction{
		Type:            types.TxTypeApplicationCall,
		Sender:          f.admin,
		Fee:             engine.Params().MinFee,
		ApprovalProgram: ProgramName,
		GlobalSchema:    GlobalSchema,
		LocalSchema:     LocalSchema,
		ApplicationArgs: [][]byte{f.admin.Bytes()},
	})
	if err != nil {
		t.Fatalf("deploying pass: %v", err)
	}
	f.appID = result.CreatedApps[0]
	return f
}

func (f *fixture) optIn(t *testing.T, who crypto.Address) {
	t.Helper()
	if _, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: who, Fee: f.engine.Params().MinFee,
		ApplicationID: f.appID, OnCompletion: types.OnCompletionOptIn,
	}); err != nil {
		t.Fatalf("opting in %v: %v", who, err)
	}
}

func (f *fixture) addPoints(target crypto.Address, amount uint64) error {
	_, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: f.admin, Fee: f.engine.Params().MinFee,
		ApplicationID:   f.appID,
		ApplicationArgs: [][]byte{[]byte("add_points"), common.EncodeUint64(amount)},
		Accounts:        []crypto.Address{target},
	})
	return err
}

func (f *fixture) claimTier(who crypto.Address, threshold uint64) error {
	_, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: who, Fee: f.engine.Params().MinFee,
		ApplicationID:   f.appID,
		ApplicationArgs: [][]byte{[]byte("claim_tier"), common.EncodeUint64(threshold)},
	})
	return err
}

func (f *fixture) localUint(t *testing.T, who crypto.Address, key string) uint64 {
	t.Helper()
	v, ok, err := f.engine.State().AppLocalGet(f.appID, who, key)
	if err != nil {
		t.Fatalf("reading local %q: %v", key, err)
	}
	if !ok {
		return 0
	}
	return v.Uint
}

func TestCreateStoresAdmin(t *testing.T) {
	f := newFixture(t)
	v, ok, err := f.engine.State().AppGlobalGet(f.appID, "admin")
	if err != nil || !ok || v.Kind != state.KindBytes {
		t.Fatalf("admin slot = %+v, %v, %v", v, ok, err)
	}
	addr, err := crypto.AddressFromBytes(v.Bytes)
	if err != nil || addr != f.admin {
		t.Fatalf("admin decodes to %v, want %v", addr, f.admin)
	}
}

func TestPointsAccrueAndTierClaims(t *testing.T) {
	f := newFixture(t)
	f.optIn(t, f.fan)

	if err := f.addPoints(f.fan, 25); err != nil {
		t.Fatalf("granting 25 points: %v", err)
	}
	if got := f.localUint(t, f.fan, "pts"); got != 25 {
		t.Fatalf("points = %d, want 25", got)
	}

	if err := f.claimTier(f.fan, 100); !errors.Is(err, ErrBelowThreshold) {
		t.Fatalf("expected ErrBelowThreshold at 25 points, got %v", err)
	}
	if got := f.localUint(t, f.fan, "tier"); got != 0 {
		t.Fatalf("tier = %d after rejected claim, want 0", got)
	}

	if err := f.addPoints(f.fan, 100); err != nil {
		t.Fatalf("granting 100 points: %v", err)
	}
	if got := f.localUint(t, f.fan, "pts"); got != 125 {
		t.Fatalf("points = %d, want 125", got)
	}

	if err := f.claimTier(f.fan, 100); err != nil {
		t.Fatalf("claiming tier 100: %v", err)
	}
	// The tier is the claimed threshold, not the balance, and the
	// claim does not spend points.
	if got := f.localUint(t, f.fan, "tier"); got != 100 {
		t.Fatalf("tier = %d, want 100", got)
	}
	if got := f.localUint(t, f.fan, "pts"); got != 125 {
		t.Fatalf("points = %d after claim, want 125", got)
	}
}

func TestAddPointsDefaultsToSender(t *testing.T) {
	f := newFixture(t)
	f.optIn(t, f.admin)
	if _, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: f.admin, Fee: f.engine.Params().MinFee,
		ApplicationID:   f.appID,
		ApplicationArgs: [][]byte{[]byte("add_points"), common.EncodeUint64(7)},
	}); err != nil {
		t.Fatalf("self-granting points: %v", err)
	}
	if got := f.localUint(t, f.admin, "pts"); got != 7 {
		t.Fatalf("points = %d, want 7", got)
	}
}

func TestAddPointsRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	f.optIn(t, f.fan)
	_, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: f.fan, Fee: f.engine.Params().MinFee,
		ApplicationID:   f.appID,
		ApplicationArgs: [][]byte{[]byte("add_points"), common.EncodeUint64(10)},
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if got := f.localUint(t, f.fan, "pts"); got != 0 {
		t.Fatalf("points = %d after rejected grant, want 0", got)
	}
}

func TestAddPointsRejectsUnoptedTarget(t *testing.T) {
	f := newFixture(t)
	if err := f.addPoints(f.fan, 10); !errors.Is(err, state.ErrNotOptedIn) {
		t.Fatalf("expected ErrNotOptedIn, got %v", err)
	}
}

func TestArgumentValidation(t *testing.T) {
	f := newFixture(t)
	f.optIn(t, f.fan)

	if err := f.addPoints(f.fan, 0); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	if err := f.claimTier(f.fan, 0); !errors.Is(err, ErrZeroThreshold) {
		t.Fatalf("expected ErrZeroThreshold, got %v", err)
	}

	_, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: f.admin, Fee: f.engine.Params().MinFee,
		ApplicationID:   f.appID,
		ApplicationArgs: [][]byte{[]byte("add_points")},
	})
	if !errors.Is(err, ErrBadArgCount) {
		t.Fatalf("expected ErrBadArgCount, got %v", err)
	}

	_, err = f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: f.fan, Fee: f.engine.Params().MinFee,
		ApplicationID:   f.appID,
		ApplicationArgs: [][]byte{[]byte("burn_points"), common.EncodeUint64(1)},
	})
	if !errors.Is(err, ErrUnknownSelector) {
		t.Fatalf("expected ErrUnknownSelector, got %v", err)
	}
}

func TestPointsOverflowRejected(t *testing.T) {
	f := newFixture(t)
	f.optIn(t, f.fan)
	if err := f.addPoints(f.fan, ^uint64(0)); err != nil {
		t.Fatalf("granting max points: %v", err)
	}
	if err := f.addPoints(f.fan, 1); !errors.Is(err, ErrPointsOverflow) {
		t.Fatalf("expected ErrPointsOverflow, got %v", err)
	}
}

func TestReOptInResetsCounters(t *testing.T) {
	f := newFixture(t)
	f.optIn(t, f.fan)
	if err := f.addPoints(f.fan, 50); err != nil {
		t.Fatalf("granting points: %v", err)
	}
	if err := f.claimTier(f.fan, 50); err != nil {
		t.Fatalf("claiming tier: %v", err)
	}

	f.optIn(t, f.fan)
	if got := f.localUint(t, f.fan, "pts"); got != 0 {
		t.Fatalf("points = %d after re-opt-in, want 0", got)
	}
	if got := f.localUint(t, f.fan, "tier"); got != 0 {
		t.Fatalf("tier = %d after re-opt-in, want 0", got)
	}
}

func TestCloseOutAndClearStateDropLocalState(t *testing.T) {
	f := newFixture(t)
	minFee := f.engine.Params().MinFee
	for _, oc := range []types.OnCompletion{types.OnCompletionCloseOut, types.OnCompletionClearState} {
		f.optIn(t, f.fan)
		if err := f.addPoints(f.fan, 10); err != nil {
			t.Fatalf("granting points: %v", err)
		}
		if _, err := f.engine.SubmitGroup(&types.Transaction{
			Type: types.TxTypeApplicationCall, Sender: f.fan, Fee: minFee,
			ApplicationID: f.appID, OnCompletion: oc,
		}); err != nil {
			t.Fatalf("%s: %v", oc, err)
		}
		if _, _, err := f.engine.State().AppLocalGet(f.appID, f.fan, "pts"); !errors.Is(err, state.ErrNotOptedIn) {
			t.Fatalf("%s left local state behind: %v", oc, err)
		}
	}
}

func TestUpdateAndDeleteAreAdminGated(t *testing.T) {
	f := newFixture(t)
	minFee := f.engine.Params().MinFee

	_, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: f.fan, Fee: minFee,
		ApplicationID: f.appID, OnCompletion: types.OnCompletionUpdate, ApprovalProgram: ProgramName,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized update, got %v", err)
	}

	if _, err := f.engine.SubmitGroup(&types.Transaction{
		Type: types.TxTypeApplicationCall, Sender: f.admin, Fee: minFee,
		ApplicationID: f.appID, OnCompletion: types.OnCompletionDelete,
	}); err != nil {
		t.Fatalf("admin delete rejected: %v", err)
	}
}
