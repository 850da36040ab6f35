package state

import (
	"errors"
	"testing"

	"joltchain/core/types"
	"joltchain/crypto"
	"joltchain/storage"
)

func testAddr(b byte) crypto.Address {
	var addr crypto.Address
	for i := range addr {
		addr[i] = b
	}
	return addr
}

func TestAccountRoundTrip(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	addr := testAddr(1)

	account, err := m.GetAccount(addr)
	if err != nil {
		t.Fatalf("loading missing account: %v", err)
	}
	if account.Balance != 0 || len(account.Assets) != 0 {
		t.Fatalf("expected zeroed account, got %+v", account)
	}

	account.Balance = 5_000
	account.SetAssetBalance(7, 3)
	if err := m.PutAccount(addr, account); err != nil {
		t.Fatalf("storing account: %v", err)
	}
	loaded, err := m.GetAccount(addr)
	if err != nil {
		t.Fatalf("reloading account: %v", err)
	}
	if loaded.Balance != 5_000 {
		t.Fatalf("balance = %d, want 5000", loaded.Balance)
	}
	if held, ok := loaded.AssetBalance(7); !ok || held != 3 {
		t.Fatalf("asset holding = %d, %v", held, ok)
	}
}

func TestAppIDsAllocateSequentially(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	first, err := m.CreateApp(testAddr(1), "prog", types.Schema{Uints: 1}, types.Schema{})
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	second, err := m.CreateApp(testAddr(1), "prog", types.Schema{Uints: 1}, types.Schema{})
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	if first != 1 || second != 2 {
		t.Fatalf("app ids = %d, %d; want 1, 2", first, second)
	}
	params, ok, err := m.AppParams(first)
	if err != nil || !ok {
		t.Fatalf("loading params: %v, %v", ok, err)
	}
	if params.Creator != testAddr(1) || params.Program != "prog" {
		t.Fatalf("unexpected params %+v", params)
	}
	if _, ok, _ := m.AppParams(99); ok {
		t.Fatalf("expected unknown app id to miss")
	}
}

func TestGlobalSchemaBudget(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	appID, err := m.CreateApp(testAddr(1), "prog", types.Schema{ByteSlices: 1, Uints: 1}, types.Schema{})
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	if err := m.AppGlobalPut(appID, "count", UintValue(1)); err != nil {
		t.Fatalf("first uint write: %v", err)
	}
	if err := m.AppGlobalPut(appID, "owner", BytesValue([]byte{0xaa})); err != nil {
		t.Fatalf("first bytes write: %v", err)
	}
	// Rewriting an existing key stays inside the budget.
	if err := m.AppGlobalPut(appID, "count", UintValue(2)); err != nil {
		t.Fatalf("rewriting existing key: %v", err)
	}
	if err := m.AppGlobalPut(appID, "extra", UintValue(3)); !errors.Is(err, ErrSchemaFull) {
		t.Fatalf("expected ErrSchemaFull, got %v", err)
	}

	v, ok, err := m.AppGlobalGet(appID, "count")
	if err != nil || !ok {
		t.Fatalf("reading slot: %v, %v", ok, err)
	}
	if v.Kind != KindUint || v.Uint != 2 {
		t.Fatalf("slot = %+v, want uint 2", v)
	}
}

func TestSnapshotRevert(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	addr := testAddr(1)
	if err := m.PutAccount(addr, &types.Account{Balance: 100}); err != nil {
		t.Fatalf("seeding account: %v", err)
	}

	snap := m.Snapshot()
	if err := m.PutAccount(addr, &types.Account{Balance: 0}); err != nil {
		t.Fatalf("overwriting account: %v", err)
	}
	m.Revert(snap)

	account, err := m.GetAccount(addr)
	if err != nil {
		t.Fatalf("loading account: %v", err)
	}
	if account.Balance != 100 {
		t.Fatalf("revert lost the snapshotted write: balance %d", account.Balance)
	}
}

func TestCommitPersists(t *testing.T) {
	db := storage.NewMemDB()
	m := NewManager(db)
	addr := testAddr(1)
	if err := m.PutAccount(addr, &types.Account{Balance: 42}); err != nil {
		t.Fatalf("storing account: %v", err)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("committing: %v", err)
	}

	fresh := NewManager(db)
	account, err := fresh.GetAccount(addr)
	if err != nil {
		t.Fatalf("loading from fresh manager: %v", err)
	}
	if account.Balance != 42 {
		t.Fatalf("commit did not persist: balance %d", account.Balance)
	}
}

func TestLocalStateLifecycle(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	addr := testAddr(1)
	appID, err := m.CreateApp(testAddr(2), "prog", types.Schema{}, types.Schema{Uints: 1})
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}

	if _, _, err := m.AppLocalGet(appID, addr, "pts"); !errors.Is(err, ErrNotOptedIn) {
		t.Fatalf("expected ErrNotOptedIn before opt-in, got %v", err)
	}
	if err := m.AppLocalPut(appID, addr, "pts", UintValue(1)); !errors.Is(err, ErrNotOptedIn) {
		t.Fatalf("expected ErrNotOptedIn on write before opt-in, got %v", err)
	}

	if err := m.OptIn(appID, addr); err != nil {
		t.Fatalf("opting in: %v", err)
	}
	if err := m.AppLocalPut(appID, addr, "pts", UintValue(25)); err != nil {
		t.Fatalf("writing local slot: %v", err)
	}
	v, ok, err := m.AppLocalGet(appID, addr, "pts")
	if err != nil || !ok || v.Uint != 25 {
		t.Fatalf("local slot = %+v, %v, %v", v, ok, err)
	}

	// Re-opting in resets the container.
	if err := m.OptIn(appID, addr); err != nil {
		t.Fatalf("re-opting in: %v", err)
	}
	if _, ok, err := m.AppLocalGet(appID, addr, "pts"); err != nil || ok {
		t.Fatalf("expected empty container after re-opt-in, got ok=%v err=%v", ok, err)
	}

	if err := m.CloseOut(appID, addr); err != nil {
		t.Fatalf("closing out: %v", err)
	}
	if _, _, err := m.AppLocalGet(appID, addr, "pts"); !errors.Is(err, ErrNotOptedIn) {
		t.Fatalf("expected ErrNotOptedIn after close-out, got %v", err)
	}
}

func TestDeleteAppLeavesLocalState(t *testing.T) {
	m := NewManager(storage.NewMemDB())
	addr := testAddr(1)
	appID, err := m.CreateApp(testAddr(2), "prog", types.Schema{Uints: 1}, types.Schema{Uints: 1})
	if err != nil {
		t.Fatalf("creating app: %v", err)
	}
	if err := m.AppGlobalPut(appID, "count", UintValue(9)); err != nil {
		t.Fatalf("writing global slot: %v", err)
	}
	if err := m.OptIn(appID, addr); err != nil {
		t.Fatalf("opting in: %v", err)
	}
	if err := m.AppLocalPut(appID, addr, "pts", UintValue(7)); err != nil {
		t.Fatalf("writing local slot: %v", err)
	}

	if err := m.DeleteApp(appID); err != nil {
		t.Fatalf("deleting app: %v", err)
	}
	if _, ok, _ := m.AppParams(appID); ok {
		t.Fatalf("params survived deletion")
	}
	if _, ok, _ := m.AppGlobalGet(appID, "count"); ok {
		t.Fatalf("global state survived deletion")
	}
	// Opted-in accounts keep their container until they clear it.
	v, ok, err := m.AppLocalGet(appID, addr, "pts")
	if err != nil || !ok || v.Uint != 7 {
		t.Fatalf("local state did not survive deletion: %+v, %v, %v", v, ok, err)
	}
}
