package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"joltchain/core/types"
	"joltchain/crypto"
	"joltchain/storage"
)

var (
	ErrAppNotFound = errors.New("state: application not found")
	ErrNotOptedIn  = errors.New("state: account not opted in")
	ErrSchemaFull  = errors.New("state: state schema exceeded")
)

// AppParams describes one deployed application. The schemas are fixed
// at creation; the program name may be swapped by a creator-authorized
// update, leaving state untouched.
type AppParams struct {
	Creator      crypto.Address
	Program      string
	GlobalSchema types.Schema
	LocalSchema  types.Schema
}

type dirtyEntry struct {
	value   []byte
	deleted bool
}

// Snapshot captures the pending write set so a group evaluation can be
// reverted without touching the backing store.
type Snapshot map[string]dirtyEntry

// Manager provides the ledger's view of accounts, application
// parameters and key-value state. All mutations accumulate in an
// in-memory write set; Commit flushes them to the backing store, and
// Snapshot/Revert give atomic groups their all-or-nothing semantics.
type Manager struct {
	db    storage.Database
	dirty map[string]dirtyEntry
}

// NewManager creates a state manager over the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db, dirty: make(map[string]dirtyEntry)}
}

func (m *Manager) rawGet(key []byte) ([]byte, error) {
	if entry, ok := m.dirty[string(key)]; ok {
		if entry.deleted {
			return nil, nil
		}
		return entry.value, nil
	}
	value, err := m.db.Get(key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	return value, err
}

func (m *Manager) rawPut(key, value []byte) {
	m.dirty[string(key)] = dirtyEntry{value: value}
}

func (m *Manager) rawDelete(key []byte) {
	m.dirty[string(key)] = dirtyEntry{deleted: true}
}

// Snapshot returns a copy of the pending write set.
func (m *Manager) Snapshot() Snapshot {
	snap := make(Snapshot, len(m.dirty))
	for k, v := range m.dirty {
		snap[k] = v
	}
	return snap
}

// Revert discards every write made since the snapshot was taken.
func (m *Manager) Revert(snap Snapshot) {
	m.dirty = make(map[string]dirtyEntry, len(snap))
	for k, v := range snap {
		m.dirty[k] = v
	}
}

// Commit flushes the pending write set to the backing store.
func (m *Manager) Commit() error {
	for k, entry := range m.dirty {
		if entry.deleted {
			if err := m.db.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := m.db.Put([]byte(k), entry.value); err != nil {
			return err
		}
	}
	m.dirty = make(map[string]dirtyEntry)
	return nil
}

// --- Accounts ---

// GetAccount loads the account record for addr, returning a zeroed
// record when none exists yet.
func (m *Manager) GetAccount(addr crypto.Address) (*types.Account, error) {
	data, err := m.rawGet(accountKey(addr))
	if err != nil {
		return nil, err
	}
	account := &types.Account{}
	if len(data) == 0 {
		return account, nil
	}
	if err := rlp.DecodeBytes(data, account); err != nil {
		return nil, fmt.Errorf("state: decoding account: %w", err)
	}
	return account, nil
}

// PutAccount persists the account record for addr.
func (m *Manager) PutAccount(addr crypto.Address, account *types.Account) error {
	encoded, err := rlp.EncodeToBytes(account)
	if err != nil {
		return fmt.Errorf("state: encoding account: %w", err)
	}
	m.rawPut(accountKey(addr), encoded)
	return nil
}

// --- Applications ---

// NextAppID allocates the next application id, starting at 1.
func (m *Manager) NextAppID() (uint64, error) {
	data, err := m.rawGet(appSequenceKey)
	if err != nil {
		return 0, err
	}
	var next uint64 = 1
	if len(data) == 8 {
		next = binary.BigEndian.Uint64(data) + 1
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, next)
	m.rawPut(appSequenceKey, buf)
	return next, nil
}

// CreateApp registers a new application and returns its id.
func (m *Manager) CreateApp(creator crypto.Address, program string, global, local types.Schema) (uint64, error) {
	appID, err := m.NextAppID()
	if err != nil {
		return 0, err
	}
	params := &AppParams{Creator: creator, Program: program, GlobalSchema: global, LocalSchema: local}
	if err := m.putAppParams(appID, params); err != nil {
		return 0, err
	}
	return appID, nil
}

func (m *Manager) putAppParams(appID uint64, params *AppParams) error {
	encoded, err := rlp.EncodeToBytes(params)
	if err != nil {
		return fmt.Errorf("state: encoding app params: %w", err)
	}
	m.rawPut(appParamsKey(appID), encoded)
	return nil
}

// AppParams loads the parameters of a deployed application.
func (m *Manager) AppParams(appID uint64) (*AppParams, bool, error) {
	data, err := m.rawGet(appParamsKey(appID))
	if err != nil {
		return nil, false, err
	}
	if len(data) == 0 {
		return nil, false, nil
	}
	params := &AppParams{}
	if err := rlp.DecodeBytes(data, params); err != nil {
		return nil, false, fmt.Errorf("state: decoding app params: %w", err)
	}
	return params, true, nil
}

// SetAppProgram swaps the program backing an application. State is
// untouched; this is the update escape hatch.
func (m *Manager) SetAppProgram(appID uint64, program string) error {
	params, ok, err := m.AppParams(appID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAppNotFound
	}
	params.Program = program
	return m.putAppParams(appID, params)
}

// DeleteApp removes an application's parameters and global state.
// Local state held by opted-in accounts survives until they close out.
func (m *Manager) DeleteApp(appID uint64) error {
	_, ok, err := m.AppParams(appID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAppNotFound
	}
	m.rawDelete(appParamsKey(appID))
	m.rawDelete(appGlobalKey(appID))
	return nil
}

// --- Key-value containers ---

func (m *Manager) loadContainer(key []byte) ([]KeyValue, error) {
	data, err := m.rawGet(key)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	var container []KeyValue
	if err := rlp.DecodeBytes(data, &container); err != nil {
		return nil, fmt.Errorf("state: decoding kv container: %w", err)
	}
	return container, nil
}

func (m *Manager) storeContainer(key []byte, container []KeyValue) error {
	sort.Slice(container, func(i, j int) bool { return container[i].Key < container[j].Key })
	encoded, err := rlp.EncodeToBytes(container)
	if err != nil {
		return fmt.Errorf("state: encoding kv container: %w", err)
	}
	m.rawPut(key, encoded)
	return nil
}

func containerGet(container []KeyValue, key string) (Value, bool) {
	for _, kv := range container {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return Value{}, false
}

// containerPut replaces or appends an entry, enforcing the schema
// budget over the resulting container.
func containerPut(container []KeyValue, key string, value Value, schema types.Schema) ([]KeyValue, error) {
	replaced := false
	for i := range container {
		if container[i].Key == key {
			container[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		container = append(container, KeyValue{Key: key, Value: value})
	}
	var uints, byteSlices uint64
	for _, kv := range container {
		switch kv.Value.Kind {
		case KindUint:
			uints++
		case KindBytes:
			byteSlices++
		}
	}
	if uints > schema.Uints || byteSlices > schema.ByteSlices {
		return nil, ErrSchemaFull
	}
	return container, nil
}

// --- Global state ---

// AppGlobalGet reads one global slot of an application.
func (m *Manager) AppGlobalGet(appID uint64, key string) (Value, bool, error) {
	container, err := m.loadContainer(appGlobalKey(appID))
	if err != nil {
		return Value{}, false, err
	}
	v, ok := containerGet(container, key)
	return v, ok, nil
}

// AppGlobalPut writes one global slot, enforcing the application's
// global schema budget.
func (m *Manager) AppGlobalPut(appID uint64, key string, value Value) error {
	params, ok, err := m.AppParams(appID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAppNotFound
	}
	storageKey := appGlobalKey(appID)
	container, err := m.loadContainer(storageKey)
	if err != nil {
		return err
	}
	container, err = containerPut(container, key, value, params.GlobalSchema)
	if err != nil {
		return err
	}
	return m.storeContainer(storageKey, container)
}

// AppGlobalState returns a copy of the full global container, keyed by
// the exact short string keys the off-chain tooling parses.
func (m *Manager) AppGlobalState(appID uint64) (map[string]Value, error) {
	container, err := m.loadContainer(appGlobalKey(appID))
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(container))
	for _, kv := range container {
		out[kv.Key] = kv.Value
	}
	return out, nil
}

// --- Local state ---

// OptIn allocates (or re-zeroes) the local-state container an account
// holds for an application. Re-opting in simply resets the container;
// callers that care must check their opt-in status beforehand.
func (m *Manager) OptIn(appID uint64, addr crypto.Address) error {
	if _, ok, err := m.AppParams(appID); err != nil {
		return err
	} else if !ok {
		return ErrAppNotFound
	}
	account, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	account.AddOptIn(appID)
	if err := m.PutAccount(addr, account); err != nil {
		return err
	}
	return m.storeContainer(appLocalKey(appID, addr), nil)
}

// CloseOut drops the account's local-state container and opt-in flag.
func (m *Manager) CloseOut(appID uint64, addr crypto.Address) error {
	account, err := m.GetAccount(addr)
	if err != nil {
		return err
	}
	account.RemoveOptIn(appID)
	if err := m.PutAccount(addr, account); err != nil {
		return err
	}
	m.rawDelete(appLocalKey(appID, addr))
	return nil
}

// OptedIn reports whether addr holds a local-state slot for the app.
func (m *Manager) OptedIn(appID uint64, addr crypto.Address) (bool, error) {
	account, err := m.GetAccount(addr)
	if err != nil {
		return false, err
	}
	return account.OptedIn(appID), nil
}

// AppLocalGet reads one local slot for (app, account).
func (m *Manager) AppLocalGet(appID uint64, addr crypto.Address, key string) (Value, bool, error) {
	optedIn, err := m.OptedIn(appID, addr)
	if err != nil {
		return Value{}, false, err
	}
	if !optedIn {
		return Value{}, false, ErrNotOptedIn
	}
	container, err := m.loadContainer(appLocalKey(appID, addr))
	if err != nil {
		return Value{}, false, err
	}
	v, ok := containerGet(container, key)
	return v, ok, nil
}

// AppLocalPut writes one local slot, enforcing the application's local
// schema budget.
func (m *Manager) AppLocalPut(appID uint64, addr crypto.Address, key string, value Value) error {
	params, ok, err := m.AppParams(appID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAppNotFound
	}
	optedIn, err := m.OptedIn(appID, addr)
	if err != nil {
		return err
	}
	if !optedIn {
		return ErrNotOptedIn
	}
	storageKey := appLocalKey(appID, addr)
	container, err := m.loadContainer(storageKey)
	if err != nil {
		return err
	}
	container, err = containerPut(container, key, value, params.LocalSchema)
	if err != nil {
		return err
	}
	return m.storeContainer(storageKey, container)
}
