package types

import "sort"

// AssetHolding records one account's balance of a reference asset.
type AssetHolding struct {
	ID     uint64
	Amount uint64
}

// Account is the ledger record for one address. Holdings and opt-ins
// are kept as sorted slices so the RLP encoding is deterministic.
type Account struct {
	Balance     uint64
	Assets      []AssetHolding
	AppsOptedIn []uint64
}

// AssetBalance returns the held amount of the given asset, if any.
func (a *Account) AssetBalance(id uint64) (uint64, bool) {
	for _, h := range a.Assets {
		if h.ID == id {
			return h.Amount, true
		}
	}
	return 0, false
}

// SetAssetBalance creates or updates the holding for the given asset.
func (a *Account) SetAssetBalance(id, amount uint64) {
	for i := range a.Assets {
		if a.Assets[i].ID == id {
			a.Assets[i].Amount = amount
			return
		}
	}
	a.Assets = append(a.Assets, AssetHolding{ID: id, Amount: amount})
	sort.Slice(a.Assets, func(i, j int) bool { return a.Assets[i].ID < a.Assets[j].ID })
}

// RemoveAsset drops the holding for the given asset entirely.
func (a *Account) RemoveAsset(id uint64) {
	for i := range a.Assets {
		if a.Assets[i].ID == id {
			a.Assets = append(a.Assets[:i], a.Assets[i+1:]...)
			return
		}
	}
}

// OptedIn reports whether the account holds a local-state slot for the
// given application.
func (a *Account) OptedIn(appID uint64) bool {
	for _, id := range a.AppsOptedIn {
		if id == appID {
			return true
		}
	}
	return false
}

// AddOptIn records an application opt-in. Idempotent.
func (a *Account) AddOptIn(appID uint64) {
	if a.OptedIn(appID) {
		return
	}
	a.AppsOptedIn = append(a.AppsOptedIn, appID)
	sort.Slice(a.AppsOptedIn, func(i, j int) bool { return a.AppsOptedIn[i] < a.AppsOptedIn[j] })
}

// RemoveOptIn forgets an application opt-in. Idempotent.
func (a *Account) RemoveOptIn(appID uint64) {
	for i, id := range a.AppsOptedIn {
		if id == appID {
			a.AppsOptedIn = append(a.AppsOptedIn[:i], a.AppsOptedIn[i+1:]...)
			return
		}
	}
}
