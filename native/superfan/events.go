package superfan

import (
	"strconv"

	"joltchain/core/types"
	"joltchain/crypto"
)

const (
	TypeCreated     = "superfan.created"
	TypeOptedIn     = "superfan.optin"
	TypePointsAdded = "superfan.points.added"
	TypeTierClaimed = "superfan.tier.claimed"
)

// Created is emitted once when a pass program deploys.
type Created struct {
	AppID uint64
	Admin crypto.Address
}

func (Created) EventType() string { return TypeCreated }

func (e Created) Event() *types.Event {
	return &types.Event{
		Type: TypeCreated,
		Attributes: map[string]string{
			"appId": strconv.FormatUint(e.AppID, 10),
			"admin": e.Admin.String(),
		},
	}
}

// OptedIn is emitted when an account allocates (or re-zeroes) its pass.
type OptedIn struct {
	AppID   uint64
	Account crypto.Address
}

func (OptedIn) EventType() string { return TypeOptedIn }

func (e OptedIn) Event() *types.Event {
	return &types.Event{
		Type: TypeOptedIn,
		Attributes: map[string]string{
			"appId":   strconv.FormatUint(e.AppID, 10),
			"account": e.Account.String(),
		},
	}
}

// PointsAdded is emitted after an admin grant lands.
type PointsAdded struct {
	AppID   uint64
	Target  crypto.Address
	Amount  uint64
	Balance uint64
}

func (PointsAdded) EventType() string { return TypePointsAdded }

func (e PointsAdded) Event() *types.Event {
	return &types.Event{
		Type: TypePointsAdded,
		Attributes: map[string]string{
			"appId":   strconv.FormatUint(e.AppID, 10),
			"target":  e.Target.String(),
			"amount":  strconv.FormatUint(e.Amount, 10),
			"balance": strconv.FormatUint(e.Balance, 10),
		},
	}
}

// TierClaimed is emitted after a self-service tier claim.
type TierClaimed struct {
	AppID   uint64
	Account crypto.Address
	Tier    uint64
}

func (TierClaimed) EventType() string { return TypeTierClaimed }

func (e TierClaimed) Event() *types.Event {
	return &types.Event{
		Type: TypeTierClaimed,
		Attributes: map[string]string{
			"appId":   strconv.FormatUint(e.AppID, 10),
			"account": e.Account.String(),
			"tier":    strconv.FormatUint(e.Tier, 10),
		},
	}
}
