package router

import (
	"strconv"

	"joltchain/core/types"
	"joltchain/crypto"
)

const (
	TypeCreated       = "router.created"
	TypeBuySettled    = "router.buy.settled"
	TypeResaleSettled = "router.resale.settled"
)

// Created is emitted once when a router deploys.
type Created struct {
	AppID   uint64
	Seller  crypto.Address
	AssetID uint64
}

func (Created) EventType() string { return TypeCreated }

func (e Created) Event() *types.Event {
	return &types.Event{
		Type: TypeCreated,
		Attributes: map[string]string{
			"appId":  strconv.FormatUint(e.AppID, 10),
			"seller": e.Seller.String(),
			"asa":    strconv.FormatUint(e.AssetID, 10),
		},
	}
}

// BuySettled is emitted when a primary sale splits and settles.
type BuySettled struct {
	AppID     uint64
	Buyer     crypto.Address
	Principal uint64
	Split1    uint64
	Split2    uint64
	Split3    uint64
}

func (BuySettled) EventType() string { return TypeBuySettled }

func (e BuySettled) Event() *types.Event {
	return &types.Event{
		Type: TypeBuySettled,
		Attributes: map[string]string{
			"appId":     strconv.FormatUint(e.AppID, 10),
			"buyer":     e.Buyer.String(),
			"principal": strconv.FormatUint(e.Principal, 10),
			"split1":    strconv.FormatUint(e.Split1, 10),
			"split2":    strconv.FormatUint(e.Split2, 10),
			"split3":    strconv.FormatUint(e.Split3, 10),
		},
	}
}

// ResaleSettled is emitted when a secondary sale settles.
type ResaleSettled struct {
	AppID     uint64
	Buyer     crypto.Address
	Seller    crypto.Address
	Principal uint64
	Royalty   uint64
	Remainder uint64
}

func (ResaleSettled) EventType() string { return TypeResaleSettled }

func (e ResaleSettled) Event() *types.Event {
	return &types.Event{
		Type: TypeResaleSettled,
		Attributes: map[string]string{
			"appId":     strconv.FormatUint(e.AppID, 10),
			"buyer":     e.Buyer.String(),
			"seller":    e.Seller.String(),
			"principal": strconv.FormatUint(e.Principal, 10),
			"royalty":   strconv.FormatUint(e.Royalty, 10),
			"remainder": strconv.FormatUint(e.Remainder, 10),
		},
	}
}
