package router

import (
	"fmt"

	"joltchain/core/state"
	"joltchain/core/types"
	"joltchain/core/vm"
	"joltchain/crypto"
	"joltchain/native/common"
)

// ProgramName is the registry name creation and update calls refer to.
const ProgramName = "royalty-router"

// Global state keys. These short strings are part of the externally
// observable contract: off-chain inspection tooling parses global
// state by these exact bytes.
const (
	keyP1     = "p1"
	keyP2     = "p2"
	keyP3     = "p3"
	keyBps1   = "bps1"
	keyBps2   = "bps2"
	keyBps3   = "bps3"
	keyRoyBps = "roybps"
	keyAsa    = "asa"
	keySeller = "seller"
)

// GlobalSchema reserves four address slots and five integer slots,
// the permanent budget the router needs. The router carries no local
// state.
var (
	GlobalSchema = types.Schema{ByteSlices: 4, Uints: 5}
	LocalSchema  = types.Schema{}
)

// Config is the router's immutable global configuration, written once
// at creation from the nine positional creation arguments.
type Config struct {
	P1, P2, P3 crypto.Address
	Bps1       uint64
	Bps2       uint64
	Bps3       uint64
	RoyaltyBps uint64
	AssetID    uint64
	Seller     crypto.Address
}

// Validate enforces the creation-time invariants: well-formed weights,
// a bounded weight sum and a nonzero reference asset.
func (c *Config) Validate() error {
	for _, bps := range []uint64{c.Bps1, c.Bps2, c.Bps3, c.RoyaltyBps} {
		if bps > common.BpsDenominator {
			return ErrBpsOutOfRange
		}
	}
	if c.Bps1+c.Bps2+c.Bps3 > common.BpsDenominator {
		return ErrBpsSum
	}
	if c.AssetID == 0 {
		return ErrZeroAsset
	}
	return nil
}

func storeConfig(ctx *vm.Context, cfg *Config) error {
	puts := []struct {
		key   string
		value state.Value
	}{
		{keyP1, state.BytesValue(cfg.P1.Bytes())},
		{keyP2, state.BytesValue(cfg.P2.Bytes())},
		{keyP3, state.BytesValue(cfg.P3.Bytes())},
		{keyBps1, state.UintValue(cfg.Bps1)},
		{keyBps2, state.UintValue(cfg.Bps2)},
		{keyBps3, state.UintValue(cfg.Bps3)},
		{keyRoyBps, state.UintValue(cfg.RoyaltyBps)},
		{keyAsa, state.UintValue(cfg.AssetID)},
		{keySeller, state.BytesValue(cfg.Seller.Bytes())},
	}
	for _, p := range puts {
		if err := ctx.GlobalPut(p.key, p.value); err != nil {
			return err
		}
	}
	return nil
}

func loadAddress(ctx *vm.Context, key string) (crypto.Address, error) {
	v, ok, err := ctx.GlobalGet(key)
	if err != nil {
		return crypto.Address{}, err
	}
	if !ok || v.Kind != state.KindBytes {
		return crypto.Address{}, fmt.Errorf("%w: %s", ErrNotConfigured, key)
	}
	return crypto.AddressFromBytes(v.Bytes)
}

func loadUint(ctx *vm.Context, key string) (uint64, error) {
	v, ok, err := ctx.GlobalGet(key)
	if err != nil {
		return 0, err
	}
	if !ok || v.Kind != state.KindUint {
		return 0, fmt.Errorf("%w: %s", ErrNotConfigured, key)
	}
	return v.Uint, nil
}

func loadConfig(ctx *vm.Context) (*Config, error) {
	cfg := &Config{}
	var err error
	if cfg.P1, err = loadAddress(ctx, keyP1); err != nil {
		return nil, err
	}
	if cfg.P2, err = loadAddress(ctx, keyP2); err != nil {
		return nil, err
	}
	if cfg.P3, err = loadAddress(ctx, keyP3); err != nil {
		return nil, err
	}
	if cfg.Bps1, err = loadUint(ctx, keyBps1); err != nil {
		return nil, err
	}
	if cfg.Bps2, err = loadUint(ctx, keyBps2); err != nil {
		return nil, err
	}
	if cfg.Bps3, err = loadUint(ctx, keyBps3); err != nil {
		return nil, err
	}
	if cfg.RoyaltyBps, err = loadUint(ctx, keyRoyBps); err != nil {
		return nil, err
	}
	if cfg.AssetID, err = loadUint(ctx, keyAsa); err != nil {
		return nil, err
	}
	if cfg.Seller, err = loadAddress(ctx, keySeller); err != nil {
		return nil, err
	}
	return cfg, nil
}
