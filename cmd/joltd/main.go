package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"joltchain/config"
	"joltchain/core/events"
	"joltchain/core/state"
	"joltchain/core/types"
	"joltchain/core/vm"
	"joltchain/crypto"
	"joltchain/native/common"
	"joltchain/native/router"
	"joltchain/native/superfan"
	"joltchain/observability/logging"
	"joltchain/storage"
)

const (
	demoAssetID     = 1
	demoTicketStock = 100
	demoFunding     = 10_000_000 // 10 units per demo account
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	memory := flag.Bool("memory", false, "Run against an in-memory ledger instead of LevelDB")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("JOLT_ENV"))
	logger := logging.Setup("joltd", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	var db storage.Database
	if *memory {
		db = storage.NewMemDB()
	} else {
		db, err = storage.NewLevelDB(filepath.Join(cfg.DataDir, "ledger"))
		if err != nil {
			logger.Error("failed to open database", slog.Any("error", err))
			os.Exit(1)
		}
	}
	defer db.Close()

	st := state.NewManager(db)
	engine := vm.NewEngine(st, vm.Params{
		MinFee:             cfg.MinFee,
		MaxGroupSize:       cfg.MaxGroupSize,
		MaxForeignAccounts: cfg.MaxForeignAccounts,
	})
	engine.SetLogger(logger)
	recorder := &events.Recorder{}
	engine.SetEmitter(recorder)
	if err := engine.RegisterProgram(router.ProgramName, router.NewProgram()); err != nil {
		logger.Error("failed to register router", slog.Any("error", err))
		os.Exit(1)
	}
	if err := engine.RegisterProgram(superfan.ProgramName, superfan.NewProgram()); err != nil {
		logger.Error("failed to register superfan pass", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(engine, st, logger); err != nil {
		logger.Error("deployment failed", slog.Any("error", err))
		os.Exit(1)
	}
	for _, evt := range recorder.Events() {
		logger.Info("event", slog.String("type", evt.Type), slog.Any("attributes", evt.Attributes))
	}
}

// run seeds a demo cast of accounts, deploys both programs and prints
// their global state by the exact key strings inspection tooling uses.
func run(engine *vm.Engine, st *state.Manager, logger *slog.Logger) error {
	names := []string{"operator", "artist", "venue", "crew", "seller"}
	keys := make(map[string]*crypto.PrivateKey, len(names))
	for _, name := range names {
		key, err := crypto.GeneratePrivateKey()
		if err != nil {
			return fmt.Errorf("generating %s key: %w", name, err)
		}
		keys[name] = key
		account := &types.Account{Balance: demoFunding}
		if name == "seller" {
			account.SetAssetBalance(demoAssetID, demoTicketStock)
		}
		if err := st.PutAccount(key.Address(), account); err != nil {
			return fmt.Errorf("funding %s: %w", name, err)
		}
	}
	if err := st.Commit(); err != nil {
		return fmt.Errorf("committing genesis: %w", err)
	}

	operator := keys["operator"]
	routerID, err := deployRouter(engine, operator, keys)
	if err != nil {
		return err
	}
	passID, err := deploySuperfan(engine, operator)
	if err != nil {
		return err
	}

	for _, appID := range []uint64{routerID, passID} {
		globals, err := st.AppGlobalState(appID)
		if err != nil {
			return err
		}
		for key, value := range globals {
			attr := slog.Uint64("uint", value.Uint)
			if value.Kind == state.KindBytes {
				addr, err := crypto.AddressFromBytes(value.Bytes)
				if err != nil {
					return err
				}
				attr = slog.String("bytes", addr.String())
			}
			logger.Info("global state", slog.Uint64("appId", appID), slog.String("key", key), attr)
		}
	}
	logger.Info("deployed", slog.Uint64("routerAppId", routerID), slog.Uint64("superfanAppId", passID),
		slog.String("routerAddress", types.AppAddress(routerID).String()))
	return nil
}

func deployRouter(engine *vm.Engine, operator *crypto.PrivateKey, keys map[string]*crypto.PrivateKey) (uint64, error) {
	create := &types.Transaction{
		Type:            types.TxTypeApplicationCall,
		Sender:          operator.Address(),
		Fee:             engine.Params().MinFee,
		ApprovalProgram: router.ProgramName,
		GlobalSchema:    router.GlobalSchema,
		LocalSchema:     router.LocalSchema,
		ApplicationArgs: [][]byte{
			keys["artist"].Address().Bytes(),
			keys["venue"].Address().Bytes(),
			keys["crew"].Address().Bytes(),
			common.EncodeUint64(7_000),
			common.EncodeUint64(2_500),
			common.EncodeUint64(500),
			common.EncodeUint64(500),
			common.EncodeUint64(demoAssetID),
			keys["seller"].Address().Bytes(),
		},
	}
	result, err := engine.SubmitGroup(create)
	if err != nil {
		return 0, fmt.Errorf("deploying router: %w", err)
	}
	return result.CreatedApps[0], nil
}

func deploySuperfan(engine *vm.Engine, operator *crypto.PrivateKey) (uint64, error) {
	create := &types.Transaction{
		Type:            types.TxTypeApplicationCall,
		Sender:          operator.Address(),
		Fee:             engine.Params().MinFee,
		ApprovalProgram: superfan.ProgramName,
		GlobalSchema:    superfan.GlobalSchema,
		LocalSchema:     superfan.LocalSchema,
		ApplicationArgs: [][]byte{operator.Address().Bytes()},
	}
	result, err := engine.SubmitGroup(create)
	if err != nil {
		return 0, fmt.Errorf("deploying superfan pass: %w", err)
	}
	return result.CreatedApps[0], nil
}
