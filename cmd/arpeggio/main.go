// Command arpeggio dry-runs a routed instruction: it loads an account fixture
// and a hex payload, detects the venue, and prints every CPI the adapters
// would issue. With -simulate the built instructions are also run through an
// RPC node's transaction simulator.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/arpeggio-fi/arpeggio/internal/chain"
	"github.com/arpeggio-fi/arpeggio/internal/config"
	"github.com/arpeggio-fi/arpeggio/internal/cpi"
	"github.com/arpeggio-fi/arpeggio/internal/entry"
	"github.com/arpeggio-fi/arpeggio/internal/logging"
	"github.com/arpeggio-fi/arpeggio/internal/router"
)

type fixtureAccount struct {
	Address  string `json:"address"`
	Owner    string `json:"owner"`
	Writable bool   `json:"writable"`
	Signer   bool   `json:"signer"`
}

// collectingInvoker prints each invocation and keeps the built instructions
// for optional simulation.
type collectingInvoker struct {
	log          *zap.Logger
	instructions []solana.Instruction
}

func (ci *collectingInvoker) InvokeSigned(inv *cpi.Invocation, seeds []cpi.SignerSeeds) error {
	ci.log.Info("cpi",
		zap.Stringer("program", inv.ProgramID),
		zap.Int("accounts", len(inv.Accounts)),
		zap.String("data", hex.EncodeToString(inv.Data)))
	for i, meta := range inv.Accounts {
		ci.log.Debug("account",
			zap.Int("index", i),
			zap.Stringer("address", meta.PublicKey),
			zap.Bool("writable", meta.IsWritable),
			zap.Bool("signer", meta.IsSigner))
	}
	ci.instructions = append(ci.instructions, inv.Instruction())
	return nil
}

func main() {
	var (
		configPath   = flag.String("config", "configs/config.json", "path to config file")
		accountsPath = flag.String("accounts", "", "path to JSON account fixture")
		dataHex      = flag.String("data", "", "hex-encoded instruction data")
		payerStr     = flag.String("payer", "", "payer address for simulation")
		simulate     = flag.Bool("simulate", false, "simulate the built instructions via RPC")
	)
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Init(cfg.DebugLogging, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	accounts, err := loadAccounts(*accountsPath)
	if err != nil {
		logger.Fatal("load accounts", zap.Error(err))
	}

	data, err := hex.DecodeString(*dataHex)
	if err != nil {
		logger.Fatal("decode instruction data", zap.Error(err))
	}

	r := router.New(logger, cfg.EnabledSwaps(), cfg.EnabledDeposits())
	inv := &collectingInvoker{log: logger.Named("invoker")}

	if err := entry.Process(r, inv, accounts, data, nil); err != nil {
		logger.Fatal("process instruction", zap.Error(err))
	}
	logger.Info("instruction routed", zap.Int("cpis", len(inv.instructions)))

	if !*simulate {
		return
	}

	payer, err := solana.PublicKeyFromBase58(*payerStr)
	if err != nil {
		logger.Fatal("parse payer", zap.Error(err))
	}

	client, err := chain.NewClient(ctx, logger, cfg.RPCList, cfg.Retries)
	if err != nil {
		logger.Fatal("connect RPC", zap.Error(err))
	}

	result, err := client.Simulate(ctx, payer, inv.instructions)
	if err != nil {
		logger.Fatal("simulate", zap.Error(err))
	}
	if result.Err != nil {
		logger.Warn("simulation returned error", zap.Any("err", result.Err))
	}
	for _, line := range result.Logs {
		logger.Info("sim log", zap.String("line", line))
	}
}

func loadAccounts(path string) ([]*cpi.AccountView, error) {
	if path == "" {
		return nil, fmt.Errorf("missing -accounts fixture")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fixtures []fixtureAccount
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	accounts := make([]*cpi.AccountView, 0, len(fixtures))
	for i, f := range fixtures {
		address, err := solana.PublicKeyFromBase58(f.Address)
		if err != nil {
			return nil, fmt.Errorf("account %d address: %w", i, err)
		}
		view := &cpi.AccountView{
			Address:  address,
			Writable: f.Writable,
			Signer:   f.Signer,
		}
		if f.Owner != "" {
			owner, err := solana.PublicKeyFromBase58(f.Owner)
			if err != nil {
				return nil, fmt.Errorf("account %d owner: %w", i, err)
			}
			view.Owner = owner
		}
		accounts = append(accounts, view)
	}
	return accounts, nil
}
