package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ahmedayman96/solana-nansen-bot/config"
	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/nansen"
	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/notify"
	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/oracle"
	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/solana"
	"github.com/ahmedayman96/solana-nansen-bot/internal/adapters/storage"
	"github.com/ahmedayman96/solana-nansen-bot/internal/analysis"
	"github.com/ahmedayman96/solana-nansen-bot/internal/cache"
	"github.com/ahmedayman96/solana-nansen-bot/internal/engine"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full position/trade tables (default: compact 1-line)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	slog.Info("nansen bot starting",
		"mode", "paper",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"tokens", len(cfg.Strategy.WatchTokens),
		"once", *once,
	)

	store, err := storage.NewSQLiteStore(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	labelCache := cache.New(store)
	nansenClient := nansen.NewClient(cfg.API.NansenBase, cfg.API.NansenAPIKey, cfg.RequestTimeout())
	labels := nansen.NewLabelProvider(nansenClient, labelCache, cfg.LabelTTL())
	prices := oracle.NewPaperOracle(0, 0)

	ledger := engine.NewLedger(cfg.Strategy.InitialBalanceSOL, store)
	slog.Info("initial portfolio", "value_sol", ledger.PortfolioValue())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ledger.Snapshot(ctx)

	if cfg.API.TrackWallet != "" {
		rpc := solana.NewClient(cfg.API.SolanaRPCURL, cfg.RequestTimeout())
		if balance, err := rpc.SOLBalance(ctx, cfg.API.TrackWallet); err != nil {
			slog.Warn("real wallet balance check failed", "wallet", cfg.API.TrackWallet, "err", err)
		} else {
			slog.Info("real wallet balance", "wallet", cfg.API.TrackWallet, "sol", balance)
		}
	}

	strategyCfg := engine.DefaultConfig()
	strategyCfg.WatchTokens = cfg.Strategy.WatchTokens
	strategyCfg.OrderSizeSOL = cfg.Strategy.OrderSizeSOL
	strategyCfg.BuyWaveThreshold = cfg.Strategy.BuyWaveThreshold
	strategyCfg.HoldFraction = cfg.Strategy.HoldFraction
	strategyCfg.Lookback = cfg.Lookback()
	strategyCfg.ScanInterval = cfg.ScanInterval()
	strategyCfg.RequestTimeout = cfg.RequestTimeout()
	strategyCfg.DryRun = *once

	strategy := engine.New(strategyCfg, engine.Deps{
		Source:    nansenClient,
		Prices:    prices,
		Labels:    labels,
		Store:     store,
		Notifier:  notify.NewConsole(*table),
		Ledger:    ledger,
		Estimator: analysis.NewHoldingTimeEstimator(nil),
		Scorer:    analysis.NewWalletScorer(),
	})

	if err := strategy.Run(ctx); err != nil {
		slog.Error("strategy exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("bot stopped cleanly", "final_value_sol", ledger.PortfolioValue())
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
