package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/analysis"
	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
	"github.com/ahmedayman96/solana-nansen-bot/internal/ports"
)

// Config holds the strategy knobs. Every threshold that used to be a
// literal lives here.
type Config struct {
	WatchTokens      []string
	OrderSizeSOL     float64
	BuyWaveThreshold int           // smart-money transfers needed to trigger
	HoldFraction     float64       // fraction of median hold time to target
	Lookback         time.Duration // smart-money scan window
	ScanInterval     time.Duration
	RequestTimeout   time.Duration // per external call
	DryRun           bool          // run one cycle and stop
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		OrderSizeSOL:     1.0,
		BuyWaveThreshold: 3,
		HoldFraction:     0.8,
		Lookback:         24 * time.Hour,
		ScanInterval:     time.Minute,
		RequestTimeout:   10 * time.Second,
	}
}

// Strategy orchestrates one decision cycle: scan watched tokens for buy
// waves and open positions, then evaluate open positions for exit. It holds
// no balance state; every balance-affecting action goes through the ledger.
type Strategy struct {
	cfg       Config
	source    ports.TransactionSource
	prices    ports.PriceSource
	labels    ports.LabelSource
	store     ports.TradeStore
	notifier  ports.Notifier
	ledger    *Ledger
	estimator *analysis.HoldingTimeEstimator
	scorer    *analysis.WalletScorer
	detector  WaveDetector
	exit      ExitRule
	now       func() time.Time
}

// Deps are the strategy's collaborators. Labels and Scorer are optional:
// when present, wallets behind a triggered wave are enriched and graded
// (informational for now, the input to a future smart-money filter). Nil
// Detector, Exit and Estimator fall back to the defaults.
type Deps struct {
	Source    ports.TransactionSource
	Prices    ports.PriceSource
	Labels    ports.LabelSource
	Store     ports.TradeStore
	Notifier  ports.Notifier
	Ledger    *Ledger
	Estimator *analysis.HoldingTimeEstimator
	Scorer    *analysis.WalletScorer
	Detector  WaveDetector
	Exit      ExitRule
}

// New creates a Strategy with all dependencies injected.
func New(cfg Config, deps Deps) *Strategy {
	if deps.Detector == nil {
		deps.Detector = CountDetector{Threshold: cfg.BuyWaveThreshold}
	}
	if deps.Exit == nil {
		deps.Exit = TimeExit{}
	}
	if deps.Estimator == nil {
		deps.Estimator = analysis.NewHoldingTimeEstimator(nil)
	}
	return &Strategy{
		cfg:       cfg,
		source:    deps.Source,
		prices:    deps.Prices,
		labels:    deps.Labels,
		store:     deps.Store,
		notifier:  deps.Notifier,
		ledger:    deps.Ledger,
		estimator: deps.Estimator,
		scorer:    deps.Scorer,
		detector:  deps.Detector,
		exit:      deps.Exit,
		now:       time.Now,
	}
}

// Run executes cycles until the context is cancelled. The first cycle runs
// immediately; shutdown waits for the in-flight cycle to finish, so a cycle
// is never interrupted mid-mutation.
func (s *Strategy) Run(ctx context.Context) error {
	slog.Info("strategy starting",
		"tokens", len(s.cfg.WatchTokens),
		"interval", s.cfg.ScanInterval,
		"dry_run", s.cfg.DryRun,
	)

	if err := s.runCycle(ctx); err != nil {
		slog.Error("cycle failed", "err", err)
		if s.cfg.DryRun {
			return err
		}
	}
	if s.cfg.DryRun {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("strategy stopped")
			return nil
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				slog.Error("cycle failed", "err", err)
			}
		}
	}
}

// RunOnce executes exactly one cycle and returns its report.
func (s *Strategy) RunOnce(ctx context.Context) (ports.CycleReport, error) {
	return s.cycle(ctx)
}

// runCycle executes one cycle, updates the heartbeat and notifies.
func (s *Strategy) runCycle(ctx context.Context) error {
	start := s.now()

	if err := s.store.UpdateHeartbeat(ctx); err != nil {
		slog.Warn("heartbeat update failed", "err", err)
	}

	report, err := s.cycle(ctx)
	if err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, report); err != nil {
			slog.Warn("notifier error", "err", err)
		}
	}

	slog.Info("cycle complete",
		"scanned", report.TokensScanned,
		"opened", len(report.Opened),
		"closed", len(report.Closed),
		"balance_sol", report.BalanceSOL,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// cycle runs the scan phase then the manage phase.
func (s *Strategy) cycle(ctx context.Context) (ports.CycleReport, error) {
	var report ports.CycleReport

	s.scanForEntries(ctx, &report)
	s.managePositions(ctx, &report)

	report.BalanceSOL = s.ledger.PortfolioValue()
	report.OpenPositions = s.ledger.OpenPositions()
	return report, ctx.Err()
}

// scanForEntries checks every watched token without an open position for a
// buy wave. Source failures skip the token for this cycle only.
func (s *Strategy) scanForEntries(ctx context.Context, report *ports.CycleReport) {
	s.logActivity(ctx, "Scanning for buy waves...", "INFO")

	for _, token := range s.cfg.WatchTokens {
		if ctx.Err() != nil {
			return
		}
		if s.ledger.HasPosition(token) {
			continue
		}
		report.TokensScanned++

		txs := s.fetchTransfers(ctx, token)
		if !s.detector.Detect(txs) {
			slog.Debug("no signal", "token", token, "transfers", len(txs))
			continue
		}

		s.logActivity(ctx, fmt.Sprintf("Buy wave detected for %s (%d smart-money transfers)", token, len(txs)), "SUCCESS")
		s.enrichWallets(ctx, txs)

		trade, err := s.openPosition(ctx, token, txs)
		if err != nil {
			report.Warnings++
			continue
		}
		report.Opened = append(report.Opened, trade)
	}
}

// openPosition sizes the hold window from the smart-money median and opens
// through the ledger.
func (s *Strategy) openPosition(ctx context.Context, token string, txs []domain.Transaction) (domain.Trade, error) {
	medianHold := s.estimator.SmartMoneyMedianHold(txs, smartWalletsOf(txs))
	targetHold := time.Duration(medianHold * s.cfg.HoldFraction * float64(time.Minute))
	targetExit := s.now().Add(targetHold)

	price, err := s.fetchPrice(ctx, token)
	if err != nil {
		return domain.Trade{}, err
	}

	trade, err := s.ledger.Open(ctx, token, s.cfg.OrderSizeSOL, price, targetExit)
	switch {
	case err == nil:
		slog.Info("position opened",
			"token", token,
			"amount_sol", s.cfg.OrderSizeSOL,
			"price", price,
			"target_exit", targetExit,
			"median_hold_min", medianHold,
		)
		s.logActivity(ctx, fmt.Sprintf("Opened %s: %.4f SOL @ %.6f, exit %s", token, s.cfg.OrderSizeSOL, price, targetExit.Format(time.RFC3339)), "INFO")
		return trade, nil
	case err == ErrInsufficientFunds:
		slog.Warn("open rejected: insufficient funds",
			"token", token,
			"required_sol", s.cfg.OrderSizeSOL,
			"balance_sol", s.ledger.PortfolioValue(),
		)
		s.logActivity(ctx, fmt.Sprintf("Buy rejected for %s: insufficient funds", token), "WARN")
		return domain.Trade{}, err
	default:
		slog.Error("open failed", "token", token, "err", err)
		return domain.Trade{}, err
	}
}

// managePositions closes every open position whose exit rule fires.
func (s *Strategy) managePositions(ctx context.Context, report *ports.CycleReport) {
	now := s.now()
	for _, pos := range s.ledger.OpenPositions() {
		if ctx.Err() != nil {
			return
		}
		if !s.exit.ShouldExit(pos, now) {
			continue
		}

		price, err := s.fetchPrice(ctx, pos.TokenAddress)
		if err != nil {
			// Soft failure: retry next cycle, position stays open.
			report.Warnings++
			continue
		}

		trade, err := s.ledger.Close(ctx, pos.TokenAddress, price)
		if err != nil {
			// Close on a position we just listed indicates a bug, not noise.
			slog.Error("close failed", "token", pos.TokenAddress, "err", err)
			report.Warnings++
			continue
		}

		slog.Info("position closed",
			"token", pos.TokenAddress,
			"price", price,
			"pnl_sol", trade.PnL,
			"pnl_percent", trade.PnLPercent,
		)
		s.logActivity(ctx, fmt.Sprintf("Closed %s @ %.6f, PnL %.2f%%", pos.TokenAddress, price, trade.PnLPercent), "INFO")
		report.Closed = append(report.Closed, trade)
	}
}

// fetchTransfers wraps the source call with a deadline. Failures degrade to
// an empty result for this token.
func (s *Strategy) fetchTransfers(ctx context.Context, token string) []domain.Transaction {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	txs, err := s.source.SmartMoneyTransfers(callCtx, token, s.cfg.Lookback)
	if err != nil {
		slog.Warn("transfer fetch failed, skipping token this cycle", "token", token, "err", err)
		return nil
	}
	return txs
}

// fetchPrice wraps the price-source call with a deadline.
func (s *Strategy) fetchPrice(ctx context.Context, token string) (float64, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	price, err := s.prices.CurrentPrice(callCtx, token)
	if err != nil {
		slog.Warn("price fetch failed", "token", token, "err", err)
		return 0, err
	}
	return price, nil
}

// logActivity mirrors a significant event into the store's bounded log
// table, which feeds the dashboard. Store failures are log-only.
func (s *Strategy) logActivity(ctx context.Context, message, level string) {
	if err := s.store.RecordLog(ctx, message, level); err != nil {
		slog.Warn("activity log write failed", "err", err)
	}
}

// enrichWallets resolves labels and grades for the wallets behind a
// triggered wave. Informational only: the buy decision has already been
// made, but the grades accumulate toward a future smart-money filter.
func (s *Strategy) enrichWallets(ctx context.Context, txs []domain.Transaction) {
	if s.labels == nil {
		return
	}
	wallets := smartWalletsOf(txs)

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	labeled, err := s.labels.WalletLabels(callCtx, wallets)
	if err != nil {
		slog.Warn("label enrichment failed", "err", err)
		return
	}

	smart := 0
	for _, wl := range labeled {
		if wl.IsSmartMoney {
			smart++
		}
		if s.scorer != nil {
			s.scorer.Score(wl.Address, historyOf(txs, wl.Address))
		}
	}
	slog.Debug("wave wallets enriched", "wallets", len(labeled), "smart_money", smart)
}

// historyOf filters the transfer list to one wallet's activity.
func historyOf(txs []domain.Transaction, address string) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range txs {
		if tx.FromAddress == address || tx.ToAddress == address {
			out = append(out, tx)
		}
	}
	return out
}

// smartWalletsOf collects the distinct counterparties of a smart-money
// transfer list. The source already filtered to smart-money activity, so
// every participant is of interest to the estimator.
func smartWalletsOf(txs []domain.Transaction) []string {
	seen := make(map[string]bool)
	var wallets []string
	for _, tx := range txs {
		for _, addr := range []string{tx.FromAddress, tx.ToAddress} {
			if addr != "" && !seen[addr] {
				seen[addr] = true
				wallets = append(wallets, addr)
			}
		}
	}
	return wallets
}
