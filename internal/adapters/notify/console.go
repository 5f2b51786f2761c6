// Package notify renders cycle results for the operator.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
	"github.com/ahmedayman96/solana-nansen-bot/internal/ports"
)

// Console implements ports.Notifier on stdout.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole creates a notifier that writes to stdout. With table enabled
// it prints full position/trade tables; otherwise a compact one-liner.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify prints the cycle report in the configured mode.
func (c *Console) Notify(_ context.Context, report ports.CycleReport) error {
	if c.table {
		c.printFull(report)
	} else {
		c.printCompact(report)
	}
	return nil
}

// printCompact prints the essentials on one line.
func (c *Console) printCompact(report ports.CycleReport) {
	now := time.Now().Format("15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] balance %.4f SOL | open:%d scanned:%d",
		now, report.BalanceSOL, len(report.OpenPositions), report.TokensScanned)

	for _, t := range report.Opened {
		fmt.Fprintf(&sb, " | BUY %s %.2f SOL @ %.6f", shortAddr(t.TokenAddress), t.AmountSOL, t.Price)
	}
	for _, t := range report.Closed {
		fmt.Fprintf(&sb, " | SELL %s pnl %+.2f%%", shortAddr(t.TokenAddress), t.PnLPercent)
	}
	if report.Warnings > 0 {
		fmt.Fprintf(&sb, " | warn:%d", report.Warnings)
	}

	fmt.Fprintln(c.out, sb.String())
}

// printFull prints the open positions and this cycle's trades as tables.
func (c *Console) printFull(report ports.CycleReport) {
	now := time.Now().Format("15:04:05")
	fmt.Fprintf(c.out, "\n[%s] balance %.4f SOL | %d open, %d scanned, %d warnings\n",
		now, report.BalanceSOL, len(report.OpenPositions), report.TokensScanned, report.Warnings)

	if len(report.OpenPositions) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Options(tablewriter.WithHeaderAutoFormat(tw.Off))
		table.Header("Token", "Amount", "Entry", "Entry time", "Target exit")
		for _, pos := range report.OpenPositions {
			table.Append(
				shortAddr(pos.TokenAddress),
				fmt.Sprintf("%.4f", pos.Amount),
				fmt.Sprintf("%.6f", pos.EntryPrice),
				pos.EntryTime.Format("15:04:05"),
				pos.TargetExitTime.Format("15:04:05"),
			)
		}
		table.Render()
	}

	trades := append(append([]domain.Trade{}, report.Opened...), report.Closed...)
	if len(trades) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Options(tablewriter.WithHeaderAutoFormat(tw.Off))
		table.Header("Side", "Token", "SOL", "Price", "PnL", "PnL %", "Reason")
		for _, t := range trades {
			table.Append(
				string(t.Side),
				shortAddr(t.TokenAddress),
				fmt.Sprintf("%.4f", t.AmountSOL),
				fmt.Sprintf("%.6f", t.Price),
				fmt.Sprintf("%+.4f", t.PnL),
				fmt.Sprintf("%+.2f%%", t.PnLPercent),
				t.Reasoning,
			)
		}
		table.Render()
	}
}

// shortAddr abbreviates a base58 address for display.
func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + ".." + addr[len(addr)-4:]
}
