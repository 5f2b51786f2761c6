// Package storage persists the trade ledger, portfolio history, activity
// log, cache table and heartbeat in a single SQLite file (pure Go driver,
// no CGo). The file doubles as the data source for the external dashboard,
// so read paths are part of the contract.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmedayman96/solana-nansen-bot/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id            TEXT PRIMARY KEY,
    token_address TEXT NOT NULL,
    side          TEXT NOT NULL,
    amount_sol    REAL NOT NULL,
    price         REAL NOT NULL,
    timestamp     DATETIME NOT NULL,
    pnl           REAL NOT NULL DEFAULT 0,
    pnl_percent   REAL NOT NULL DEFAULT 0,
    reasoning     TEXT
);

CREATE TABLE IF NOT EXISTS portfolio (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp        DATETIME NOT NULL,
    total_value_sol  REAL NOT NULL,
    active_positions TEXT NOT NULL -- JSON array
);

CREATE TABLE IF NOT EXISTS cache (
    key    TEXT PRIMARY KEY,
    value  TEXT NOT NULL,
    expiry DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS system_status (
    key       TEXT PRIMARY KEY,
    value     TEXT NOT NULL,
    timestamp DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS logs (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    message   TEXT NOT NULL,
    level     TEXT NOT NULL,
    timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_time    ON trades(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_portfolio_time ON portfolio(timestamp DESC);
`

// logRetention is how many activity-log rows survive each append.
const logRetention = 100

// positionRecord is the JSON shape of one open position inside a snapshot row.
type positionRecord struct {
	Token      string    `json:"token"`
	Amount     float64   `json:"amount"`
	EntryPrice float64   `json:"entry_price"`
	EntryTime  time.Time `json:"entry_time"`
	TargetExit time.Time `json:"target_exit"`
}

// SQLiteStore implements ports.TradeStore and ports.CacheStore on SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and
// applies the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// RecordTrade appends one ledger entry.
func (s *SQLiteStore) RecordTrade(ctx context.Context, trade domain.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (id, token_address, side, amount_sol, price, timestamp, pnl, pnl_percent, reasoning)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.ID, trade.TokenAddress, string(trade.Side), trade.AmountSOL,
		trade.Price, trade.Time.UTC(), trade.PnL, trade.PnLPercent, trade.Reasoning,
	)
	if err != nil {
		return fmt.Errorf("storage.RecordTrade: insert: %w", err)
	}
	return nil
}

// RecordSnapshot appends one portfolio snapshot.
func (s *SQLiteStore) RecordSnapshot(ctx context.Context, snap domain.PortfolioSnapshot) error {
	records := make([]positionRecord, 0, len(snap.Positions))
	for _, pos := range snap.Positions {
		records = append(records, positionRecord{
			Token:      pos.TokenAddress,
			Amount:     pos.Amount,
			EntryPrice: pos.EntryPrice,
			EntryTime:  pos.EntryTime.UTC(),
			TargetExit: pos.TargetExitTime.UTC(),
		})
	}
	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("storage.RecordSnapshot: marshal positions: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO portfolio (timestamp, total_value_sol, active_positions)
		VALUES (?, ?, ?)`,
		snap.Timestamp.UTC(), snap.TotalValueSOL, string(blob),
	); err != nil {
		return fmt.Errorf("storage.RecordSnapshot: insert: %w", err)
	}
	return nil
}

// RecordLog appends to the activity log and trims it to the most recent
// logRetention rows.
func (s *SQLiteStore) RecordLog(ctx context.Context, message, level string) error {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO logs (message, level, timestamp) VALUES (?, ?, ?)`,
		message, level, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("storage.RecordLog: insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM logs WHERE id NOT IN (SELECT id FROM logs ORDER BY id DESC LIMIT ?)`,
		logRetention,
	); err != nil {
		return fmt.Errorf("storage.RecordLog: trim: %w", err)
	}
	return nil
}

// UpdateHeartbeat stamps the liveness marker with the current time.
func (s *SQLiteStore) UpdateHeartbeat(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO system_status (key, value, timestamp) VALUES ('heartbeat', 'alive', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, timestamp = excluded.timestamp`,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.UpdateHeartbeat: upsert: %w", err)
	}
	return nil
}

// LastHeartbeat returns the liveness marker. ok is false if the bot has
// never written one.
func (s *SQLiteStore) LastHeartbeat(ctx context.Context) (time.Time, bool, error) {
	var ts time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT timestamp FROM system_status WHERE key = 'heartbeat'`,
	).Scan(&ts)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("storage.LastHeartbeat: query: %w", err)
	}
	return ts, true, nil
}

// RecentTrades returns the newest trades first.
func (s *SQLiteStore) RecentTrades(ctx context.Context, limit int) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, token_address, side, amount_sol, price, timestamp, pnl, pnl_percent, reasoning
		FROM trades ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentTrades: query: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side string
		if err := rows.Scan(&t.ID, &t.TokenAddress, &side, &t.AmountSOL,
			&t.Price, &t.Time, &t.PnL, &t.PnLPercent, &t.Reasoning); err != nil {
			return nil, fmt.Errorf("storage.RecentTrades: scan: %w", err)
		}
		t.Side = domain.TradeSide(side)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// RecentLogs returns the newest activity-log entries first.
func (s *SQLiteStore) RecentLogs(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT message, level, timestamp FROM logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.RecentLogs: query: %w", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.Message, &e.Level, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("storage.RecentLogs: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PortfolioHistory returns the newest snapshots first.
func (s *SQLiteStore) PortfolioHistory(ctx context.Context, limit int) ([]domain.PortfolioSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, total_value_sol, active_positions
		FROM portfolio ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.PortfolioHistory: query: %w", err)
	}
	defer rows.Close()

	var snaps []domain.PortfolioSnapshot
	for rows.Next() {
		var snap domain.PortfolioSnapshot
		var blob string
		if err := rows.Scan(&snap.Timestamp, &snap.TotalValueSOL, &blob); err != nil {
			return nil, fmt.Errorf("storage.PortfolioHistory: scan: %w", err)
		}
		var records []positionRecord
		if err := json.Unmarshal([]byte(blob), &records); err != nil {
			return nil, fmt.Errorf("storage.PortfolioHistory: decode positions: %w", err)
		}
		for _, r := range records {
			snap.Positions = append(snap.Positions, domain.Position{
				TokenAddress:   r.Token,
				Amount:         r.Amount,
				EntryPrice:     r.EntryPrice,
				EntryTime:      r.EntryTime,
				TargetExitTime: r.TargetExit,
			})
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Get implements ports.CacheStore. Expiry is returned as stored; TTL
// enforcement belongs to the cache layer.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, time.Time, bool, error) {
	var value string
	var expiry time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expiry FROM cache WHERE key = ?`, key,
	).Scan(&value, &expiry)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("storage.Get: query: %w", err)
	}
	return []byte(value), expiry, true, nil
}

// Set implements ports.CacheStore with overwrite-on-write semantics.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte, expiry time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cache (key, value, expiry) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expiry = excluded.expiry`,
		key, string(value), expiry.UTC(),
	)
	if err != nil {
		return fmt.Errorf("storage.Set: upsert: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
