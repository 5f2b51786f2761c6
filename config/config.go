package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full bot configuration.
type Config struct {
	Strategy StrategyConfig `yaml:"strategy"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// StrategyConfig controls the decision engine.
type StrategyConfig struct {
	IntervalSeconds   int      `yaml:"interval_seconds"`
	WatchTokens       []string `yaml:"watch_tokens"`
	InitialBalanceSOL float64  `yaml:"initial_balance_sol"`
	OrderSizeSOL      float64  `yaml:"order_size_sol"`
	BuyWaveThreshold  int      `yaml:"buy_wave_threshold"` // smart-money transfers in the lookback window
	HoldFraction      float64  `yaml:"hold_fraction"`      // fraction of median hold time to target
	LookbackHours     int      `yaml:"lookback_hours"`
	LabelTTLSeconds   int      `yaml:"label_ttl_seconds"`
}

// APIConfig holds external endpoint settings.
type APIConfig struct {
	NansenBase     string `yaml:"nansen_base"`
	NansenAPIKey   string `yaml:"nansen_api_key"`
	SolanaRPCURL   string `yaml:"solana_rpc_url"`
	TrackWallet    string `yaml:"track_wallet"` // optional: log this wallet's real SOL balance on startup
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StorageConfig controls where data is persisted.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // path to the SQLite file, or ":memory:"
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config and the .env file if present.
// Environment variables override YAML values for the keys they cover.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// ScanInterval returns the cycle cadence as a time.Duration.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.Strategy.IntervalSeconds) * time.Second
}

// RequestTimeout returns the per-call deadline for external APIs.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Lookback returns the smart-money scan window.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Strategy.LookbackHours) * time.Hour
}

// LabelTTL returns how long wallet labels stay cached.
func (c *Config) LabelTTL() time.Duration {
	return time.Duration(c.Strategy.LabelTTLSeconds) * time.Second
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NANSEN_API_KEY"); v != "" {
		cfg.API.NansenAPIKey = v
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		cfg.API.SolanaRPCURL = v
	}
	if v := os.Getenv("TRACK_WALLET"); v != "" {
		cfg.API.TrackWallet = v
	}
	if v := os.Getenv("PAPER_BALANCE_SOL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Strategy.InitialBalanceSOL = f
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Strategy.IntervalSeconds <= 0 {
		cfg.Strategy.IntervalSeconds = 60
	}
	if cfg.Strategy.InitialBalanceSOL <= 0 {
		cfg.Strategy.InitialBalanceSOL = 50.0
	}
	if cfg.Strategy.OrderSizeSOL <= 0 {
		cfg.Strategy.OrderSizeSOL = 1.0
	}
	if cfg.Strategy.BuyWaveThreshold <= 0 {
		cfg.Strategy.BuyWaveThreshold = 3
	}
	if cfg.Strategy.HoldFraction <= 0 {
		cfg.Strategy.HoldFraction = 0.8
	}
	if cfg.Strategy.LookbackHours <= 0 {
		cfg.Strategy.LookbackHours = 24
	}
	if cfg.Strategy.LabelTTLSeconds <= 0 {
		cfg.Strategy.LabelTTLSeconds = 86400
	}
	if cfg.API.NansenBase == "" {
		cfg.API.NansenBase = "https://api.nansen.ai/api/v1"
	}
	if cfg.API.SolanaRPCURL == "" {
		cfg.API.SolanaRPCURL = "https://api.mainnet-beta.solana.com"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "bot_data.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func validate(cfg *Config) error {
	if len(cfg.Strategy.WatchTokens) == 0 {
		return fmt.Errorf("strategy.watch_tokens is empty")
	}
	if cfg.Strategy.HoldFraction > 1.0 {
		return fmt.Errorf("strategy.hold_fraction %.2f > 1.0: the exit must not target later than the median dump time", cfg.Strategy.HoldFraction)
	}
	return nil
}
