// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for both binaries.
type Config struct {
	Relay    RelayConfig
	Solana   SolanaConfig
	Telegram TelegramConfig
	Forward  ForwardConfig
	Storage  StorageConfig
	Wallets  WalletsConfig
	Bitquery BitqueryConfig
	Metrics  MetricsConfig
	Enrich   EnrichConfig
}

// RelayConfig holds the alert relay connection settings.
type RelayConfig struct {
	URL               string        `envconfig:"RELAY_URL" default:"ws://localhost:8900/alerts"`
	ReconnectDelay    time.Duration `envconfig:"RELAY_RECONNECT_DELAY" default:"1s"`
	MaxReconnectDelay time.Duration `envconfig:"RELAY_MAX_RECONNECT_DELAY" default:"30s"`
}

// SolanaConfig holds the chain RPC settings.
type SolanaConfig struct {
	RPCURL     string        `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	Timeout    time.Duration `envconfig:"SOLANA_RPC_TIMEOUT" default:"30s"`
	MaxRetries int           `envconfig:"SOLANA_RPC_MAX_RETRIES" default:"3"`
}

// TelegramConfig holds the alert bot settings. An empty token disables
// Telegram publishing.
type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

// ForwardConfig holds the copy-buy forwarding settings. An empty chat ID
// disables forwarding.
type ForwardConfig struct {
	ChatID       int64   `envconfig:"FORWARD_CHAT_ID"`
	MinMarketCap float64 `envconfig:"FORWARD_MIN_MARKET_CAP" default:"90000"`
	MaxMarketCap float64 `envconfig:"FORWARD_MAX_MARKET_CAP" default:"2000000"`
}

// StorageConfig selects the persistence backends. With an empty
// PostgresDSN the audit log falls back to CSV; with an empty
// ClickhouseDSN candles stay in memory.
type StorageConfig struct {
	PostgresDSN   string `envconfig:"POSTGRES_DSN"`
	ClickhouseDSN string `envconfig:"CLICKHOUSE_DSN"`
	CSVDir        string `envconfig:"CSV_DIR" default:"data"`
}

// WalletsConfig holds the wallet-name directory settings. With an empty
// RedisAddr names load from the JSON file.
type WalletsConfig struct {
	RedisAddr string        `envconfig:"WALLETS_REDIS_ADDR"`
	RedisKey  string        `envconfig:"WALLETS_REDIS_KEY" default:"wallet:names"`
	File      string        `envconfig:"WALLETS_FILE" default:"data/wallets.json"`
	TTL       time.Duration `envconfig:"WALLETS_TTL" default:"60s"`
}

// BitqueryConfig holds the candle-source settings for the OHLCV binary.
type BitqueryConfig struct {
	APIKey       string        `envconfig:"BITQUERY_API_KEY"`
	URL          string        `envconfig:"BITQUERY_URL" default:"https://streaming.bitquery.io/eap"`
	PollInterval time.Duration `envconfig:"OHLCV_POLL_INTERVAL" default:"10s"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR" default:":9090"`
}

// EnrichConfig holds the token-info and risk lookup settings.
type EnrichConfig struct {
	JupiterURL     string        `envconfig:"JUPITER_URL" default:"https://api.jup.ag/price/v2"`
	DexScreenerURL string        `envconfig:"DEXSCREENER_URL" default:"https://api.dexscreener.com/latest/dex/tokens"`
	RugcheckURL    string        `envconfig:"RUGCHECK_URL" default:"https://api.rugcheck.xyz/v1/tokens"`
	CacheTTL       time.Duration `envconfig:"TOKEN_CACHE_TTL" default:"60s"`
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}
