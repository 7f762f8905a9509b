package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all client configuration.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Ledger       LedgerConfig       `mapstructure:"ledger"`
	Market       MarketConfig       `mapstructure:"market"`
	Transfer     TransferConfig     `mapstructure:"transfer"`
	Session      SessionConfig      `mapstructure:"session"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Archive      ArchiveConfig      `mapstructure:"archive"`
	Log          LogConfig          `mapstructure:"log"`
	Participants []Participant      `mapstructure:"participants"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// LedgerConfig describes how to reach and talk to the ledger network.
type LedgerConfig struct {
	URL            string        `mapstructure:"url"`
	ConnectRetries int           `mapstructure:"connect_retries"`
	RetryDelay     time.Duration `mapstructure:"retry_delay"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// WindowSequences bounds how many ledger sequences a submitted
	// transaction stays valid. TradeWindowMargin widens it for multi-hop
	// flows, where the default is too tight.
	WindowSequences   uint32 `mapstructure:"window_sequences"`
	TradeWindowMargin uint32 `mapstructure:"trade_window_margin"`
}

// MarketConfig names the traded asset pair.
type MarketConfig struct {
	BaseAsset   string        `mapstructure:"base_asset"`  // energy token code
	QuoteAsset  string        `mapstructure:"quote_asset"` // native ledger asset
	AssetIssuer string        `mapstructure:"asset_issuer"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"`
}

// TransferConfig controls the tokenized-asset transfer workflow.
// FallbackOrder is deliberately configurable: the working order was found
// empirically against one ledger implementation and may change.
type TransferConfig struct {
	FallbackOrder     []string      `mapstructure:"fallback_order"`
	NominalPriceDrops int64         `mapstructure:"nominal_price_drops"`
	RetryAttempts     int           `mapstructure:"retry_attempts"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
}

type SessionConfig struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ArchiveConfig configures the optional settlement-record archive.
type ArchiveConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (a ArchiveConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		a.User, a.Password, a.Host, a.Port, a.DBName, a.SSLMode,
	)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Participant is a known account on the ledger. Secrets are only present in
// demo deployments where the client acts for several test identities.
type Participant struct {
	Address string `mapstructure:"address"`
	Name    string `mapstructure:"name"`
	Role    string `mapstructure:"role"` // PRODUCER or CONSUMER
	Secret  string `mapstructure:"secret"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: EDX.
// Nested keys use underscore: EDX_LEDGER_URL, EDX_REDIS_HOST, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("ledger.url", "wss://localhost:6006")
	v.SetDefault("ledger.connect_retries", 3)
	v.SetDefault("ledger.retry_delay", "2s")
	v.SetDefault("ledger.request_timeout", "15s")
	v.SetDefault("ledger.window_sequences", 20)
	v.SetDefault("ledger.trade_window_margin", 40)
	v.SetDefault("market.base_asset", "ETK")
	v.SetDefault("market.quote_asset", "XRP")
	v.SetDefault("market.asset_issuer", "")
	v.SetDefault("market.poll_interval", "2s")
	v.SetDefault("market.poll_timeout", "30s")
	v.SetDefault("transfer.fallback_order", []string{"direct", "sell_offer", "buy_offer", "auto"})
	v.SetDefault("transfer.nominal_price_drops", 1)
	v.SetDefault("transfer.retry_attempts", 3)
	v.SetDefault("transfer.retry_delay", "2s")
	v.SetDefault("session.jwt_secret", "")
	v.SetDefault("session.token_expiry", "12h")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.host", "localhost")
	v.SetDefault("archive.port", 5432)
	v.SetDefault("archive.user", "postgres")
	v.SetDefault("archive.password", "postgres")
	v.SetDefault("archive.dbname", "energy_dex")
	v.SetDefault("archive.sslmode", "disable")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config (optional)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment overrides
	v.SetEnvPrefix("EDX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine: defaults + env carry a dev setup.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks invariants that would otherwise surface as confusing
// runtime failures.
func (c *Config) Validate() error {
	if c.Ledger.URL == "" {
		return fmt.Errorf("ledger.url must be set")
	}
	if c.Market.BaseAsset == "" || c.Market.QuoteAsset == "" {
		return fmt.Errorf("market.base_asset and market.quote_asset must be set")
	}
	if c.Market.BaseAsset == c.Market.QuoteAsset {
		return fmt.Errorf("market assets must differ")
	}
	if c.Ledger.WindowSequences == 0 {
		return fmt.Errorf("ledger.window_sequences must be positive")
	}
	if len(c.Transfer.FallbackOrder) == 0 {
		return fmt.Errorf("transfer.fallback_order must name at least one path")
	}
	return nil
}
