package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Wallet      WalletConfig      `mapstructure:"wallet"`
	AntiFraud   AntiFraudConfig   `mapstructure:"antifraud"`
	Webhook     WebhookConfig     `mapstructure:"webhook"`
	Game        GameConfig        `mapstructure:"game"`
	Sweeper     SweeperConfig     `mapstructure:"sweeper"`
	Matchmaking MatchmakingConfig `mapstructure:"matchmaking"`
	Provider    ProviderConfig    `mapstructure:"provider"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MigrateURL returns the DSN in the form expected by the pgx/v5 migrate driver.
func (d DatabaseConfig) MigrateURL() string {
	return "pgx5" + strings.TrimPrefix(d.DSN(), "postgres")
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

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver"` // postgres, memory
}

type WalletConfig struct {
	Currency       string          `mapstructure:"currency"`
	SystemUserID   string          `mapstructure:"system_user_id"`
	CommissionRate decimal.Decimal `mapstructure:"-"`
	RawCommission  string          `mapstructure:"commission_rate"`
}

// AntiFraudConfig configures the velocity guard. A zero Window means the
// current UTC calendar day.
type AntiFraudConfig struct {
	Window time.Duration  `mapstructure:"window"`
	Limits map[string]int `mapstructure:"limits"`
}

// Limit returns the attempt limit for action, or 0 when unlimited.
func (a AntiFraudConfig) Limit(action string) int {
	return a.Limits[strings.ToLower(action)]
}

// WebhookConfig configures provider callbacks. An empty Secret accepts
// unsigned callbacks and is meant for the sandbox provider only.
type WebhookConfig struct {
	DedupTTL time.Duration `mapstructure:"dedup_ttl"`
	Secret   string        `mapstructure:"secret"`
}

// GameConfig configures games. OutcomeSecret signs results posted by the game server.
type GameConfig struct {
	TTL           time.Duration   `mapstructure:"ttl"`
	NodeID        string          `mapstructure:"node_id"`
	HouseEdge     decimal.Decimal `mapstructure:"-"`
	RawHouseEdge  string          `mapstructure:"house_edge"`
	OutcomeSecret string          `mapstructure:"outcome_secret"`
}

type SweeperConfig struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

// BracketConfig is one stake range, written as decimal strings.
type BracketConfig struct {
	Min string `mapstructure:"min"`
	Max string `mapstructure:"max"`
}

type MatchmakingConfig struct {
	Brackets       []BracketConfig `mapstructure:"brackets"`
	InclusiveEdges bool            `mapstructure:"inclusive_edges"`
	StakePolicy    string          `mapstructure:"stake_policy"` // lower, equal
}

// ProviderConfig configures the sandbox payout provider.
type ProviderConfig struct {
	Name    string        `mapstructure:"name"`
	Outcome string        `mapstructure:"outcome"` // succeed, fail, pending
	Latency time.Duration `mapstructure:"latency"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: WSC_ (Wager Settlement Core).
// Nested keys use underscore: WSC_DATABASE_HOST, WSC_WALLET_COMMISSION_RATE, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "wager_settlement")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("wallet.currency", "USD")
	v.SetDefault("wallet.system_user_id", "system")
	v.SetDefault("wallet.commission_rate", "0.10")
	v.SetDefault("antifraud.window", "0s")
	v.SetDefault("antifraud.limits", map[string]int{"withdrawal": 3})
	v.SetDefault("webhook.dedup_ttl", "24h")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("game.ttl", "5m")
	v.SetDefault("game.node_id", "")
	v.SetDefault("game.house_edge", "0.01")
	v.SetDefault("game.outcome_secret", "")
	v.SetDefault("sweeper.interval", "60s")
	v.SetDefault("sweeper.batch_size", 100)
	v.SetDefault("matchmaking.brackets", []map[string]string{
		{"min": "1", "max": "10"},
		{"min": "10", "max": "20"},
		{"min": "20", "max": "100"},
	})
	v.SetDefault("matchmaking.inclusive_edges", true)
	v.SetDefault("matchmaking.stake_policy", "lower")
	v.SetDefault("provider.name", "sandbox")
	v.SetDefault("provider.outcome", "succeed")
	v.SetDefault("provider.latency", "0s")

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: WSC_DATABASE_HOST -> database.host
	v.SetEnvPrefix("WSC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize parses decimal settings and fills derived defaults.
func (c *Config) finalize() error {
	rate, err := decimal.NewFromString(c.Wallet.RawCommission)
	if err != nil {
		return fmt.Errorf("parsing wallet.commission_rate: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("wallet.commission_rate must be in [0,1), got %s", rate)
	}
	c.Wallet.CommissionRate = rate

	edge, err := decimal.NewFromString(c.Game.RawHouseEdge)
	if err != nil {
		return fmt.Errorf("parsing game.house_edge: %w", err)
	}
	if edge.IsNegative() || edge.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("game.house_edge must be in [0,1), got %s", edge)
	}
	c.Game.HouseEdge = edge

	if c.Game.NodeID == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "node-local"
		}
		c.Game.NodeID = host
	}

	for i, b := range c.Matchmaking.Brackets {
		lo, err := decimal.NewFromString(b.Min)
		if err != nil {
			return fmt.Errorf("parsing matchmaking.brackets[%d].min: %w", i, err)
		}
		hi, err := decimal.NewFromString(b.Max)
		if err != nil {
			return fmt.Errorf("parsing matchmaking.brackets[%d].max: %w", i, err)
		}
		if !lo.LessThan(hi) {
			return fmt.Errorf("matchmaking.brackets[%d]: min %s must be below max %s", i, lo, hi)
		}
	}

	switch c.Matchmaking.StakePolicy {
	case "lower", "equal":
	default:
		return fmt.Errorf("matchmaking.stake_policy must be lower or equal, got %q", c.Matchmaking.StakePolicy)
	}

	if c.Server.Mode == "release" {
		if unsigned := c.UnsignedSettings(); len(unsigned) > 0 {
			return fmt.Errorf("%s must be set in release mode", strings.Join(unsigned, " and "))
		}
	}

	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("storage.driver must be postgres or memory, got %q", c.Storage.Driver)
	}
	return nil
}

// UnsignedSettings lists the signing secrets left empty. Routes guarded by an
// empty secret accept unsigned requests.
func (c *Config) UnsignedSettings() []string {
	var out []string
	if c.Webhook.Secret == "" {
		out = append(out, "webhook.secret")
	}
	if c.Game.OutcomeSecret == "" {
		out = append(out, "game.outcome_secret")
	}
	return out
}
