package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Log      LogConfig      `mapstructure:"log"`
	Farming  FarmingConfig  `mapstructure:"farming"`
	Referral ReferralConfig `mapstructure:"referral"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
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
	AutoMigrate     bool          `mapstructure:"auto_migrate"` // run goose up on engine start
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
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

// JWTConfig configures operator bearer tokens for maintenance routes.
type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// IngestConfig holds the HMAC credentials of the deposit verification pipeline.
type IngestConfig struct {
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// FarmingConfig drives the tick scheduler and new position defaults.
type FarmingConfig struct {
	TickInterval  time.Duration     `mapstructure:"tick_interval"`
	BatchLimit    int               `mapstructure:"batch_limit"`
	Workers       int               `mapstructure:"workers"`
	BatchDeadline time.Duration     `mapstructure:"batch_deadline"`
	DustThreshold string            `mapstructure:"dust_threshold"`
	DailyRates    map[string]string `mapstructure:"daily_rates"` // currency -> fraction per day
	LeaseEnabled  bool              `mapstructure:"lease_enabled"`
}

// ReferralConfig is the commission schedule. Levels are fractions of Rate,
// index 0 being the direct referrer.
type ReferralConfig struct {
	Rate     string   `mapstructure:"rate"`
	MaxDepth int      `mapstructure:"max_depth"`
	Levels   []string `mapstructure:"levels"`
}

type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// QueueConfig controls the durable commission queue. SettleDelay is how long
// after a reward its settle job waits before checking the cascade.
type QueueConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxWorkers  int           `mapstructure:"max_workers"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultReferralLevels returns the production level table: the direct
// referrer receives the full referral rate, level n (2..20) receives (21-n)%.
func DefaultReferralLevels() []string {
	levels := make([]string, 0, 20)
	levels = append(levels, "1")
	for lvl := 2; lvl <= 20; lvl++ {
		levels = append(levels, decimal.NewFromInt(int64(21-lvl)).Div(decimal.NewFromInt(100)).String())
	}
	return levels
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: FARM_.
// Nested keys use underscore: FARM_DATABASE_HOST, FARM_FARMING_TICK_INTERVAL, etc.
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
	v.SetDefault("database.dbname", "farming")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "12h")
	v.SetDefault("jwt.issuer", "farming-engine")
	v.SetDefault("ingest.access_key", "")
	v.SetDefault("ingest.secret_key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("farming.tick_interval", "5m")
	v.SetDefault("farming.batch_limit", 500)
	v.SetDefault("farming.workers", 8)
	v.SetDefault("farming.batch_deadline", "4m")
	v.SetDefault("farming.dust_threshold", "0.00001")
	v.SetDefault("farming.daily_rates", map[string]string{"UNI": "0.01", "TON": "0.01"})
	v.SetDefault("farming.lease_enabled", true)
	v.SetDefault("referral.rate", "0.01")
	v.SetDefault("referral.max_depth", 20)
	v.SetDefault("referral.levels", DefaultReferralLevels())
	v.SetDefault("breaker.max_failures", 5)
	v.SetDefault("breaker.open_timeout", "30s")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.max_workers", 4)
	v.SetDefault("queue.settle_delay", "1m")
	v.SetDefault("metrics.enabled", true)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: FARM_DATABASE_HOST -> database.host
	v.SetEnvPrefix("FARM")
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the farming and referral sections, which the engine
// cannot run without, and the queue's settle delay.
func (c *Config) Validate() error {
	f := c.Farming
	if f.TickInterval <= 0 {
		return errors.New("farming.tick_interval must be greater than 0")
	}
	if f.BatchLimit <= 0 {
		return errors.New("farming.batch_limit must be greater than 0")
	}
	if f.Workers <= 0 {
		return errors.New("farming.workers must be greater than 0")
	}
	if f.BatchDeadline <= 0 {
		return errors.New("farming.batch_deadline must be greater than 0")
	}
	if _, err := f.Dust(); err != nil {
		return err
	}
	if _, err := f.Rates(); err != nil {
		return err
	}

	r := c.Referral
	if r.MaxDepth <= 0 || r.MaxDepth > 20 {
		return fmt.Errorf("referral.max_depth must be within 1..20, got %d", r.MaxDepth)
	}
	if _, err := r.ParsedRate(); err != nil {
		return err
	}
	if _, err := r.ParsedLevels(); err != nil {
		return err
	}

	if c.Queue.SettleDelay < 0 {
		return errors.New("queue.settle_delay must not be negative")
	}
	return nil
}

// Dust parses the dust threshold.
func (f FarmingConfig) Dust() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(f.DustThreshold)
	if err != nil {
		return decimal.Zero, fmt.Errorf("farming.dust_threshold: %w", err)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.New("farming.dust_threshold must not be negative")
	}
	return d, nil
}

// Rates parses the per-currency daily rates. Keys are upper-cased.
func (f FarmingConfig) Rates() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(f.DailyRates))
	for cur, raw := range f.DailyRates {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("farming.daily_rates.%s: %w", cur, err)
		}
		if rate.IsNegative() {
			return nil, fmt.Errorf("farming.daily_rates.%s must not be negative", cur)
		}
		out[strings.ToUpper(cur)] = rate
	}
	return out, nil
}

// ParsedRate parses the referral rate.
func (r ReferralConfig) ParsedRate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(r.Rate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("referral.rate: %w", err)
	}
	if rate.IsNegative() {
		return decimal.Zero, errors.New("referral.rate must not be negative")
	}
	return rate, nil
}

// ParsedLevels parses the level table.
func (r ReferralConfig) ParsedLevels() ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, 0, len(r.Levels))
	for i, raw := range r.Levels {
		pct, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("referral.levels[%d]: %w", i, err)
		}
		out = append(out, pct)
	}
	return out, nil
}
