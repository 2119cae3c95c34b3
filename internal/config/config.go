// Package config loads airdesk settings from flags, AIRDESK_* environment
// variables and an optional YAML file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. AIRDESK_REDIS_ADDR.
const EnvPrefix = "AIRDESK"

// Backend names accepted by session.backend and ledger.backend.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Config holds all configuration values.
type Config struct {
	Addr      string `mapstructure:"addr"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Catalog   string `mapstructure:"catalog"`

	Session SessionConfig `mapstructure:"session"`
	Ledger  LedgerConfig  `mapstructure:"ledger"`
	Redis   RedisConfig   `mapstructure:"redis"`
	MySQL   MySQLConfig   `mapstructure:"mysql"`
}

// SessionConfig selects where dialogue state lives.
type SessionConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	// EncryptionKey is a hex-encoded 32-byte AES key. Empty disables encryption.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// LedgerConfig selects where bookings live.
type LedgerConfig struct {
	Backend string `mapstructure:"backend"`
}

// RedisConfig is shared by the redis session store, ledger and lock.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// MySQLConfig configures the SQL ledger.
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("catalog", "")
	v.SetDefault("session.backend", BackendMemory)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.encryption_key", "")
	v.SetDefault("ledger.backend", BackendMemory)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "airdesk:")
	v.SetDefault("mysql.dsn", "")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps cobra/pflag flags onto config keys. Flags use dashes
// where keys use dots and underscores ("session-backend" -> "session.backend").
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if i := strings.IndexByte(key, '_'); i > 0 && isSection(key[:i]) {
			key = key[:i] + "." + key[i+1:]
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

func isSection(s string) bool {
	switch s {
	case "session", "ledger", "redis", "mysql":
		return true
	}
	return false
}

// Load reads the optional config file and decodes everything into a Config.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks backend names and backend-specific settings.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown session backend %q (want memory or redis)", c.Session.Backend)
	}
	switch c.Ledger.Backend {
	case BackendMemory, BackendRedis:
	case BackendMySQL:
		if c.MySQL.DSN == "" {
			return errors.New("mysql ledger requires mysql.dsn")
		}
	default:
		return fmt.Errorf("unknown ledger backend %q (want memory, redis or mysql)", c.Ledger.Backend)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must not be negative, got %s", c.Session.TTL)
	}
	if c.Session.EncryptionKey != "" {
		if _, err := c.EncryptionKey(); err != nil {
			return err
		}
	}
	return nil
}

// EncryptionKey decodes Session.EncryptionKey. It returns nil when unset.
func (c *Config) EncryptionKey() ([]byte, error) {
	if c.Session.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.Session.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("session.encryption_key is not hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("session.encryption_key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// UsesRedis reports whether any component needs a Redis client.
func (c *Config) UsesRedis() bool {
	return c.Session.Backend == BackendRedis || c.Ledger.Backend == BackendRedis
}
