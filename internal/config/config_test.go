package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/airdesk/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.BackendMemory, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, config.BackendMemory, cfg.Ledger.Backend)
	assert.Equal(t, "airdesk:", cfg.Redis.Prefix)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("AIRDESK_SESSION_BACKEND", "redis")
	t.Setenv("AIRDESK_SESSION_TTL", "90m")
	t.Setenv("AIRDESK_REDIS_ADDR", "cache:6379")
	t.Setenv("AIRDESK_REDIS_DB", "3")

	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	assert.Equal(t, config.BackendRedis, cfg.Session.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Session.TTL)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.UsesRedis())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airdesk.yaml")
	data := []byte(`
addr: ":9000"
ledger:
  backend: mysql
mysql:
  dsn: "user:pw@tcp(db:3306)/airdesk"
session:
  ttl: 2h
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, config.BackendMySQL, cfg.Ledger.Backend)
	assert.Equal(t, "user:pw@tcp(db:3306)/airdesk", cfg.MySQL.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
}

func TestBindFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":8080", "")
	flags.String("session-backend", "memory", "")
	flags.String("redis-addr", "localhost:6379", "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--addr=:7070", "--session-backend=redis", "--redis-addr=r:1", "--log-level=debug"}))

	v := config.New()
	require.NoError(t, config.BindFlags(v, flags))

	cfg, err := config.Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, config.BackendRedis, cfg.Session.Backend)
	assert.Equal(t, "r:1", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"Unknown Session Backend", map[string]string{"AIRDESK_SESSION_BACKEND": "mysql"}, "unknown session backend"},
		{"Unknown Ledger Backend", map[string]string{"AIRDESK_LEDGER_BACKEND": "postgres"}, "unknown ledger backend"},
		{"MySQL Without DSN", map[string]string{"AIRDESK_LEDGER_BACKEND": "mysql"}, "mysql.dsn"},
		{"Key Not Hex", map[string]string{"AIRDESK_SESSION_ENCRYPTION_KEY": "zz"}, "not hex"},
		{"Short Key", map[string]string{"AIRDESK_SESSION_ENCRYPTION_KEY": "abcd"}, "32 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Load(config.New(), "")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEncryptionKey(t *testing.T) {
	t.Setenv("AIRDESK_SESSION_ENCRYPTION_KEY", strings.Repeat("ab", 32))
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)

	key, err := cfg.EncryptionKey()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}
