package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"MARKETPLACE_DB_URL", "RABBITMQ_URL", "REDIS_URL", "JWT_PUBLIC_KEY_PATH",
		"JWT_PRIVATE_KEY_PATH", "JWT_ISSUER", "HTTP_ADDR", "DB_LOCK_TIMEOUT",
		"OUTBOX_BATCH_SIZE", "OUTBOX_INTERVAL", "SUMMARY_CACHE_TTL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("requires database url", func(t *testing.T) {
		clearEnv(t)
		_, err := Load()
		assert.ErrorIs(t, err, ErrMissingDatabaseURL)
	})

	t.Run("applies defaults", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MARKETPLACE_DB_URL", "postgres://localhost/market")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 3*time.Second, cfg.DBLockTimeout)
		assert.Equal(t, 10, cfg.OutboxBatchSize)
		assert.Equal(t, time.Second, cfg.OutboxInterval)
		assert.Equal(t, 30*time.Second, cfg.SummaryCacheTTL)
		assert.Empty(t, cfg.RedisURL)
	})

	t.Run("reads overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MARKETPLACE_DB_URL", "postgres://localhost/market")
		t.Setenv("HTTP_ADDR", ":9090")
		t.Setenv("DB_LOCK_TIMEOUT", "500ms")
		t.Setenv("OUTBOX_BATCH_SIZE", "25")
		t.Setenv("REDIS_URL", "localhost:6379")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.HTTPAddr)
		assert.Equal(t, 500*time.Millisecond, cfg.DBLockTimeout)
		assert.Equal(t, 25, cfg.OutboxBatchSize)
		assert.Equal(t, "localhost:6379", cfg.RedisURL)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		for key, val := range map[string]string{
			"DB_LOCK_TIMEOUT":   "soon",
			"OUTBOX_BATCH_SIZE": "-1",
			"OUTBOX_INTERVAL":   "1x",
		} {
			clearEnv(t)
			t.Setenv("MARKETPLACE_DB_URL", "postgres://localhost/market")
			t.Setenv(key, val)
			_, err := Load()
			assert.Error(t, err, key)
		}
	})
}

func TestReadKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(path, []byte("pem"), 0o600))

	cfg := &Config{JWTPublicKeyPath: path}
	b, err := cfg.ReadPublicKey()
	require.NoError(t, err)
	assert.Equal(t, "pem", string(b))

	_, err = cfg.ReadPrivateKey()
	assert.Error(t, err)

	cfg.JWTPrivateKeyPath = filepath.Join(dir, "missing.pem")
	_, err = cfg.ReadPrivateKey()
	assert.Error(t, err)
}
