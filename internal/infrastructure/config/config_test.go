package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"LEASEDESK_APP_NAME",
	"LEASEDESK_APP_ENV",
	"LEASEDESK_APP_PORT",
	"LEASEDESK_DATABASE_HOST",
	"LEASEDESK_DATABASE_PORT",
	"LEASEDESK_DATABASE_USER",
	"LEASEDESK_DATABASE_PASSWORD",
	"LEASEDESK_DATABASE_DBNAME",
	"LEASEDESK_DATABASE_SSLMODE",
	"LEASEDESK_DATABASE_MAX_OPEN_CONNS",
	"LEASEDESK_DATABASE_MAX_IDLE_CONNS",
	"LEASEDESK_JWT_SECRET",
}

// resetEnv clears every config env var for the duration of the test and
// restores the originals afterwards.
func resetEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvKeys {
		if val, ok := os.LookupEnv(key); ok {
			k, v := key, val
			t.Cleanup(func() { os.Setenv(k, v) })
			os.Unsetenv(key)
		}
	}
}

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	os.Setenv(key, value)
	t.Cleanup(func() { os.Unsetenv(key) })
}

func TestLoad_Defaults(t *testing.T) {
	resetEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "leasedesk-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Empty(t, cfg.Database.Password)
	assert.Equal(t, "leasedesk", cfg.Database.DBName)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 120, cfg.HTTP.RateLimitRequests)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, 50, cfg.Notification.BatchSize)
}

func TestLoad_Environment(t *testing.T) {
	resetEnv(t)
	setEnv(t, "LEASEDESK_APP_NAME", "test-app")
	setEnv(t, "LEASEDESK_APP_ENV", "testing")
	setEnv(t, "LEASEDESK_APP_PORT", "9000")
	setEnv(t, "LEASEDESK_DATABASE_HOST", "testdb.local")
	setEnv(t, "LEASEDESK_DATABASE_PORT", "5433")
	setEnv(t, "LEASEDESK_DATABASE_USER", "testuser")
	setEnv(t, "LEASEDESK_DATABASE_PASSWORD", "testpass")
	setEnv(t, "LEASEDESK_DATABASE_DBNAME", "testdb")
	setEnv(t, "LEASEDESK_DATABASE_SSLMODE", "require")
	setEnv(t, "LEASEDESK_DATABASE_MAX_OPEN_CONNS", "50")
	setEnv(t, "LEASEDESK_DATABASE_MAX_IDLE_CONNS", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-app", cfg.App.Name)
	assert.Equal(t, "testing", cfg.App.Env)
	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "testdb.local", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "testuser", cfg.Database.User)
	assert.Equal(t, "testpass", cfg.Database.Password)
	assert.Equal(t, "testdb", cfg.Database.DBName)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
}

func TestLoad_PoolValidation(t *testing.T) {
	t.Run("idle conns may not exceed open conns", func(t *testing.T) {
		resetEnv(t)
		setEnv(t, "LEASEDESK_DATABASE_MAX_OPEN_CONNS", "10")
		setEnv(t, "LEASEDESK_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero open conns means unset", func(t *testing.T) {
		resetEnv(t)
		setEnv(t, "LEASEDESK_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("negative idle conns rejected", func(t *testing.T) {
		resetEnv(t)
		setEnv(t, "LEASEDESK_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	// productionEnv sets a valid production baseline; each case then
	// breaks exactly one setting.
	productionEnv := func(t *testing.T) {
		resetEnv(t)
		setEnv(t, "LEASEDESK_APP_ENV", "production")
		setEnv(t, "LEASEDESK_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		setEnv(t, "LEASEDESK_DATABASE_PASSWORD", "secure-password")
		setEnv(t, "LEASEDESK_DATABASE_SSLMODE", "require")
	}

	t.Run("valid production config passes", func(t *testing.T) {
		productionEnv(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("missing jwt secret", func(t *testing.T) {
		productionEnv(t)
		os.Unsetenv("LEASEDESK_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("short jwt secret", func(t *testing.T) {
		productionEnv(t)
		setEnv(t, "LEASEDESK_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("missing database password", func(t *testing.T) {
		productionEnv(t)
		os.Unsetenv("LEASEDESK_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("ssl disabled", func(t *testing.T) {
		productionEnv(t)
		setEnv(t, "LEASEDESK_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	base := DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "testuser",
		DBName:  "testdb",
		SSLMode: "disable",
	}

	t.Run("renders a postgres URL", func(t *testing.T) {
		cfg := base
		cfg.Password = "testpass"

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "postgres://")
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in the password", func(t *testing.T) {
		cfg := base
		cfg.Password = "pass@word#123"
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})

	t.Run("tolerates an empty password", func(t *testing.T) {
		assert.NotEmpty(t, base.DSN())
	})
}
