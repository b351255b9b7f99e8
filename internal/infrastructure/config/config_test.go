package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"ZK_APP_NAME":          os.Getenv("ZK_APP_NAME"),
		"ZK_APP_ENV":           os.Getenv("ZK_APP_ENV"),
		"ZK_APP_PORT":          os.Getenv("ZK_APP_PORT"),
		"ZK_DATABASE_DRIVER":   os.Getenv("ZK_DATABASE_DRIVER"),
		"ZK_DATABASE_HOST":     os.Getenv("ZK_DATABASE_HOST"),
		"ZK_DATABASE_PORT":     os.Getenv("ZK_DATABASE_PORT"),
		"ZK_DATABASE_PASSWORD": os.Getenv("ZK_DATABASE_PASSWORD"),
		"ZK_DATABASE_SSLMODE":  os.Getenv("ZK_DATABASE_SSLMODE"),
		"ZK_JWT_SECRET":        os.Getenv("ZK_JWT_SECRET"),
		"ZK_JWT_EXPIRATION":    os.Getenv("ZK_JWT_EXPIRATION"),
		"ZK_STORAGE_BUCKET":    os.Getenv("ZK_STORAGE_BUCKET"),
		"ZK_STORAGE_USE_STUB":  os.Getenv("ZK_STORAGE_USE_STUB"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "zeroko-cash", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "receipts", cfg.Storage.RootFolder)
	})

	t.Run("loads values from environment variables with ZK prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("ZK_APP_PORT", "9000")
		os.Setenv("ZK_DATABASE_DRIVER", "sqlite")
		os.Setenv("ZK_JWT_EXPIRATION", "2h")
		os.Setenv("ZK_STORAGE_BUCKET", "test-receipts")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
		assert.Equal(t, "test-receipts", cfg.Storage.Bucket)
	})

	t.Run("rejects unknown database driver", func(t *testing.T) {
		clearEnv()
		os.Setenv("ZK_DATABASE_DRIVER", "oracle")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("production requires a jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("ZK_APP_ENV", "production")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("production rejects the storage stub", func(t *testing.T) {
		clearEnv()
		os.Setenv("ZK_APP_ENV", "production")
		os.Setenv("ZK_JWT_SECRET", "0123456789abcdef0123456789abcdef")
		os.Setenv("ZK_DATABASE_PASSWORD", "secret")
		os.Setenv("ZK_DATABASE_SSLMODE", "require")
		os.Setenv("ZK_STORAGE_USE_STUB", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "use_stub")
	})
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "zeroko_cash",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password survive escaping
	assert.Contains(t, dsn, "p%40ss%2Fword")
}
