package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults without a config file", func(t *testing.T) {
		// Given: no config file and no overrides
		path := filepath.Join(t.TempDir(), "missing.yml")

		// When: loading the config
		conf, err := Load(path)

		// Then: the defaults apply
		require.NoError(t, err)
		assert.Equal(t, "3000", conf.HTTPPort)
		assert.Equal(t, "info", conf.LogLevel)
		assert.Equal(t, "public", conf.StaticDir)
		assert.False(t, conf.Redis.Enabled)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
	})

	t.Run("PORT overrides the default", func(t *testing.T) {
		t.Setenv("PORT", "8081")

		conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.NoError(t, err)
		assert.Equal(t, "8081", conf.HTTPPort)
	})

	t.Run("Reads the config file and lets the environment win", func(t *testing.T) {
		// Given: a config file and a PORT override
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "log-level: debug\nhttp-port: \"4000\"\nredis:\n  enabled: true\n  host: cache\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("PORT", "5000")

		// When: loading the config
		conf, err := Load(path)

		// Then: file values are used except where the environment overrides
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "5000", conf.HTTPPort)
		assert.True(t, conf.Redis.Enabled)
		assert.Equal(t, "cache:6379", conf.Redis.GetRedisAddr())
	})
}
