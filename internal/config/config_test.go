package config

import (
	"testing"
	"time"

	"penguinexplorer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"PORT", "GIN_MODE", "SHUTDOWN_TIMEOUT", "DATA_FILE", "LOGO_FILE", "OPS_PORT", "OPS_ENABLED", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "penguins_size.csv", cfg.Data.File)
	assert.Equal(t, "penguin-logo.png", cfg.Data.LogoFile)
	assert.Equal(t, "6060", cfg.Ops.Port)
	assert.True(t, cfg.Ops.Enabled)
	assert.Equal(t, "INFO", cfg.Log.Level)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("DATA_FILE", "data/penguins.xlsx")
	t.Setenv("OPS_ENABLED", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "data/penguins.xlsx", cfg.Data.File)
	assert.False(t, cfg.Ops.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "http"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bad gin mode", map[string]string{"GIN_MODE": "verbose"}},
		{"ops port clash", map[string]string{"PORT": "7000", "OPS_PORT": "7000"}},
		{"bad ops port", map[string]string{"OPS_PORT": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}

func TestOpsPortIgnoredWhenDisabled(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPS_ENABLED", "false")
	t.Setenv("OPS_PORT", "8080")

	_, err := Load()
	assert.NoError(t, err)
}
