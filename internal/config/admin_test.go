package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdminConfig(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv("ADMIN_USERNAME", "")
		t.Setenv("ADMIN_PASSWORD", "")

		cfg, err := NewAdminConfig()
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("both set", func(t *testing.T) {
		t.Setenv("ADMIN_USERNAME", "admin")
		t.Setenv("ADMIN_PASSWORD", "admin-pass-123")

		cfg, err := NewAdminConfig()
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "admin", cfg.Username)
		assert.Equal(t, "admin-pass-123", cfg.Password)
	})

	t.Run("password only", func(t *testing.T) {
		t.Setenv("ADMIN_USERNAME", "")
		t.Setenv("ADMIN_PASSWORD", "admin-pass-123")

		_, err := NewAdminConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_USERNAME is required")
	})

	t.Run("short password", func(t *testing.T) {
		t.Setenv("ADMIN_USERNAME", "admin")
		t.Setenv("ADMIN_PASSWORD", "short")

		_, err := NewAdminConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 8")
	})
}
