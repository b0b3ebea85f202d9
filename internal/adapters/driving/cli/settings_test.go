package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsGet(t *testing.T) {
	t.Run("all", func(t *testing.T) {
		setupTestServices(t)

		out, err := execute(t, "settings")

		require.NoError(t, err)
		assert.Contains(t, out, "api.url")
		assert.Contains(t, out, domain.DefaultAPIURL)
		assert.Contains(t, out, "(not set)")
	})

	t.Run("one key", func(t *testing.T) {
		setupTestServices(t)

		out, err := execute(t, "settings", "get", "api.burst")

		require.NoError(t, err)
		assert.Contains(t, out, "5")
	})

	t.Run("unknown key", func(t *testing.T) {
		setupTestServices(t)

		_, err := execute(t, "settings", "get", "nope")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsSet(t *testing.T) {
	t.Run("stores and echoes the value", func(t *testing.T) {
		ts := setupTestServices(t)

		out, err := execute(t, "settings", "set", "api.url", "https://books.example.com/")

		require.NoError(t, err)
		assert.Contains(t, out, "api.url = https://books.example.com")
		settings, err := ts.settings.Get()
		require.NoError(t, err)
		assert.Equal(t, "https://books.example.com", settings.API.URL)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		setupTestServices(t)

		_, err := execute(t, "settings", "set", "oauth.callback_port", "99999")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("needs key and value", func(t *testing.T) {
		setupTestServices(t)

		_, err := execute(t, "settings", "set", "api.url")

		assert.Error(t, err)
	})
}

func TestSettingsPath(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "settings", "path")

	require.NoError(t, err)
	assert.Contains(t, out, ":memory:")
}
