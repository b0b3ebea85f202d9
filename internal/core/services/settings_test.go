package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ebookctl/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

func TestSettingsService_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().API, settings.API)
	assert.Equal(t, domain.DefaultCallbackPort, settings.OAuth.CallbackPort)
	assert.Equal(t, domain.DefaultExportDirectory, settings.Export.Dir)
	assert.Empty(t, settings.OAuth.LoginURL)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    string
		wantErr bool
	}{
		{KeyAPIURL, "https://api.example.com/", "https://api.example.com", false},
		{KeyAPIURL, "not a url", "", true},
		{KeyAPITimeout, "60", "60", false},
		{KeyAPITimeout, "0", "", true},
		{KeyAPIRate, "abc", "", true},
		{KeyOAuthPort, "8080", "8080", false},
		{KeyOAuthPort, "70000", "", true},
		{KeyExportDir, " ./out ", "./out", false},
		{KeyLegalPublisher, "Acme Press", "Acme Press", false},
		{"unknown.key", "x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			svc := NewSettingsService(memory.NewConfigStore())

			err := svc.Set(tt.key, tt.value)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			got, err := svc.Value(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSettingsService_SeededValues(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore(map[string]any{
		KeyAPITimeout:   int64(30),
		KeyLegalEdition: "Second",
	}))

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, 30, settings.API.TimeoutSeconds)
	assert.Equal(t, "Second", settings.Legal.Edition)
}

func TestSettingsService_Keys(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	keys := svc.Keys()

	assert.Len(t, keys, 9)
	assert.IsIncreasing(t, keys)
	assert.Equal(t, ":memory:", svc.Path())
}
