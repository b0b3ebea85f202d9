package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

func TestParseLocation(t *testing.T) {
	loc, err := ParseLocation("http://localhost:18765/callback#session_id=abc&state=xyz")
	require.NoError(t, err)

	code, ok := loc.ExchangeCode()
	assert.True(t, ok)
	assert.Equal(t, "abc", code)

	loc.StripExchangeCode()

	_, ok = loc.ExchangeCode()
	assert.False(t, ok)
	assert.Equal(t, "http://localhost:18765/callback#state=xyz", loc.String())
}

func TestParseLocation_NoFragment(t *testing.T) {
	loc, err := ParseLocation("http://localhost:18765/callback")
	require.NoError(t, err)

	_, ok := loc.ExchangeCode()
	assert.False(t, ok)
}

func TestParseLocation_Invalid(t *testing.T) {
	_, err := ParseLocation("http://[::1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewLocation(t *testing.T) {
	code, ok := NewLocation("abc").ExchangeCode()
	assert.True(t, ok)
	assert.Equal(t, "abc", code)

	_, ok = NewLocation("").ExchangeCode()
	assert.False(t, ok)
}
