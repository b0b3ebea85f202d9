package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireLoginLock(t *testing.T) {
	dir := t.TempDir()

	release, err := AcquireLoginLock(dir)
	require.NoError(t, err)

	_, err = AcquireLoginLock(dir)
	assert.ErrorIs(t, err, ErrLoginInProgress)

	release()
	release2, err := AcquireLoginLock(dir)
	require.NoError(t, err)
	release2()
}
