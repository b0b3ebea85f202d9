package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose_Toggles(t *testing.T) {
	captureOutput(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_WhenVerbose(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{"debug", func() { Debug("calling %s", "/api/auth/me") }, "[DEBUG] calling /api/auth/me\n"},
		{"info", func() { Info("merged %d chapters", 3) }, "[INFO] merged 3 chapters\n"},
		{"warn", func() { Warn("remote logout failed") }, "[WARN] remote logout failed\n"},
		{"section", func() { Section("Cover") }, "\n=== Cover ===\n"},
		{"error", func() { Error("export failed: %s", "pdf") }, "[ERROR] export failed: pdf\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureOutput(t, true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLevels_WhenQuiet(t *testing.T) {
	buf := captureOutput(t, false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Empty(t, buf.String())
}

func TestError_IgnoresVerbose(t *testing.T) {
	buf := captureOutput(t, false)

	Error("session expired")

	assert.Equal(t, "[ERROR] session expired\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	var buf bytes.Buffer
	var bufMu sync.Mutex
	SetOutput(writerFunc(func(p []byte) (int, error) {
		bufMu.Lock()
		defer bufMu.Unlock()
		return buf.Write(p)
	}))
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(n%2 == 0)
			_ = IsVerbose()
			Debug("worker %d", n)
			Info("worker %d", n)
		}(i)
	}
	wg.Wait()
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
