package progress

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

func event(stage domain.Stage, kind domain.EventKind, at time.Time, msg string) EventMsg {
	return EventMsg(domain.StageEvent{Stage: stage, Kind: kind, At: at, Message: msg})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestModel_Init(t *testing.T) {
	assert.NotNil(t, New("Enriching").Init())
}

func TestModel_TracksStages(t *testing.T) {
	start := time.Now()
	m := New("Enriching")

	m = update(t, m, event(domain.StageCover, domain.EventStarted, start, ""))
	m = update(t, m, event(domain.StageLegalPages, domain.EventStarted, start, ""))
	m = update(t, m, event(domain.StageCover, domain.EventSucceeded, start.Add(2*time.Second), ""))
	m = update(t, m, event(domain.StageLegalPages, domain.EventFailed, start.Add(time.Second), "legal unavailable"))

	require.Len(t, m.lines, 2)
	assert.Equal(t, domain.EventSucceeded, m.lines[0].kind)
	assert.Equal(t, 2*time.Second, m.lines[0].elapsed)
	assert.Equal(t, domain.EventFailed, m.lines[1].kind)

	view := m.View()
	assert.Contains(t, view, "Enriching")
	assert.Contains(t, view, "Cover")
	assert.Contains(t, view, "Legal pages")
	assert.Contains(t, view, "legal unavailable")
	assert.Contains(t, view, "2s")
}

func TestModel_RerunReusesRow(t *testing.T) {
	start := time.Now()
	m := New("Cover")

	m = update(t, m, event(domain.StageCover, domain.EventStarted, start, ""))
	m = update(t, m, event(domain.StageCover, domain.EventFailed, start, "boom"))
	m = update(t, m, event(domain.StageCover, domain.EventStarted, start, ""))

	require.Len(t, m.lines, 1)
	assert.Equal(t, domain.EventStarted, m.lines[0].kind)
	assert.NotContains(t, m.View(), "boom")
}

func TestModel_DoneQuits(t *testing.T) {
	boom := errors.New("boom")
	m := New("Cover")

	next, cmd := m.Update(DoneMsg{Err: boom})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	model := next.(Model)
	assert.True(t, model.done)
	assert.Equal(t, boom, model.Err())
}

func TestModel_CtrlCCancels(t *testing.T) {
	m := New("Cover")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	model := next.(Model)
	assert.True(t, model.Cancelled())
	assert.Contains(t, model.View(), "Cancelled")
}

func TestModel_IgnoresOtherKeys(t *testing.T) {
	m := New("Cover")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Nil(t, cmd)
	assert.False(t, next.(Model).Cancelled())
}
