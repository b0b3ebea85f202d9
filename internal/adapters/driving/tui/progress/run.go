package progress

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// ErrCancelled is returned when the user interrupts the progress view.
var ErrCancelled = errors.New("cancelled")

// Run executes work while rendering its stage events to out.
// subscribe registers the observer that feeds the view; it is called with
// nil once Run returns. When the view is cancelled Run returns ErrCancelled
// without waiting for work.
func Run(
	ctx context.Context,
	out io.Writer,
	title string,
	subscribe func(driving.StageObserver),
	work func(ctx context.Context) error,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(title), tea.WithOutput(out), tea.WithContext(ctx))
	subscribe(func(event domain.StageEvent) { p.Send(EventMsg(event)) })
	defer subscribe(nil)

	workErr := make(chan error, 1)
	go func() {
		err := work(ctx)
		workErr <- err
		p.Send(DoneMsg{Err: err})
	}()

	final, err := p.Run()
	switch {
	case errors.Is(err, tea.ErrProgramKilled):
		// Interrupted. A call already sent settles in the background and
		// its result is dropped.
		return ErrCancelled
	case err != nil:
		return fmt.Errorf("progress view: %w", err)
	}
	if m, ok := final.(Model); ok && m.Cancelled() {
		return ErrCancelled
	}
	return <-workErr
}
