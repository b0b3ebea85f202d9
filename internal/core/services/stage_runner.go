package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

// ebookMu is held only while reading or merging ebook fields, never
// across a remote call.
var ebookMu sync.Mutex

// stageRunner wraps remote calls with stage events and failure mapping.
type stageRunner struct {
	session  driving.SessionService
	activity driven.ActivityStore

	mu       sync.RWMutex
	observer driving.StageObserver
}

func (r *stageRunner) setObserver(observer driving.StageObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observer = observer
}

// run executes call as stage of ebookID and publishes its events.
func (r *stageRunner) run(ctx context.Context, ebookID string, stage domain.Stage, call func() error) error {
	logger.Section(stage.Label())
	r.publish(ctx, ebookID, stage, domain.EventStarted, "")

	start := time.Now()
	if err := call(); err != nil {
		err = r.fail(ctx, stage, err)
		logger.Warn("%s failed after %s: %v", stage, time.Since(start).Round(time.Millisecond), err)
		r.publish(ctx, ebookID, stage, domain.EventFailed, domain.UserMessage(err))
		return err
	}

	logger.Info("%s succeeded in %s", stage, time.Since(start).Round(time.Millisecond))
	r.publish(ctx, ebookID, stage, domain.EventSucceeded, "")
	return nil
}

// fail maps a call error. AuthRequired invalidates the session and is
// returned as is; other remote failures become a StageError.
func (r *stageRunner) fail(ctx context.Context, stage domain.Stage, err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		if r.session != nil {
			if clearErr := r.session.Clear(ctx); clearErr != nil {
				logger.Warn("Failed to clear session: %v", clearErr)
			}
		}
		return err
	case errors.Is(err, domain.ErrPreconditionUnmet), errors.Is(err, domain.ErrOperationInFlight):
		return err
	}

	msg := domain.RemoteDetail(err)
	if msg == "" {
		msg = stage.FailureMessage()
	}
	return &domain.StageError{Stage: stage, Message: msg, Err: err}
}

func (r *stageRunner) publish(ctx context.Context, ebookID string, stage domain.Stage, kind domain.EventKind, msg string) {
	event := domain.StageEvent{
		ID:      uuid.NewString(),
		EbookID: ebookID,
		Stage:   stage,
		Kind:    kind,
		Message: msg,
		At:      time.Now(),
	}

	r.mu.RLock()
	observer := r.observer
	r.mu.RUnlock()
	if observer != nil {
		observer(event)
	}

	if r.activity == nil {
		return
	}
	if err := r.activity.Record(ctx, event); err != nil {
		logger.Warn("Failed to record %s event: %v", stage, err)
	}
}

// requireID fails when the ebook has no server-assigned id.
func requireID(ebook *domain.Ebook) error {
	if ebook == nil || ebook.ID == "" {
		return fmt.Errorf("%w: ebook has not been created", domain.ErrPreconditionUnmet)
	}
	return nil
}
