package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Authentication Errors.

	// ErrAuthRequired indicates the remote service rejected the credential (HTTP 401).
	// Receiving it clears the local session.
	ErrAuthRequired = errors.New("authentication required")

	// Remote Call Errors.

	// ErrValidationRejected indicates the remote service declined the input.
	ErrValidationRejected = errors.New("validation rejected")

	// ErrStageFailed indicates a pipeline or mutation call failed after its
	// precondition held. Prior state is preserved and the call is retryable.
	ErrStageFailed = errors.New("stage failed")

	// ErrTransportFailure indicates no response was obtained from the remote service.
	ErrTransportFailure = errors.New("transport failure")

	// Local Errors.

	// ErrPreconditionUnmet indicates a local check failed before any remote call.
	ErrPreconditionUnmet = errors.New("precondition unmet")

	// ErrOperationInFlight indicates the same operation is already pending.
	ErrOperationInFlight = errors.New("operation already in flight")
)

// Fallback messages shown when a failure carries no detail of its own.
const (
	GenericErrorMessage    = "An error occurred"
	AuthFailedErrorMessage = "Authentication failed"
)

// RemoteError is a failed call to the remote service.
// Kind is one of the remote call sentinels and is what errors.Is matches.
type RemoteError struct {
	Kind       error
	StatusCode int
	Detail     string
	Op         string
}

func (e *RemoteError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%d): %s", e.Op, e.Kind, e.StatusCode, e.Detail)
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Kind, e.StatusCode)
}

func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// StageError reports a failed pipeline stage or asset mutation.
// It matches ErrStageFailed as well as the underlying cause.
type StageError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStageFailed}
	}
	return []error{ErrStageFailed, e.Err}
}

// AuthError reports a failed login, registration or redirect exchange.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError wraps err with the remote detail, or the generic
// authentication failure message when there is none.
func NewAuthError(op string, err error) *AuthError {
	msg := RemoteDetail(err)
	if msg == "" {
		msg = AuthFailedErrorMessage
	}
	return &AuthError{Op: op, Message: msg, Err: err}
}

// RemoteDetail returns the detail message carried by a remote error, if any.
func RemoteDetail(err error) string {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Detail
	}
	return ""
}

// UserMessage returns the message to render for err.
// Stage messages win over remote details, which win over the generic fallback.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var stageErr *StageError
	if errors.As(err, &stageErr) && stageErr.Message != "" {
		return stageErr.Message
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}
	if detail := RemoteDetail(err); detail != "" {
		return detail
	}
	switch {
	case errors.Is(err, ErrAuthRequired):
		return "Please sign in again"
	case errors.Is(err, ErrOperationInFlight):
		return "This operation is already running"
	case errors.Is(err, ErrPreconditionUnmet):
		return err.Error()
	}
	return GenericErrorMessage
}
