package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrNotImplemented", ErrNotImplemented},
		{"ErrAuthRequired", ErrAuthRequired},
		{"ErrValidationRejected", ErrValidationRejected},
		{"ErrStageFailed", ErrStageFailed},
		{"ErrTransportFailure", ErrTransportFailure},
		{"ErrPreconditionUnmet", ErrPreconditionUnmet},
		{"ErrOperationInFlight", ErrOperationInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestRemoteError_UnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &RemoteError{
		Kind:       ErrAuthRequired,
		StatusCode: 401,
		Detail:     "Invalid token",
		Op:         "GET /api/auth/me",
	})

	assert.True(t, errors.Is(err, ErrAuthRequired))
	assert.False(t, errors.Is(err, ErrStageFailed))
	assert.Equal(t, "Invalid token", RemoteDetail(err))
	assert.Contains(t, err.Error(), "(401)")
}

func TestRemoteError_ErrorWithoutStatus(t *testing.T) {
	err := &RemoteError{Kind: ErrTransportFailure, Op: "POST /api/ebooks/create"}
	assert.Equal(t, "POST /api/ebooks/create: transport failure", err.Error())
}

func TestStageError_MatchesStageFailedAndCause(t *testing.T) {
	cause := &RemoteError{Kind: ErrValidationRejected, StatusCode: 404, Detail: "Ebook not found"}
	err := &StageError{Stage: StageCover, Message: "Ebook not found", Err: cause}

	assert.True(t, errors.Is(err, ErrStageFailed))
	assert.True(t, errors.Is(err, ErrValidationRejected))
	assert.False(t, errors.Is(err, ErrAuthRequired))
}

func TestStageError_WithoutCause(t *testing.T) {
	err := &StageError{Stage: StageCover, Message: "Cover generation failed"}
	assert.True(t, errors.Is(err, ErrStageFailed))
	assert.Equal(t, "cover: Cover generation failed", err.Error())
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"stage message", &StageError{Stage: StageCover, Message: "boom"}, "boom"},
		{"remote detail", &RemoteError{Kind: ErrValidationRejected, Detail: "Email already registered"}, "Email already registered"},
		{"auth without detail", &RemoteError{Kind: ErrAuthRequired, StatusCode: 401}, "Please sign in again"},
		{"auth error fallback", NewAuthError("login", ErrTransportFailure), AuthFailedErrorMessage},
		{"auth error detail", NewAuthError("login", &RemoteError{Kind: ErrAuthRequired, Detail: "Invalid credentials"}), "Invalid credentials"},
		{"in flight", ErrOperationInFlight, "This operation is already running"},
		{"unknown", errors.New("something"), GenericErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestNewAuthError_UnwrapsCause(t *testing.T) {
	err := NewAuthError("exchange", &RemoteError{Kind: ErrAuthRequired, StatusCode: 401})
	assert.True(t, errors.Is(err, ErrAuthRequired))
	assert.Equal(t, AuthFailedErrorMessage, err.Message)
}
