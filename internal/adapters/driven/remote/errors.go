package remote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// errorPayload is the service's error body. Detail is usually a string but
// validation failures send a list of objects.
type errorPayload struct {
	Detail json.RawMessage `json:"detail"`
}

// kindForStatus maps an HTTP status to a remote call sentinel.
func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrAuthRequired
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
		return domain.ErrValidationRejected
	default:
		return domain.ErrStageFailed
	}
}

// responseError builds the error for a non-2xx response.
func responseError(op string, resp *http.Response) error {
	return &domain.RemoteError{
		Kind:       kindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Detail:     readDetail(resp.Body),
		Op:         op,
	}
}

// transportError builds the error for a call that got no response.
func transportError(op string, err error) error {
	return fmt.Errorf("%w: %v", &domain.RemoteError{Kind: domain.ErrTransportFailure, Op: op}, err)
}

// readDetail extracts a string detail. Non-string details are dropped so
// the caller falls back to its generic message.
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
