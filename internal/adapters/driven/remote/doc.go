// Package remote implements the remote ebook service ports over HTTP.
//
// Every call carries the session's bearer token when present, and the
// session cookie only while the session reports a cookie-backed login.
// Calls are throttled client-side and tagged with an X-Request-ID.
//
// Failed calls are returned as *domain.RemoteError:
//
//   - 401 maps to domain.ErrAuthRequired
//   - 400, 404, 409 and 422 map to domain.ErrValidationRejected
//   - any other non-2xx status maps to domain.ErrStageFailed
//   - no response maps to domain.ErrTransportFailure
//
// The service's {"detail": "..."} message is carried verbatim.
package remote
