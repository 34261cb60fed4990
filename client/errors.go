// Package client is the Go SDK for the SoulSync API. It owns the single
// outbound HTTP gateway, the session state machine, and the route guard
// that front-ends build on.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// ErrorKind is the closed taxonomy every transport or server failure is
// normalized into before it reaches calling code. Nothing outside this
// package needs to branch on raw transport errors.
type ErrorKind int

const (
	KindTimeout ErrorKind = iota
	KindNetwork
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// APIError is the normalized failure returned by every SDK operation.
type APIError struct {
	Kind       ErrorKind
	StatusCode int    // 0 for transport-level failures
	Message    string // server-provided message when available
	Err        error  // underlying cause
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsKind reports whether err is an *APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

func IsUnauthorized(err error) bool { return IsKind(err, KindUnauthorized) }
func IsForbidden(err error) bool    { return IsKind(err, KindForbidden) }
func IsNotFound(err error) bool     { return IsKind(err, KindNotFound) }
func IsValidation(err error) bool   { return IsKind(err, KindValidation) }
func IsConflict(err error) bool     { return IsKind(err, KindConflict) }

// retryable reports whether an error class may be retried. Only the list
// call uses this, for its single bounded retry path.
func retryable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Kind {
	case KindTimeout, KindNetwork, KindServer:
		return true
	default:
		return false
	}
}

// errorEnvelope matches the server's error body.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

// classifyStatus maps an HTTP failure status to the taxonomy.
func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// classifyResponse builds an APIError from a non-2xx response.
func classifyResponse(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	message := http.StatusText(resp.StatusCode)
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		message = env.Error.Message
	}

	return &APIError{
		Kind:       classifyStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    message,
		Err:        fmt.Errorf("HTTP %d", resp.StatusCode),
	}
}

// classifyTransport builds an APIError from a request that never produced a
// response.
func classifyTransport(err error) *APIError {
	kind := KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	} else if errors.As(err, &netErr) && netErr.Timeout() {
		kind = KindTimeout
	}
	return &APIError{Kind: kind, Err: err}
}
