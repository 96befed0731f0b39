package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingAPIKey     = errors.New("api key cannot be empty")
	ErrEmptyContent      = errors.New("content cannot be empty")
	ErrEmptyInput        = errors.New("embedding input cannot be empty")
	ErrEmptyURL          = errors.New("url cannot be empty")
	ErrEmptyDocumentID   = errors.New("document id cannot be empty")
	ErrMissingFile       = errors.New("either file or file path must be provided")
	ErrInvalidWaitConfig = errors.New("invalid wait configuration")
	ErrUnknownQuality    = errors.New("unknown processing quality")
)

// APIError is a non-2xx response from the platform. Status codes of 500
// and above classify as server faults and are eligible for retry;
// everything below is a client fault and surfaces immediately.
type APIError struct {
	Operation  Operation
	StatusCode int
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed with status %d (request-id: %s)",
			e.Operation, e.StatusCode, normalizeRequestID(e.RequestID))
	}
	return fmt.Sprintf("%s failed with status %d: %s (request-id: %s)",
		e.Operation, e.StatusCode, e.Message, normalizeRequestID(e.RequestID))
}

// RateLimitError is a 429 response. It is a client fault: retrying
// immediately would only burn quota, so the caller decides when to back
// off.
type RateLimitError struct {
	Operation Operation
	RequestID string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (request-id: %s)",
		e.Operation, normalizeRequestID(e.RequestID))
}

// TransportError is a connection-level failure before any response was
// received. Retried unless the cause is context cancellation.
type TransportError struct {
	Operation Operation
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError is a response body that does not match the expected
// schema. Never retried: a malformed body is not transient.
type DecodeError struct {
	Operation Operation
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s returned an undecodable response: %v", e.Operation, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RetryExhaustedError reports that every attempt in the budget failed
// with a server fault. It wraps the last observed failure.
type RetryExhaustedError struct {
	Operation Operation
	Attempts  int
	Last      error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Operation, e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

// isServerFault reports whether an error merits another attempt: 5xx
// responses and transport failures not caused by the caller going away.
func isServerFault(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// newStatusError maps a non-2xx response to the error taxonomy.
func newStatusError(op Operation, statusCode int, message, requestID string) error {
	if statusCode == http.StatusTooManyRequests {
		return &RateLimitError{Operation: op, RequestID: requestID}
	}
	return &APIError{
		Operation:  op,
		StatusCode: statusCode,
		Message:    message,
		RequestID:  requestID,
	}
}

// errorMessage extracts a human-readable message from an error body,
// falling back to the raw text when it is not the usual JSON shape.
func errorMessage(body []byte) string {
	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Detail != "":
			return payload.Detail
		case payload.Message != "":
			return payload.Message
		case payload.Error != "":
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

func normalizeRequestID(requestID string) string {
	if requestID == "" {
		return "unknown"
	}
	return requestID
}
