package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse is returned when a response body does not match its schema.
var ErrMalformedResponse = errors.New("malformed response")

const genericRejection = "request was rejected by the server"

// TransportError is a network-level failure: the request never produced a response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RejectedError is an explicit refusal by the server, either a non-2xx
// status or a payload with "ok": false.
type RejectedError struct {
	Op     string
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: rejected (%d): %s", e.Op, e.Status, e.Message())
}

// Message is the operator-facing text of the rejection.
func (e *RejectedError) Message() string {
	if len(e.Detail) != 0 {
		return e.Detail
	}

	return genericRejection
}

// Unauthorized reports whether the server refused the credentials.
func (e *RejectedError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// Message turns any client error into a single operator-facing line.
// fallback is used for rejections that carry no detail.
func Message(err error, fallback string) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		if len(rejected.Detail) != 0 {
			return rejected.Detail
		}
		if len(fallback) != 0 {
			return fallback
		}

		return genericRejection
	}

	var te *TransportError
	if errors.As(err, &te) {
		return "network error: " + te.Err.Error()
	}

	if len(fallback) != 0 {
		return fallback
	}

	return err.Error()
}
