// Package httperr carries HTTP-aware errors from preconditions and handlers
// to the response writer.
//
// Error bodies use the shape API clients of this service already parse:
//
//	{"statusCode": 409, "error": "Conflict", "message": "Username already in use."}
//
// Validation failures additionally carry a "fields" map. Any error that is not
// an *Error (for example a MongoDB driver error) is written as a 500 with the
// underlying message; this layer does not translate or retry store errors.
package httperr

import (
	"errors"
	"net/http"

	"github.com/dalemusser/strataadmin/internal/app/system/jsonutil"
)

// Error is an error with an HTTP status and a client-facing message.
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error with the given status and message.
func New(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

// BadRequest returns a 400 error.
func BadRequest(msg string) *Error { return New(http.StatusBadRequest, msg) }

// Unauthorized returns a 401 error.
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }

// Forbidden returns a 403 error.
func Forbidden(msg string) *Error { return New(http.StatusForbidden, msg) }

// NotFound returns a 404 error.
func NotFound(msg string) *Error { return New(http.StatusNotFound, msg) }

// Conflict returns a 409 error.
func Conflict(msg string) *Error { return New(http.StatusConflict, msg) }

// Internal wraps err as a 500 error that reports err's message.
func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

// fieldErrorer is implemented by validation results that carry per-field messages.
type fieldErrorer interface {
	error
	FieldMessages() map[string]string
}

// Body is the JSON error envelope.
type Body struct {
	StatusCode int               `json:"statusCode"`
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// StatusOf returns the HTTP status err maps to.
func StatusOf(err error) int {
	var he *Error
	if errors.As(err, &he) {
		return he.Status
	}
	var fe fieldErrorer
	if errors.As(err, &fe) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Write maps err to a JSON error response.
func Write(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}
	status := StatusOf(err)
	body := Body{
		StatusCode: status,
		Error:      http.StatusText(status),
		Message:    err.Error(),
	}

	var he *Error
	var fe fieldErrorer
	switch {
	case errors.As(err, &he):
		body.Message = he.Message
	case errors.As(err, &fe):
		body.Message = fe.Error()
		body.Fields = fe.FieldMessages()
	}

	jsonutil.JSON(w, status, body)
}
