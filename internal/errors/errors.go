package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a floorplan error code.
type ErrorCode string

const (
	ErrInvalidRequest    ErrorCode = "INVALID_REQUEST"    // 400
	ErrUnknownCommand    ErrorCode = "UNKNOWN_COMMAND"    // 400
	ErrNotConfirmed      ErrorCode = "NOT_CONFIRMED"      // 400
	ErrNotFound          ErrorCode = "NOT_FOUND"          // 404
	ErrDuplicate         ErrorCode = "DUPLICATE"          // 409
	ErrMalformedDocument ErrorCode = "MALFORMED_DOCUMENT" // 422
	ErrInternal          ErrorCode = "INTERNAL"           // 500
)

// PlanError represents a structured error with code, status, and details.
type PlanError struct {
	Code    ErrorCode      `json:"code"`
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for malformed arguments.
func NewInvalidRequest(msg string) *PlanError {
	return &PlanError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownCommand creates a 400 error for an invocation naming no known command.
func NewUnknownCommand(name string) *PlanError {
	return &PlanError{
		Code:    ErrUnknownCommand,
		Status:  400,
		Message: fmt.Sprintf("unknown command: %q", name),
		Details: map[string]any{"name": name},
	}
}

// NewNotConfirmed creates a 400 error for a destructive command sent without confirm=true.
func NewNotConfirmed(name string) *PlanError {
	return &PlanError{
		Code:    ErrNotConfirmed,
		Status:  400,
		Message: fmt.Sprintf("%s requires confirm: true", name),
		Details: map[string]any{"name": name},
	}
}

// NewNotFound creates a 404 error for an element or document that does not exist.
func NewNotFound(identifier string) *PlanError {
	return &PlanError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewDuplicate creates a 409 error for an invocation already applied in this session.
func NewDuplicate(invocationID string) *PlanError {
	return &PlanError{
		Code:    ErrDuplicate,
		Status:  409,
		Message: "invocation already executed in this session",
		Details: map[string]any{"invocation_id": invocationID},
	}
}

// NewMalformedDocument creates a 422 error for a document that fails referential checks.
func NewMalformedDocument(problems []string) *PlanError {
	return &PlanError{
		Code:    ErrMalformedDocument,
		Status:  422,
		Message: fmt.Sprintf("malformed floorplan document: %v", problems),
		Details: map[string]any{"problems": problems},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *PlanError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &PlanError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error (or anything it wraps) is a PlanError with the given code.
func Is(err error, code ErrorCode) bool {
	var pErr *PlanError
	if stderrors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// As returns the PlanError in err's chain, if any.
func As(err error) (*PlanError, bool) {
	var pErr *PlanError
	if stderrors.As(err, &pErr) {
		return pErr, true
	}
	return nil, false
}
