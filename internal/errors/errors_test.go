package errors

import (
	"fmt"
	"testing"
)

func TestPlanError_Error(t *testing.T) {
	err := &PlanError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "wall not found",
	}

	expected := "NOT_FOUND: wall not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("startX is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "startX is required" {
		t.Errorf("Message = %q, want %q", err.Message, "startX is required")
	}
}

func TestNewUnknownCommand(t *testing.T) {
	err := NewUnknownCommand("paintWall")

	if err.Code != ErrUnknownCommand {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnknownCommand)
	}
	if err.Details["name"] != "paintWall" {
		t.Errorf("Details[name] = %v, want %q", err.Details["name"], "paintWall")
	}
}

func TestNewNotConfirmed(t *testing.T) {
	err := NewNotConfirmed("clearAll")

	if err.Code != ErrNotConfirmed {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotConfirmed)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("wall_01ABC")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "wall_01ABC" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "wall_01ABC")
	}
}

func TestNewMalformedDocument(t *testing.T) {
	err := NewMalformedDocument([]string{"door d1 references missing wall w9"})

	if err.Code != ErrMalformedDocument {
		t.Errorf("Code = %q, want %q", err.Code, ErrMalformedDocument)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
	problems, ok := err.Details["problems"].([]string)
	if !ok || len(problems) != 1 {
		t.Errorf("Details[problems] = %v, want one problem", err.Details["problems"])
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))
	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}

	err = NewInternal(nil)
	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotFound("x"), ErrNotFound, true},
		{"different code", NewNotFound("x"), ErrInvalidRequest, false},
		{"wrapped", fmt.Errorf("load: %w", NewMalformedDocument(nil)), ErrMalformedDocument, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("saving: %w", NewNotFound("fp-1"))
	pErr, ok := As(wrapped)
	if !ok {
		t.Fatal("As() did not find the wrapped PlanError")
	}
	if pErr.Code != ErrNotFound {
		t.Errorf("Code = %v, want %v", pErr.Code, ErrNotFound)
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As() found a PlanError in a plain error")
	}
}
