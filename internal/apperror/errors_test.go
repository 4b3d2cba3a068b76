package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestConstructors_Codes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code int
		typ  string
	}{
		{"not found", NewNotFound("Epoch not found"), http.StatusNotFound, "not_found"},
		{"bad request", NewBadRequest("bad"), http.StatusBadRequest, "bad_request"},
		{"conflict", NewConflict("dup"), http.StatusBadRequest, "conflict"},
		{"validation", NewValidation("invalid"), http.StatusUnprocessableEntity, "validation_error"},
		{"internal", NewInternal(errors.New("boom")), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, tt.err.Code)
			}
			if tt.err.Type != tt.typ {
				t.Errorf("expected type %q, got %q", tt.typ, tt.err.Type)
			}
		})
	}
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.1:3306: connection refused")
	err := NewInternal(cause)

	if SafeMessage(err) == cause.Error() {
		t.Error("internal cause leaked into safe message")
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}
}

func TestDetail_MessageOrFields(t *testing.T) {
	if d := NewNotFound("Event not found").Detail(); d != "Event not found" {
		t.Errorf("expected message detail, got %v", d)
	}

	err := NewFieldError("field required", "missing", "body", "name")
	fields, ok := err.Detail().([]FieldError)
	if !ok || len(fields) != 1 {
		t.Fatalf("expected one field error, got %#v", err.Detail())
	}
	if fields[0].Loc[1] != "name" || fields[0].Type != "missing" {
		t.Errorf("unexpected field error %+v", fields[0])
	}
}

func TestError_IncludesFields(t *testing.T) {
	err := NewFieldError("field required", "missing", "body", "title")
	want := "validation_error: body.title: field required"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestSafeCode_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("loading epoch: %w", NewNotFound("Epoch not found"))

	if SafeCode(wrapped) != http.StatusNotFound {
		t.Errorf("expected 404 through wrapping, got %d", SafeCode(wrapped))
	}
	if !IsNotFound(wrapped) {
		t.Error("expected IsNotFound to see through wrapping")
	}
	if SafeCode(errors.New("plain")) != http.StatusInternalServerError {
		t.Error("expected 500 for non-AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}

	nf := NewNotFound("Event not found")
	if got := Wrap(nf); got != error(nf) {
		t.Errorf("AppError should pass through, got %v", got)
	}

	cause := errors.New("driver: bad connection")
	wrapped := Wrap(cause)
	if SafeCode(wrapped) != 500 {
		t.Errorf("expected 500, got %d", SafeCode(wrapped))
	}
	if !errors.Is(wrapped, cause) {
		t.Error("cause should stay reachable through Unwrap")
	}
}
