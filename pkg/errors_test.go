package pkg

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_ToHTTPError(t *testing.T) {
	e := NewDomainErrorSimple("BOX_CONFLICT", "Already sold: A", http.StatusConflict)
	body := e.ToHTTPError()
	if body["error"] != "Already sold: A" || body["code"] != "BOX_CONFLICT" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if e.HTTPStatus != http.StatusConflict {
		t.Fatalf("unexpected status: %d", e.HTTPStatus)
	}
}

func TestAppError_UnwrapAndDetails(t *testing.T) {
	cause := errors.New("table not found")
	e := NewDomainError("INTERNAL_ERROR", "An internal error occurred", cause, http.StatusInternalServerError)

	if !errors.Is(e, cause) {
		t.Fatalf("expected wrapped cause")
	}
	if got := e.WithDetails().Message; got != "table not found" {
		t.Fatalf("expected cause message, got %q", got)
	}
	if e.Message != "An internal error occurred" {
		t.Fatalf("WithDetails must not mutate the receiver")
	}

	simple := NewDomainErrorSimple("X", "y", http.StatusBadRequest)
	if simple.WithDetails() != simple {
		t.Fatalf("expected same error when there is no cause")
	}
}
