package validator

import (
	"errors"
	"testing"
)

type grantPayload struct {
	UserID   uint   `json:"user_id" validate:"required"`
	Endpoint string `json:"endpoint" validate:"required,startswith=/api/"`
	Method   string `json:"method" validate:"required,oneof=GET POST PUT DELETE PATCH"`
}

func TestStructCollectsEveryFailure(t *testing.T) {
	err := Struct(grantPayload{Endpoint: "employees", Method: "FETCH"})
	if err == nil {
		t.Fatal("expected validation failures")
	}

	var failures FieldErrors
	if !errors.As(err, &failures) {
		t.Fatalf("expected FieldErrors, got %T", err)
	}
	if len(failures) != 3 {
		t.Fatalf("expected 3 failures, got %d: %v", len(failures), failures)
	}

	fields := failures.FieldMap()
	for _, field := range []string{"user_id", "endpoint", "method"} {
		if fields[field] == "" {
			t.Fatalf("expected problem reported for %s", field)
		}
	}
}

func TestStructPassesValidPayload(t *testing.T) {
	err := Struct(grantPayload{UserID: 2, Endpoint: "/api/v1/employees", Method: "GET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
