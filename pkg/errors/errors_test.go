package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestValidationErrorListsEveryField(t *testing.T) {
	err := NewValidation("UserScope", map[string]string{
		"user_id":    "user_id is required",
		"scope_type": "scope_type is required",
	})

	if err.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", err.StatusCode)
	}
	if !IsValidation(err) {
		t.Fatal("expected IsValidation to match")
	}

	msg := err.Error()
	for _, want := range []string{"scope_type", "user_id"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("expected message to mention %s: %s", want, msg)
		}
	}
}

func TestConflictDistinctFromValidation(t *testing.T) {
	err := NewConflict("UserPermission", "grant", "user_id=2, endpoint=/api/v1/employees, method=GET")

	if err.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 got %d", err.StatusCode)
	}
	if IsValidation(err) {
		t.Fatal("conflict must not classify as validation")
	}
	if !IsConflict(err) {
		t.Fatal("expected IsConflict to match")
	}
}

func TestBusinessRuleCarriesDetails(t *testing.T) {
	err := NewBusinessRule("hierarchy cannot exceed 10 levels", map[string]any{
		"max_depth": 10,
	})

	if !IsBusinessRule(err) {
		t.Fatal("expected IsBusinessRule to match")
	}
	if err.Details["max_depth"] != 10 {
		t.Fatal("expected details to be retained")
	}
}

func TestFromErrorUnwrapsAppError(t *testing.T) {
	inner := NewNotFound("User", 42)
	wrapped := fmt.Errorf("service: %w", inner)

	got := FromError(wrapped)
	if got.Code != ErrNotFound.Code {
		t.Fatalf("expected NOT_FOUND got %s", got.Code)
	}

	generic := FromError(errors.New("boom"))
	if generic.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal error got %s", generic.Code)
	}
}
