package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"

	"travel/shared/failure"
)

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{
			name:    "ResourceRestrictedError",
			failure: failure.ResourceRestrictedError,
			code:    http.StatusForbidden,
			message: "You don't have permission to access this resource",
		},
		{
			name:    "ForbiddenError",
			failure: failure.ForbiddenError,
			code:    http.StatusForbidden,
			message: "You don't have the required permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.failure.Code != tt.code {
				t.Errorf("expected code to be %d, got %d", tt.code, tt.failure.Code)
			}
			if tt.failure.Error() != tt.message {
				t.Errorf("expected message to be %s, got %s", tt.message, tt.failure.Error())
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	if err := failure.BadRequest(nil); err != nil {
		t.Errorf("expected nil for nil input, got %v", err)
	}

	err := failure.BadRequest(errors.New("malformed body"))
	if failure.GetCode(err) != http.StatusBadRequest {
		t.Errorf("expected code %d, got %d", http.StatusBadRequest, failure.GetCode(err))
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "not found", err: failure.NotFound("listing not found"), code: http.StatusNotFound},
		{name: "conflict", err: failure.Conflict("You have already reviewed this listing"), code: http.StatusConflict},
		{name: "unauthorized", err: failure.Unauthorized("Invalid token"), code: http.StatusUnauthorized},
		{name: "forbidden", err: failure.Forbidden("nope"), code: http.StatusForbidden},
		{name: "bad request", err: failure.BadRequestFromString("Invalid date format. Use YYYY-MM-DD"), code: http.StatusBadRequest},
		{name: "wrapped failure", err: fmt.Errorf("get: %w", failure.NotFound("booking not found")), code: http.StatusNotFound},
		{name: "validation", err: failure.Validation("rating", "Rating must be between 1 and 5"), code: http.StatusBadRequest},
		{name: "wrapped validation", err: fmt.Errorf("create: %w", failure.Validation("", "x")), code: http.StatusBadRequest},
		{name: "plain error", err: errors.New("database down"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestAsValidation(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", failure.Validation("check_out_date", "Check-out date must be after check-in date"))

	validation, ok := failure.AsValidation(err)
	if !ok {
		t.Fatal("expected a validation error")
	}

	if validation.Field != "check_out_date" {
		t.Errorf("expected field check_out_date, got %s", validation.Field)
	}

	if validation.Error() != "Check-out date must be after check-in date" {
		t.Errorf("unexpected message %s", validation.Error())
	}

	if _, ok := failure.AsValidation(failure.NotFound("x")); ok {
		t.Error("expected a non-validation failure to be rejected")
	}
}

func TestPostgresCode(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pq.Error{Code: "23P01"})

	if code := failure.PostgresCode(err); code != "23P01" {
		t.Errorf("expected 23P01, got %q", code)
	}

	if code := failure.PostgresCode(errors.New("plain")); code != "" {
		t.Errorf("expected empty code, got %q", code)
	}
}
