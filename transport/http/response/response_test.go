package response_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"travel/shared/failure"
	"travel/transport/http/response"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	body := map[string]any{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantField any
		wantError string
	}{
		{name: "field validation", err: failure.Validation("rating", "Rating must be between 1 and 5"), wantCode: http.StatusBadRequest, wantField: "rating"},
		{name: "cross field validation", err: failure.Validation("", "These dates are not available"), wantCode: http.StatusBadRequest},
		{name: "conflict", err: failure.Conflict("You have already reviewed this listing"), wantCode: http.StatusConflict},
		{name: "internal", err: errors.New("pq: connection refused"), wantCode: http.StatusInternalServerError, wantError: "A server error occurred."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			body := decode(t, rec)

			wantError := tt.wantError
			if wantError == "" {
				wantError = tt.err.Error()
			}

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, wantError, body["error"])
			assert.Equal(t, tt.wantField, body["field"])
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "l-1"})

	body := decode(t, rec)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, map[string]any{"id": "l-1"}, body["data"])
}

func TestWithMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithMessage(rec, http.StatusOK, "Password changed successfully")

	assert.Equal(t, map[string]any{"message": "Password changed successfully"}, decode(t, rec))
}
