package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/application/service"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/log"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(404, "resource not found", nil)

	assert.Equal(t, 404, err.Code())
	assert.Equal(t, "resource not found", err.Message())
	assert.Equal(t, "api error 404: resource not found", err.Error())
}

func TestAPIError_WithCause(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewAPIError(500, "internal error", cause)

	assert.Equal(t, "api error 500: internal error: underlying error", err.Error())
	assert.Equal(t, cause, err.Unwrap())
}

func TestAuthenticationError(t *testing.T) {
	err := NewAuthenticationError("invalid token")

	assert.Equal(t, "authentication failed: invalid token", err.Error())
	assert.ErrorIs(t, err, ErrAuthentication)

	wrapped := fmt.Errorf("request failed: %w", err)
	var target *AuthenticationError
	assert.ErrorAs(t, wrapped, &target)
}

func TestServerError(t *testing.T) {
	err := NewServerError(503, "service unavailable")

	assert.Equal(t, 503, err.StatusCode())
	assert.Equal(t, "service unavailable", err.Message())
	assert.Equal(t, "server error 503: service unavailable", err.Error())
	assert.ErrorIs(t, err, ErrServer)
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"log not found", fmt.Errorf("reset: %w", changelog.ErrLogNotFound), http.StatusNotFound},
		{"host unavailable", fmt.Errorf("%w: %w", changelog.ErrHostUnavailable, errors.New("disk")), http.StatusServiceUnavailable},
		{"invalid event", changelog.ErrInvalidEvent, http.StatusBadRequest},
		{"invalid entry", changelog.ErrInvalidEntry, http.StatusUnprocessableEntity},
		{"problem not found", service.ErrProblemNotFound, http.StatusNotFound},
		{"sheet not found", workbook.ErrSheetNotFound, http.StatusNotFound},
		{"record not found", database.ErrNotFound, http.StatusNotFound},
		{"problem exists", service.ErrProblemExists, http.StatusConflict},
		{"invalid problem", problem.ErrInvalidProblem, http.StatusBadRequest},
		{"invalid row", workbook.ErrInvalidRow, http.StatusBadRequest},
		{"api error", NewAPIError(http.StatusTeapot, "short and stout", nil), http.StatusTeapot},
		{"auth", NewAuthenticationError("nope"), http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := Status(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteError(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/tracker", nil)
	w := httptest.NewRecorder()

	WriteError(w, req, fmt.Errorf("reset: %w", changelog.ErrLogNotFound), nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	var doc jsonapi.Document
	require.NoError(t, json.NewDecoder(w.Body).Decode(&doc))
	require.Len(t, doc.Errors, 1)
	assert.Equal(t, "404", doc.Errors[0].Status)
	assert.Equal(t, "Tracker Log Not Found", doc.Errors[0].Title)
	assert.Contains(t, doc.Errors[0].Detail, "tracker log not found")
}

func TestCorrelationID(t *testing.T) {
	var seen string
	handler := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = log.CorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get("X-Correlation-ID"))
}
