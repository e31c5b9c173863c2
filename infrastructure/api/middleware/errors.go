package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Unobtainiumrock/toy-problem-performance-analysis/application/service"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/changelog"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/problem"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/domain/workbook"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/infrastructure/api/jsonapi"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/database"
	"github.com/Unobtainiumrock/toy-problem-performance-analysis/internal/log"
)

// Sentinel errors for matching with errors.Is.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrServer         = errors.New("server error")
)

// APIError is an error with an explicit HTTP status.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates a new APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{code: code, message: message, cause: cause}
}

// Code returns the HTTP status code.
func (e *APIError) Code() int { return e.code }

// Message returns the client-facing message.
func (e *APIError) Message() string { return e.message }

func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error { return e.cause }

// AuthenticationError indicates a missing or invalid API key.
type AuthenticationError struct {
	reason string
}

// NewAuthenticationError creates a new AuthenticationError.
func NewAuthenticationError(reason string) *AuthenticationError {
	return &AuthenticationError{reason: reason}
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAuthentication.Error(), e.reason)
}

// Is matches ErrAuthentication.
func (e *AuthenticationError) Is(target error) bool { return target == ErrAuthentication }

// ServerError is a failure reported with a specific 5xx status.
type ServerError struct {
	status  int
	message string
}

// NewServerError creates a new ServerError.
func NewServerError(status int, message string) *ServerError {
	return &ServerError{status: status, message: message}
}

// StatusCode returns the HTTP status code.
func (e *ServerError) StatusCode() int { return e.status }

// Message returns the client-facing message.
func (e *ServerError) Message() string { return e.message }

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error %d: %s", e.status, e.message)
}

// Is matches ErrServer.
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// Status returns the HTTP status and title for err.
func Status(err error) (int, string) {
	var apiErr *APIError
	var serverErr *ServerError

	switch {
	case errors.As(err, &apiErr):
		return apiErr.Code(), "API Error"
	case errors.As(err, &serverErr):
		return serverErr.StatusCode(), "Server Error"
	case errors.Is(err, ErrAuthentication):
		return http.StatusUnauthorized, "Authentication Failed"
	case errors.Is(err, changelog.ErrLogNotFound):
		return http.StatusNotFound, "Tracker Log Not Found"
	case errors.Is(err, changelog.ErrHostUnavailable):
		return http.StatusServiceUnavailable, "Host Unavailable"
	case errors.Is(err, changelog.ErrInvalidEvent):
		return http.StatusBadRequest, "Invalid Edit Event"
	case errors.Is(err, changelog.ErrInvalidEntry):
		return http.StatusUnprocessableEntity, "Invalid Tracker Log"
	case errors.Is(err, service.ErrProblemNotFound),
		errors.Is(err, workbook.ErrSheetNotFound),
		errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	case errors.Is(err, service.ErrProblemExists):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, problem.ErrInvalidProblem),
		errors.Is(err, workbook.ErrInvalidRow):
		return http.StatusBadRequest, "Validation Error"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// WriteError writes a JSON:API formatted error response.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, title := Status(err)

	detail := err.Error()
	var apiErr *APIError
	var serverErr *ServerError
	switch {
	case errors.As(err, &apiErr):
		detail = apiErr.Message()
	case errors.As(err, &serverErr):
		detail = serverErr.Message()
	}

	correlationID := log.CorrelationID(r.Context())

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "request error",
			slog.String("correlation_id", correlationID),
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
	}

	e := jsonapi.NewError(strconv.Itoa(status), title, detail)
	e.ID = correlationID

	jsonapi.Write(w, status, jsonapi.NewErrorResponse(e))
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
