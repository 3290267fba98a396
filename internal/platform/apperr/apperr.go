// Package apperr defines the structured error taxonomy used at the HTTP
// boundary. Every error surfaced to a client carries a machine-readable code
// and an HTTP status; handlers return *Error values (or wrap them) and the
// Echo error handler renders them as {code, message} JSON bodies.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a client-visible error with a stable code. An optional cause is
// carried for logs but never rendered to the client.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New constructs an Error with the given status, code and message.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// WithMessage returns a copy of e with a different message, keeping the
// status and code. Useful for adding request-specific detail to a sentinel.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Status: e.Status, Code: e.Code, Message: fmt.Sprintf(format, args...)}
}

// Auth errors.
var (
	ErrNoAuthHeader    = New(http.StatusUnauthorized, "NO_AUTH_HEADER", "Missing Authorization header")
	ErrInvalidToken    = New(http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token")
	ErrTokenExpired    = New(http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired")
	ErrInvalidPayload  = New(http.StatusUnauthorized, "INVALID_PAYLOAD", "Missing subject in token")
	ErrInvalidLogin    = New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	ErrInsufficientRole = New(http.StatusForbidden, "INSUFFICIENT_PERMISSIONS", "You do not have access to this resource")
)

// Validation and conflict errors.
var (
	ErrUserExists         = New(http.StatusBadRequest, "USER_EXISTS", "A user with this email already exists")
	ErrMissingCredentials = New(http.StatusBadRequest, "MISSING_CREDENTIALS", "Email and password are required")
	ErrMissingSymptoms    = New(http.StatusBadRequest, "MISSING_SYMPTOMS", "Symptoms description is required")
	ErrNoUpdateFields     = New(http.StatusBadRequest, "NO_UPDATE_FIELDS", "No recognized fields to update")
	ErrInvalidBody        = New(http.StatusBadRequest, "INVALID_BODY", "Request body is malformed")
	ErrInvalidImage       = New(http.StatusBadRequest, "INVALID_IMAGE", "Image payload is missing or not valid base64")
	ErrMissingFile        = New(http.StatusBadRequest, "MISSING_FILE", "Multipart field \"file\" is required")
	ErrUnsupportedFile    = New(http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "Audio format is not supported")
)

// Not-found errors. Case lookups for a foreign owner deliberately surface the
// same code as a genuinely unknown id: existence is never revealed.
var (
	ErrCaseNotFound    = New(http.StatusNotFound, "CASE_NOT_FOUND", "Case not found")
	ErrProfileNotFound = New(http.StatusNotFound, "PROFILE_NOT_FOUND", "Profile not found")
)

// Configuration and upstream errors.
var (
	ErrServerMisconfigured      = New(http.StatusInternalServerError, "SERVER_MISCONFIGURED", "Server is not configured correctly")
	ErrOpenRouterNotConfigured  = New(http.StatusInternalServerError, "OPENROUTER_NOT_CONFIGURED", "OPENROUTER_API_KEY is not configured on the backend")
	ErrRapidAPINotConfigured    = New(http.StatusInternalServerError, "RAPIDAPI_NOT_CONFIGURED", "RAPIDAPI_KEY is not configured on the backend")
	ErrInternal                 = New(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	ErrAIBackend                = New(http.StatusBadGateway, "AI_BACKEND_ERROR", "AI backend error")
	ErrAIResponse               = New(http.StatusBadGateway, "AI_RESPONSE_ERROR", "Unexpected AI response format")
	ErrTranscriptionFailed      = New(http.StatusBadGateway, "TRANSCRIPTION_FAILED", "Transcription backend error")
	ErrMapStyleFailed           = New(http.StatusBadGateway, "MAP_STYLE_FAILED", "Failed to fetch map style")
)

// Internal rewraps a storage or infrastructure failure. The original error is
// kept in the chain for logs but the client only sees INTERNAL_ERROR.
func Internal(err error) *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		cause:   err,
	}
}

// From extracts an *Error from an error chain, or nil.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
