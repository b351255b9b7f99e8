package dto

import (
	"net/http"
	"strings"
)

// Error codes surfaced by the API. Domain errors already carry these codes;
// the HTTP layer only adds the transport-level ones.
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidJSON is used when the request body cannot be parsed
	ErrCodeInvalidJSON = "INVALID_JSON"

	// ErrCodeUnauthorized is used when authentication is required but missing or invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	// ErrCodeForbidden is used when the actor's role does not permit the action
	ErrCodeForbidden = "FORBIDDEN"

	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when a conditional update loses the race
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeHasDependents is used when deletion is refused because rows still reference the entity
	ErrCodeHasDependents = "HAS_DEPENDENTS"

	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidTransition is used when a lifecycle action has no edge from the current status
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	// ErrCodeImmutableState is used when a request can no longer be edited or deleted
	ErrCodeImmutableState = "IMMUTABLE_STATE"
	// ErrCodeInvalidImage is used when a receipt payload is empty or of an unsupported type
	ErrCodeInvalidImage = "INVALID_IMAGE"

	// ErrCodeDependencyCheckFailed is used when dependency counts could not be computed
	ErrCodeDependencyCheckFailed = "DEPENDENCY_CHECK_FAILED"
	// ErrCodeUploadFailed is used when object storage rejected an upload
	ErrCodeUploadFailed = "UPLOAD_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeHasDependents:       http.StatusConflict,

	ErrCodeInvalidInput:      http.StatusBadRequest,
	ErrCodeInvalidTransition: http.StatusBadRequest,
	ErrCodeImmutableState:    http.StatusUnprocessableEntity,
	ErrCodeInvalidImage:      http.StatusBadRequest,

	ErrCodeDependencyCheckFailed: http.StatusInternalServerError,
	ErrCodeUploadFailed:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unmapped INVALID_* codes from entity constructors (INVALID_NAME,
// INVALID_CODE, INVALID_DATE_RANGE, ...) are client errors; anything else
// unknown is treated as an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode collapses the fine-grained constructor validation codes
// into the stable INVALID_INPUT code clients are expected to branch on.
// Codes with their own mapping pass through unchanged.
func NormalizeErrorCode(code string) string {
	if _, ok := ErrorCodeHTTPStatus[code]; ok {
		return code
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
