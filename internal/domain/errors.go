package domain

import (
	"errors"
	"net/http"
)

// Error codes for the failure taxonomy shared by the transport layer and the
// stub backend. Every HTTP status the backend can answer with maps onto exactly
// one of these codes.
const (
	CodeNotFound     = 1
	CodeConflict     = 2
	CodeValidation   = 3
	CodeServer       = 4
	CodeBadRequest   = 5
	CodeUnauthorized = 6
	CodeForbidden    = 7
	CodeUnavailable  = 8
	CodeUnknown      = 9
	// CodeClient covers failures where no response was received: dial errors,
	// timeouts, or errors raised before the request was dispatched.
	CodeClient = 10
)

// AppError represents a categorised failure with a code, message, the HTTP
// status it originated from (0 when none was received) and an optional
// wrapped error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined errors, one per category.
//
// To check whether an error matches one of these categories, use the
// corresponding helper function (IsNotFound, IsUnauthorized, etc.)
// instead of errors.Is. The helpers compare codes through errors.As, so they
// match freshly constructed and wrapped instances, whereas errors.Is only
// matches by pointer identity with the specific sentinel below.
var (
	ErrBadRequest   = &AppError{Code: CodeBadRequest, Message: "bad request", Status: http.StatusBadRequest}
	ErrUnauthorized = &AppError{Code: CodeUnauthorized, Message: "unauthorized", Status: http.StatusUnauthorized}
	ErrForbidden    = &AppError{Code: CodeForbidden, Message: "forbidden", Status: http.StatusForbidden}
	ErrNotFound     = &AppError{Code: CodeNotFound, Message: "not found", Status: http.StatusNotFound}
	ErrConflict     = &AppError{Code: CodeConflict, Message: "conflict", Status: http.StatusConflict}
	ErrValidation   = &AppError{Code: CodeValidation, Message: "validation error", Status: http.StatusUnprocessableEntity}
	ErrServer       = &AppError{Code: CodeServer, Message: "server error", Status: http.StatusInternalServerError}
	ErrUnavailable  = &AppError{Code: CodeUnavailable, Message: "service unavailable", Status: http.StatusServiceUnavailable}
)

// categoryMessages holds the human-readable message used for each code when
// the server does not provide one.
var categoryMessages = map[int]string{
	CodeBadRequest:   "Bad request. Please check the submitted data.",
	CodeUnauthorized: "Unauthorized. Please sign in again.",
	CodeForbidden:    "Forbidden. You do not have permission for this action.",
	CodeNotFound:     "The requested resource was not found.",
	CodeConflict:     "The resource conflicts with an existing one.",
	CodeValidation:   "The submitted data failed validation.",
	CodeServer:       "Internal server error. Please try again later.",
	CodeUnavailable:  "Service unavailable. Please try again later.",
	CodeUnknown:      "An unknown error occurred.",
	CodeClient:       "The request could not be completed.",
}

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewStatusError builds the AppError for an HTTP status received from the
// backend. An empty message falls back to the category message.
func NewStatusError(status int, message string) *AppError {
	code := CodeFromStatus(status)
	if message == "" {
		message = CategoryMessage(code)
	}
	return &AppError{Code: code, Message: message, Status: status}
}

// NewClientError builds the AppError for a request that never received a
// response. The message is the underlying error's message.
func NewClientError(err error) *AppError {
	msg := CategoryMessage(CodeClient)
	if err != nil {
		msg = err.Error()
	}
	return &AppError{Code: CodeClient, Message: msg, Err: err}
}

// CategoryMessage returns the default human-readable message for code.
func CategoryMessage(code int) string {
	if msg, ok := categoryMessages[code]; ok {
		return msg
	}
	return categoryMessages[CodeUnknown]
}

// CodeFromStatus maps an HTTP status code to an error code.
func CodeFromStatus(status int) int {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnprocessableEntity:
		return CodeValidation
	case http.StatusInternalServerError:
		return CodeServer
	case http.StatusServiceUnavailable:
		return CodeUnavailable
	default:
		return CodeUnknown
	}
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsConflict reports whether err is or wraps an AppError with CodeConflict.
func IsConflict(err error) bool {
	return hasCode(err, CodeConflict)
}

// IsValidation reports whether err is or wraps an AppError with CodeValidation.
func IsValidation(err error) bool {
	return hasCode(err, CodeValidation)
}

// IsServer reports whether err is or wraps an AppError with CodeServer.
func IsServer(err error) bool {
	return hasCode(err, CodeServer)
}

// IsBadRequest reports whether err is or wraps an AppError with CodeBadRequest.
func IsBadRequest(err error) bool {
	return hasCode(err, CodeBadRequest)
}

// IsUnauthorized reports whether err is or wraps an AppError with CodeUnauthorized.
func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

// IsForbidden reports whether err is or wraps an AppError with CodeForbidden.
func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden)
}

// IsUnavailable reports whether err is or wraps an AppError with CodeUnavailable.
func IsUnavailable(err error) bool {
	return hasCode(err, CodeUnavailable)
}

// IsClient reports whether err is or wraps an AppError with CodeClient.
func IsClient(err error) bool {
	return hasCode(err, CodeClient)
}

// ErrorCode returns the code carried by err, CodeUnknown for foreign errors
// and 0 for nil.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// hasCode checks whether err is or wraps an *AppError with the given code.
func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatusCode maps an error to an HTTP status code.
// If the error is an *AppError, the code is mapped; otherwise http.StatusInternalServerError is returned.
func HTTPStatusCode(err error) int {
	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeBadRequest:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeValidation:
			return http.StatusUnprocessableEntity
		case CodeServer:
			return http.StatusInternalServerError
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		}
	}
	return http.StatusInternalServerError
}
