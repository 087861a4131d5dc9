package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrDuplicateUsername is returned when a new user collides with an existing username.
	ErrDuplicateUsername = errors.New("username is already registered")
	// ErrDuplicateEmail is returned when a new user collides with an existing email.
	ErrDuplicateEmail = errors.New("email is already registered")
	// ErrUsernameTaken is returned when a username change collides with another user.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrUserExists is returned by registration when the username is already present.
	ErrUserExists = errors.New("user already exists")
	// ErrUnauthorized covers bad credentials and missing, invalid or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned when the resolved identity or resource is absent.
	ErrNotFound = errors.New("user not found")
	// ErrUnsupportedType is returned for profile pictures that are not JPG or PNG.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned for profile pictures over the size limit.
	ErrTooLarge = errors.New("image too large")
	// ErrValidationFailed is returned for malformed input.
	ErrValidationFailed = errors.New("validation failed")
	// ErrStoreUnavailable is returned when the persistence layer itself fails.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Token validation failures. Each one wraps ErrUnauthorized so callers that only
// care about "authenticated or not" can match a single error.
var (
	ErrInvalidSignature = tokenError("token signature is invalid")
	ErrTokenExpired     = tokenError("token is expired")
	ErrWrongIssuer      = tokenError("token has wrong issuer")
	ErrWrongAudience    = tokenError("token has wrong audience")
)

type tokenErr struct {
	msg string
}

func tokenError(msg string) error { return &tokenErr{msg: msg} }

func (e *tokenErr) Error() string { return e.msg }

func (e *tokenErr) Unwrap() error { return ErrUnauthorized }

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// httpMapping is the client-facing rendering of a domain error.
type httpMapping struct {
	err     error
	status  int
	message string
	code    string
}

// Order matters: the first sentinel matched by errors.Is wins.
var httpMappings = []httpMapping{
	{ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED"},
	{ErrStoreUnavailable, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR"},
	{ErrNotFound, http.StatusNotFound, "User not found", "NOT_FOUND"},
	{ErrUserExists, http.StatusBadRequest, "User already exists!", "USER_EXISTS"},
	{ErrDuplicateUsername, http.StatusBadRequest, "Username is already registered", "DUPLICATE_USERNAME"},
	{ErrDuplicateEmail, http.StatusBadRequest, "Email is already registered", "DUPLICATE_EMAIL"},
	{ErrUsernameTaken, http.StatusBadRequest, "Username is already taken", "USERNAME_TAKEN"},
	{ErrUnsupportedType, http.StatusBadRequest, "Only JPG and PNG images are supported", "UNSUPPORTED_TYPE"},
	{ErrTooLarge, http.StatusBadRequest, "Image size must be less than 2MB", "TOO_LARGE"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unauthorized failures all
// collapse to the same message so a caller cannot tell which check failed.
func MapErrorToHTTP(err error) *HTTPError {
	if err == nil {
		return nil
	}
	for _, m := range httpMappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.message, m.code)
		}
	}
	if errors.Is(err, ErrValidationFailed) {
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
