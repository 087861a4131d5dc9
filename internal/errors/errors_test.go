package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"bad signature", ErrInvalidSignature, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", ErrTokenExpired, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong issuer", ErrWrongIssuer, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong audience", ErrWrongAudience, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"not found", ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"user exists", ErrUserExists, http.StatusBadRequest, "USER_EXISTS"},
		{"duplicate username", ErrDuplicateUsername, http.StatusBadRequest, "DUPLICATE_USERNAME"},
		{"duplicate email", ErrDuplicateEmail, http.StatusBadRequest, "DUPLICATE_EMAIL"},
		{"username taken", ErrUsernameTaken, http.StatusBadRequest, "USERNAME_TAKEN"},
		{"unsupported type", ErrUnsupportedType, http.StatusBadRequest, "UNSUPPORTED_TYPE"},
		{"too large", ErrTooLarge, http.StatusBadRequest, "TOO_LARGE"},
		{"wrapped validation", fmt.Errorf("%w: no file was uploaded", ErrValidationFailed), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"store unavailable", fmt.Errorf("find user: %w: %w", ErrStoreUnavailable, errors.New("dial tcp: refused")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_TokenFailuresAreIndistinguishable(t *testing.T) {
	want := MapErrorToHTTP(ErrUnauthorized).ToErrorResponse()
	for _, err := range []error{ErrInvalidSignature, ErrTokenExpired, ErrWrongIssuer, ErrWrongAudience} {
		assert.Equal(t, want, MapErrorToHTTP(err).ToErrorResponse())
	}
}

func TestMapErrorToHTTP_InternalDetailHidden(t *testing.T) {
	err := fmt.Errorf("create user: %w: %w", ErrStoreUnavailable, errors.New("pq: password authentication failed"))
	resp := MapErrorToHTTP(err).ToErrorResponse()
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, resp.Error, "pq")
}

func TestMapErrorToHTTP_ClientMessages(t *testing.T) {
	tests := []struct {
		err     error
		message string
	}{
		{ErrNotFound, "User not found"},
		{ErrUserExists, "User already exists!"},
		{ErrUsernameTaken, "Username is already taken"},
		{ErrUnsupportedType, "Only JPG and PNG images are supported"},
		{ErrTooLarge, "Image size must be less than 2MB"},
		{fmt.Errorf("update username: %w", ErrUsernameTaken), "Username is already taken"},
		{fmt.Errorf("%w: no file was uploaded", ErrValidationFailed), "validation failed: no file was uploaded"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, MapErrorToHTTP(tt.err).Message)
		})
	}
}

func TestSentinelMessagesAreLowercase(t *testing.T) {
	for _, err := range []error{
		ErrDuplicateUsername, ErrDuplicateEmail, ErrUsernameTaken, ErrUserExists, ErrUnauthorized,
		ErrNotFound, ErrUnsupportedType, ErrTooLarge, ErrValidationFailed, ErrStoreUnavailable,
	} {
		msg := err.Error()
		assert.Equal(t, strings.ToLower(msg[:1]), msg[:1], msg)
		assert.NotContains(t, ".!", msg[len(msg)-1:], msg)
	}
}

func TestTokenErrorsWrapUnauthorized(t *testing.T) {
	assert.ErrorIs(t, ErrTokenExpired, ErrUnauthorized)
	assert.NotErrorIs(t, ErrTokenExpired, ErrInvalidSignature)
	assert.Nil(t, MapErrorToHTTP(nil))
}
