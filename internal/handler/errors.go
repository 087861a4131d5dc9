package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"profileauth/internal/auth"
	apperrors "profileauth/internal/errors"
	"profileauth/internal/logger"
)

// IdentityContextKey is the echo context key holding the caller's auth.Identity.
const IdentityContextKey = "user"

// identityFrom returns the identity resolved by the bearer middleware.
func identityFrom(c echo.Context) (auth.Identity, error) {
	identity, ok := c.Get(IdentityContextKey).(auth.Identity)
	if !ok || identity.Username == "" {
		return auth.Identity{}, apperrors.ErrUnauthorized
	}
	return identity, nil
}

// httpError converts a domain error into an echo error carrying an ErrorResponse.
func httpError(err error) *echo.HTTPError {
	mapped := apperrors.MapErrorToHTTP(err)
	if mapped.StatusCode >= 500 {
		logger.Errorf("request failed: %v", err)
	}
	return echo.NewHTTPError(mapped.StatusCode, mapped.ToErrorResponse())
}

func badRequest(msg string) *echo.HTTPError {
	return httpError(fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, msg))
}

// invalidRequest renders validator failures as short field-level messages so
// struct and tag names never reach the client.
func invalidRequest(err error) *echo.HTTPError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("invalid request")
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return badRequest(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
