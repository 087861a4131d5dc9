package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "profileauth/internal/errors"
)

// storeError marks err as a persistence failure while keeping the cause.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, apperrors.ErrStoreUnavailable, err)
}

// lookupError maps a missing record to ErrNotFound and anything else to a store failure.
func lookupError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	return storeError(op, err)
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidationFailed, msg)
}
