package errcodes

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrValidation            = errors.New("validation error")
	ErrForeignKey            = errors.New("referenced parent does not exist")
	ErrUniqueViolation       = errors.New("unique constraint violation")
	ErrTimeout               = errors.New("operation timed out")
	ErrStoreUnavailable      = errors.New("store unavailable")
	ErrNoRecordFound         = errors.New("no record found")
	ErrContextCancelled      = errors.New("context cancelled")
	ErrInvalidRepositoryName = errors.New("invalid repository name, expected owner/name")
)

// ValidationError reports a malformed or missing field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validation builds a ValidationError for field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

var uniqueMessages = []string{
	"duplicate key value violates unique constraint",
	"UNIQUE constraint failed",
}

var foreignKeyMessages = []string{
	"violates foreign key constraint",
	"FOREIGN KEY constraint failed",
}

var unavailableMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"database is locked",
	"the database system is starting up",
	"too many clients",
}

// Translate maps driver, GORM and context errors onto the package sentinels.
// The original error stays in the chain.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	if isKnown(err) {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %w", ErrContextCancelled, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNoRecordFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), containsAny(err, uniqueMessages):
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), containsAny(err, foreignKeyMessages):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	case errors.Is(err, driver.ErrBadConn), isNetError(err), containsAny(err, unavailableMessages):
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return err
}

// Retryable reports whether an idempotent operation may be re-invoked after err.
func Retryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

func isKnown(err error) bool {
	for _, target := range []error{
		ErrValidation, ErrForeignKey, ErrUniqueViolation, ErrTimeout,
		ErrStoreUnavailable, ErrNoRecordFound, ErrContextCancelled, ErrInvalidRepositoryName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isNetError(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func containsAny(err error, needles []string) bool {
	msg := err.Error()
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}
