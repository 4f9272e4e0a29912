package errors

import (
	"errors"
	"fmt"
)

// Common error types for the transcription server
var (
	// Authorization errors. ErrAuthorizationExpired wraps
	// ErrAuthorizationDenied so that errors.Is(err, ErrAuthorizationDenied)
	// holds for both; only the HTTP boundary inspects the expired sub-case
	// to clear cookies and redirect instead of returning a bare 401.
	ErrAuthorizationDenied  = errors.New("authorization denied")
	ErrAuthorizationExpired = fmt.Errorf("%w: authorization expired", ErrAuthorizationDenied)

	// Dependency errors (cache/database/upstream unavailable during an
	// operation that must not be silently downgraded to success)
	ErrDependencyFailure = errors.New("dependency failure")

	// Database errors
	ErrUserNotFound     = errors.New("user not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrPaymentFailed    = errors.New("payment failed")

	// OAuth2.0 errors
	ErrUserProfileNotFound = errors.New("user profile not found")
	ErrEndpointNotFound    = errors.New("endpoint not found")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
