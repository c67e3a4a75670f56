package accesskit

import (
	"errors"
	"fmt"
)

// Sentinel errors for AccessKit operations.
var (
	// ErrDuplicateIdentifier is returned when a create, rename, or restore
	// would collide with a living entity's identifier.
	ErrDuplicateIdentifier = errors.New("accesskit: duplicate identifier")

	// ErrNotFound is returned when operating on a missing entity.
	ErrNotFound = errors.New("accesskit: not found")

	// ErrValidation is returned for bad input: empty identifiers, unknown
	// host types, malformed references, or half-specified pagination.
	ErrValidation = errors.New("accesskit: validation failed")

	// ErrUnauthorized is returned when a user doesn't have the required
	// role/permission.
	ErrUnauthorized = errors.New("accesskit: unauthorized")

	// ErrNoUserID is returned when a user ID is not found in context.
	ErrNoUserID = errors.New("accesskit: no user ID in context")

	// ErrDatabaseError is returned when a database operation fails.
	ErrDatabaseError = errors.New("accesskit: database error")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err        error      // Underlying sentinel error
	Message    string     // Additional context
	Kind       EntityKind // Entity kind involved (if applicable)
	Identifier string     // Identifier involved (if applicable)
	Language   string     // Language code involved (if applicable)
	Key        string     // Attribute key involved (if applicable)
	UserID     string     // User involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithKind adds the entity kind to the error.
func (e *Error) WithKind(kind EntityKind) *Error {
	e.Kind = kind
	return e
}

// WithIdentifier adds the identifier to the error.
func (e *Error) WithIdentifier(identifier string) *Error {
	e.Identifier = identifier
	return e
}

// WithLanguage adds the language code and attribute key to the error.
func (e *Error) WithLanguage(code, key string) *Error {
	e.Language = code
	e.Key = key
	return e
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// IsDuplicateIdentifier checks if an error is an identifier collision.
func IsDuplicateIdentifier(err error) bool {
	return errors.Is(err, ErrDuplicateIdentifier)
}

// IsNotFound checks if an error is a missing-entity error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is due to bad input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorized checks if an error is an authorization error.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
