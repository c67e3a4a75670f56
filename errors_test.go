package accesskit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrorMessage tests error string formatting
func TestErrorMessage(t *testing.T) {
	err := NewError(ErrDuplicateIdentifier, "role admin already exists")
	assert.Equal(t, "accesskit: duplicate identifier: role admin already exists", err.Error())

	bare := NewError(ErrNotFound, "")
	assert.Equal(t, "accesskit: not found", bare.Error())
}

// TestErrorUnwrap tests sentinel matching through errors.Is
func TestErrorUnwrap(t *testing.T) {
	err := NewError(ErrValidation, "empty identifier")

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, ErrValidation, errors.Unwrap(err))
}

// TestErrorContext tests the fluent context builders
func TestErrorContext(t *testing.T) {
	err := NewError(ErrDuplicateIdentifier, "taken").
		WithKind(KindRole).
		WithIdentifier("admin").
		WithUser("user123")

	assert.Equal(t, KindRole, err.Kind)
	assert.Equal(t, "admin", err.Identifier)
	assert.Equal(t, "user123", err.UserID)

	langErr := NewError(ErrValidation, "bad code").WithLanguage("xx_yy", "name")
	assert.Equal(t, "xx_yy", langErr.Language)
	assert.Equal(t, "name", langErr.Key)
}

// TestErrorHelpers tests the Is* convenience predicates
func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsDuplicateIdentifier(NewError(ErrDuplicateIdentifier, "x")))
	assert.True(t, IsNotFound(NewError(ErrNotFound, "x")))
	assert.True(t, IsValidation(NewError(ErrValidation, "x")))
	assert.True(t, IsUnauthorized(NewError(ErrUnauthorized, "x")))

	assert.False(t, IsDuplicateIdentifier(ErrNotFound))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsValidation(nil))
}

// TestErrorHelpersThroughWrapping tests predicates across fmt.Errorf chains
func TestErrorHelpersThroughWrapping(t *testing.T) {
	inner := NewError(ErrDuplicateIdentifier, "taken").WithIdentifier("admin")
	outer := fmt.Errorf("create role: %w", inner)

	assert.True(t, IsDuplicateIdentifier(outer))

	var typed *Error
	assert.True(t, errors.As(outer, &typed))
	assert.Equal(t, "admin", typed.Identifier)
}
