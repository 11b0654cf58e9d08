package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "team"}
		assert.Equal(t, "team not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "team"}
		err2 := &NotFoundError{Entity: "team"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		assert.False(t, errors.Is(ErrTeamNotFound, ErrJoinRequestNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrJoinRequestNotFound))
		assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", ErrUserNotFound)))
		assert.False(t, IsNotFound(ErrJoinRequestAlreadyResolved))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		assert.Equal(t, "user already exists with this tag", ErrUserTagExists.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "team"}
		assert.Equal(t, "team already exists", err.Error())
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrUserTagExists))
		assert.False(t, IsAlreadyExists(ErrTeamNotFound))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "message", Message: "too long"}
		assert.Equal(t, "validation error: message - too long", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		err := NewValidationError("status", "invalid")
		assert.True(t, IsValidation(err))
		assert.False(t, IsValidation(ErrTeamNotFound))
	})
}

func TestConflictError(t *testing.T) {
	t.Run("Sentinels are distinct", func(t *testing.T) {
		assert.False(t, errors.Is(ErrJoinRequestPending, ErrAlreadyTeamMember))
		assert.True(t, errors.Is(fmt.Errorf("resolve: %w", ErrJoinRequestAlreadyResolved), ErrJoinRequestAlreadyResolved))
	})

	t.Run("IsDuplicateRequest covers pending request and membership", func(t *testing.T) {
		assert.True(t, IsDuplicateRequest(ErrJoinRequestPending))
		assert.True(t, IsDuplicateRequest(ErrAlreadyTeamMember))
		assert.False(t, IsDuplicateRequest(ErrJoinRequestAlreadyResolved))
		assert.False(t, IsDuplicateRequest(ErrTeamFull))
	})

	t.Run("IsConflict helper", func(t *testing.T) {
		assert.True(t, IsConflict(ErrTeamFull))
		assert.False(t, IsConflict(ErrNotTeamManager))
	})
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewPersistenceError("insert join request", cause)

	assert.Equal(t, "persistence error: insert join request: connection reset", err.Error())
	assert.True(t, IsPersistence(err))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, IsPersistence(cause))
}

func TestPartialFailureError(t *testing.T) {
	cause := errors.New("statement timeout")
	err := NewPartialFailureError([]string{"delete memberships", "delete join requests"}, "delete team", cause)

	assert.Equal(t, "partial failure: delete team failed after [delete memberships, delete join requests]: statement timeout", err.Error())
	assert.True(t, IsPartialFailure(err))
	assert.True(t, errors.Is(err, cause))
}

func TestAuthErrors(t *testing.T) {
	assert.True(t, IsAuthentication(ErrUnauthenticated))
	assert.False(t, IsAuthentication(ErrNotTeamManager))
	assert.True(t, IsAuthorization(ErrNotTeamManager))
	assert.True(t, IsAuthorization(NewAuthorizationError("nope")))
	assert.True(t, IsConfiguration(NewConfigurationError("missing secret")))
}
