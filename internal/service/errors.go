package service

import (
	"errors"
	"fmt"
	"strings"

	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/repository"

	"github.com/go-playground/validator/v10"
)

// validationError converts validator output into a ValidationError naming the first failing field
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field())
		if fe.Param() != "" {
			return apperrors.NewValidationError(field, fmt.Sprintf("failed on '%s=%s'", fe.Tag(), fe.Param()))
		}
		return apperrors.NewValidationError(field, fmt.Sprintf("failed on '%s'", fe.Tag()))
	}
	return apperrors.NewValidationError("", err.Error())
}

// lookupError maps a repository lookup failure to notFound or a PersistenceError
func lookupError(err error, notFound error, op string) error {
	if repository.IsNotFound(err) {
		return notFound
	}
	return apperrors.NewPersistenceError(op, err)
}

// isWorkflowError reports whether err already belongs to the application taxonomy
func isWorkflowError(err error) bool {
	return apperrors.IsNotFound(err) ||
		apperrors.IsConflict(err) ||
		apperrors.IsAuthorization(err) ||
		apperrors.IsAuthentication(err) ||
		apperrors.IsAlreadyExists(err) ||
		apperrors.IsValidation(err) ||
		apperrors.IsPersistence(err) ||
		apperrors.IsPartialFailure(err)
}
