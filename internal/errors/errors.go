package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "with this tag"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents a missing or invalid caller identity
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents a caller lacking authority for an action
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ConflictReason classifies a ConflictError
type ConflictReason string

const (
	ConflictAlreadyResolved  ConflictReason = "already_resolved"
	ConflictDuplicateRequest ConflictReason = "duplicate_request"
	ConflictTeamFull         ConflictReason = "team_full"
)

// ConflictError represents a state transition that the current state does not allow
type ConflictError struct {
	Reason  ConflictReason
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// PersistenceError wraps a failure of the underlying store
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PartialFailureError reports a multi-step operation that stopped after some steps were applied
type PartialFailureError struct {
	Completed []string
	Failed    string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure: %s failed after [%s]: %v", e.Failed, strings.Join(e.Completed, ", "), e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrTeamNotFound        = &NotFoundError{Entity: "team"}
	ErrUserNotFound        = &NotFoundError{Entity: "user"}
	ErrJoinRequestNotFound = &NotFoundError{Entity: "join request"}
)

// Already Exists Errors
var (
	ErrUserTagExists = &AlreadyExistsError{Entity: "user", Context: "with this tag"}
)

// Authentication and Authorization Errors
var (
	ErrUnauthenticated = &AuthenticationError{Message: "authentication required"}
	ErrNotTeamManager  = &AuthorizationError{Message: "only the team manager can perform this action"}
)

// Workflow Errors
var (
	ErrJoinRequestAlreadyResolved = &ConflictError{Reason: ConflictAlreadyResolved, Message: "join request has already been resolved"}
	ErrJoinRequestPending         = &ConflictError{Reason: ConflictDuplicateRequest, Message: "a pending join request for this team already exists"}
	ErrAlreadyTeamMember          = &ConflictError{Reason: ConflictDuplicateRequest, Message: "user is already a member of this team"}
	ErrTeamFull                   = &ConflictError{Reason: ConflictTeamFull, Message: "team has reached its maximum number of players"}
)

// Business Logic Errors
var (
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidPaginationParams = errors.New("invalid pagination parameters")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsDuplicateRequest checks if an error rejects a join request as a duplicate
func IsDuplicateRequest(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr) && conflictErr.Reason == ConflictDuplicateRequest
}

// IsPersistence checks if an error is a PersistenceError
func IsPersistence(err error) bool {
	var persistenceErr *PersistenceError
	return errors.As(err, &persistenceErr)
}

// IsPartialFailure checks if an error is a PartialFailureError
func IsPartialFailure(err error) bool {
	var partialErr *PartialFailureError
	return errors.As(err, &partialErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewPersistenceError wraps a store failure for operation op
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// NewPartialFailureError reports that step failed after the completed steps were applied
func NewPartialFailureError(completed []string, failed string, err error) error {
	return &PartialFailureError{Completed: completed, Failed: failed, Err: err}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
