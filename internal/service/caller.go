package service

import (
	apperrors "halisaha-backend/internal/errors"

	"github.com/google/uuid"
)

// Caller identifies the authenticated user on whose behalf an operation runs
type Caller struct {
	UserID uuid.UUID
}

// NewCaller creates a caller for userID
func NewCaller(userID uuid.UUID) *Caller {
	return &Caller{UserID: userID}
}

// requireCaller returns the caller's user id or ErrUnauthenticated
func requireCaller(caller *Caller) (uuid.UUID, error) {
	if caller == nil || caller.UserID == uuid.Nil {
		return uuid.Nil, apperrors.ErrUnauthenticated
	}
	return caller.UserID, nil
}
