package service

import (
	"context"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

var (
	_ NotificationDispatcherInterface = (*NotificationService)(nil)
	_ NotificationServiceInterface    = (*NotificationService)(nil)
	_ JoinRequestServiceInterface     = (*JoinRequestService)(nil)
	_ TeamServiceInterface            = (*TeamService)(nil)
	_ UserServiceInterface            = (*UserService)(nil)
)

// NotificationDispatcherInterface defines the interface for sending notifications
type NotificationDispatcherInterface interface {
	Dispatch(ctx context.Context, req *DispatchRequest) (*models.Notification, error)
}

// NotificationServiceInterface defines the interface for the notification inbox
type NotificationServiceInterface interface {
	ListForUser(ctx context.Context, caller *Caller, unreadOnly bool, limit, offset int) (*NotificationListResponse, error)
}

// JoinRequestServiceInterface defines the interface for the join request workflow
type JoinRequestServiceInterface interface {
	Submit(ctx context.Context, caller *Caller, teamID uuid.UUID, req *SubmitJoinRequestRequest) (*JoinRequestResponse, error)
	Resolve(ctx context.Context, caller *Caller, requestID uuid.UUID, approve bool) (*JoinRequestResponse, error)
	ListByTeam(ctx context.Context, caller *Caller, teamID uuid.UUID, status string) ([]JoinRequestResponse, error)
}

// TeamServiceInterface defines the interface for team service
type TeamServiceInterface interface {
	Create(ctx context.Context, caller *Caller, req *CreateTeamRequest) (*TeamResponse, error)
	GetDetails(ctx context.Context, teamID uuid.UUID) (*TeamDetailsResponse, error)
	GetUserTeams(ctx context.Context, userID uuid.UUID) (*UserTeamsResponse, error)
	Delete(ctx context.Context, caller *Caller, teamID uuid.UUID) error
}

// UserServiceInterface defines the interface for user service
type UserServiceInterface interface {
	UpsertProfile(ctx context.Context, caller *Caller, req *UpsertProfileRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error)
}
