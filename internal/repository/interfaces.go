package repository

import (
	"context"
	"time"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

var (
	_ TransactorInterface             = (*Transactor)(nil)
	_ UserRepositoryInterface         = (*UserRepository)(nil)
	_ TeamRepositoryInterface         = (*TeamRepository)(nil)
	_ TeamMemberRepositoryInterface   = (*TeamMemberRepository)(nil)
	_ JoinRequestRepositoryInterface  = (*JoinRequestRepository)(nil)
	_ NotificationRepositoryInterface = (*NotificationRepository)(nil)
)

// TransactorInterface defines the interface for running work in a single transaction
type TransactorInterface interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	Upsert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByTag(ctx context.Context, tag string) (*models.User, error)
	AddRole(ctx context.Context, id uuid.UUID, role models.UserRole) error
}

// TeamRepositoryInterface defines the interface for team repository operations
type TeamRepositoryInterface interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetWithManager(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetByMemberUserID(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	UpdateMemberCount(ctx context.Context, id uuid.UUID, count int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	CheckTeamExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// TeamMemberRepositoryInterface defines the interface for team membership operations
type TeamMemberRepositoryInterface interface {
	AddIfAbsent(ctx context.Context, member *models.TeamMember) (bool, error)
	Exists(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	CountByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	DeleteByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)
}

// JoinRequestRepositoryInterface defines the interface for join request operations
type JoinRequestRepositoryInterface interface {
	Create(ctx context.Context, request *models.TeamJoinRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.TeamJoinRequest, error)
	GetWithRelations(ctx context.Context, id uuid.UUID) (*models.TeamJoinRequest, error)
	HasPending(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID, status models.JoinRequestStatus) ([]models.TeamJoinRequest, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.JoinRequestStatus, resolvedBy uuid.UUID, resolvedAt time.Time) (bool, error)
	DeleteByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)
}

// NotificationRepositoryInterface defines the interface for notification operations
type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error)
}
