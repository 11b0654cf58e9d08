package service

import (
	"context"
	"time"

	"halisaha-backend/internal/database/models"
	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserService handles business logic for user profiles
type UserService struct {
	repo      repository.UserRepositoryInterface
	validator *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepositoryInterface, validator *validator.Validate) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
	}
}

// UpsertProfileRequest represents the profile a user registers or updates
type UpsertProfileRequest struct {
	FullName  string   `json:"full_name" validate:"required,max=200" example:"Emre Yılmaz"`
	Tag       string   `json:"tag" validate:"required,min=3,max=40" example:"emre10"`
	Roles     []string `json:"roles" validate:"omitempty,dive,oneof=player field_owner" example:"player"` // Defaults to player
	AvatarURL string   `json:"avatar_url" validate:"omitempty,url,max=500"`
}

// UserResponse represents the response data for a user
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Tag       string    `json:"tag"`
	Roles     []string  `json:"roles"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// UserSummary is the public profile shown next to teams, members and requests
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Tag       string    `json:"tag"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}

// UpsertProfile registers the caller's profile or updates it.
// team_manager cannot be claimed; it is kept if the caller already holds it.
func (s *UserService) UpsertProfile(ctx context.Context, caller *Caller, req *UpsertProfileRequest) (*UserResponse, error) {
	userID, err := requireCaller(caller)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	// Tag must not belong to another user
	owner, err := s.repo.GetByTag(ctx, req.Tag)
	if err == nil && owner.ID != userID {
		return nil, apperrors.ErrUserTagExists
	}
	if err != nil && !repository.IsNotFound(err) {
		return nil, apperrors.NewPersistenceError("lookup user by tag", err)
	}

	existing, err := s.repo.GetByID(ctx, userID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, apperrors.NewPersistenceError("get user", err)
	}

	user := &models.User{
		FullName:  req.FullName,
		Tag:       req.Tag,
		Roles:     pq.StringArray{},
		AvatarURL: req.AvatarURL,
	}
	user.ID = userID

	if len(req.Roles) == 0 {
		user.AddRole(models.UserRolePlayer)
	}
	for _, role := range req.Roles {
		user.AddRole(models.UserRole(role))
	}
	if existing != nil {
		user.CreatedAt = existing.CreatedAt
		if existing.HasRole(models.UserRoleTeamManager) {
			user.AddRole(models.UserRoleTeamManager)
		}
	}

	if err := s.repo.Upsert(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrUserTagExists
		}
		return nil, apperrors.NewPersistenceError("upsert user", err)
	}

	return toUserResponse(user), nil
}

// GetByID retrieves a user's profile
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound, "get user")
	}
	return toUserResponse(user), nil
}

func toUserResponse(user *models.User) *UserResponse {
	roles := []string(user.Roles)
	if roles == nil {
		roles = []string{}
	}
	return &UserResponse{
		ID:        user.ID,
		FullName:  user.FullName,
		Tag:       user.Tag,
		Roles:     roles,
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
}

func toUserSummary(user *models.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:        user.ID,
		FullName:  user.FullName,
		Tag:       user.Tag,
		AvatarURL: user.AvatarURL,
	}
}
