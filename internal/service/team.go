package service

import (
	"context"
	"time"

	"halisaha-backend/internal/database/models"
	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/logger"
	"halisaha-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// TeamService handles business logic for teams and their rosters
type TeamService struct {
	tx        repository.TransactorInterface
	teams     repository.TeamRepositoryInterface
	members   repository.TeamMemberRepositoryInterface
	requests  repository.JoinRequestRepositoryInterface
	users     repository.UserRepositoryInterface
	validator *validator.Validate
	now       func() time.Time
}

// NewTeamService creates a new team service
func NewTeamService(
	tx repository.TransactorInterface,
	teams repository.TeamRepositoryInterface,
	members repository.TeamMemberRepositoryInterface,
	requests repository.JoinRequestRepositoryInterface,
	users repository.UserRepositoryInterface,
	validator *validator.Validate,
) *TeamService {
	return &TeamService{
		tx:        tx,
		teams:     teams,
		members:   members,
		requests:  requests,
		users:     users,
		validator: validator,
		now:       time.Now,
	}
}

// CreateTeamRequest represents the data needed to create a team
type CreateTeamRequest struct {
	Name         string                `json:"name" validate:"required,min=1,max=100" example:"Moda FC"`
	Description  string                `json:"description" validate:"max=500"`
	MaxPlayers   int                   `json:"max_players" validate:"min=0,max=50" example:"14"` // 0 means unlimited
	Position     models.PlayerPosition `json:"position" validate:"omitempty,oneof=goalkeeper defender midfielder forward" example:"midfielder"`
	JerseyNumber *int                  `json:"jersey_number" validate:"omitempty,min=1,max=99" example:"10"`
}

// TeamResponse represents the response data for a team
type TeamResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ManagerID   uuid.UUID `json:"manager_id"`
	MaxPlayers  int       `json:"max_players"`
	MemberCount int       `json:"member_count"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// TeamMemberResponse represents one roster entry
type TeamMemberResponse struct {
	UserID       uuid.UUID    `json:"user_id"`
	User         *UserSummary `json:"user,omitempty"`
	Position     string       `json:"position,omitempty"`
	JerseyNumber *int         `json:"jersey_number,omitempty"`
	JoinedAt     string       `json:"joined_at"`
}

// TeamDetailsResponse represents a team with its manager and roster
type TeamDetailsResponse struct {
	TeamResponse
	Manager *UserSummary         `json:"manager,omitempty"`
	Members []TeamMemberResponse `json:"members"`
}

// UserTeamResponse represents a team in a user's team list
type UserTeamResponse struct {
	TeamResponse
	IsManager bool `json:"is_manager"`
}

// UserTeamsResponse groups a user's teams into those they manage and those they joined
type UserTeamsResponse struct {
	Owned  []UserTeamResponse `json:"owned"`
	Joined []UserTeamResponse `json:"joined"`
}

// Create creates a team managed by the caller, with the caller as its founding member
func (s *TeamService) Create(ctx context.Context, caller *Caller, req *CreateTeamRequest) (*TeamResponse, error) {
	managerID, err := requireCaller(caller)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	if _, err := s.users.GetByID(ctx, managerID); err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound, "get user")
	}

	team := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   managerID,
		MaxPlayers:  req.MaxPlayers,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.teams.Create(ctx, team); err != nil {
			return apperrors.NewPersistenceError("insert team", err)
		}

		founder := &models.TeamMember{
			TeamID:       team.ID,
			UserID:       managerID,
			Position:     req.Position,
			JerseyNumber: req.JerseyNumber,
			JoinedAt:     s.now(),
		}
		if _, err := s.members.AddIfAbsent(ctx, founder); err != nil {
			return apperrors.NewPersistenceError("insert founding membership", err)
		}

		count, err := s.members.CountByTeam(ctx, team.ID)
		if err != nil {
			return apperrors.NewPersistenceError("count members", err)
		}
		if err := s.teams.UpdateMemberCount(ctx, team.ID, count); err != nil {
			return apperrors.NewPersistenceError("update member count", err)
		}
		team.MemberCount = int(count)

		if err := s.users.AddRole(ctx, managerID, models.UserRoleTeamManager); err != nil {
			return apperrors.NewPersistenceError("grant team manager role", err)
		}
		return nil
	})
	if err != nil {
		if isWorkflowError(err) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError("create team", err)
	}

	return toTeamResponse(team), nil
}

// GetDetails returns the team with its manager's profile and its roster ordered by join time
func (s *TeamService) GetDetails(ctx context.Context, teamID uuid.UUID) (*TeamDetailsResponse, error) {
	team, err := s.teams.GetWithManager(ctx, teamID)
	if err != nil {
		return nil, lookupError(err, apperrors.ErrTeamNotFound, "get team")
	}

	members, err := s.members.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list members", err)
	}

	roster := make([]TeamMemberResponse, len(members))
	for i := range members {
		m := &members[i]
		roster[i] = TeamMemberResponse{
			UserID:       m.UserID,
			User:         toUserSummary(m.User),
			Position:     string(m.Position),
			JerseyNumber: m.JerseyNumber,
			JoinedAt:     m.JoinedAt.Format(time.RFC3339),
		}
	}

	return &TeamDetailsResponse{
		TeamResponse: *toTeamResponse(team),
		Manager:      toUserSummary(team.Manager),
		Members:      roster,
	}, nil
}

// GetUserTeams returns every team userID belongs to, split by whether the user manages it
func (s *TeamService) GetUserTeams(ctx context.Context, userID uuid.UUID) (*UserTeamsResponse, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound, "get user")
	}

	teams, err := s.teams.GetByMemberUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list user teams", err)
	}

	response := &UserTeamsResponse{
		Owned:  []UserTeamResponse{},
		Joined: []UserTeamResponse{},
	}
	for i := range teams {
		entry := UserTeamResponse{
			TeamResponse: *toTeamResponse(&teams[i]),
			IsManager:    teams[i].ManagerID == userID,
		}
		if entry.IsManager {
			response.Owned = append(response.Owned, entry)
		} else {
			response.Joined = append(response.Joined, entry)
		}
	}
	return response, nil
}

// Delete removes the team's memberships, then its join requests, then the team.
// Steps are applied one by one; a failure after the first step is reported as a
// PartialFailureError naming what was already removed.
func (s *TeamService) Delete(ctx context.Context, caller *Caller, teamID uuid.UUID) error {
	callerID, err := requireCaller(caller)
	if err != nil {
		return err
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return lookupError(err, apperrors.ErrTeamNotFound, "get team")
	}
	if !team.IsManagedBy(callerID) {
		return apperrors.ErrNotTeamManager
	}

	log := logger.WithContext(ctx).WithField("team_id", teamID.String())

	removed, err := s.members.DeleteByTeam(ctx, teamID)
	if err != nil {
		return apperrors.NewPersistenceError("delete memberships", err)
	}
	completed := []string{"delete memberships"}

	if err := s.teams.UpdateMemberCount(ctx, teamID, 0); err != nil {
		log.WithError(err).Error("team deletion stopped after removing memberships")
		return apperrors.NewPartialFailureError(completed, "reset member count", err)
	}
	completed = append(completed, "reset member count")

	if _, err := s.requests.DeleteByTeam(ctx, teamID); err != nil {
		log.WithError(err).Error("team deletion stopped after removing memberships")
		return apperrors.NewPartialFailureError(completed, "delete join requests", err)
	}
	completed = append(completed, "delete join requests")

	if err := s.teams.Delete(ctx, teamID); err != nil {
		log.WithError(err).Error("team deletion stopped before removing the team")
		return apperrors.NewPartialFailureError(completed, "delete team", err)
	}

	log.WithField("members_removed", removed).Info("team deleted")
	return nil
}

func toTeamResponse(team *models.Team) *TeamResponse {
	return &TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		ManagerID:   team.ManagerID,
		MaxPlayers:  team.MaxPlayers,
		MemberCount: team.MemberCount,
		CreatedAt:   team.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   team.UpdatedAt.Format(time.RFC3339),
	}
}
