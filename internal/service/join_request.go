package service

import (
	"context"
	"time"

	"halisaha-backend/internal/database/models"
	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/logger"
	"halisaha-backend/internal/notify"
	"halisaha-backend/internal/repository"
	"halisaha-backend/internal/telemetry"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JoinRequestService runs the team join request workflow
type JoinRequestService struct {
	tx        repository.TransactorInterface
	teams     repository.TeamRepositoryInterface
	members   repository.TeamMemberRepositoryInterface
	requests  repository.JoinRequestRepositoryInterface
	users     repository.UserRepositoryInterface
	notifier  NotificationDispatcherInterface
	validator *validator.Validate
	now       func() time.Time
}

// NewJoinRequestService creates a new join request service
func NewJoinRequestService(
	tx repository.TransactorInterface,
	teams repository.TeamRepositoryInterface,
	members repository.TeamMemberRepositoryInterface,
	requests repository.JoinRequestRepositoryInterface,
	users repository.UserRepositoryInterface,
	notifier NotificationDispatcherInterface,
	validator *validator.Validate,
) *JoinRequestService {
	return &JoinRequestService{
		tx:        tx,
		teams:     teams,
		members:   members,
		requests:  requests,
		users:     users,
		notifier:  notifier,
		validator: validator,
		now:       time.Now,
	}
}

// SubmitJoinRequestRequest represents the data sent with a join request
type SubmitJoinRequestRequest struct {
	Message string `json:"message" validate:"max=500" example:"Sol bek oynayabilirim, salı akşamları müsaitim."`
}

// JoinRequestResponse represents the response data for a join request
type JoinRequestResponse struct {
	ID         uuid.UUID    `json:"id"`
	TeamID     uuid.UUID    `json:"team_id"`
	UserID     uuid.UUID    `json:"user_id"`
	Message    string       `json:"message,omitempty"`
	Status     string       `json:"status" example:"pending"`
	ResolvedAt *string      `json:"resolved_at,omitempty"`
	ResolvedBy *uuid.UUID   `json:"resolved_by,omitempty"`
	User       *UserSummary `json:"user,omitempty"`
	CreatedAt  string       `json:"created_at"`
	UpdatedAt  string       `json:"updated_at"`
}

// Submit creates a pending request by the caller to join teamID and notifies the team manager
func (s *JoinRequestService) Submit(ctx context.Context, caller *Caller, teamID uuid.UUID, req *SubmitJoinRequestRequest) (*JoinRequestResponse, error) {
	userID, err := requireCaller(caller)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &SubmitJoinRequestRequest{}
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	requester, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, apperrors.ErrUserNotFound, "get user")
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, lookupError(err, apperrors.ErrTeamNotFound, "get team")
	}

	isMember, err := s.members.Exists(ctx, teamID, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("check membership", err)
	}
	if isMember {
		return nil, apperrors.ErrAlreadyTeamMember
	}

	hasPending, err := s.requests.HasPending(ctx, teamID, userID)
	if err != nil {
		return nil, apperrors.NewPersistenceError("check pending join request", err)
	}
	if hasPending {
		return nil, apperrors.ErrJoinRequestPending
	}

	request := &models.TeamJoinRequest{
		TeamID:  teamID,
		UserID:  userID,
		Message: req.Message,
		Status:  models.JoinRequestStatusPending,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		// A concurrent submission won the partial unique index
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.ErrJoinRequestPending
		}
		return nil, apperrors.NewPersistenceError("insert join request", err)
	}
	telemetry.JoinRequestsSubmittedTotal.Inc()

	vars := notify.Vars{Team: team.Name, User: userName(requester)}
	s.dispatch(ctx, &DispatchRequest{
		UserID:    team.ManagerID,
		Type:      models.NotificationTypeTeamJoinRequest,
		Event:     notify.EventJoinRequestReceived,
		Vars:      vars,
		RelatedID: &request.ID,
	})

	return toJoinRequestResponse(request), nil
}

// Resolve approves or rejects a pending request. Only the team's manager may resolve it.
//
// The status change, membership insert and member count update commit together; the
// conditional status update makes a concurrent second resolution fail with
// ErrJoinRequestAlreadyResolved. The requester is notified after commit.
func (s *JoinRequestService) Resolve(ctx context.Context, caller *Caller, requestID uuid.UUID, approve bool) (*JoinRequestResponse, error) {
	callerID, err := requireCaller(caller)
	if err != nil {
		return nil, err
	}

	request, err := s.requests.GetWithRelations(ctx, requestID)
	if err != nil {
		return nil, lookupError(err, apperrors.ErrJoinRequestNotFound, "get join request")
	}
	team := request.Team
	if team == nil {
		return nil, apperrors.ErrTeamNotFound
	}
	if !team.IsManagedBy(callerID) {
		return nil, apperrors.ErrNotTeamManager
	}
	if request.Status != models.JoinRequestStatusPending {
		return nil, apperrors.ErrJoinRequestAlreadyResolved
	}

	decision := models.JoinRequestStatusRejected
	if approve {
		decision = models.JoinRequestStatusApproved
	}
	resolvedAt := s.now()

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		applied, err := s.requests.TransitionStatus(ctx, request.ID, models.JoinRequestStatusPending, decision, callerID, resolvedAt)
		if err != nil {
			return apperrors.NewPersistenceError("update join request status", err)
		}
		if !applied {
			return apperrors.ErrJoinRequestAlreadyResolved
		}
		if !approve {
			return nil
		}
		return s.addMember(ctx, team.ID, request.UserID, resolvedAt)
	})
	if err != nil {
		if isWorkflowError(err) {
			return nil, err
		}
		return nil, apperrors.NewPersistenceError("resolve join request", err)
	}

	request.Status = decision
	request.ResolvedAt = &resolvedAt
	request.ResolvedBy = &callerID
	request.UpdatedAt = resolvedAt
	telemetry.JoinRequestsResolvedTotal.WithLabelValues(string(decision)).Inc()

	event := notify.EventJoinRequestRejected
	if approve {
		event = notify.EventJoinRequestApproved
	}
	s.dispatch(ctx, &DispatchRequest{
		UserID:    request.UserID,
		Type:      models.NotificationTypeTeamJoin,
		Event:     event,
		Vars:      notify.Vars{Team: team.Name, User: userName(request.User)},
		RelatedID: &team.ID,
	})

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"join_request_id": request.ID.String(),
		"team_id":         team.ID.String(),
		"decision":        string(decision),
	}).Info("join request resolved")

	return toJoinRequestResponse(request), nil
}

// addMember inserts the membership under the team row lock and re-derives member_count
func (s *JoinRequestService) addMember(ctx context.Context, teamID, userID uuid.UUID, joinedAt time.Time) error {
	team, err := s.teams.GetForUpdate(ctx, teamID)
	if err != nil {
		return lookupError(err, apperrors.ErrTeamNotFound, "lock team")
	}

	count, err := s.members.CountByTeam(ctx, teamID)
	if err != nil {
		return apperrors.NewPersistenceError("count members", err)
	}
	if team.IsFull(count) {
		isMember, err := s.members.Exists(ctx, teamID, userID)
		if err != nil {
			return apperrors.NewPersistenceError("check membership", err)
		}
		if !isMember {
			return apperrors.ErrTeamFull
		}
	}

	member := &models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: joinedAt,
	}
	if _, err := s.members.AddIfAbsent(ctx, member); err != nil {
		return apperrors.NewPersistenceError("insert membership", err)
	}

	count, err = s.members.CountByTeam(ctx, teamID)
	if err != nil {
		return apperrors.NewPersistenceError("count members", err)
	}
	if err := s.teams.UpdateMemberCount(ctx, teamID, count); err != nil {
		return apperrors.NewPersistenceError("update member count", err)
	}
	return nil
}

// ListByTeam returns the team's join requests, newest first. Only the team's manager may list them.
// An empty status lists pending requests; "all" lists every request.
func (s *JoinRequestService) ListByTeam(ctx context.Context, caller *Caller, teamID uuid.UUID, status string) ([]JoinRequestResponse, error) {
	callerID, err := requireCaller(caller)
	if err != nil {
		return nil, err
	}

	filter := models.JoinRequestStatusPending
	switch status {
	case "":
	case "all":
		filter = ""
	default:
		filter = models.JoinRequestStatus(status)
		if !filter.IsValid() {
			return nil, apperrors.NewValidationError("status", apperrors.ErrInvalidStatus.Error())
		}
	}

	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, lookupError(err, apperrors.ErrTeamNotFound, "get team")
	}
	if !team.IsManagedBy(callerID) {
		return nil, apperrors.ErrNotTeamManager
	}

	requests, err := s.requests.ListByTeam(ctx, teamID, filter)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list join requests", err)
	}

	responses := make([]JoinRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *toJoinRequestResponse(&requests[i])
	}
	return responses, nil
}

// dispatch sends a notification without affecting the calling operation
func (s *JoinRequestService) dispatch(ctx context.Context, req *DispatchRequest) {
	if _, err := s.notifier.Dispatch(ctx, req); err != nil {
		telemetry.NotificationDispatchFailuresTotal.WithLabelValues(string(req.Type)).Inc()
		logger.WithContext(ctx).WithError(err).WithFields(map[string]interface{}{
			"recipient": req.UserID.String(),
			"type":      string(req.Type),
		}).Warn("failed to dispatch notification")
	}
}

func userName(user *models.User) string {
	if user == nil {
		return "A player"
	}
	if user.FullName != "" {
		return user.FullName
	}
	return "@" + user.Tag
}

func toJoinRequestResponse(request *models.TeamJoinRequest) *JoinRequestResponse {
	response := &JoinRequestResponse{
		ID:         request.ID,
		TeamID:     request.TeamID,
		UserID:     request.UserID,
		Message:    request.Message,
		Status:     string(request.Status),
		ResolvedBy: request.ResolvedBy,
		User:       toUserSummary(request.User),
		CreatedAt:  request.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  request.UpdatedAt.Format(time.RFC3339),
	}
	if request.ResolvedAt != nil {
		resolvedAt := request.ResolvedAt.Format(time.RFC3339)
		response.ResolvedAt = &resolvedAt
	}
	return response
}
