package repository

import (
	"context"
	"time"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JoinRequestRepository handles database operations for team join requests
type JoinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository creates a new join request repository
func NewJoinRequestRepository(db *gorm.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

// Create creates a new join request
func (r *JoinRequestRepository) Create(ctx context.Context, request *models.TeamJoinRequest) error {
	return conn(ctx, r.db).Create(request).Error
}

// GetByID retrieves a join request by ID
func (r *JoinRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TeamJoinRequest, error) {
	var request models.TeamJoinRequest
	err := conn(ctx, r.db).First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// GetWithRelations retrieves a join request with its team and requesting user
func (r *JoinRequestRepository) GetWithRelations(ctx context.Context, id uuid.UUID) (*models.TeamJoinRequest, error) {
	var request models.TeamJoinRequest
	err := conn(ctx, r.db).Preload("Team").Preload("User").First(&request, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// HasPending checks whether the user has an unresolved request for the team
func (r *JoinRequestRepository) HasPending(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.TeamJoinRequest{}).
		Where("team_id = ? AND user_id = ? AND status = ?", teamID, userID, models.JoinRequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ListByTeam retrieves a team's join requests with requester profiles, newest first.
// An empty status returns requests in every state.
func (r *JoinRequestRepository) ListByTeam(ctx context.Context, teamID uuid.UUID, status models.JoinRequestStatus) ([]models.TeamJoinRequest, error) {
	var requests []models.TeamJoinRequest
	query := conn(ctx, r.db).Preload("User").Where("team_id = ?", teamID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// TransitionStatus moves a request from one status to another only if it is still in from.
// It reports whether the transition was applied.
func (r *JoinRequestRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.JoinRequestStatus, resolvedBy uuid.UUID, resolvedAt time.Time) (bool, error) {
	result := conn(ctx, r.db).Model(&models.TeamJoinRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":      to,
			"resolved_by": resolvedBy,
			"resolved_at": resolvedAt,
			"updated_at":  resolvedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteByTeam deletes every join request of a team and returns how many were removed
func (r *JoinRequestRepository) DeleteByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("team_id = ?", teamID).Delete(&models.TeamJoinRequest{})
	return result.RowsAffected, result.Error
}
