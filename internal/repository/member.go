package repository

import (
	"context"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamMemberRepository handles database operations for team memberships
type TeamMemberRepository struct {
	db *gorm.DB
}

// NewTeamMemberRepository creates a new team member repository
func NewTeamMemberRepository(db *gorm.DB) *TeamMemberRepository {
	return &TeamMemberRepository{db: db}
}

// AddIfAbsent inserts the membership unless one already exists for the (team, user) pair.
// It reports whether a row was inserted.
func (r *TeamMemberRepository) AddIfAbsent(ctx context.Context, member *models.TeamMember) (bool, error) {
	result := conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Exists checks whether the user is a member of the team
func (r *TeamMemberRepository) Exists(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountByTeam returns the number of memberships of a team
func (r *TeamMemberRepository) CountByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error
	return count, err
}

// ListByTeam retrieves the team's roster with member profiles, oldest membership first
func (r *TeamMemberRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := conn(ctx, r.db).Preload("User").
		Where("team_id = ?", teamID).
		Order("joined_at ASC").
		Find(&members).Error
	return members, err
}

// DeleteByTeam deletes every membership of a team and returns how many were removed
func (r *TeamMemberRepository) DeleteByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	result := conn(ctx, r.db).Where("team_id = ?", teamID).Delete(&models.TeamMember{})
	return result.RowsAffected, result.Error
}
