package repository

import (
	"context"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TeamRepository handles database operations for teams
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, team *models.Team) error {
	return conn(ctx, r.db).Create(team).Error
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := conn(ctx, r.db).First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetWithManager retrieves a team with its manager's profile
func (r *TeamRepository) GetWithManager(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := conn(ctx, r.db).Preload("Manager").First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetForUpdate retrieves a team and locks its row until the surrounding transaction ends
func (r *TeamRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByMemberUserID retrieves every team the user is a member of
func (r *TeamRepository) GetByMemberUserID(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	err := conn(ctx, r.db).
		Select("teams.*").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("team_members.joined_at ASC").
		Find(&teams).Error
	return teams, err
}

// UpdateMemberCount persists a member count derived from team_members
func (r *TeamRepository) UpdateMemberCount(ctx context.Context, id uuid.UUID, count int64) error {
	return conn(ctx, r.db).Model(&models.Team{}).Where("id = ?", id).Update("member_count", count).Error
}

// Delete deletes a team
func (r *TeamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.Team{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CheckTeamExists checks if a team exists by ID
func (r *TeamRepository) CheckTeamExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.Team{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}
