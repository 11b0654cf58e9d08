package repository

import (
	"context"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Create(user).Error
}

// Upsert inserts the user or updates its profile fields when the id already exists
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"full_name", "tag", "roles", "avatar_url", "updated_at"}),
	}).Create(user).Error
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByTag retrieves a user by display handle
func (r *UserRepository) GetByTag(ctx context.Context, tag string) (*models.User, error) {
	var user models.User
	err := conn(ctx, r.db).First(&user, "tag = ?", tag).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// AddRole grants role to the user if not already held
func (r *UserRepository) AddRole(ctx context.Context, id uuid.UUID, role models.UserRole) error {
	return conn(ctx, r.db).Model(&models.User{}).
		Where("id = ? AND NOT (? = ANY(roles))", id, string(role)).
		Update("roles", gorm.Expr("array_append(roles, ?)", string(role))).Error
}
