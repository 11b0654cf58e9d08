package repository

import (
	"context"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return conn(ctx, r.db).Create(notification).Error
}

// GetByUserID retrieves a user's notifications with pagination, newest first
func (r *NotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	scoped := func() *gorm.DB {
		query := conn(ctx, r.db).Model(&models.Notification{}).Where("user_id = ?", userID)
		if unreadOnly {
			query = query.Where("is_read = ?", false)
		}
		return query
	}

	// Get total count
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	err := scoped().Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}
