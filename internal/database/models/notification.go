package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType tags the event that produced a notification
type NotificationType string

const (
	NotificationTypeTeamJoinRequest NotificationType = "team_join_request"
	NotificationTypeTeamJoin        NotificationType = "team_join"
)

// Notification is a message addressed to a single user
type Notification struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Title     string           `json:"title" gorm:"not null;size:200"`
	Message   string           `json:"message" gorm:"not null;size:1000"`
	Type      NotificationType `json:"type" gorm:"type:varchar(50);not null;index"`
	RelatedID *uuid.UUID       `json:"related_id,omitempty" gorm:"type:uuid"`
	IsRead    bool             `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time        `json:"created_at"`
}

// TableName returns the table name for Notification
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate sets the UUID if not already set
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
