package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember is the durable fact that a user belongs to a team.
// At most one row exists per (team, user) pair.
type TeamMember struct {
	BaseModel
	TeamID       uuid.UUID      `json:"team_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_team_members_team_user;index:idx_team_members_user"`
	Position     PlayerPosition `json:"position" gorm:"type:varchar(30)"`
	JerseyNumber *int           `json:"jersey_number,omitempty"`
	JoinedAt     time.Time      `json:"joined_at" gorm:"not null"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for TeamMember
func (TeamMember) TableName() string {
	return "team_members"
}
