package models

import (
	"github.com/google/uuid"
)

// Team represents an amateur football team administered by a single manager
type Team struct {
	BaseModel
	Name        string    `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Description string    `json:"description" gorm:"size:500" validate:"max=500"`
	ManagerID   uuid.UUID `json:"manager_id" gorm:"type:uuid;not null;index"`
	MaxPlayers  int       `json:"max_players" gorm:"not null;default:0" validate:"min=0,max=50"` // 0 means unlimited
	MemberCount int       `json:"member_count" gorm:"not null;default:0"`                      // derived from team_members

	// Relationships
	Manager *User        `json:"manager,omitempty" gorm:"foreignKey:ManagerID"`
	Members []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Team
func (Team) TableName() string {
	return "teams"
}

// IsManagedBy reports whether userID is the team's manager
func (t *Team) IsManagedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && t.ManagerID == userID
}

// IsFull reports whether a team holding memberCount members can take no more
func (t *Team) IsFull(memberCount int64) bool {
	return t.MaxPlayers > 0 && memberCount >= int64(t.MaxPlayers)
}
