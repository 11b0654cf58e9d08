package models

import (
	"time"

	"github.com/google/uuid"
)

// JoinRequestStatus is the state of a team join request
type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "pending"
	JoinRequestStatusApproved JoinRequestStatus = "approved"
	JoinRequestStatusRejected JoinRequestStatus = "rejected"
)

// IsValid checks if the JoinRequestStatus is valid
func (s JoinRequestStatus) IsValid() bool {
	switch s {
	case JoinRequestStatusPending, JoinRequestStatusApproved, JoinRequestStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed out of s
func (s JoinRequestStatus) IsTerminal() bool {
	return s == JoinRequestStatusApproved || s == JoinRequestStatusRejected
}

// TeamJoinRequest is a user's request to become a member of a team.
// Status leaves pending exactly once.
type TeamJoinRequest struct {
	BaseModel
	TeamID     uuid.UUID         `json:"team_id" gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Message    string            `json:"message" gorm:"size:500"`
	Status     JoinRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ResolvedAt *time.Time        `json:"resolved_at,omitempty"`
	ResolvedBy *uuid.UUID        `json:"resolved_by,omitempty" gorm:"type:uuid"`

	// Relationships
	Team *Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for TeamJoinRequest
func (TeamJoinRequest) TableName() string {
	return "team_join_requests"
}
