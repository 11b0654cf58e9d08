package models

import (
	"github.com/lib/pq"
)

// UserRole is a capability a user holds on the platform
type UserRole string

const (
	UserRolePlayer      UserRole = "player"
	UserRoleFieldOwner  UserRole = "field_owner"
	UserRoleTeamManager UserRole = "team_manager"
)

// IsValid checks if the UserRole is known
func (r UserRole) IsValid() bool {
	switch r {
	case UserRolePlayer, UserRoleFieldOwner, UserRoleTeamManager:
		return true
	}
	return false
}

// User is a registered player or field owner. The ID is the identity provider's subject.
type User struct {
	BaseModel
	FullName  string         `json:"full_name" gorm:"not null;size:200" validate:"required,max=200"`
	Tag       string         `json:"tag" gorm:"uniqueIndex:idx_users_tag;not null;size:40" validate:"required,min=3,max=40"`
	Roles     pq.StringArray `json:"roles" gorm:"type:text[];not null;default:'{}'"`
	AvatarURL string         `json:"avatar_url" gorm:"size:500"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// HasRole reports whether the user holds role
func (u *User) HasRole(role UserRole) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// AddRole grants role, returning false if it was already held
func (u *User) AddRole(role UserRole) bool {
	if u.HasRole(role) {
		return false
	}
	u.Roles = append(u.Roles, string(role))
	return true
}
