package testutils

import (
	"fmt"
	"time"

	"halisaha-backend/internal/database/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// UserFactory provides methods to create test User data
type UserFactory struct {
	seq int
}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with default values and a unique tag
func (f *UserFactory) Create() *models.User {
	f.seq++
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FullName: fmt.Sprintf("Test Player %d", f.seq),
		Tag:      fmt.Sprintf("player%d-%s", f.seq, uuid.NewString()[:8]),
		Roles:    pq.StringArray{string(models.UserRolePlayer)},
	}
}

// WithTag sets a custom tag for the user
func (f *UserFactory) WithTag(tag string) *models.User {
	user := f.Create()
	user.Tag = tag
	return user
}

// WithRoles sets the roles held by the user
func (f *UserFactory) WithRoles(roles ...models.UserRole) *models.User {
	user := f.Create()
	user.Roles = pq.StringArray{}
	for _, r := range roles {
		user.Roles = append(user.Roles, string(r))
	}
	return user
}

// TeamFactory provides methods to create test Team data
type TeamFactory struct{}

// NewTeamFactory creates a new TeamFactory
func NewTeamFactory() *TeamFactory {
	return &TeamFactory{}
}

// Create creates a test Team with default values
func (f *TeamFactory) Create() *models.Team {
	return &models.Team{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Moda FC",
		Description: "Sunday league squad",
		ManagerID:   uuid.New(),
	}
}

// WithManager sets the manager of the team
func (f *TeamFactory) WithManager(managerID uuid.UUID) *models.Team {
	team := f.Create()
	team.ManagerID = managerID
	return team
}

// WithMaxPlayers creates a team managed by managerID that holds at most maxPlayers members
func (f *TeamFactory) WithMaxPlayers(managerID uuid.UUID, maxPlayers int) *models.Team {
	team := f.WithManager(managerID)
	team.MaxPlayers = maxPlayers
	return team
}

// TeamMemberFactory provides methods to create test TeamMember data
type TeamMemberFactory struct{}

// NewTeamMemberFactory creates a new TeamMemberFactory
func NewTeamMemberFactory() *TeamMemberFactory {
	return &TeamMemberFactory{}
}

// Create creates a membership of userID in teamID
func (f *TeamMemberFactory) Create(teamID, userID uuid.UUID) *models.TeamMember {
	return &models.TeamMember{
		TeamID:   teamID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
}

// JoinRequestFactory provides methods to create test TeamJoinRequest data
type JoinRequestFactory struct{}

// NewJoinRequestFactory creates a new JoinRequestFactory
func NewJoinRequestFactory() *JoinRequestFactory {
	return &JoinRequestFactory{}
}

// Create creates a pending request of userID to join teamID
func (f *JoinRequestFactory) Create(teamID, userID uuid.UUID) *models.TeamJoinRequest {
	return &models.TeamJoinRequest{
		TeamID:  teamID,
		UserID:  userID,
		Message: "I can play anywhere",
		Status:  models.JoinRequestStatusPending,
	}
}

// NotificationFactory provides methods to create test Notification data
type NotificationFactory struct{}

// NewNotificationFactory creates a new NotificationFactory
func NewNotificationFactory() *NotificationFactory {
	return &NotificationFactory{}
}

// Create creates a team_join notification addressed to userID
func (f *NotificationFactory) Create(userID uuid.UUID) *models.Notification {
	return &models.Notification{
		UserID:  userID,
		Title:   "Join request approved",
		Message: "Your request to join Moda FC was approved. Welcome to the squad!",
		Type:    models.NotificationTypeTeamJoin,
	}
}

// FactorySet provides access to all factories
type FactorySet struct {
	User         *UserFactory
	Team         *TeamFactory
	TeamMember   *TeamMemberFactory
	JoinRequest  *JoinRequestFactory
	Notification *NotificationFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:         NewUserFactory(),
		Team:         NewTeamFactory(),
		TeamMember:   NewTeamMemberFactory(),
		JoinRequest:  NewJoinRequestFactory(),
		Notification: NewNotificationFactory(),
	}
}
