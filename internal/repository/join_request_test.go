//go:build integration
// +build integration

package repository

import (
	"context"
	"testing"
	"time"

	"halisaha-backend/internal/database/models"
	"halisaha-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
)

// JoinRequestRepositoryTestSuite tests the JoinRequestRepository
type JoinRequestRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *JoinRequestRepository
	teams         *TeamRepository
	users         *UserRepository
	factories     *testutils.FactorySet
	ctx           context.Context
	manager       *models.User
	player        *models.User
	team          *models.Team
}

// SetupSuite runs before all tests in the suite
func (suite *JoinRequestRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	db := suite.baseTestSuite.DB
	suite.repo = NewJoinRequestRepository(db)
	suite.teams = NewTeamRepository(db)
	suite.users = NewUserRepository(db)
	suite.factories = testutils.NewFactorySet()
	suite.ctx = context.Background()
}

// TearDownSuite runs after all tests in the suite
func (suite *JoinRequestRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest creates a manager, a team and a prospective player for each test
func (suite *JoinRequestRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	suite.manager = suite.factories.User.Create()
	suite.Require().NoError(suite.users.Create(suite.ctx, suite.manager))
	suite.player = suite.factories.User.Create()
	suite.Require().NoError(suite.users.Create(suite.ctx, suite.player))

	suite.team = suite.factories.Team.WithManager(suite.manager.ID)
	suite.Require().NoError(suite.teams.Create(suite.ctx, suite.team))
}

func (suite *JoinRequestRepositoryTestSuite) createPending() *models.TeamJoinRequest {
	request := suite.factories.JoinRequest.Create(suite.team.ID, suite.player.ID)
	suite.Require().NoError(suite.repo.Create(suite.ctx, request))
	return request
}

// TestCreateAndGetWithRelations tests creating a request and loading its team and requester
func (suite *JoinRequestRepositoryTestSuite) TestCreateAndGetWithRelations() {
	request := suite.createPending()

	found, err := suite.repo.GetWithRelations(suite.ctx, request.ID)
	suite.Require().NoError(err)
	suite.Equal(models.JoinRequestStatusPending, found.Status)
	suite.Nil(found.ResolvedAt)
	suite.Require().NotNil(found.Team)
	suite.Equal(suite.manager.ID, found.Team.ManagerID)
	suite.Require().NotNil(found.User)
	suite.Equal(suite.player.Tag, found.User.Tag)

	pending, err := suite.repo.HasPending(suite.ctx, suite.team.ID, suite.player.ID)
	suite.Require().NoError(err)
	suite.True(pending)
}

// TestSecondPendingRequestRejected tests the partial unique index on pending requests
func (suite *JoinRequestRepositoryTestSuite) TestSecondPendingRequestRejected() {
	suite.createPending()

	err := suite.repo.Create(suite.ctx, suite.factories.JoinRequest.Create(suite.team.ID, suite.player.ID))
	suite.True(IsUniqueViolation(err))
}

// TestNewRequestAllowedAfterResolution tests that a resolved request does not block a new one
func (suite *JoinRequestRepositoryTestSuite) TestNewRequestAllowedAfterResolution() {
	request := suite.createPending()
	applied, err := suite.repo.TransitionStatus(suite.ctx, request.ID, models.JoinRequestStatusPending, models.JoinRequestStatusRejected, suite.manager.ID, time.Now())
	suite.Require().NoError(err)
	suite.Require().True(applied)

	suite.NoError(suite.repo.Create(suite.ctx, suite.factories.JoinRequest.Create(suite.team.ID, suite.player.ID)))
}

// TestTransitionStatusAppliesOnce tests that only the first resolution of a request takes effect
func (suite *JoinRequestRepositoryTestSuite) TestTransitionStatusAppliesOnce() {
	request := suite.createPending()
	resolvedAt := time.Now().UTC().Truncate(time.Second)

	applied, err := suite.repo.TransitionStatus(suite.ctx, request.ID, models.JoinRequestStatusPending, models.JoinRequestStatusApproved, suite.manager.ID, resolvedAt)
	suite.Require().NoError(err)
	suite.True(applied)

	applied, err = suite.repo.TransitionStatus(suite.ctx, request.ID, models.JoinRequestStatusPending, models.JoinRequestStatusRejected, suite.manager.ID, time.Now())
	suite.Require().NoError(err)
	suite.False(applied)

	found, err := suite.repo.GetByID(suite.ctx, request.ID)
	suite.Require().NoError(err)
	suite.Equal(models.JoinRequestStatusApproved, found.Status)
	suite.Require().NotNil(found.ResolvedBy)
	suite.Equal(suite.manager.ID, *found.ResolvedBy)
	suite.Require().NotNil(found.ResolvedAt)
	suite.True(resolvedAt.Equal(found.ResolvedAt.UTC()))
}

// TestListByTeam tests filtering a team's requests by status
func (suite *JoinRequestRepositoryTestSuite) TestListByTeam() {
	resolved := suite.createPending()
	_, err := suite.repo.TransitionStatus(suite.ctx, resolved.ID, models.JoinRequestStatusPending, models.JoinRequestStatusRejected, suite.manager.ID, time.Now())
	suite.Require().NoError(err)
	pending := suite.createPending()

	onlyPending, err := suite.repo.ListByTeam(suite.ctx, suite.team.ID, models.JoinRequestStatusPending)
	suite.Require().NoError(err)
	suite.Require().Len(onlyPending, 1)
	suite.Equal(pending.ID, onlyPending[0].ID)
	suite.NotNil(onlyPending[0].User)

	all, err := suite.repo.ListByTeam(suite.ctx, suite.team.ID, "")
	suite.Require().NoError(err)
	suite.Len(all, 2)
}

// TestDeleteByTeam tests removing every request of a team
func (suite *JoinRequestRepositoryTestSuite) TestDeleteByTeam() {
	suite.createPending()

	deleted, err := suite.repo.DeleteByTeam(suite.ctx, suite.team.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(1), deleted)

	pending, err := suite.repo.HasPending(suite.ctx, suite.team.ID, suite.player.ID)
	suite.Require().NoError(err)
	suite.False(pending)
}

// TestJoinRequestRepositoryTestSuite runs the test suite
func TestJoinRequestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(JoinRequestRepositoryTestSuite))
}
