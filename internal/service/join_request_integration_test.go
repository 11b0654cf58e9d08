//go:build integration
// +build integration

package service_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"halisaha-backend/internal/database/models"
	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/notify"
	"halisaha-backend/internal/repository"
	"halisaha-backend/internal/service"
	"halisaha-backend/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
)

func TestMain(m *testing.M) {
	code := m.Run()
	testutils.CleanupSharedContainer()
	os.Exit(code)
}

// JoinRequestWorkflowTestSuite runs the join request workflow against Postgres
type JoinRequestWorkflowTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	factories     *testutils.FactorySet
	ctx           context.Context

	users    *repository.UserRepository
	teams    *repository.TeamRepository
	members  *repository.TeamMemberRepository
	requests *repository.JoinRequestRepository
	service  *service.JoinRequestService

	manager *models.User
	player  *models.User
	team    *models.Team
}

// SetupSuite wires the service to real repositories
func (suite *JoinRequestWorkflowTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	db := suite.baseTestSuite.DB
	suite.factories = testutils.NewFactorySet()
	suite.ctx = context.Background()

	suite.users = repository.NewUserRepository(db)
	suite.teams = repository.NewTeamRepository(db)
	suite.members = repository.NewTeamMemberRepository(db)
	suite.requests = repository.NewJoinRequestRepository(db)

	notifications := service.NewNotificationService(
		repository.NewNotificationRepository(db),
		notify.NewHub(8, time.Minute),
		notify.DefaultTemplates(),
	)
	suite.service = service.NewJoinRequestService(
		repository.NewTransactor(db),
		suite.teams,
		suite.members,
		suite.requests,
		suite.users,
		notifications,
		validator.New(),
	)
}

// TearDownSuite runs after all tests in the suite
func (suite *JoinRequestWorkflowTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest creates a team whose only member is its manager, plus a prospective player
func (suite *JoinRequestWorkflowTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	suite.manager = suite.factories.User.Create()
	suite.Require().NoError(suite.users.Create(suite.ctx, suite.manager))
	suite.player = suite.factories.User.Create()
	suite.Require().NoError(suite.users.Create(suite.ctx, suite.player))

	suite.team = suite.factories.Team.WithManager(suite.manager.ID)
	suite.Require().NoError(suite.teams.Create(suite.ctx, suite.team))
	_, err := suite.members.AddIfAbsent(suite.ctx, suite.factories.TeamMember.Create(suite.team.ID, suite.manager.ID))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.teams.UpdateMemberCount(suite.ctx, suite.team.ID, 1))
}

// TestConcurrentApprovalsAddOneMember tests that racing approvals of one request admit the player once
func (suite *JoinRequestWorkflowTestSuite) TestConcurrentApprovalsAddOneMember() {
	submitted, err := suite.service.Submit(suite.ctx, service.NewCaller(suite.player.ID), suite.team.ID, nil)
	suite.Require().NoError(err)

	const resolvers = 2
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, resolvers)
	)
	for i := 0; i < resolvers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = suite.service.Resolve(suite.ctx, service.NewCaller(suite.manager.ID), submitted.ID, true)
		}(i)
	}
	close(start)
	wg.Wait()

	var succeeded, alreadyResolved int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case apperrors.IsConflict(err):
			suite.ErrorIs(err, apperrors.ErrJoinRequestAlreadyResolved)
			alreadyResolved++
		default:
			suite.Failf("unexpected resolve error", "%v", err)
		}
	}
	suite.Equal(1, succeeded)
	suite.Equal(1, alreadyResolved)

	isMember, err := suite.members.Exists(suite.ctx, suite.team.ID, suite.player.ID)
	suite.Require().NoError(err)
	suite.True(isMember)

	count, err := suite.members.CountByTeam(suite.ctx, suite.team.ID)
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)

	team, err := suite.teams.GetByID(suite.ctx, suite.team.ID)
	suite.Require().NoError(err)
	suite.Equal(2, team.MemberCount)

	request, err := suite.requests.GetByID(suite.ctx, submitted.ID)
	suite.Require().NoError(err)
	suite.Equal(models.JoinRequestStatusApproved, request.Status)
}

// TestSubmitWithoutProfileIsNotFound tests submission by an identity that never registered a profile
func (suite *JoinRequestWorkflowTestSuite) TestSubmitWithoutProfileIsNotFound() {
	stranger := suite.factories.User.Create()

	_, err := suite.service.Submit(suite.ctx, service.NewCaller(stranger.ID), suite.team.ID, nil)

	suite.ErrorIs(err, apperrors.ErrUserNotFound)
	pending, err := suite.requests.HasPending(suite.ctx, suite.team.ID, stranger.ID)
	suite.Require().NoError(err)
	suite.False(pending)
}

func TestJoinRequestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(JoinRequestWorkflowTestSuite))
}
