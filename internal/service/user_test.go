package service_test

import (
	"context"
	"testing"

	"halisaha-backend/internal/database/models"
	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/mocks"
	"halisaha-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	ctrl        *gomock.Controller
	mockRepo    *mocks.MockUserRepositoryInterface
	userService *service.UserService
	userID      uuid.UUID
}

// SetupTest sets up the test suite
func (suite *UserServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.userService = service.NewUserService(suite.mockRepo, validator.New())
	suite.userID = uuid.New()
}

// TearDownTest cleans up after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *UserServiceTestSuite) TestRegisterNewProfileDefaultsToPlayer() {
	suite.mockRepo.EXPECT().GetByTag(gomock.Any(), "emre10").Return(nil, gorm.ErrRecordNotFound)
	suite.mockRepo.EXPECT().GetByID(gomock.Any(), suite.userID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user *models.User) error {
			suite.Equal(suite.userID, user.ID)
			return nil
		})

	response, err := suite.userService.UpsertProfile(suite.ctx, service.NewCaller(suite.userID), &service.UpsertProfileRequest{
		FullName: "Emre Yılmaz",
		Tag:      "emre10",
	})

	suite.Require().NoError(err)
	suite.Equal([]string{"player"}, response.Roles)
	suite.Equal("emre10", response.Tag)
}

func (suite *UserServiceTestSuite) TestUpdateKeepsTeamManagerRole() {
	existing := &models.User{FullName: "Mert", Tag: "mert", Roles: pq.StringArray{"player", "team_manager"}}
	existing.ID = suite.userID

	suite.mockRepo.EXPECT().GetByTag(gomock.Any(), "mert").Return(existing, nil)
	suite.mockRepo.EXPECT().GetByID(gomock.Any(), suite.userID).Return(existing, nil)
	suite.mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)

	response, err := suite.userService.UpsertProfile(suite.ctx, service.NewCaller(suite.userID), &service.UpsertProfileRequest{
		FullName: "Mert Kaya",
		Tag:      "mert",
		Roles:    []string{"field_owner"},
	})

	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"field_owner", "team_manager"}, response.Roles)
	suite.Equal("Mert Kaya", response.FullName)
}

func (suite *UserServiceTestSuite) TestTagTakenByAnotherUser() {
	other := &models.User{Tag: "emre10"}
	other.ID = uuid.New()
	suite.mockRepo.EXPECT().GetByTag(gomock.Any(), "emre10").Return(other, nil)

	_, err := suite.userService.UpsertProfile(suite.ctx, service.NewCaller(suite.userID), &service.UpsertProfileRequest{
		FullName: "Emre",
		Tag:      "emre10",
	})

	suite.ErrorIs(err, apperrors.ErrUserTagExists)
}

func (suite *UserServiceTestSuite) TestTagRaceMapsUniqueViolation() {
	suite.mockRepo.EXPECT().GetByTag(gomock.Any(), "emre10").Return(nil, gorm.ErrRecordNotFound)
	suite.mockRepo.EXPECT().GetByID(gomock.Any(), suite.userID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(gorm.ErrDuplicatedKey)

	_, err := suite.userService.UpsertProfile(suite.ctx, service.NewCaller(suite.userID), &service.UpsertProfileRequest{
		FullName: "Emre",
		Tag:      "emre10",
	})

	suite.True(apperrors.IsAlreadyExists(err))
}

func (suite *UserServiceTestSuite) TestTeamManagerRoleCannotBeClaimed() {
	_, err := suite.userService.UpsertProfile(suite.ctx, service.NewCaller(suite.userID), &service.UpsertProfileRequest{
		FullName: "Emre",
		Tag:      "emre10",
		Roles:    []string{"team_manager"},
	})

	suite.True(apperrors.IsValidation(err))
}

func (suite *UserServiceTestSuite) TestUpsertRequiresCaller() {
	_, err := suite.userService.UpsertProfile(suite.ctx, nil, &service.UpsertProfileRequest{FullName: "Emre", Tag: "emre10"})
	suite.ErrorIs(err, apperrors.ErrUnauthenticated)
}

func (suite *UserServiceTestSuite) TestGetByID() {
	user := &models.User{FullName: "Emre", Tag: "emre10", Roles: pq.StringArray{"player"}}
	user.ID = suite.userID
	suite.mockRepo.EXPECT().GetByID(gomock.Any(), suite.userID).Return(user, nil)

	response, err := suite.userService.GetByID(suite.ctx, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(suite.userID, response.ID)
}

func (suite *UserServiceTestSuite) TestGetByIDNotFound() {
	suite.mockRepo.EXPECT().GetByID(gomock.Any(), suite.userID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.userService.GetByID(suite.ctx, suite.userID)

	suite.ErrorIs(err, apperrors.ErrUserNotFound)
}

// TestUserServiceTestSuite runs the test suite
func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
