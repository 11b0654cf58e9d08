package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"halisaha-backend/internal/api/handlers"
	"halisaha-backend/internal/mocks"
	"halisaha-backend/internal/notify"
	"halisaha-backend/internal/service"
	"halisaha-backend/internal/testutils"

	apperrors "halisaha-backend/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type NotificationHandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *mocks.MockNotificationServiceInterface
	hub         *notify.Hub
	handler     *handlers.NotificationHandler
	httpSuite   *testutils.HTTPTestSuite
	callerID    uuid.UUID
}

func (suite *NotificationHandlerTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockService = mocks.NewMockNotificationServiceInterface(suite.ctrl)
	suite.hub = notify.NewHub(8, time.Second)
	suite.handler = handlers.NewNotificationHandler(suite.mockService, suite.hub, []string{"http://localhost:3000"})
	suite.callerID = uuid.New()

	suite.httpSuite = testutils.SetupHTTPTest()
	v1 := suite.httpSuite.Router.Group("/api/v1")
	v1.Use(testutils.AuthenticateAs(suite.callerID))
	v1.GET("/notifications", suite.handler.ListNotifications)
	v1.GET("/notifications/ws", suite.handler.Stream)
}

func (suite *NotificationHandlerTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *NotificationHandlerTestSuite) TestListNotifications() {
	suite.T().Run("Defaults", func(t *testing.T) {
		suite.mockService.EXPECT().
			ListForUser(gomock.Any(), gomock.Eq(service.NewCaller(suite.callerID)), false, 0, 0).
			Return(&service.NotificationListResponse{
				Notifications: []service.NotificationResponse{{ID: uuid.New(), Title: "New join request"}},
				Total:         1,
				Limit:         20,
			}, nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/notifications", nil)

		var response service.NotificationListResponse
		testutils.AssertJSONResponse(t, recorder, http.StatusOK, &response)
		assert.Equal(t, int64(1), response.Total)
		assert.Equal(t, 20, response.Limit)
	})

	suite.T().Run("Unread page", func(t *testing.T) {
		suite.mockService.EXPECT().
			ListForUser(gomock.Any(), gomock.Any(), true, 5, 10).
			Return(&service.NotificationListResponse{Notifications: []service.NotificationResponse{}, Limit: 5, Offset: 10}, nil)

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/notifications?unread=true&limit=5&offset=10", nil)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	suite.T().Run("Invalid limit", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/notifications?limit=ten", nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "Invalid limit parameter")
	})

	suite.T().Run("Invalid unread", func(t *testing.T) {
		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/notifications?unread=maybe", nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "Invalid unread parameter")
	})

	suite.T().Run("Out of range limit", func(t *testing.T) {
		suite.mockService.EXPECT().
			ListForUser(gomock.Any(), gomock.Any(), false, 500, 0).
			Return(nil, apperrors.NewValidationError("limit", "must be between 1 and 100"))

		recorder := suite.httpSuite.MakeRequest(http.MethodGet, "/api/v1/notifications?limit=500", nil)

		testutils.AssertErrorResponse(t, recorder, http.StatusBadRequest, "limit")
	})
}

func (suite *NotificationHandlerTestSuite) TestStreamDeliversPublishedNotifications() {
	server := httptest.NewServer(suite.httpSuite.Router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/notifications/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	suite.Require().NoError(err)
	defer conn.Close()

	suite.Require().Eventually(func() bool { return suite.hub.ConnectionCount(suite.callerID) == 1 }, 2*time.Second, 10*time.Millisecond)

	delivered := suite.hub.Publish(suite.callerID, []byte(`{"type":"team_join"}`))
	suite.Equal(1, delivered)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	suite.Require().NoError(err)
	suite.JSONEq(`{"type":"team_join"}`, string(msg))
}

func (suite *NotificationHandlerTestSuite) TestStreamRejectsForeignOrigin() {
	server := httptest.NewServer(suite.httpSuite.Router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/notifications/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	suite.Require().Error(err)
	suite.Require().NotNil(resp)
	suite.Equal(http.StatusForbidden, resp.StatusCode)
	suite.Equal(0, suite.hub.ConnectionCount(suite.callerID))
}

func TestStreamRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := handlers.NewNotificationHandler(nil, notify.NewHub(1, time.Second), nil)
	router := gin.New()
	router.GET("/ws", handler.Stream)

	server := httptest.NewServer(router)
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNotificationHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationHandlerTestSuite))
}
