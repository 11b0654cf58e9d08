package handlers

import (
	"net/http"
	"strconv"

	"halisaha-backend/internal/auth"
	"halisaha-backend/internal/logger"
	"halisaha-backend/internal/notify"
	"halisaha-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NotificationHandler handles HTTP requests for a user's notifications
type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
	hub                 *notify.Hub
	upgrader            websocket.Upgrader
}

// NewNotificationHandler creates a new notification handler.
// Websocket upgrades are accepted from allowedOrigins, or from any origin when it contains "*".
func NewNotificationHandler(notificationService service.NotificationServiceInterface, hub *notify.Hub, allowedOrigins []string) *NotificationHandler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &NotificationHandler{
		notificationService: notificationService,
		hub:                 hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				if _, ok := origins["*"]; ok {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// ListNotifications handles GET /notifications
// @Summary List the caller's notifications
// @Description Get the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Number of notifications to skip"
// @Success 200 {object} service.NotificationListResponse "Notifications"
// @Failure 400 {object} ErrorResponse "Invalid query parameters"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	unreadOnly := false
	if v := c.Query("unread"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unread parameter"})
			return
		}
		unreadOnly = parsed
	}

	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListForUser(c.Request.Context(), callerFrom(c), unreadOnly, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// Stream handles GET /notifications/ws
// @Summary Stream notifications
// @Description Upgrade to a websocket that receives the caller's notifications as they are created. Browsers pass the token in the access_token query parameter.
// @Tags notifications
// @Param access_token query string false "Bearer token for browser clients"
// @Success 101 "Switching protocols"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Security BearerAuth
// @Router /notifications/ws [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		logger.WithContext(c.Request.Context()).WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.hub.Register(userID, conn).Serve()
}

func queryInt(c *gin.Context, name string) (int, bool) {
	v := c.Query(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " parameter"})
		return 0, false
	}
	return n, true
}
