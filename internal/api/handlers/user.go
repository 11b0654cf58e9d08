package handlers

import (
	"net/http"

	"halisaha-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for user profiles
type UserHandler struct {
	userService service.UserServiceInterface
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService service.UserServiceInterface) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe handles GET /users/me
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} service.UserResponse "Caller's profile"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 404 {object} ErrorResponse "No profile registered yet"
// @Security BearerAuth
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	caller := callerFrom(c)
	if caller == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), caller.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe handles PUT /users/me
// @Summary Register or update the caller's profile
// @Description Create the caller's profile on first use, or update it. Tags are unique.
// @Tags users
// @Accept json
// @Produce json
// @Param profile body service.UpsertProfileRequest true "Profile data"
// @Success 200 {object} service.UserResponse "Saved profile"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 409 {object} ErrorResponse "Tag already taken"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpsertProfile(c.Request.Context(), callerFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser handles GET /users/:id
// @Summary Get a user's profile
// @Tags users
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Success 200 {object} service.UserResponse "User profile"
// @Failure 400 {object} ErrorResponse "Invalid user ID"
// @Failure 404 {object} ErrorResponse "User not found"
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
