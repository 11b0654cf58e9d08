package handlers

import (
	"net/http"

	"halisaha-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TeamHandler handles HTTP requests for team operations
type TeamHandler struct {
	teamService service.TeamServiceInterface
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService service.TeamServiceInterface) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
	}
}

// CreateTeam handles POST /teams
// @Summary Create a new team
// @Description Create a team managed by the caller. The caller becomes its first member and gains the team_manager role.
// @Tags teams
// @Accept json
// @Produce json
// @Param team body service.CreateTeamRequest true "Team data"
// @Success 201 {object} service.TeamResponse "Successfully created team"
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 404 {object} ErrorResponse "Caller has no profile"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var req service.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), callerFrom(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// GetTeam handles GET /teams/:id
// @Summary Get team details
// @Description Get a team with its manager and roster ordered by join time
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} service.TeamDetailsResponse "Successfully retrieved team"
// @Failure 400 {object} ErrorResponse "Invalid team ID"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	team, err := h.teamService.GetDetails(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// DeleteTeam handles DELETE /teams/:id
// @Summary Delete a team
// @Description Delete a team with its memberships and join requests. Only the team manager may delete it.
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 204 "Team deleted"
// @Failure 400 {object} ErrorResponse "Invalid team ID"
// @Failure 403 {object} ErrorResponse "Caller is not the team manager"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Failure 500 {object} ErrorResponse "Deletion failed or stopped part way"
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), callerFrom(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetUserTeams handles GET /users/:id/teams
// @Summary List a user's teams
// @Description Get the teams a user belongs to, grouped into teams they manage and teams they joined
// @Tags teams
// @Produce json
// @Param id path string true "User ID (UUID)"
// @Success 200 {object} service.UserTeamsResponse "Successfully retrieved teams"
// @Failure 400 {object} ErrorResponse "Invalid user ID"
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /users/{id}/teams [get]
func (h *TeamHandler) GetUserTeams(c *gin.Context) {
	id, ok := parseID(c, "id", "user")
	if !ok {
		return
	}

	teams, err := h.teamService.GetUserTeams(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}
