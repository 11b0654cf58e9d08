package handlers

import (
	"net/http"

	"halisaha-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// JoinRequestHandler handles HTTP requests for team join requests
type JoinRequestHandler struct {
	joinRequestService service.JoinRequestServiceInterface
}

// NewJoinRequestHandler creates a new join request handler
func NewJoinRequestHandler(joinRequestService service.JoinRequestServiceInterface) *JoinRequestHandler {
	return &JoinRequestHandler{
		joinRequestService: joinRequestService,
	}
}

// SubmitJoinRequest handles POST /teams/:id/join-requests
// @Summary Request to join a team
// @Description Create a pending join request for the caller and notify the team manager. The body is optional.
// @Tags join-requests
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param request body service.SubmitJoinRequestRequest false "Optional message to the manager"
// @Success 201 {object} service.JoinRequestResponse "Join request created"
// @Failure 400 {object} ErrorResponse "Invalid request"
// @Failure 401 {object} ErrorResponse "Authentication required"
// @Failure 404 {object} ErrorResponse "Team or caller profile not found"
// @Failure 409 {object} ErrorResponse "Already a member or a request is pending"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams/{id}/join-requests [post]
func (h *JoinRequestHandler) SubmitJoinRequest(c *gin.Context) {
	teamID, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	var req service.SubmitJoinRequestRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	request, err := h.joinRequestService.Submit(c.Request.Context(), callerFrom(c), teamID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListJoinRequests handles GET /teams/:id/join-requests
// @Summary List a team's join requests
// @Description List join requests of a team, newest first. Only the team manager may list them.
// @Tags join-requests
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param status query string false "pending (default), approved, rejected or all"
// @Success 200 {array} service.JoinRequestResponse "Join requests"
// @Failure 400 {object} ErrorResponse "Invalid team ID or status"
// @Failure 403 {object} ErrorResponse "Caller is not the team manager"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /teams/{id}/join-requests [get]
func (h *JoinRequestHandler) ListJoinRequests(c *gin.Context) {
	teamID, ok := parseID(c, "id", "team")
	if !ok {
		return
	}

	requests, err := h.joinRequestService.ListByTeam(c.Request.Context(), callerFrom(c), teamID, c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ApproveJoinRequest handles POST /join-requests/:id/approve
// @Summary Approve a join request
// @Description Approve a pending request: the requester becomes a member and is notified
// @Tags join-requests
// @Produce json
// @Param id path string true "Join request ID (UUID)"
// @Success 200 {object} service.JoinRequestResponse "Request approved"
// @Failure 400 {object} ErrorResponse "Invalid join request ID"
// @Failure 403 {object} ErrorResponse "Caller is not the team manager"
// @Failure 404 {object} ErrorResponse "Join request not found"
// @Failure 409 {object} ErrorResponse "Already resolved or team full"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /join-requests/{id}/approve [post]
func (h *JoinRequestHandler) ApproveJoinRequest(c *gin.Context) {
	h.resolve(c, true)
}

// RejectJoinRequest handles POST /join-requests/:id/reject
// @Summary Reject a join request
// @Description Reject a pending request and notify the requester
// @Tags join-requests
// @Produce json
// @Param id path string true "Join request ID (UUID)"
// @Success 200 {object} service.JoinRequestResponse "Request rejected"
// @Failure 400 {object} ErrorResponse "Invalid join request ID"
// @Failure 403 {object} ErrorResponse "Caller is not the team manager"
// @Failure 404 {object} ErrorResponse "Join request not found"
// @Failure 409 {object} ErrorResponse "Already resolved"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /join-requests/{id}/reject [post]
func (h *JoinRequestHandler) RejectJoinRequest(c *gin.Context) {
	h.resolve(c, false)
}

func (h *JoinRequestHandler) resolve(c *gin.Context, approve bool) {
	requestID, ok := parseID(c, "id", "join request")
	if !ok {
		return
	}

	request, err := h.joinRequestService.Resolve(c.Request.Context(), callerFrom(c), requestID, approve)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, request)
}
