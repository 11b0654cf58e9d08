package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"halisaha-backend/internal/auth"
	apperrors "halisaha-backend/internal/errors"
	"halisaha-backend/internal/logger"
	"halisaha-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse represents a standard API error response
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
}

// respondError writes err with the status matching its kind.
// Store failures are logged and reported without their cause.
func respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsAuthentication(err):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperrors.IsAuthorization(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperrors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperrors.IsConflict(err), apperrors.IsAlreadyExists(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.WithContext(c.Request.Context()).WithError(err).Error("request failed")

		var partial *apperrors.PartialFailureError
		if errors.As(err, &partial) {
			msg := fmt.Sprintf("%s failed after: %s", partial.Failed, strings.Join(partial.Completed, ", "))
			c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// callerFrom returns the authenticated caller, or nil when the request carries none
func callerFrom(c *gin.Context) *service.Caller {
	userID, ok := auth.GetUserID(c)
	if !ok {
		return nil
	}
	return service.NewCaller(userID)
}

// parseID reads a UUID path parameter, writing a 400 response when it is malformed
func parseID(c *gin.Context, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + label + " ID"})
		return uuid.Nil, false
	}
	return id, true
}
