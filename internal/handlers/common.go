// internal/handlers/common.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chatnil/compliance-backend/internal/models"
	"github.com/chatnil/compliance-backend/internal/services"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// respondError maps domain error codes onto HTTP statuses. Anything without
// a domain code is a 500.
func respondError(c *gin.Context, err error) {
	de, ok := services.AsDomainError(err)
	if !ok {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	status := http.StatusBadRequest
	switch de.Code {
	case services.CodeNotFound:
		status = http.StatusNotFound
	case services.CodeValidation:
		status = http.StatusBadRequest
	case services.CodeInvalidTransition, services.CodeAlreadyExists, services.CodeConcurrentModification:
		status = http.StatusConflict
	case services.CodeWindowExpired:
		status = http.StatusGone
	}

	utils.ErrorResponse(c, status, de.Code, de.Message, nil)
}

// currentUser pulls the authenticated user's ID and role from the context.
func currentUser(c *gin.Context) (uuid.UUID, models.UserRole, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, "", false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", false
	}

	roleStr, _ := utils.GetUserRoleFromContext(c)
	return userID, models.UserRole(roleStr), true
}

// pathUUID parses a :param path segment as a UUID.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
