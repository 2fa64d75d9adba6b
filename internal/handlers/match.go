// internal/handlers/match.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chatnil/compliance-backend/internal/i18n"
	"github.com/chatnil/compliance-backend/internal/services"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// MatchHandler covers brand match invites and the short reconsideration
// window after a decline.
type MatchHandler struct {
	reconsiderService *services.ReconsiderService
}

func NewMatchHandler(reconsiderService *services.ReconsiderService) *MatchHandler {
	return &MatchHandler{reconsiderService: reconsiderService}
}

// GetInvites lists the athlete's match invites
// GET /matches/invites
func (h *MatchHandler) GetInvites(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	invites, err := h.reconsiderService.ListInvites(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"invites": invites})
}

// DeclineInvite turns a pending invite down, opening the reconsideration window
// POST /matches/invites/:id/decline
func (h *MatchHandler) DeclineInvite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	inviteID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request"), err.Error())
		return
	}

	invite, err := h.reconsiderService.DeclineInvite(inviteID, userID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyMatchDeclined),
		"invite":  invite,
	})
}

// ReconsiderInvite reopens a declined invite inside the window
// POST /matches/invites/:id/reconsider
func (h *MatchHandler) ReconsiderInvite(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	inviteID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	invite, err := h.reconsiderService.Reconsider(inviteID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyMatchReconsidered),
		"invite":  invite,
	})
}
