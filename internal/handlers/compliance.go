// internal/handlers/compliance.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chatnil/compliance-backend/internal/i18n"
	"github.com/chatnil/compliance-backend/internal/models"
	"github.com/chatnil/compliance-backend/internal/services"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// ComplianceHandler exposes the officer-facing review surface: scoring,
// decisions, the appeal queue, the audit trail and the dashboard.
type ComplianceHandler struct {
	dealService   *services.DealService
	appealService *services.AppealService
	auditService  *services.AuditService
}

func NewComplianceHandler(dealService *services.DealService, appealService *services.AppealService, auditService *services.AuditService) *ComplianceHandler {
	return &ComplianceHandler{
		dealService:   dealService,
		appealService: appealService,
		auditService:  auditService,
	}
}

// ScoreDeal runs the score calculator against the deal
// POST /compliance/deals/:id/score
func (h *ComplianceHandler) ScoreDeal(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	score, err := h.dealService.ScoreDeal(dealID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"score": score})
}

// Decide records the compliance decision on a deal
// POST /compliance/deals/:id/decide
func (h *ComplianceHandler) Decide(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	deal, err := h.dealService.Decide(dealID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealDecided),
		"deal":    deal,
	})
}

// GetReviewQueue lists deals waiting for a decision
// GET /compliance/queue
func (h *ComplianceHandler) GetReviewQueue(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	if params.Status == "" {
		params.Status = string(models.DealStatusPendingReview)
	}

	result, err := h.dealService.ListDeals(userID, role, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GetAppealsQueue lists unresolved appeals, oldest first
// GET /compliance/appeals
func (h *ComplianceHandler) GetAppealsQueue(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	result, err := h.appealService.Queue(params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GetAppeal returns one appeal with its deal and athlete
// GET /compliance/appeals/:id
func (h *ComplianceHandler) GetAppeal(c *gin.Context) {
	appealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	appeal, err := h.appealService.GetAppeal(appealID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"appeal": appeal})
}

// StartAppealReview marks an appeal as under review
// POST /compliance/appeals/:id/review
func (h *ComplianceHandler) StartAppealReview(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	appealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	appeal, err := h.appealService.StartReview(appealID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"appeal": appeal})
}

// ResolveAppeal closes an appeal, applying any changed decision
// POST /compliance/appeals/:id/resolve
func (h *ComplianceHandler) ResolveAppeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	appealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ResolveAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	appeal, err := h.appealService.Resolve(appealID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAppealResolved),
		"appeal":  appeal,
	})
}

// GetAuditLog returns the audit trail for a deal or an athlete
// GET /compliance/audit?deal_id=...|athlete_id=...
func (h *ComplianceHandler) GetAuditLog(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	if dealIDStr := c.Query("deal_id"); dealIDStr != "" {
		dealID, err := uuid.Parse(dealIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid deal_id", nil)
			return
		}
		result, err := h.auditService.ForDeal(dealID, params)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.PaginatedResponse(c, *result)
		return
	}

	if athleteIDStr := c.Query("athlete_id"); athleteIDStr != "" {
		athleteID, err := uuid.Parse(athleteIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid athlete_id", nil)
			return
		}
		result, err := h.auditService.ForAthlete(athleteID, params)
		if err != nil {
			respondError(c, err)
			return
		}
		utils.PaginatedResponse(c, *result)
		return
	}

	utils.BadRequestResponse(c, "deal_id or athlete_id is required", nil)
}

// Overview returns the dashboard counters
// GET /compliance/overview
func (h *ComplianceHandler) Overview(c *gin.Context) {
	stats, err := h.dealService.Overview()
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}
