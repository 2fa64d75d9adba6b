// internal/handlers/deal.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/chatnil/compliance-backend/internal/i18n"
	"github.com/chatnil/compliance-backend/internal/services"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// DealHandler exposes the athlete-facing deal lifecycle: create, submit,
// answer info requests, appeal and resubmit.
type DealHandler struct {
	dealService   *services.DealService
	appealService *services.AppealService
	infoRequests  *services.InfoRequestService
}

func NewDealHandler(dealService *services.DealService, appealService *services.AppealService, infoRequests *services.InfoRequestService) *DealHandler {
	return &DealHandler{
		dealService:   dealService,
		appealService: appealService,
		infoRequests:  infoRequests,
	}
}

// CreateDeal records a new deal, optionally submitting it in the same call
// POST /deals
func (h *DealHandler) CreateDeal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, _, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	deal, err := h.dealService.CreateDeal(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealCreated),
		"deal":    deal,
	})
}

// SubmitDeal moves a draft deal into review
// POST /deals/:id/submit
func (h *DealHandler) SubmitDeal(c *gin.Context) {
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

	deal, err := h.dealService.SubmitDeal(dealID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealSubmitted),
		"deal":    deal,
	})
}

// GetDeals lists deals visible to the caller
// GET /deals
func (h *DealHandler) GetDeals(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	result, err := h.dealService.ListDeals(userID, role, params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, *result)
}

// GetDeal returns one deal with its score, info requests and appeals
// GET /deals/:id
func (h *DealHandler) GetDeal(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.GetDeal(dealID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"deal": deal})
}

// GetScore returns the deal's compliance score breakdown
// GET /deals/:id/score
func (h *DealHandler) GetScore(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	score, err := h.dealService.GetScore(dealID, userID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"score": score})
}

// GetInfoRequests lists the deal's information requests
// GET /deals/:id/info-requests
func (h *DealHandler) GetInfoRequests(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}
	dealID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	// Visibility piggybacks on deal access
	if _, err := h.dealService.GetDeal(dealID, userID, role); err != nil {
		respondError(c, err)
		return
	}

	requests, err := h.infoRequests.ListForDeal(dealID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"info_requests": requests})
}

// RespondToInfo answers one information request
// POST /deals/:id/info-requests/respond
func (h *DealHandler) RespondToInfo(c *gin.Context) {
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

	var req services.RespondInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	deal, err := h.dealService.RespondToInfo(dealID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyInfoRequestResponded),
		"deal":    deal,
	})
}

// SubmitAppeal files an appeal against the deal's decision
// POST /deals/:id/appeal
func (h *DealHandler) SubmitAppeal(c *gin.Context) {
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

	var req services.SubmitAppealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	appeal, err := h.appealService.Submit(dealID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAppealSubmitted),
		"appeal":  appeal,
	})
}

// ResubmitDeal replaces a rejected deal with a revised one
// POST /deals/:id/resubmit
func (h *DealHandler) ResubmitDeal(c *gin.Context) {
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

	var req services.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "request"), err.Error())
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	deal, err := h.dealService.Resubmit(dealID, userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDealResubmitted),
		"deal":    deal,
	})
}
