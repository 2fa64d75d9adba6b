// internal/handlers/document.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chatnil/compliance-backend/internal/i18n"
	"github.com/chatnil/compliance-backend/internal/services"
	"github.com/chatnil/compliance-backend/internal/utils"
)

const downloadURLTTL = 15 * time.Minute

// DocumentHandler uploads supporting documents (contracts, consent forms,
// appeal attachments) and hands back the stored URL.
type DocumentHandler struct {
	storageService *services.StorageService
}

func NewDocumentHandler(storageService *services.StorageService) *DocumentHandler {
	return &DocumentHandler{storageService: storageService}
}

// UploadDocument stores one file under the given category
// POST /documents?category=contracts|consent_forms|appeal_documents
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, _, ok := currentUser(c); !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "file"), err.Error())
		return
	}
	defer file.Close()

	category := c.DefaultQuery("category", "documents")
	options := h.storageService.GetDefaultUploadOptions(category)

	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyFileUploadSuccess),
		"document": result,
	})
}

// GetDownloadURL hands out a short-lived presigned link for a stored document
// GET /documents/download?key=
func (h *DocumentHandler) GetDownloadURL(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, _, ok := currentUser(c); !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "key"), nil)
		return
	}

	url, err := h.storageService.GeneratePresignedURL(key, downloadURLTTL)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"url":        url,
		"expires_in": int(downloadURLTTL.Seconds()),
	})
}

// DeleteDocument removes a stored document
// DELETE /documents?key=
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	if _, _, ok := currentUser(c); !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "key"), nil)
		return
	}

	if err := h.storageService.DeleteFile(key); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileDeleted),
	})
}
