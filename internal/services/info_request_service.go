// internal/services/info_request_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/models"
)

// InfoRequestService manages the clarification requests a reviewer attaches
// to a deal. Requests are always created by the decision that needs them,
// never reconstructed after the fact.
type InfoRequestService struct {
	db *gorm.DB
}

func NewInfoRequestService(db *gorm.DB) *InfoRequestService {
	return &InfoRequestService{db: db}
}

// CreateRequest opens a pending request inside the caller's transaction.
func (s *InfoRequestService) CreateRequest(tx *gorm.DB, deal *models.Deal, requestedBy uuid.UUID, requestType, description string) (*models.InfoRequestRecord, error) {
	if description == "" {
		return nil, NewValidationError("an information request needs a description")
	}
	if requestType == "" {
		requestType = "clarification"
	}

	request := &models.InfoRequestRecord{
		DealID:      deal.ID,
		RequestedBy: &requestedBy,
		RequestType: requestType,
		Description: description,
		Status:      models.InfoRequestStatusPending,
	}
	if err := tx.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create info request: %w", err)
	}
	return request, nil
}

// Respond records the athlete's answer on one request. A request accepts a
// single response; answering twice fails.
func (s *InfoRequestService) Respond(tx *gorm.DB, deal *models.Deal, requestID uuid.UUID, responseText string, documents []string) error {
	var request models.InfoRequestRecord
	err := tx.Where("id = ? AND deal_id = ?", requestID, deal.ID).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFound("info request")
		}
		return fmt.Errorf("failed to load info request: %w", err)
	}

	if request.Status != models.InfoRequestStatusPending {
		return NewAlreadyExists("the info request was already answered")
	}

	now := time.Now()
	request.Status = models.InfoRequestStatusResponded
	request.ResponseText = responseText
	request.ResponseDocuments = models.StringList(documents)
	request.RespondedAt = &now

	if err := tx.Save(&request).Error; err != nil {
		return fmt.Errorf("failed to save info response: %w", err)
	}
	return nil
}

// AllResolved reports whether the deal has no pending requests left.
func (s *InfoRequestService) AllResolved(tx *gorm.DB, dealID uuid.UUID) (bool, error) {
	var pending int64
	err := tx.Model(&models.InfoRequestRecord{}).
		Where("deal_id = ? AND status = ?", dealID, models.InfoRequestStatusPending).
		Count(&pending).Error
	if err != nil {
		return false, fmt.Errorf("failed to count pending info requests: %w", err)
	}
	return pending == 0, nil
}

// ListForDeal returns the deal's requests, oldest first.
func (s *InfoRequestService) ListForDeal(dealID uuid.UUID) ([]models.InfoRequestRecord, error) {
	var requests []models.InfoRequestRecord
	err := s.db.Where("deal_id = ?", dealID).Order("created_at ASC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list info requests: %w", err)
	}
	return requests, nil
}
