// internal/services/audit_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/models"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// Audit actions recorded against deals and related workflows.
const (
	AuditDealCreated       = "deal_created"
	AuditDealSubmitted     = "deal_submitted"
	AuditDealScored        = "deal_scored"
	AuditDealApproved      = "deal_approved"
	AuditDealConditional   = "deal_approved_with_conditions"
	AuditDealRejected      = "deal_rejected"
	AuditInfoRequested     = "info_requested"
	AuditInfoResponded     = "info_response_submitted"
	AuditDealResubmitted   = "deal_resubmitted"
	AuditDealSuperseded    = "deal_superseded"
	AuditAppealSubmitted   = "appeal_submitted"
	AuditAppealUnderReview = "appeal_under_review"
	AuditAppealResolved    = "appeal_resolved"
	AuditScoreOverridden   = "score_overridden"
	AuditInviteDeclined    = "match_invite_declined"
	AuditInviteReconsidered = "match_invite_reconsidered"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Record appends an entry using the caller's transaction handle so the
// audit row commits or rolls back with the mutation it describes.
func (s *AuditService) Record(tx *gorm.DB, action string, dealID, athleteID, performedBy *uuid.UUID, details models.JSONB) error {
	entry := &models.AuditLogEntry{
		DealID:      dealID,
		AthleteID:   athleteID,
		Action:      action,
		PerformedBy: performedBy,
		Details:     details,
	}

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit entry %s: %w", action, err)
	}
	return nil
}

// ForDeal returns the deal's trail in chronological order.
func (s *AuditService) ForDeal(dealID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.query(s.db.Where("deal_id = ?", dealID), params)
}

// ForAthlete returns every entry touching the athlete's deals.
func (s *AuditService) ForAthlete(athleteID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	return s.query(s.db.Where("athlete_id = ?", athleteID), params)
}

func (s *AuditService) query(q *gorm.DB, params utils.PaginationParams) (*utils.PaginationResult, error) {
	var entries []models.AuditLogEntry
	var total int64

	q = q.Model(&models.AuditLogEntry{})
	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count audit entries: %w", err)
	}

	err := q.Order("created_at ASC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}

	result := utils.CreatePaginationResult(entries, total, params)
	return &result, nil
}
