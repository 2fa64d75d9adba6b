// internal/services/appeal_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/database"
	"github.com/chatnil/compliance-backend/internal/models"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// AppealService handles the one-shot challenge an athlete can raise against
// an adverse decision. Resolutions that change the outcome are routed back
// through the deal lifecycle so scoring and audit stay consistent.
type AppealService struct {
	db            *gorm.DB
	cfg           *config.Config
	audit         *AuditService
	deals         *DealService
	notifications *NotificationService
}

func NewAppealService(db *gorm.DB, cfg *config.Config, audit *AuditService, deals *DealService, notifications *NotificationService) *AppealService {
	return &AppealService{
		db:            db,
		cfg:           cfg,
		audit:         audit,
		deals:         deals,
		notifications: notifications,
	}
}

type SubmitAppealRequest struct {
	Reason            string   `json:"reason" validate:"required"`
	AdditionalContext string   `json:"additional_context,omitempty"`
	Documents         []string `json:"documents,omitempty"`
}

type ResolveAppealRequest struct {
	Resolution      models.AppealResolution    `json:"resolution" validate:"required"`
	ResolutionNotes string                     `json:"resolution_notes,omitempty"`
	InternalNotes   string                     `json:"internal_notes,omitempty"`
	NewDecision     *models.ComplianceDecision `json:"new_decision,omitempty"`
	Override        *OverrideRequest           `json:"override,omitempty"`
}

// AppealQueueItem decorates an appeal with its derived age for the queue
// view; days open are never stored.
type AppealQueueItem struct {
	models.AppealRecord
	DaysOpen int `json:"days_open"`
}

// CanAppeal checks decision, open-appeal and window constraints. The window
// boundary is inclusive: a submission at exactly decidedAt + windowDays is
// accepted.
func (s *AppealService) CanAppeal(deal *models.Deal, now time.Time) error {
	if !deal.Appealable() {
		return NewInvalidTransition(string(deal.Status), "appeal")
	}
	if deal.HasActiveAppeal {
		return NewAlreadyExists("an appeal is already open for this deal")
	}
	if deal.DecisionAt == nil {
		return NewInvalidTransition(string(deal.Status), "appeal")
	}

	window := time.Duration(s.cfg.Compliance.AppealWindowDays) * 24 * time.Hour
	if !WindowOpen(*deal.DecisionAt, window, now) {
		return NewWindowExpired("the appeal window closed %s after the decision", window)
	}
	return nil
}

// Submit files an appeal against the deal's current decision.
func (s *AppealService) Submit(dealID, athleteID uuid.UUID, req *SubmitAppealRequest) (*models.AppealRecord, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if len(req.Reason) < s.cfg.Compliance.AppealReasonMin {
		return nil, NewValidationError("appeal reason must be at least %d characters", s.cfg.Compliance.AppealReasonMin)
	}

	var appeal *models.AppealRecord
	var deal *models.Deal
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		deal, err = s.deals.lockDeal(tx, dealID)
		if err != nil {
			return err
		}
		if deal.AthleteID != athleteID {
			return NewNotFound("deal")
		}

		now := time.Now()
		if err := s.CanAppeal(deal, now); err != nil {
			return err
		}

		appeal = &models.AppealRecord{
			DealID:             deal.ID,
			AthleteID:          athleteID,
			OriginalDecision:   *deal.ComplianceDecision,
			OriginalDecisionAt: deal.DecisionAt,
			Reason:             req.Reason,
			AdditionalContext:  req.AdditionalContext,
			AppealDocuments:    models.StringList(req.Documents),
			SubmittedAt:        now,
			Status:             models.AppealStatusSubmitted,
		}
		if err := tx.Create(appeal).Error; err != nil {
			return fmt.Errorf("failed to create appeal: %w", err)
		}

		deal.HasActiveAppeal = true
		deal.AppealCount++
		if err := s.deals.saveDealLocked(tx, deal); err != nil {
			return err
		}

		return s.audit.Record(tx, AuditAppealSubmitted, &deal.ID, &athleteID, &athleteID, models.JSONB{
			"appeal_id":         appeal.ID.String(),
			"original_decision": string(appeal.OriginalDecision),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		go func() {
			if err := s.notifications.NotifyAppealSubmitted(appeal, deal); err != nil {
				logrus.WithError(err).Warn("Failed to notify officers of appeal")
			}
		}()
	}
	return appeal, nil
}

// Queue returns unresolved appeals oldest first, so the longest-waiting
// athlete is always at the top.
func (s *AppealService) Queue(params utils.PaginationParams) (*utils.PaginationResult, error) {
	var appeals []models.AppealRecord
	var total int64

	q := s.db.Model(&models.AppealRecord{}).
		Where("status IN ?", []models.AppealStatus{models.AppealStatusSubmitted, models.AppealStatusUnderReview})
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count appeals: %w", err)
	}

	err := q.Preload("Deal").Preload("Athlete").
		Order("submitted_at ASC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&appeals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appeals: %w", err)
	}

	now := time.Now()
	items := make([]AppealQueueItem, 0, len(appeals))
	for _, a := range appeals {
		items = append(items, AppealQueueItem{AppealRecord: a, DaysOpen: a.DaysOpen(now)})
	}

	result := utils.CreatePaginationResult(items, total, params)
	return &result, nil
}

// StartReview marks the appeal as being worked on.
func (s *AppealService) StartReview(appealID, officerID uuid.UUID) (*models.AppealRecord, error) {
	var appeal *models.AppealRecord
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		appeal, err = s.lockAppeal(tx, appealID)
		if err != nil {
			return err
		}
		if appeal.Status != models.AppealStatusSubmitted {
			return NewInvalidTransition(string(appeal.Status), "start reviewing")
		}

		appeal.Status = models.AppealStatusUnderReview
		if err := tx.Save(appeal).Error; err != nil {
			return fmt.Errorf("failed to update appeal: %w", err)
		}
		return s.audit.Record(tx, AuditAppealUnderReview, &appeal.DealID, &appeal.AthleteID, &officerID, models.JSONB{
			"appeal_id": appeal.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return appeal, nil
}

// Resolve closes the appeal. Upheld keeps the original outcome and only
// clears the open-appeal flag; modified and reversed carry a new decision
// that is applied through the deal lifecycle in the same transaction.
func (s *AppealService) Resolve(appealID, officerID uuid.UUID, req *ResolveAppealRequest) (*models.AppealRecord, error) {
	switch req.Resolution {
	case models.AppealResolutionUpheld, models.AppealResolutionModified, models.AppealResolutionReversed:
	default:
		return nil, NewValidationError("unknown resolution %q", req.Resolution)
	}
	if req.Resolution != models.AppealResolutionUpheld && req.NewDecision == nil {
		return nil, NewValidationError("a %s resolution needs a new decision", req.Resolution)
	}

	var appeal *models.AppealRecord
	var deal *models.Deal
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		appeal, err = s.lockAppeal(tx, appealID)
		if err != nil {
			return err
		}
		if appeal.Status == models.AppealStatusResolved {
			return NewAlreadyExists("the appeal was already resolved")
		}

		if req.Resolution == models.AppealResolutionUpheld {
			deal, err = s.deals.lockDeal(tx, appeal.DealID)
			if err != nil {
				return err
			}
			deal.HasActiveAppeal = false
			if err := s.deals.saveDealLocked(tx, deal); err != nil {
				return err
			}
		} else {
			deal, err = s.deals.ApplyAppealDecision(tx, appeal.DealID, officerID, &DecideRequest{
				Decision:      *req.NewDecision,
				AthleteNotes:  req.ResolutionNotes,
				InternalNotes: req.InternalNotes,
				Override:      req.Override,
			})
			if err != nil {
				return err
			}
		}

		now := time.Now()
		resolution := req.Resolution
		appeal.Status = models.AppealStatusResolved
		appeal.Resolution = &resolution
		appeal.NewDecision = req.NewDecision
		appeal.ResolutionNotes = req.ResolutionNotes
		appeal.ResolutionInternalNotes = req.InternalNotes
		appeal.ResolvedBy = &officerID
		appeal.ResolvedAt = &now
		if err := tx.Save(appeal).Error; err != nil {
			return fmt.Errorf("failed to resolve appeal: %w", err)
		}

		details := models.JSONB{
			"appeal_id":  appeal.ID.String(),
			"resolution": string(resolution),
		}
		if req.NewDecision != nil {
			details["new_decision"] = string(*req.NewDecision)
		}
		return s.audit.Record(tx, AuditAppealResolved, &appeal.DealID, &appeal.AthleteID, &officerID, details)
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		go func() {
			if err := s.notifications.NotifyAppealResolved(appeal, deal); err != nil {
				logrus.WithError(err).Warn("Failed to notify athlete of appeal resolution")
			}
		}()
	}
	return appeal, nil
}

func (s *AppealService) GetAppeal(appealID uuid.UUID) (*models.AppealRecord, error) {
	var appeal models.AppealRecord
	err := s.db.Preload("Deal").Preload("Athlete").First(&appeal, "id = ?", appealID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("appeal")
		}
		return nil, fmt.Errorf("failed to load appeal: %w", err)
	}
	return &appeal, nil
}

func (s *AppealService) lockAppeal(tx *gorm.DB, appealID uuid.UUID) (*models.AppealRecord, error) {
	var appeal models.AppealRecord
	if err := database.RowLock(tx).First(&appeal, "id = ?", appealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("appeal")
		}
		return nil, fmt.Errorf("failed to lock appeal: %w", err)
	}
	return &appeal, nil
}
