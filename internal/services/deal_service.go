// internal/services/deal_service.go
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
	"github.com/chatnil/compliance-backend/internal/scoring"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// DealService owns the deal lifecycle: submission, scoring, the compliance
// decision, info-request re-entry and resubmission. Every mutation runs in
// one transaction with a row lock on the deal and an audit entry.
type DealService struct {
	db            *gorm.DB
	cfg           *config.Config
	audit         *AuditService
	infoRequests  *InfoRequestService
	notifications *NotificationService
}

func NewDealService(db *gorm.DB, cfg *config.Config, audit *AuditService, infoRequests *InfoRequestService, notifications *NotificationService) *DealService {
	return &DealService{
		db:            db,
		cfg:           cfg,
		audit:         audit,
		infoRequests:  infoRequests,
		notifications: notifications,
	}
}

type CreateDealRequest struct {
	DealTitle          string                `json:"deal_title" validate:"required,max=255"`
	ThirdPartyName     string                `json:"third_party_name" validate:"required,max=255"`
	ThirdPartyType     models.ThirdPartyType `json:"third_party_type,omitempty"`
	DealType           models.DealType       `json:"deal_type" validate:"required"`
	BrandCategory      string                `json:"brand_category,omitempty"`
	CompensationAmount float64               `json:"compensation_amount" validate:"required,gt=0"`
	Deliverables       []string              `json:"deliverables,omitempty"`
	StartDate          *time.Time            `json:"start_date,omitempty"`
	EndDate            *time.Time            `json:"end_date,omitempty"`
	ContractURL        string                `json:"contract_url,omitempty"`

	SchoolAffiliated bool `json:"school_affiliated,omitempty"`
	BoosterConnected bool `json:"booster_connected,omitempty"`
	PerformanceBased bool `json:"performance_based,omitempty"`
	EnrollmentTied   bool `json:"enrollment_tied,omitempty"`

	W9Submitted     bool `json:"w9_submitted,omitempty"`
	DisclosureFiled bool `json:"disclosure_filed,omitempty"`
	SchoolApproved  bool `json:"school_approved,omitempty"`

	SubmitNow bool `json:"submit_now,omitempty"`
}

type OverrideRequest struct {
	Score         int    `json:"score"`
	Justification string `json:"justification"`
}

type DecideRequest struct {
	Decision      models.ComplianceDecision `json:"decision" validate:"required"`
	AthleteNotes  string                    `json:"athlete_notes,omitempty"`
	InternalNotes string                    `json:"internal_notes,omitempty"`
	Override      *OverrideRequest          `json:"override,omitempty"`

	// Required when Decision is info_requested
	InfoRequestDescription string `json:"info_request_description,omitempty"`
	InfoRequestType        string `json:"info_request_type,omitempty"`
}

// decisionOutcomes is the single place the decision→status and
// decision→score-color maps live.
var decisionOutcomes = map[models.ComplianceDecision]struct {
	DealStatus  models.DealStatus
	ScoreStatus models.ScoreStatus
	AuditAction string
}{
	models.DecisionApproved:               {models.DealStatusApproved, models.ScoreStatusGreen, AuditDealApproved},
	models.DecisionApprovedWithConditions: {models.DealStatusApprovedConditional, models.ScoreStatusYellow, AuditDealConditional},
	models.DecisionRejected:               {models.DealStatusRejected, models.ScoreStatusRed, AuditDealRejected},
	models.DecisionInfoRequested:          {models.DealStatusInfoRequested, models.ScoreStatusYellow, AuditInfoRequested},
}

func validDealType(t models.DealType) bool {
	switch t {
	case models.DealTypeSocialPost, models.DealTypeAppearance, models.DealTypeEndorsement,
		models.DealTypeBrandAmbassador, models.DealTypeMerchandise, models.DealTypeOther:
		return true
	}
	return false
}

// CreateDeal records a new deal, optionally submitting it for review in the
// same transaction.
func (s *DealService) CreateDeal(athleteID uuid.UUID, req *CreateDealRequest) (*models.Deal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !validDealType(req.DealType) {
		return nil, NewValidationError("unknown deal type %q", req.DealType)
	}
	if req.ThirdPartyType == "" {
		req.ThirdPartyType = models.ThirdPartyUnknown
	}

	deal := &models.Deal{
		AthleteID:          athleteID,
		DealTitle:          req.DealTitle,
		ThirdPartyName:     req.ThirdPartyName,
		ThirdPartyType:     req.ThirdPartyType,
		DealType:           req.DealType,
		BrandCategory:      req.BrandCategory,
		CompensationAmount: req.CompensationAmount,
		Deliverables:       models.StringList(req.Deliverables),
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ContractURL:        req.ContractURL,
		SchoolAffiliated:   req.SchoolAffiliated,
		BoosterConnected:   req.BoosterConnected,
		PerformanceBased:   req.PerformanceBased,
		EnrollmentTied:     req.EnrollmentTied,
		W9Submitted:        req.W9Submitted,
		DisclosureFiled:    req.DisclosureFiled,
		SchoolApproved:     req.SchoolApproved,
		Status:             models.DealStatusDraft,
		Version:            1,
	}
	if req.SubmitNow {
		deal.Status = models.DealStatusPendingReview
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(deal).Error; err != nil {
			return fmt.Errorf("failed to create deal: %w", err)
		}
		if err := s.audit.Record(tx, AuditDealCreated, &deal.ID, &athleteID, &athleteID, models.JSONB{
			"deal_title": deal.DealTitle,
			"status":     string(deal.Status),
		}); err != nil {
			return err
		}
		if req.SubmitNow {
			return s.audit.Record(tx, AuditDealSubmitted, &deal.ID, &athleteID, &athleteID, nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if req.SubmitNow && s.notifications != nil {
		go s.notifySubmitted(deal)
	}
	return deal, nil
}

// SubmitDeal moves a draft into the review queue.
func (s *DealService) SubmitDeal(dealID, athleteID uuid.UUID) (*models.Deal, error) {
	var deal *models.Deal
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		deal, err = s.lockDeal(tx, dealID)
		if err != nil {
			return err
		}
		if deal.AthleteID != athleteID {
			return NewNotFound("deal")
		}
		if deal.Status != models.DealStatusDraft {
			return NewInvalidTransition(string(deal.Status), "submit")
		}

		deal.Status = models.DealStatusPendingReview
		if err := s.saveDealLocked(tx, deal); err != nil {
			return err
		}
		return s.audit.Record(tx, AuditDealSubmitted, &deal.ID, &deal.AthleteID, &athleteID, nil)
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		go s.notifySubmitted(deal)
	}
	return deal, nil
}

// ScoreDeal runs the calculator against the deal's current facts and
// persists the result. Scoring never happens implicitly; this is the only
// path that writes computed dimension scores.
func (s *DealService) ScoreDeal(dealID, actorID uuid.UUID) (*models.ComplianceScore, error) {
	deal, err := s.loadDeal(dealID)
	if err != nil {
		return nil, err
	}

	var athlete models.User
	if err := s.db.First(&athlete, "id = ?", deal.AthleteID).Error; err != nil {
		return nil, fmt.Errorf("failed to load athlete: %w", err)
	}

	now := time.Now()
	rules := scoring.RulesFor(athlete.State)
	result := scoring.Compute(
		scoring.DealFacts{
			DealType:           deal.DealType,
			ThirdPartyType:     deal.ThirdPartyType,
			BrandCategory:      deal.BrandCategory,
			CompensationAmount: deal.CompensationAmount,
			Deliverables:       deal.Deliverables,
			HasContract:        deal.ContractURL != "",
			W9Submitted:        deal.W9Submitted,
			DisclosureFiled:    deal.DisclosureFiled,
			SchoolApproved:     deal.SchoolApproved,
			SchoolAffiliated:   deal.SchoolAffiliated,
			BoosterConnected:   deal.BoosterConnected,
			PerformanceBased:   deal.PerformanceBased,
			EnrollmentTied:     deal.EnrollmentTied,
		},
		scoring.AthleteFacts{
			State:                     athlete.State,
			SchoolLevel:               athlete.SchoolLevel,
			IsMinor:                   athlete.IsMinorAt(now),
			ConsentStatus:             athlete.ConsentStatus,
			FollowerCount:             athlete.FollowerCount,
			EngagementRate:            athlete.EngagementRate,
			Sport:                     athlete.Sport,
			UnderstandsTaxObligations: athlete.UnderstandsTaxObligations,
			HasTaxProfessional:        athlete.HasTaxProfessional,
			TotalEarningsYTD:          athlete.TotalEarningsYTD,
		},
		rules,
	)

	var score *models.ComplianceScore
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		score = &models.ComplianceScore{}
		err := tx.Where("deal_id = ?", deal.ID).First(score).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			score = &models.ComplianceScore{DealID: deal.ID, ScoreVersion: 0}
		} else if err != nil {
			return fmt.Errorf("failed to load score: %w", err)
		}

		score.PolicyScore = result.Policy.Score
		score.DocumentScore = result.Documentation.Score
		score.FMVScore = result.FMV.Score
		score.TaxScore = result.Tax.Score
		score.BrandSafetyScore = result.BrandSafety.Score
		score.GuardianConsentScore = result.GuardianConsent.Score
		score.PolicyNotes = result.Policy.Notes
		score.DocumentNotes = result.Documentation.Notes
		score.FMVNotes = result.FMV.Notes
		score.TaxNotes = result.Tax.Notes
		score.BrandSafetyNotes = result.BrandSafety.Notes
		score.GuardianConsentNotes = result.GuardianConsent.Notes
		score.TotalScore = result.TotalScore
		score.Status = result.Status
		score.ReasonCodes = models.StringList(result.ReasonCodes)
		score.Recommendations = models.StringList(result.Recommendations)
		score.ScoredAt = now
		score.ScoredBy = &actorID
		score.ScoreVersion++

		// A fresh computation supersedes any earlier override
		score.OverrideScore = nil
		score.OverrideJustification = ""
		score.OverrideBy = nil
		score.OverrideAt = nil

		if err := tx.Save(score).Error; err != nil {
			return fmt.Errorf("failed to save score: %w", err)
		}

		return s.audit.Record(tx, AuditDealScored, &deal.ID, &deal.AthleteID, &actorID, models.JSONB{
			"total_score":   result.TotalScore,
			"status":        string(result.Status),
			"blocking":      result.Blocking,
			"score_version": score.ScoreVersion,
		})
	})
	if err != nil {
		return nil, err
	}
	return score, nil
}

// Decide records the compliance officer's verdict. Valid from pending_review
// (the response_submitted transition lands back there before any decision).
func (s *DealService) Decide(dealID, officerID uuid.UUID, req *DecideRequest) (*models.Deal, error) {
	outcome, ok := decisionOutcomes[req.Decision]
	if !ok {
		return nil, NewValidationError("unknown decision %q", req.Decision)
	}
	if err := s.validateDecideRequest(req); err != nil {
		return nil, err
	}

	var deal *models.Deal
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		deal, err = s.lockDeal(tx, dealID)
		if err != nil {
			return err
		}
		if deal.Status != models.DealStatusPendingReview && deal.Status != models.DealStatusResponseSubmitted {
			return NewInvalidTransition(string(deal.Status), "decide")
		}
		return s.applyDecisionLocked(tx, deal, officerID, req, outcome.DealStatus, outcome.ScoreStatus, outcome.AuditAction)
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		go s.notifyDecided(deal, req.Decision, req.AthleteNotes)
	}
	return deal, nil
}

// ApplyAppealDecision replays a decision on a decided deal on behalf of an
// appeal resolution, inside the caller's transaction. The same outcome table
// and score/audit writes apply, so an appeal cannot diverge from a direct
// review.
func (s *DealService) ApplyAppealDecision(tx *gorm.DB, dealID, officerID uuid.UUID, req *DecideRequest) (*models.Deal, error) {
	outcome, ok := decisionOutcomes[req.Decision]
	if !ok || req.Decision == models.DecisionInfoRequested {
		return nil, NewValidationError("appeal decisions must be approved, approved_with_conditions or rejected")
	}
	if err := s.validateDecideRequest(req); err != nil {
		return nil, err
	}

	deal, err := s.lockDeal(tx, dealID)
	if err != nil {
		return nil, err
	}
	if !deal.IsTerminal() || deal.Status == models.DealStatusSuperseded {
		return nil, NewInvalidTransition(string(deal.Status), "apply an appeal decision to")
	}

	if err := s.applyDecisionLocked(tx, deal, officerID, req, outcome.DealStatus, outcome.ScoreStatus, outcome.AuditAction); err != nil {
		return nil, err
	}
	return deal, nil
}

func (s *DealService) validateDecideRequest(req *DecideRequest) error {
	if req.Override != nil {
		if req.Override.Score < 0 || req.Override.Score > 100 {
			return NewValidationError("override score must be between 0 and 100")
		}
		if len(req.Override.Justification) < s.cfg.Compliance.OverrideJustificationMin {
			return NewValidationError("override justification must be at least %d characters", s.cfg.Compliance.OverrideJustificationMin)
		}
	}
	if req.Decision == models.DecisionInfoRequested && req.InfoRequestDescription == "" {
		return NewValidationError("an information request needs a description of what is missing")
	}
	return nil
}

func (s *DealService) applyDecisionLocked(tx *gorm.DB, deal *models.Deal, officerID uuid.UUID, req *DecideRequest, newStatus models.DealStatus, scoreStatus models.ScoreStatus, auditAction string) error {
	var score models.ComplianceScore
	if err := tx.Where("deal_id = ?", deal.ID).First(&score).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewValidationError("the deal must be scored before a decision")
		}
		return fmt.Errorf("failed to load score: %w", err)
	}

	now := time.Now()
	decision := req.Decision
	deal.Status = newStatus
	deal.ComplianceDecision = &decision
	deal.DecisionAt = &now
	deal.DecisionBy = &officerID
	deal.AthleteNotes = req.AthleteNotes
	deal.InternalNotes = req.InternalNotes
	// Any decision settles the open appeal flag
	deal.HasActiveAppeal = false

	if err := s.saveDealLocked(tx, deal); err != nil {
		return err
	}

	score.Status = scoreStatus
	details := models.JSONB{
		"decision": string(decision),
		"notes":    req.AthleteNotes,
	}
	if req.Override != nil {
		overrideScore := req.Override.Score
		score.OverrideScore = &overrideScore
		score.OverrideJustification = req.Override.Justification
		score.OverrideBy = &officerID
		score.OverrideAt = &now
		// The override score carries its own color
		score.Status = scoring.StatusFor(overrideScore)
		details["override_score"] = overrideScore
	} else {
		// A decision without an override retires any earlier one; the
		// status set above must not coexist with a stale override score
		score.OverrideScore = nil
		score.OverrideJustification = ""
		score.OverrideBy = nil
		score.OverrideAt = nil
	}
	details["effective_score"] = score.EffectiveScore()
	if err := tx.Save(&score).Error; err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}

	if req.Override != nil {
		if err := s.audit.Record(tx, AuditScoreOverridden, &deal.ID, &deal.AthleteID, &officerID, models.JSONB{
			"override_score": req.Override.Score,
			"justification":  req.Override.Justification,
		}); err != nil {
			return err
		}
	}

	if decision == models.DecisionInfoRequested {
		if _, err := s.infoRequests.CreateRequest(tx, deal, officerID, req.InfoRequestType, req.InfoRequestDescription); err != nil {
			return err
		}
	}

	return s.audit.Record(tx, auditAction, &deal.ID, &deal.AthleteID, &officerID, details)
}

type RespondInfoRequest struct {
	RequestID    uuid.UUID `json:"request_id" validate:"required"`
	ResponseText string    `json:"response_text" validate:"required"`
	Documents    []string  `json:"documents,omitempty"`
}

// RespondToInfo records the athlete's answer to one information request.
// When no pending requests remain the deal re-enters the review queue.
func (s *DealService) RespondToInfo(dealID, athleteID uuid.UUID, req *RespondInfoRequest) (*models.Deal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var deal *models.Deal
	var requeued bool
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		deal, err = s.lockDeal(tx, dealID)
		if err != nil {
			return err
		}
		if deal.AthleteID != athleteID {
			return NewNotFound("deal")
		}
		if deal.Status != models.DealStatusInfoRequested {
			return NewInvalidTransition(string(deal.Status), "respond to an info request on")
		}

		if err := s.infoRequests.Respond(tx, deal, req.RequestID, req.ResponseText, req.Documents); err != nil {
			return err
		}
		if err := s.audit.Record(tx, AuditInfoResponded, &deal.ID, &deal.AthleteID, &athleteID, models.JSONB{
			"request_id": req.RequestID.String(),
		}); err != nil {
			return err
		}

		// Re-entry is gated on every request being answered
		allResolved, err := s.infoRequests.AllResolved(tx, deal.ID)
		if err != nil {
			return err
		}
		if !allResolved {
			return nil
		}

		requeued = true
		responseSubmitted := models.DecisionResponseSubmitted
		deal.Status = models.DealStatusPendingReview
		deal.ComplianceDecision = &responseSubmitted
		return s.saveDealLocked(tx, deal)
	})
	if err != nil {
		return nil, err
	}

	if requeued && s.notifications != nil {
		go func() {
			if err := s.notifications.NotifyInfoResponse(deal); err != nil {
				logrus.WithError(err).Warn("Failed to notify officers of info response")
			}
		}()
	}
	return deal, nil
}

// Resubmit clones a rejected deal into a fresh pending_review deal and moves
// the old one to the absorbing superseded state. Repeat calls fail: a deal
// can be superseded exactly once.
func (s *DealService) Resubmit(dealID, athleteID uuid.UUID, req *CreateDealRequest) (*models.Deal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if !validDealType(req.DealType) {
		return nil, NewValidationError("unknown deal type %q", req.DealType)
	}
	if req.ThirdPartyType == "" {
		req.ThirdPartyType = models.ThirdPartyUnknown
	}

	var newDeal *models.Deal
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		oldDeal, err := s.lockDeal(tx, dealID)
		if err != nil {
			return err
		}
		if oldDeal.AthleteID != athleteID {
			return NewNotFound("deal")
		}
		if oldDeal.Status == models.DealStatusSuperseded || oldDeal.SupersededByDealID != nil {
			return NewAlreadyExists("the deal was already resubmitted")
		}
		if oldDeal.Status != models.DealStatusRejected {
			return NewInvalidTransition(string(oldDeal.Status), "resubmit")
		}
		if oldDeal.HasActiveAppeal {
			return NewValidationError("resolve the open appeal before resubmitting")
		}

		newDeal = &models.Deal{
			AthleteID:          athleteID,
			DealTitle:          req.DealTitle,
			ThirdPartyName:     req.ThirdPartyName,
			ThirdPartyType:     req.ThirdPartyType,
			DealType:           req.DealType,
			BrandCategory:      req.BrandCategory,
			CompensationAmount: req.CompensationAmount,
			Deliverables:       models.StringList(req.Deliverables),
			StartDate:          req.StartDate,
			EndDate:            req.EndDate,
			ContractURL:        req.ContractURL,
			SchoolAffiliated:   req.SchoolAffiliated,
			BoosterConnected:   req.BoosterConnected,
			PerformanceBased:   req.PerformanceBased,
			EnrollmentTied:     req.EnrollmentTied,
			W9Submitted:        req.W9Submitted,
			DisclosureFiled:    req.DisclosureFiled,
			SchoolApproved:     req.SchoolApproved,
			Status:             models.DealStatusPendingReview,
			ResubmittedFromID:  &oldDeal.ID,
			Version:            1,
		}
		if err := tx.Create(newDeal).Error; err != nil {
			return fmt.Errorf("failed to create resubmitted deal: %w", err)
		}

		oldDeal.Status = models.DealStatusSuperseded
		oldDeal.SupersededByDealID = &newDeal.ID
		if err := s.saveDealLocked(tx, oldDeal); err != nil {
			return err
		}

		if err := s.audit.Record(tx, AuditDealResubmitted, &newDeal.ID, &athleteID, &athleteID, models.JSONB{
			"resubmitted_from": oldDeal.ID.String(),
		}); err != nil {
			return err
		}
		return s.audit.Record(tx, AuditDealSuperseded, &oldDeal.ID, &athleteID, &athleteID, models.JSONB{
			"superseded_by": newDeal.ID.String(),
		})
	})
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		go s.notifySubmitted(newDeal)
	}
	return newDeal, nil
}

// Queries

func (s *DealService) GetDeal(dealID, actorID uuid.UUID, role models.UserRole) (*models.Deal, error) {
	var deal models.Deal
	err := s.db.Preload("Score").Preload("InfoRequests").Preload("Appeals").
		First(&deal, "id = ?", dealID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("deal")
		}
		return nil, fmt.Errorf("failed to load deal: %w", err)
	}
	if !canViewDeal(&deal, actorID, role) {
		return nil, NewNotFound("deal")
	}
	return &deal, nil
}

func (s *DealService) GetScore(dealID, actorID uuid.UUID, role models.UserRole) (*models.ComplianceScore, error) {
	deal, err := s.GetDeal(dealID, actorID, role)
	if err != nil {
		return nil, err
	}
	if deal.Score == nil {
		return nil, NewNotFound("score")
	}
	return deal.Score, nil
}

func (s *DealService) ListDeals(actorID uuid.UUID, role models.UserRole, params utils.PaginationParams) (*utils.PaginationResult, error) {
	var deals []models.Deal
	var total int64

	q := s.db.Model(&models.Deal{}).Preload("Score")
	if role != models.UserRoleComplianceOfficer && role != models.UserRoleAdmin {
		q = q.Where("athlete_id = ?", actorID)
	}
	if params.Status != "" {
		q = q.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		q = q.Where("deal_title LIKE ? OR third_party_name LIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count deals: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "compensation_amount", "status", "decision_at"}
	q = utils.ApplySort(q, params, allowedSortFields)
	q = utils.ApplyPagination(q, params)

	if err := q.Find(&deals).Error; err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	result := utils.CreatePaginationResult(deals, total, params)
	return &result, nil
}

// OverviewStats are the counts on the compliance dashboard.
type OverviewStats struct {
	PendingReview   int64 `json:"pending_review"`
	InfoRequested   int64 `json:"info_requested"`
	OpenAppeals     int64 `json:"open_appeals"`
	DecidedToday    int64 `json:"decided_today"`
	GreenScores     int64 `json:"green_scores"`
	YellowScores    int64 `json:"yellow_scores"`
	RedScores       int64 `json:"red_scores"`
	TotalDeals      int64 `json:"total_deals"`
}

// Overview aggregates queue and score counts for the officer dashboard.
func (s *DealService) Overview() (*OverviewStats, error) {
	stats := &OverviewStats{}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&stats.PendingReview, s.db.Model(&models.Deal{}).Where("status = ?", models.DealStatusPendingReview)},
		{&stats.InfoRequested, s.db.Model(&models.Deal{}).Where("status = ?", models.DealStatusInfoRequested)},
		{&stats.OpenAppeals, s.db.Model(&models.AppealRecord{}).Where("status IN ?", []models.AppealStatus{models.AppealStatusSubmitted, models.AppealStatusUnderReview})},
		{&stats.DecidedToday, s.db.Model(&models.Deal{}).Where("decision_at >= ?", time.Now().Truncate(24*time.Hour))},
		{&stats.GreenScores, s.db.Model(&models.ComplianceScore{}).Where("status = ?", models.ScoreStatusGreen)},
		{&stats.YellowScores, s.db.Model(&models.ComplianceScore{}).Where("status = ?", models.ScoreStatusYellow)},
		{&stats.RedScores, s.db.Model(&models.ComplianceScore{}).Where("status = ?", models.ScoreStatusRed)},
		{&stats.TotalDeals, s.db.Model(&models.Deal{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, fmt.Errorf("failed to build overview: %w", err)
		}
	}

	return stats, nil
}

// Helpers

func canViewDeal(deal *models.Deal, actorID uuid.UUID, role models.UserRole) bool {
	if role == models.UserRoleComplianceOfficer || role == models.UserRoleAdmin {
		return true
	}
	return deal.AthleteID == actorID
}

func (s *DealService) loadDeal(dealID uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	if err := s.db.First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("deal")
		}
		return nil, fmt.Errorf("failed to load deal: %w", err)
	}
	return &deal, nil
}

func (s *DealService) lockDeal(tx *gorm.DB, dealID uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	if err := database.RowLock(tx).First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("deal")
		}
		return nil, fmt.Errorf("failed to lock deal: %w", err)
	}
	return &deal, nil
}

// saveDealLocked bumps the optimistic version and refuses stale writes.
func (s *DealService) saveDealLocked(tx *gorm.DB, deal *models.Deal) error {
	current := deal.Version
	deal.Version = current + 1

	res := tx.Model(&models.Deal{}).
		Where("id = ? AND version = ?", deal.ID, current).
		Select("*").Omit("id", "created_at", "deleted_at").
		Updates(deal)
	if res.Error != nil {
		return fmt.Errorf("failed to update deal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (s *DealService) notifySubmitted(deal *models.Deal) {
	if err := s.notifications.NotifyDealSubmitted(deal); err != nil {
		logrus.WithError(err).WithField("deal_id", deal.ID).Warn("Failed to notify officers of submission")
	}
}

func (s *DealService) notifyDecided(deal *models.Deal, decision models.ComplianceDecision, notes string) {
	if err := s.notifications.NotifyDealDecided(deal, decision, notes); err != nil {
		logrus.WithError(err).WithField("deal_id", deal.ID).Warn("Failed to notify athlete of decision")
	}
}
