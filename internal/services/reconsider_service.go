// internal/services/reconsider_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/database"
	"github.com/chatnil/compliance-backend/internal/models"
)

// WindowOpen reports whether now falls inside [decidedAt, decidedAt+window].
// The boundary is inclusive: acting at the exact deadline still succeeds.
// Shared by the appeal window and the match-invite reconsideration window.
func WindowOpen(decidedAt time.Time, window time.Duration, now time.Time) bool {
	return !now.After(decidedAt.Add(window))
}

// RemainingWindow returns how much of the window is left; zero when closed.
func RemainingWindow(decidedAt time.Time, window time.Duration, now time.Time) time.Duration {
	remaining := decidedAt.Add(window).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ReconsiderService gives an athlete a single, time-boxed chance to undo a
// declined match invite.
type ReconsiderService struct {
	db    *gorm.DB
	cfg   *config.Config
	audit *AuditService
}

func NewReconsiderService(db *gorm.DB, cfg *config.Config, audit *AuditService) *ReconsiderService {
	return &ReconsiderService{db: db, cfg: cfg, audit: audit}
}

// DeclineInvite records the athlete turning an invite down. This opens the
// reconsideration window.
func (s *ReconsiderService) DeclineInvite(inviteID, athleteID uuid.UUID, reason string) (*models.MatchInvite, error) {
	var invite *models.MatchInvite
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		invite, err = s.lockInvite(tx, inviteID)
		if err != nil {
			return err
		}
		if invite.AthleteID != athleteID {
			return NewNotFound("invite")
		}
		if invite.Status != models.MatchInviteStatusPending {
			return NewInvalidTransition(string(invite.Status), "decline")
		}

		now := time.Now()
		invite.Status = models.MatchInviteStatusDeclined
		invite.DeclinedAt = &now
		invite.DeclineReason = reason
		if err := tx.Save(invite).Error; err != nil {
			return fmt.Errorf("failed to decline invite: %w", err)
		}

		return s.audit.Record(tx, AuditInviteDeclined, nil, &athleteID, &athleteID, models.JSONB{
			"invite_id": invite.ID.String(),
			"brand":     invite.BrandName,
			"reason":    reason,
		})
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// Reconsider reopens a declined invite. Single use: once the reconsidered
// stamp is set the decline is final, and the window is checked against the
// decline time with an inclusive boundary.
func (s *ReconsiderService) Reconsider(inviteID, athleteID uuid.UUID) (*models.MatchInvite, error) {
	var invite *models.MatchInvite
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var err error
		invite, err = s.lockInvite(tx, inviteID)
		if err != nil {
			return err
		}
		if invite.AthleteID != athleteID {
			return NewNotFound("invite")
		}
		if invite.Status != models.MatchInviteStatusDeclined {
			return NewInvalidTransition(string(invite.Status), "reconsider")
		}
		if invite.ReconsideredAt != nil {
			return NewAlreadyExists("the decline was already reconsidered once")
		}
		if invite.DeclinedAt == nil {
			return NewInvalidTransition(string(invite.Status), "reconsider")
		}

		now := time.Now()
		window := time.Duration(s.cfg.Compliance.ReconsiderWindowHours) * time.Hour
		if !WindowOpen(*invite.DeclinedAt, window, now) {
			return NewWindowExpired("the reconsideration window closed %s after the decline", window)
		}

		invite.Status = models.MatchInviteStatusPending
		invite.ReconsideredAt = &now
		if err := tx.Save(invite).Error; err != nil {
			return fmt.Errorf("failed to reopen invite: %w", err)
		}

		return s.audit.Record(tx, AuditInviteReconsidered, nil, &athleteID, &athleteID, models.JSONB{
			"invite_id": invite.ID.String(),
			"brand":     invite.BrandName,
		})
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// ListInvites returns the athlete's invites, newest first.
func (s *ReconsiderService) ListInvites(athleteID uuid.UUID) ([]models.MatchInvite, error) {
	var invites []models.MatchInvite
	err := s.db.Where("athlete_id = ?", athleteID).Order("created_at DESC").Find(&invites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	return invites, nil
}

func (s *ReconsiderService) lockInvite(tx *gorm.DB, inviteID uuid.UUID) (*models.MatchInvite, error) {
	var invite models.MatchInvite
	if err := database.RowLock(tx).First(&invite, "id = ?", inviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFound("invite")
		}
		return nil, fmt.Errorf("failed to lock invite: %w", err)
	}
	return &invite, nil
}
