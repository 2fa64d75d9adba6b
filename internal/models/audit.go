// internal/models/audit.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogEntry rows are append-only: created inside the transaction of the
// mutation they describe, never updated or deleted.
type AuditLogEntry struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	DealID      *uuid.UUID `json:"deal_id" gorm:"type:uuid;index"`
	AthleteID   *uuid.UUID `json:"athlete_id" gorm:"type:uuid;index"`
	Action      string     `json:"action" gorm:"size:60;not null;index"`
	PerformedBy *uuid.UUID `json:"performed_by" gorm:"type:uuid"`
	Details     JSONB      `json:"details" gorm:"type:jsonb"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (e *AuditLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
