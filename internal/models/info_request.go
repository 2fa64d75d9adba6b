// internal/models/info_request.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type InfoRequestRecord struct {
	BaseModel
	DealID      uuid.UUID  `json:"deal_id" gorm:"type:uuid;not null;index"`
	RequestedBy *uuid.UUID `json:"requested_by" gorm:"type:uuid"`
	RequestType string     `json:"request_type" gorm:"size:40;default:'clarification'"`
	Description string     `json:"description" gorm:"type:text;not null"`

	Status            InfoRequestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ResponseText      string            `json:"response_text,omitempty" gorm:"type:text"`
	ResponseDocuments StringList        `json:"response_documents" gorm:"type:text"`
	RespondedAt       *time.Time        `json:"responded_at"`

	// Relationships
	Deal *Deal `json:"deal,omitempty" gorm:"foreignKey:DealID"`
}
