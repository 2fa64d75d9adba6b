// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username      string      `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email         string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string      `json:"-" gorm:"size:255;not null"`
	Role          UserRole    `json:"role" gorm:"type:varchar(30);not null"`
	FullName      string      `json:"full_name" gorm:"size:120"`
	State         string      `json:"state" gorm:"size:2;index"`
	SchoolLevel   SchoolLevel `json:"school_level" gorm:"type:varchar(20)"`
	SchoolName    string      `json:"school_name" gorm:"size:255"`
	Sport         string      `json:"sport" gorm:"size:60"`
	DateOfBirth   *time.Time  `json:"date_of_birth"`
	ConsentStatus ConsentStatus `json:"consent_status" gorm:"type:varchar(20);default:'not_required'"`

	// Social reach, used by the fair-market-value estimate
	FollowerCount  int64   `json:"follower_count" gorm:"default:0"`
	EngagementRate float64 `json:"engagement_rate" gorm:"default:0"`

	// Tax readiness flags
	UnderstandsTaxObligations bool    `json:"understands_tax_obligations" gorm:"default:false"`
	HasTaxProfessional        bool    `json:"has_tax_professional" gorm:"default:false"`
	TotalEarningsYTD          float64 `json:"total_earnings_ytd" gorm:"default:0"`

	ProfileData     JSONB      `json:"profile_data" gorm:"type:jsonb"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relationships
	Deals   []Deal        `json:"deals,omitempty" gorm:"foreignKey:AthleteID"`
	Appeals []AppealRecord `json:"appeals,omitempty" gorm:"foreignKey:AthleteID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// IsMinorAt reports whether the user is under 18 at the given time.
// Unknown birth dates count as adult.
func (u *User) IsMinorAt(at time.Time) bool {
	if u.DateOfBirth == nil {
		return false
	}
	return u.DateOfBirth.AddDate(18, 0, 0).After(at)
}
