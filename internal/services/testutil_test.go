// internal/services/testutil_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/database"
	"github.com/chatnil/compliance-backend/internal/models"
	"github.com/chatnil/compliance-backend/internal/utils"
)

// openTestDB gives every test an isolated in-memory database with the full
// schema applied.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Compliance: config.ComplianceConfig{
			AppealWindowDays:         7,
			ReconsiderWindowHours:    24,
			OverrideJustificationMin: 50,
			AppealReasonMin:          50,
		},
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func createAthlete(t *testing.T, db *gorm.DB, state string) *models.User {
	t.Helper()

	athlete := &models.User{
		Username:                  "athlete_" + uuid.New().String()[:8],
		Email:                     uuid.New().String()[:8] + "@example.com",
		Role:                      models.UserRoleAthlete,
		FullName:                  "Test Athlete",
		State:                     state,
		SchoolLevel:               models.SchoolLevelCollege,
		Sport:                     "basketball",
		FollowerCount:             50000,
		EngagementRate:            4.0,
		UnderstandsTaxObligations: true,
		ConsentStatus:             models.ConsentNotRequired,
	}
	if err := athlete.SetPassword("Password1!"); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	if err := db.Create(athlete).Error; err != nil {
		t.Fatalf("failed to create athlete: %v", err)
	}
	return athlete
}

func createOfficer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	officer := &models.User{
		Username: "officer_" + uuid.New().String()[:8],
		Email:    uuid.New().String()[:8] + "@example.com",
		Role:     models.UserRoleComplianceOfficer,
		FullName: "Test Officer",
	}
	if err := officer.SetPassword("Password1!"); err != nil {
		t.Fatalf("failed to set password: %v", err)
	}
	if err := db.Create(officer).Error; err != nil {
		t.Fatalf("failed to create officer: %v", err)
	}
	return officer
}

// cleanDealRequest builds a submit-ready deal with all paperwork in order and
// market-rate compensation, so none of the risk rules fire.
func cleanDealRequest() *CreateDealRequest {
	return &CreateDealRequest{
		DealTitle:          "Spring social campaign",
		ThirdPartyName:     "Acme Sportswear",
		ThirdPartyType:     models.ThirdPartyBrand,
		DealType:           models.DealTypeSocialPost,
		BrandCategory:      "apparel",
		CompensationAmount: 250,
		Deliverables:       []string{"2 instagram posts", "1 story"},
		ContractURL:        "https://files.example.com/contract.pdf",
		W9Submitted:        true,
		DisclosureFiled:    true,
		SchoolApproved:     true,
		SubmitNow:          true,
	}
}

// longText returns a string long enough for the justification and appeal
// reason minimums.
func longText(prefix string) string {
	return prefix + ": this explanation is intentionally long enough to clear the fifty character minimum."
}

func utilsParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}
