// internal/services/audit_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/models"
)

type AuditServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	deals   *DealService
	audit   *AuditService
	athlete *models.User
	officer *models.User
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.audit = NewAuditService(s.db)
	s.deals = NewDealService(s.db, testConfig(), s.audit, NewInfoRequestService(s.db), nil)
	s.athlete = createAthlete(s.T(), s.db, "CA")
	s.officer = createOfficer(s.T(), s.db)
}

func (s *AuditServiceTestSuite) entriesForDeal(dealID uuid.UUID) []models.AuditLogEntry {
	var entries []models.AuditLogEntry
	s.Require().NoError(s.db.Where("deal_id = ?", dealID).Order("created_at ASC").Find(&entries).Error)
	return entries
}

func (s *AuditServiceTestSuite) TestLifecycleLeavesATrail() {
	deal, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
	s.Require().NoError(err)
	_, err = s.deals.ScoreDeal(deal.ID, s.officer.ID)
	s.Require().NoError(err)
	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.Require().NoError(err)

	result, err := s.audit.ForDeal(deal.ID, utilsParams())
	s.Require().NoError(err)
	s.EqualValues(4, result.Total) // created, submitted, scored, approved

	entries, ok := result.Data.([]models.AuditLogEntry)
	s.Require().True(ok)
	s.Equal(AuditDealCreated, entries[0].Action)
	s.Equal(AuditDealApproved, entries[len(entries)-1].Action)

	for _, e := range entries {
		s.Require().NotNil(e.AthleteID)
		s.Equal(s.athlete.ID, *e.AthleteID)
	}
}

func (s *AuditServiceTestSuite) TestFailedMutationWritesNothing() {
	deal, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
	s.Require().NoError(err)

	before := len(s.entriesForDeal(deal.ID))

	// Decision without a score rolls back, audit row included
	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.Require().Error(err)

	s.Len(s.entriesForDeal(deal.ID), before)
}

func (s *AuditServiceTestSuite) TestForAthleteSpansDeals() {
	for i := 0; i < 2; i++ {
		_, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
		s.Require().NoError(err)
	}

	result, err := s.audit.ForAthlete(s.athlete.ID, utilsParams())
	s.Require().NoError(err)
	// Each submitted-on-create deal writes created + submitted
	s.EqualValues(4, result.Total)
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
