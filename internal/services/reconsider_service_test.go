// internal/services/reconsider_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/models"
)

type ReconsiderServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	cfg     *config.Config
	svc     *ReconsiderService
	athlete *models.User
}

func (s *ReconsiderServiceTestSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.cfg = testConfig()
	s.svc = NewReconsiderService(s.db, s.cfg, NewAuditService(s.db))
	s.athlete = createAthlete(s.T(), s.db, "CA")
}

func (s *ReconsiderServiceTestSuite) pendingInvite() *models.MatchInvite {
	invite := &models.MatchInvite{
		AthleteID:     s.athlete.ID,
		BrandName:     "Acme Sportswear",
		CampaignTitle: "Back to school",
		Status:        models.MatchInviteStatusPending,
	}
	s.Require().NoError(s.db.Create(invite).Error)
	return invite
}

func (s *ReconsiderServiceTestSuite) TestDeclineThenReconsider() {
	invite := s.pendingInvite()

	declined, err := s.svc.DeclineInvite(invite.ID, s.athlete.ID, "not a fit right now")
	s.Require().NoError(err)
	s.Equal(models.MatchInviteStatusDeclined, declined.Status)
	s.NotNil(declined.DeclinedAt)

	reopened, err := s.svc.Reconsider(invite.ID, s.athlete.ID)
	s.Require().NoError(err)
	s.Equal(models.MatchInviteStatusPending, reopened.Status)
	s.NotNil(reopened.ReconsideredAt)
}

func (s *ReconsiderServiceTestSuite) TestReconsiderIsSingleUse() {
	invite := s.pendingInvite()

	_, err := s.svc.DeclineInvite(invite.ID, s.athlete.ID, "")
	s.Require().NoError(err)
	_, err = s.svc.Reconsider(invite.ID, s.athlete.ID)
	s.Require().NoError(err)

	// Decline again; the reconsidered stamp makes this decline final
	_, err = s.svc.DeclineInvite(invite.ID, s.athlete.ID, "sure this time")
	s.Require().NoError(err)

	_, err = s.svc.Reconsider(invite.ID, s.athlete.ID)
	s.True(IsCode(err, CodeAlreadyExists))
}

func (s *ReconsiderServiceTestSuite) TestReconsiderWindowExpired() {
	invite := s.pendingInvite()
	_, err := s.svc.DeclineInvite(invite.ID, s.athlete.ID, "")
	s.Require().NoError(err)

	window := time.Duration(s.cfg.Compliance.ReconsiderWindowHours) * time.Hour
	s.Require().NoError(s.db.Model(&models.MatchInvite{}).
		Where("id = ?", invite.ID).
		Update("declined_at", time.Now().Add(-window-time.Minute)).Error)

	_, err = s.svc.Reconsider(invite.ID, s.athlete.ID)
	s.True(IsCode(err, CodeWindowExpired))
}

func (s *ReconsiderServiceTestSuite) TestDeclineRequiresPending() {
	invite := s.pendingInvite()
	_, err := s.svc.DeclineInvite(invite.ID, s.athlete.ID, "")
	s.Require().NoError(err)

	_, err = s.svc.DeclineInvite(invite.ID, s.athlete.ID, "")
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *ReconsiderServiceTestSuite) TestReconsiderRequiresDeclined() {
	invite := s.pendingInvite()

	_, err := s.svc.Reconsider(invite.ID, s.athlete.ID)
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *ReconsiderServiceTestSuite) TestInviteOwnership() {
	invite := s.pendingInvite()
	stranger := createAthlete(s.T(), s.db, "NY")

	_, err := s.svc.DeclineInvite(invite.ID, stranger.ID, "")
	s.True(IsCode(err, CodeNotFound))
}

func (s *ReconsiderServiceTestSuite) TestListInvites() {
	s.pendingInvite()
	s.pendingInvite()

	invites, err := s.svc.ListInvites(s.athlete.ID)
	s.Require().NoError(err)
	s.Len(invites, 2)
}

func TestReconsiderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconsiderServiceTestSuite))
}
