// internal/services/appeal_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/models"
)

type AppealServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	cfg     *config.Config
	deals   *DealService
	appeals *AppealService
	athlete *models.User
	officer *models.User
}

func (s *AppealServiceTestSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.cfg = testConfig()
	audit := NewAuditService(s.db)
	s.deals = NewDealService(s.db, s.cfg, audit, NewInfoRequestService(s.db), nil)
	s.appeals = NewAppealService(s.db, s.cfg, audit, s.deals, nil)
	s.athlete = createAthlete(s.T(), s.db, "CA")
	s.officer = createOfficer(s.T(), s.db)
}

// rejectedDeal creates a scored deal and rejects it, opening the appeal window.
func (s *AppealServiceTestSuite) rejectedDeal() *models.Deal {
	deal, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
	s.Require().NoError(err)
	_, err = s.deals.ScoreDeal(deal.ID, s.officer.ID)
	s.Require().NoError(err)
	decided, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionRejected})
	s.Require().NoError(err)
	return decided
}

func (s *AppealServiceTestSuite) reload(deal *models.Deal) *models.Deal {
	var fresh models.Deal
	s.Require().NoError(s.db.First(&fresh, "id = ?", deal.ID).Error)
	return &fresh
}

func (s *AppealServiceTestSuite) setDecisionAt(deal *models.Deal, at time.Time) {
	s.Require().NoError(s.db.Model(&models.Deal{}).
		Where("id = ?", deal.ID).
		Update("decision_at", at).Error)
}

func (s *AppealServiceTestSuite) TestSubmitAppeal() {
	deal := s.rejectedDeal()

	appeal, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("the rejection misread the contract"),
	})
	s.Require().NoError(err)
	s.Equal(models.AppealStatusSubmitted, appeal.Status)
	s.Equal(models.DecisionRejected, appeal.OriginalDecision)

	fresh := s.reload(deal)
	s.True(fresh.HasActiveAppeal)
	s.Equal(1, fresh.AppealCount)

	// One open appeal at a time
	_, err = s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("trying again while the first is open"),
	})
	s.True(IsCode(err, CodeAlreadyExists))
}

func (s *AppealServiceTestSuite) TestApprovedDealNotAppealable() {
	deal, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
	s.Require().NoError(err)
	_, err = s.deals.ScoreDeal(deal.ID, s.officer.ID)
	s.Require().NoError(err)
	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.Require().NoError(err)

	_, err = s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("an approval needs no appeal"),
	})
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *AppealServiceTestSuite) TestAppealReasonTooShort() {
	deal := s.rejectedDeal()

	_, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{Reason: "unfair"})
	s.True(IsCode(err, CodeValidation))
}

func (s *AppealServiceTestSuite) TestAppealWindowExpired() {
	deal := s.rejectedDeal()
	window := time.Duration(s.cfg.Compliance.AppealWindowDays) * 24 * time.Hour
	s.setDecisionAt(deal, time.Now().Add(-window-time.Minute))

	_, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("late by a minute past the deadline"),
	})
	s.True(IsCode(err, CodeWindowExpired))
}

func (s *AppealServiceTestSuite) TestAppealWindowStillOpenNearDeadline() {
	deal := s.rejectedDeal()
	window := time.Duration(s.cfg.Compliance.AppealWindowDays) * 24 * time.Hour
	s.setDecisionAt(deal, time.Now().Add(-window+time.Minute))

	_, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("filed just inside the deadline"),
	})
	s.NoError(err)
}

func (s *AppealServiceTestSuite) TestWindowBoundaryInclusive() {
	decided := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour

	s.True(WindowOpen(decided, window, decided.Add(window)))
	s.False(WindowOpen(decided, window, decided.Add(window+time.Nanosecond)))
	s.Equal(time.Duration(0), RemainingWindow(decided, window, decided.Add(window+time.Hour)))
}

func (s *AppealServiceTestSuite) TestStartReview() {
	deal := s.rejectedDeal()
	appeal, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("please take a second look at the terms"),
	})
	s.Require().NoError(err)

	reviewed, err := s.appeals.StartReview(appeal.ID, s.officer.ID)
	s.Require().NoError(err)
	s.Equal(models.AppealStatusUnderReview, reviewed.Status)

	_, err = s.appeals.StartReview(appeal.ID, s.officer.ID)
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *AppealServiceTestSuite) TestResolveUpheldKeepsOutcome() {
	deal := s.rejectedDeal()
	appeal, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("the compensation is in line with my reach"),
	})
	s.Require().NoError(err)

	resolved, err := s.appeals.Resolve(appeal.ID, s.officer.ID, &ResolveAppealRequest{
		Resolution:      models.AppealResolutionUpheld,
		ResolutionNotes: "Original determination stands.",
	})
	s.Require().NoError(err)
	s.Equal(models.AppealStatusResolved, resolved.Status)
	s.Require().NotNil(resolved.Resolution)
	s.Equal(models.AppealResolutionUpheld, *resolved.Resolution)

	fresh := s.reload(deal)
	s.Equal(models.DealStatusRejected, fresh.Status)
	s.False(fresh.HasActiveAppeal)
}

func (s *AppealServiceTestSuite) TestResolveReversedReplaysDecision() {
	deal := s.rejectedDeal()
	appeal, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("new contract documents change the picture"),
	})
	s.Require().NoError(err)

	newDecision := models.DecisionApproved
	_, err = s.appeals.Resolve(appeal.ID, s.officer.ID, &ResolveAppealRequest{
		Resolution:  models.AppealResolutionReversed,
		NewDecision: &newDecision,
	})
	s.Require().NoError(err)

	fresh := s.reload(deal)
	s.Equal(models.DealStatusApproved, fresh.Status)
	s.Require().NotNil(fresh.ComplianceDecision)
	s.Equal(models.DecisionApproved, *fresh.ComplianceDecision)
	s.False(fresh.HasActiveAppeal)

	score, err := s.deals.GetScore(deal.ID, s.officer.ID, models.UserRoleComplianceOfficer)
	s.Require().NoError(err)
	s.Equal(models.ScoreStatusGreen, score.Status)
}

func (s *AppealServiceTestSuite) TestResolveModifiedNeedsDecision() {
	deal := s.rejectedDeal()
	appeal, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("asking for conditions instead of rejection"),
	})
	s.Require().NoError(err)

	_, err = s.appeals.Resolve(appeal.ID, s.officer.ID, &ResolveAppealRequest{
		Resolution: models.AppealResolutionModified,
	})
	s.True(IsCode(err, CodeValidation))
}

func (s *AppealServiceTestSuite) TestResolveCannotRequestInfo() {
	deal := s.rejectedDeal()
	appeal, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("asking for any different outcome here"),
	})
	s.Require().NoError(err)

	infoRequested := models.DecisionInfoRequested
	_, err = s.appeals.Resolve(appeal.ID, s.officer.ID, &ResolveAppealRequest{
		Resolution:  models.AppealResolutionModified,
		NewDecision: &infoRequested,
	})
	s.True(IsCode(err, CodeValidation))
}

func (s *AppealServiceTestSuite) TestResolveTwiceFails() {
	deal := s.rejectedDeal()
	appeal, err := s.appeals.Submit(deal.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("one resolution should settle this appeal"),
	})
	s.Require().NoError(err)

	_, err = s.appeals.Resolve(appeal.ID, s.officer.ID, &ResolveAppealRequest{
		Resolution: models.AppealResolutionUpheld,
	})
	s.Require().NoError(err)

	_, err = s.appeals.Resolve(appeal.ID, s.officer.ID, &ResolveAppealRequest{
		Resolution: models.AppealResolutionUpheld,
	})
	s.True(IsCode(err, CodeAlreadyExists))
}

func (s *AppealServiceTestSuite) TestQueueOrderedOldestFirst() {
	first := s.rejectedDeal()
	second := s.rejectedDeal()

	a1, err := s.appeals.Submit(first.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("first appeal should surface first in queue"),
	})
	s.Require().NoError(err)
	// Force distinct submission times
	s.Require().NoError(s.db.Model(&models.AppealRecord{}).
		Where("id = ?", a1.ID).
		Update("submitted_at", time.Now().Add(-time.Hour)).Error)

	_, err = s.appeals.Submit(second.ID, s.athlete.ID, &SubmitAppealRequest{
		Reason: longText("second appeal should queue behind the first"),
	})
	s.Require().NoError(err)

	result, err := s.appeals.Queue(utilsParams())
	s.Require().NoError(err)
	s.EqualValues(2, result.Total)

	items, ok := result.Data.([]AppealQueueItem)
	s.Require().True(ok)
	s.Equal(a1.ID, items[0].ID)
	s.GreaterOrEqual(items[0].DaysOpen, 0)
}

func TestAppealServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AppealServiceTestSuite))
}
