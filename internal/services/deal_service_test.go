// internal/services/deal_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/database"
	"github.com/chatnil/compliance-backend/internal/models"
)

type DealServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	cfg     *config.Config
	deals   *DealService
	info    *InfoRequestService
	athlete *models.User
	officer *models.User
}

func (s *DealServiceTestSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.cfg = testConfig()
	s.info = NewInfoRequestService(s.db)
	s.deals = NewDealService(s.db, s.cfg, NewAuditService(s.db), s.info, nil)
	s.athlete = createAthlete(s.T(), s.db, "CA")
	s.officer = createOfficer(s.T(), s.db)
}

// scoredPendingDeal creates a submitted deal and runs the calculator so a
// decision can be made.
func (s *DealServiceTestSuite) scoredPendingDeal() *models.Deal {
	deal, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
	s.Require().NoError(err)
	s.Require().Equal(models.DealStatusPendingReview, deal.Status)

	_, err = s.deals.ScoreDeal(deal.ID, s.officer.ID)
	s.Require().NoError(err)
	return deal
}

func (s *DealServiceTestSuite) reload(deal *models.Deal) *models.Deal {
	var fresh models.Deal
	s.Require().NoError(s.db.First(&fresh, "id = ?", deal.ID).Error)
	return &fresh
}

func (s *DealServiceTestSuite) TestCreateDraftAndSubmit() {
	req := cleanDealRequest()
	req.SubmitNow = false

	deal, err := s.deals.CreateDeal(s.athlete.ID, req)
	s.Require().NoError(err)
	s.Equal(models.DealStatusDraft, deal.Status)

	submitted, err := s.deals.SubmitDeal(deal.ID, s.athlete.ID)
	s.Require().NoError(err)
	s.Equal(models.DealStatusPendingReview, submitted.Status)

	// Submitting again is not a valid transition
	_, err = s.deals.SubmitDeal(deal.ID, s.athlete.ID)
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *DealServiceTestSuite) TestCreateDealRejectsUnknownType() {
	req := cleanDealRequest()
	req.DealType = "sponsorship_lol"

	_, err := s.deals.CreateDeal(s.athlete.ID, req)
	s.True(IsCode(err, CodeValidation))
}

func (s *DealServiceTestSuite) TestScoreCleanDealIsGreen() {
	deal, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
	s.Require().NoError(err)

	score, err := s.deals.ScoreDeal(deal.ID, s.officer.ID)
	s.Require().NoError(err)
	s.Equal(100, score.TotalScore)
	s.Equal(models.ScoreStatusGreen, score.Status)
	s.Equal(1, score.ScoreVersion)
}

func (s *DealServiceTestSuite) TestDecideRequiresScore() {
	deal, err := s.deals.CreateDeal(s.athlete.ID, cleanDealRequest())
	s.Require().NoError(err)

	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.True(IsCode(err, CodeValidation))
}

func (s *DealServiceTestSuite) TestDecideApprove() {
	deal := s.scoredPendingDeal()

	decided, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision:     models.DecisionApproved,
		AthleteNotes: "Looks good, keep the disclosure on file.",
	})
	s.Require().NoError(err)
	s.Equal(models.DealStatusApproved, decided.Status)
	s.Require().NotNil(decided.ComplianceDecision)
	s.Equal(models.DecisionApproved, *decided.ComplianceDecision)
	s.NotNil(decided.DecisionAt)
	s.Require().NotNil(decided.DecisionBy)
	s.Equal(s.officer.ID, *decided.DecisionBy)

	// Deciding a decided deal fails
	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionRejected})
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *DealServiceTestSuite) TestDecideUnknownDecision() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: "maybe"})
	s.True(IsCode(err, CodeValidation))
}

func (s *DealServiceTestSuite) TestDecideFromDraftFails() {
	req := cleanDealRequest()
	req.SubmitNow = false
	deal, err := s.deals.CreateDeal(s.athlete.ID, req)
	s.Require().NoError(err)

	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *DealServiceTestSuite) TestOverrideValidation() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision: models.DecisionApproved,
		Override: &OverrideRequest{Score: 120, Justification: longText("out of range")},
	})
	s.True(IsCode(err, CodeValidation))

	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision: models.DecisionApproved,
		Override: &OverrideRequest{Score: 90, Justification: "too short"},
	})
	s.True(IsCode(err, CodeValidation))
}

func (s *DealServiceTestSuite) TestOverrideCarriesItsOwnColor() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision: models.DecisionRejected,
		Override: &OverrideRequest{Score: 55, Justification: longText("verified factors offline")},
	})
	s.Require().NoError(err)

	score, err := s.deals.GetScore(deal.ID, s.officer.ID, models.UserRoleComplianceOfficer)
	s.Require().NoError(err)
	s.Require().NotNil(score.OverrideScore)
	s.Equal(55, *score.OverrideScore)
	// 55 falls in the red band regardless of the computed total
	s.Equal(models.ScoreStatusRed, score.Status)
	s.Require().NotNil(score.OverrideBy)
	s.Equal(s.officer.ID, *score.OverrideBy)
}

func (s *DealServiceTestSuite) TestRescoreClearsOverride() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision: models.DecisionApprovedWithConditions,
		Override: &OverrideRequest{Score: 70, Justification: longText("conditional on new disclosure")},
	})
	s.Require().NoError(err)

	score, err := s.deals.ScoreDeal(deal.ID, s.officer.ID)
	s.Require().NoError(err)
	s.Nil(score.OverrideScore)
	s.Empty(score.OverrideJustification)
	s.Equal(2, score.ScoreVersion)
}

func (s *DealServiceTestSuite) TestPlainDecisionClearsPriorOverride() {
	deal := s.scoredPendingDeal()

	// info_requested with an override parks the deal with a red-band score
	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision:               models.DecisionInfoRequested,
		InfoRequestDescription: "Need the disclosure filing",
		Override:               &OverrideRequest{Score: 55, Justification: longText("risk confirmed offline")},
	})
	s.Require().NoError(err)

	requests, err := s.info.ListForDeal(deal.ID)
	s.Require().NoError(err)
	s.Require().Len(requests, 1)
	_, err = s.deals.RespondToInfo(deal.ID, s.athlete.ID, &RespondInfoRequest{
		RequestID:    requests[0].ID,
		ResponseText: "Disclosure attached.",
	})
	s.Require().NoError(err)

	// Approving without an override must not leave the old override behind
	_, err = s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.Require().NoError(err)

	score, err := s.deals.GetScore(deal.ID, s.officer.ID, models.UserRoleComplianceOfficer)
	s.Require().NoError(err)
	s.Nil(score.OverrideScore)
	s.Empty(score.OverrideJustification)
	s.Nil(score.OverrideBy)
	s.Nil(score.OverrideAt)
	s.Equal(models.ScoreStatusGreen, score.Status)
	s.Equal(score.TotalScore, score.EffectiveScore())
}

func (s *DealServiceTestSuite) TestInfoRequestRoundTrip() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision:               models.DecisionInfoRequested,
		InfoRequestDescription: "Please attach the signed contract addendum",
	})
	s.Require().NoError(err)
	s.Equal(models.DealStatusInfoRequested, s.reload(deal).Status)

	requests, err := s.info.ListForDeal(deal.ID)
	s.Require().NoError(err)
	s.Require().Len(requests, 1)
	s.Equal(models.InfoRequestStatusPending, requests[0].Status)

	updated, err := s.deals.RespondToInfo(deal.ID, s.athlete.ID, &RespondInfoRequest{
		RequestID:    requests[0].ID,
		ResponseText: "Addendum attached.",
		Documents:    []string{"https://files.example.com/addendum.pdf"},
	})
	s.Require().NoError(err)
	s.Equal(models.DealStatusPendingReview, updated.Status)
	s.Require().NotNil(updated.ComplianceDecision)
	s.Equal(models.DecisionResponseSubmitted, *updated.ComplianceDecision)

	// The requeued deal can now be decided
	decided, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.Require().NoError(err)
	s.Equal(models.DealStatusApproved, decided.Status)
}

func (s *DealServiceTestSuite) TestInfoRequestNeedsDescription() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionInfoRequested})
	s.True(IsCode(err, CodeValidation))
	s.Equal(models.DealStatusPendingReview, s.reload(deal).Status)
}

func (s *DealServiceTestSuite) TestRespondGatesOnAllRequests() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{
		Decision:               models.DecisionInfoRequested,
		InfoRequestDescription: "Need the W-9",
	})
	s.Require().NoError(err)

	// A second outstanding request on the same deal
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		fresh := s.reload(deal)
		_, err := s.info.CreateRequest(tx, fresh, s.officer.ID, "document", "Need the school approval letter")
		return err
	})
	s.Require().NoError(err)

	requests, err := s.info.ListForDeal(deal.ID)
	s.Require().NoError(err)
	s.Require().Len(requests, 2)

	// Answering one request leaves the deal waiting on the other
	updated, err := s.deals.RespondToInfo(deal.ID, s.athlete.ID, &RespondInfoRequest{
		RequestID:    requests[0].ID,
		ResponseText: "W-9 attached.",
	})
	s.Require().NoError(err)
	s.Equal(models.DealStatusInfoRequested, updated.Status)

	// Answering the same request twice fails
	_, err = s.deals.RespondToInfo(deal.ID, s.athlete.ID, &RespondInfoRequest{
		RequestID:    requests[0].ID,
		ResponseText: "Again.",
	})
	s.True(IsCode(err, CodeAlreadyExists))

	// The last answer requeues the deal
	updated, err = s.deals.RespondToInfo(deal.ID, s.athlete.ID, &RespondInfoRequest{
		RequestID:    requests[1].ID,
		ResponseText: "Approval letter attached.",
	})
	s.Require().NoError(err)
	s.Equal(models.DealStatusPendingReview, updated.Status)
}

func (s *DealServiceTestSuite) TestRespondOutsideInfoRequestedFails() {
	deal := s.scoredPendingDeal()

	_, err := s.deals.RespondToInfo(deal.ID, s.athlete.ID, &RespondInfoRequest{
		RequestID:    deal.ID, // irrelevant, status check fires first
		ResponseText: "hello",
	})
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *DealServiceTestSuite) TestResubmitSupersedes() {
	deal := s.scoredPendingDeal()
	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionRejected})
	s.Require().NoError(err)

	revised := cleanDealRequest()
	revised.CompensationAmount = 200
	newDeal, err := s.deals.Resubmit(deal.ID, s.athlete.ID, revised)
	s.Require().NoError(err)
	s.Equal(models.DealStatusPendingReview, newDeal.Status)
	s.Require().NotNil(newDeal.ResubmittedFromID)
	s.Equal(deal.ID, *newDeal.ResubmittedFromID)

	old := s.reload(deal)
	s.Equal(models.DealStatusSuperseded, old.Status)
	s.Require().NotNil(old.SupersededByDealID)
	s.Equal(newDeal.ID, *old.SupersededByDealID)

	// Superseded is absorbing: a second resubmission of the old deal fails
	_, err = s.deals.Resubmit(deal.ID, s.athlete.ID, revised)
	s.True(IsCode(err, CodeAlreadyExists))
}

func (s *DealServiceTestSuite) TestResubmitOnlyFromRejected() {
	deal := s.scoredPendingDeal()
	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.Require().NoError(err)

	_, err = s.deals.Resubmit(deal.ID, s.athlete.ID, cleanDealRequest())
	s.True(IsCode(err, CodeInvalidTransition))
}

func (s *DealServiceTestSuite) TestResubmitBlockedByOpenAppeal() {
	deal := s.scoredPendingDeal()
	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionRejected})
	s.Require().NoError(err)

	s.Require().NoError(s.db.Model(&models.Deal{}).
		Where("id = ?", deal.ID).
		Update("has_active_appeal", true).Error)

	_, err = s.deals.Resubmit(deal.ID, s.athlete.ID, cleanDealRequest())
	s.True(IsCode(err, CodeValidation))
}

func (s *DealServiceTestSuite) TestAthleteCannotTouchOthersDeal() {
	deal := s.scoredPendingDeal()
	stranger := createAthlete(s.T(), s.db, "NY")

	_, err := s.deals.SubmitDeal(deal.ID, stranger.ID)
	s.True(IsCode(err, CodeNotFound))

	_, err = s.deals.GetDeal(deal.ID, stranger.ID, models.UserRoleAthlete)
	s.True(IsCode(err, CodeNotFound))
}

func (s *DealServiceTestSuite) TestListDealsVisibility() {
	s.scoredPendingDeal()
	other := createAthlete(s.T(), s.db, "TX")
	_, err := s.deals.CreateDeal(other.ID, cleanDealRequest())
	s.Require().NoError(err)

	params := utilsParams()
	mine, err := s.deals.ListDeals(s.athlete.ID, models.UserRoleAthlete, params)
	s.Require().NoError(err)
	s.EqualValues(1, mine.Total)

	all, err := s.deals.ListDeals(s.officer.ID, models.UserRoleComplianceOfficer, params)
	s.Require().NoError(err)
	s.EqualValues(2, all.Total)
}

func (s *DealServiceTestSuite) TestConcurrentModificationDetected() {
	deal := s.scoredPendingDeal()

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		stale, err := s.deals.lockDeal(tx, deal.ID)
		if err != nil {
			return err
		}
		stale.Version = stale.Version + 5 // stale guard value
		return s.deals.saveDealLocked(tx, stale)
	})
	s.True(IsCode(err, CodeConcurrentModification))
}

func (s *DealServiceTestSuite) TestOverviewCounts() {
	s.scoredPendingDeal()
	deal := s.scoredPendingDeal()
	_, err := s.deals.Decide(deal.ID, s.officer.ID, &DecideRequest{Decision: models.DecisionApproved})
	s.Require().NoError(err)

	stats, err := s.deals.Overview()
	s.Require().NoError(err)
	s.EqualValues(1, stats.PendingReview)
	s.EqualValues(2, stats.TotalDeals)
	s.EqualValues(1, stats.DecidedToday)
}

func TestDealServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DealServiceTestSuite))
}
