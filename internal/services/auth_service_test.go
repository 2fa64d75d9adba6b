// internal/services/auth_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/models"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *AuthService
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.svc = NewAuthService(s.db, testConfig())
}

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Username: "jane_doe",
		Email:    "jane@example.com",
		Password: "Str0ng!pass",
		Role:     models.UserRoleAthlete,
		FullName: "Jane Doe",
		State:    "CA",
		Sport:    "soccer",
	}
}

func (s *AuthServiceTestSuite) TestRegisterAndLogin() {
	resp, err := s.svc.Register(registerRequest())
	s.Require().NoError(err)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal(models.ConsentNotRequired, resp.User.ConsentStatus)

	login, err := s.svc.Login(&LoginRequest{Email: "jane@example.com", Password: "Str0ng!pass"})
	s.Require().NoError(err)
	s.Equal(resp.User.ID, login.User.ID)
}

func (s *AuthServiceTestSuite) TestRegisterMinorStartsConsentPending() {
	req := registerRequest()
	dob := time.Now().AddDate(-16, 0, 0)
	req.DateOfBirth = &dob

	resp, err := s.svc.Register(req)
	s.Require().NoError(err)
	s.Equal(models.ConsentPending, resp.User.ConsentStatus)
}

func (s *AuthServiceTestSuite) TestRegisterDuplicateEmail() {
	_, err := s.svc.Register(registerRequest())
	s.Require().NoError(err)

	dup := registerRequest()
	dup.Username = "jane_two"
	_, err = s.svc.Register(dup)
	s.True(IsCode(err, CodeAlreadyExists))
}

func (s *AuthServiceTestSuite) TestRegisterRejectsBadStateCode() {
	req := registerRequest()
	req.State = "california"

	_, err := s.svc.Register(req)
	s.Error(err)
}

func (s *AuthServiceTestSuite) TestOnlyAthletesSelfRegister() {
	req := registerRequest()
	req.Role = models.UserRoleComplianceOfficer

	_, err := s.svc.Register(req)
	s.True(IsCode(err, CodeValidation))
}

func (s *AuthServiceTestSuite) TestLoginWrongPassword() {
	_, err := s.svc.Register(registerRequest())
	s.Require().NoError(err)

	_, err = s.svc.Login(&LoginRequest{Email: "jane@example.com", Password: "wrong"})
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceTestSuite) TestRefreshToken() {
	resp, err := s.svc.Register(registerRequest())
	s.Require().NoError(err)

	refreshed, err := s.svc.RefreshToken(resp.RefreshToken)
	s.Require().NoError(err)
	s.Equal(resp.User.ID, refreshed.User.ID)

	_, err = s.svc.RefreshToken("not-a-token")
	s.Error(err)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
