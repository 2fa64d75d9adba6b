// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/models"
	"github.com/chatnil/compliance-backend/internal/utils"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Deal decision notifications

func (s *NotificationService) NotifyDealDecided(deal *models.Deal, decision models.ComplianceDecision, notes string) error {
	var athlete models.User
	if err := s.db.First(&athlete, "id = ?", deal.AthleteID).Error; err != nil {
		return fmt.Errorf("athlete not found: %w", err)
	}

	titles := map[models.ComplianceDecision]string{
		models.DecisionApproved:               "Your NIL deal was approved",
		models.DecisionApprovedWithConditions: "Your NIL deal was approved with conditions",
		models.DecisionRejected:               "Your NIL deal was rejected",
		models.DecisionInfoRequested:          "More information is needed for your NIL deal",
	}
	title, ok := titles[decision]
	if !ok {
		title = "Your NIL deal was reviewed"
	}

	message := fmt.Sprintf("Compliance reviewed %q.", deal.DealTitle)
	if notes != "" {
		message += " Reviewer notes: " + notes
	}

	if err := s.create(athlete.ID, "deal_decision", title, message, models.JSONB{
		"deal_id":  deal.ID.String(),
		"decision": string(decision),
	}, s.dealURL(deal.ID)); err != nil {
		return err
	}

	s.sendTemplatedEmail(athlete.Email, "deal_decision", title, map[string]interface{}{
		"AthleteName": athlete.Username,
		"DealTitle":   deal.DealTitle,
		"Decision":    string(decision),
		"Notes":       notes,
		"DealURL":     s.dealURL(deal.ID),
	})
	return nil
}

func (s *NotificationService) NotifyInfoResponse(deal *models.Deal) error {
	title := "Info request answered"
	message := fmt.Sprintf("The athlete responded to the information request on %q; the deal is back in the review queue.", deal.DealTitle)
	return s.notifyOfficers("info_response", title, message, models.JSONB{
		"deal_id": deal.ID.String(),
	}, s.dealURL(deal.ID))
}

func (s *NotificationService) NotifyDealSubmitted(deal *models.Deal) error {
	title := "New deal awaiting review"
	message := fmt.Sprintf("Deal %q was submitted for compliance review.", deal.DealTitle)
	return s.notifyOfficers("deal_submitted", title, message, models.JSONB{
		"deal_id": deal.ID.String(),
	}, s.dealURL(deal.ID))
}

// Appeal notifications

func (s *NotificationService) NotifyAppealSubmitted(appeal *models.AppealRecord, deal *models.Deal) error {
	title := "New appeal submitted"
	message := fmt.Sprintf("An appeal was filed against the %s decision on %q.", appeal.OriginalDecision, deal.DealTitle)
	return s.notifyOfficers("appeal_submitted", title, message, models.JSONB{
		"deal_id":   deal.ID.String(),
		"appeal_id": appeal.ID.String(),
	}, s.dealURL(deal.ID))
}

func (s *NotificationService) NotifyAppealResolved(appeal *models.AppealRecord, deal *models.Deal) error {
	var athlete models.User
	if err := s.db.First(&athlete, "id = ?", appeal.AthleteID).Error; err != nil {
		return fmt.Errorf("athlete not found: %w", err)
	}

	resolution := ""
	if appeal.Resolution != nil {
		resolution = string(*appeal.Resolution)
	}
	title := "Your appeal was resolved"
	message := fmt.Sprintf("The appeal on %q was resolved: %s.", deal.DealTitle, resolution)
	if appeal.ResolutionNotes != "" {
		message += " " + appeal.ResolutionNotes
	}

	if err := s.create(athlete.ID, "appeal_resolved", title, message, models.JSONB{
		"deal_id":    deal.ID.String(),
		"appeal_id":  appeal.ID.String(),
		"resolution": resolution,
	}, s.dealURL(deal.ID)); err != nil {
		return err
	}

	s.sendTemplatedEmail(athlete.Email, "appeal_resolved", title, map[string]interface{}{
		"AthleteName": athlete.Username,
		"DealTitle":   deal.DealTitle,
		"Resolution":  resolution,
		"Notes":       appeal.ResolutionNotes,
		"DealURL":     s.dealURL(deal.ID),
	})
	return nil
}

// Queries

func (s *NotificationService) ListForUser(userID uuid.UUID, params utils.PaginationParams) (*utils.PaginationResult, error) {
	var notifications []models.Notification
	var total int64

	q := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if params.Status == "unread" {
		q = q.Where("read_at IS NULL")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count notifications: %w", err)
	}

	err := q.Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	result := utils.CreatePaginationResult(notifications, total, params)
	return &result, nil
}

// Helper methods

func (s *NotificationService) create(userID uuid.UUID, notifType, title, message string, metadata models.JSONB, actionURL string) error {
	notification := &models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		Metadata:  metadata,
		ActionURL: actionURL,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) notifyOfficers(notifType, title, message string, metadata models.JSONB, actionURL string) error {
	var officers []models.User
	if err := s.db.Where("role = ?", models.UserRoleComplianceOfficer).Find(&officers).Error; err != nil {
		return fmt.Errorf("failed to load compliance officers: %w", err)
	}

	for _, officer := range officers {
		if err := s.create(officer.ID, notifType, title, message, metadata, actionURL); err != nil {
			logrus.WithError(err).WithField("officer_id", officer.ID).Warn("Failed to notify officer")
		}
	}
	return nil
}

func (s *NotificationService) dealURL(dealID uuid.UUID) string {
	return fmt.Sprintf("%s/deals/%s", s.config.Frontend.BaseURL, dealID)
}

func (s *NotificationService) sendTemplatedEmail(to, templateType, subject string, data map[string]interface{}) {
	tmpl := s.getEmailTemplate(templateType)
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		logrus.WithError(err).Warn("Failed to render email template")
		return
	}
	if err := s.sendEmail(to, subject, body); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("Failed to send email")
	}
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if !s.config.Email.Enabled || s.config.Email.SMTPUsername == "" {
		// Email disabled or not configured, just log
		logrus.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug("Email skipped")
		return nil
	}

	// Setup authentication
	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	// Compose message
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	templates := map[string]EmailTemplate{
		"deal_decision": {
			Subject: "NIL deal reviewed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.AthleteName}},</h2>
	<p>Compliance has reviewed your deal "{{.DealTitle}}".</p>
	<p>Decision: <strong>{{.Decision}}</strong></p>
	{{if .Notes}}<p>Reviewer notes: {{.Notes}}</p>{{end}}
	<a href="{{.DealURL}}">View your deal</a>
	<p>ChatNIL Compliance Team</p>
</body>
</html>`,
		},
		"appeal_resolved": {
			Subject: "Appeal resolved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Hello {{.AthleteName}},</h2>
	<p>Your appeal on "{{.DealTitle}}" has been resolved: <strong>{{.Resolution}}</strong>.</p>
	{{if .Notes}}<p>{{.Notes}}</p>{{end}}
	<a href="{{.DealURL}}">View your deal</a>
	<p>ChatNIL Compliance Team</p>
</body>
</html>`,
		},
	}

	if template, exists := templates[templateType]; exists {
		return template
	}

	// Default template
	return EmailTemplate{
		Subject: "Notification",
		Body:    "<p>{{.Message}}</p>",
	}
}
