// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAccessDenied           = "auth.access_denied"

	// Deals
	KeyDealCreated      = "deal.created"
	KeyDealSubmitted    = "deal.submitted"
	KeyDealNotFound     = "deal.not_found"
	KeyDealDecided      = "deal.decided"
	KeyDealResubmitted  = "deal.resubmitted"
	KeyDealSuperseded   = "deal.superseded"
	KeyDealScoreMissing = "deal.score_missing"

	// Compliance review
	KeyReviewApproved      = "review.approved"
	KeyReviewConditional   = "review.approved_with_conditions"
	KeyReviewRejected      = "review.rejected"
	KeyReviewInfoRequested = "review.info_requested"

	// Info requests
	KeyInfoRequestCreated   = "info_request.created"
	KeyInfoRequestResponded = "info_request.responded"
	KeyInfoRequestNotFound  = "info_request.not_found"

	// Appeals
	KeyAppealSubmitted     = "appeal.submitted"
	KeyAppealResolved      = "appeal.resolved"
	KeyAppealNotFound      = "appeal.not_found"
	KeyAppealWindowExpired = "appeal.window_expired"
	KeyAppealAlreadyOpen   = "appeal.already_open"

	// Match invites
	KeyMatchDeclined     = "match.declined"
	KeyMatchReconsidered = "match.reconsidered"
	KeyMatchNotFound     = "match.not_found"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileDeleted       = "file.deleted"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileTooLarge      = "file.too_large"

	// Notifications
	KeyNotificationSent   = "notification.sent"
	KeyNotificationFailed = "notification.failed"
)
