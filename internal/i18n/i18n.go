// internal/i18n/i18n.go
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var instance *I18n
var once sync.Once

// Initialize installs the built-in English catalog, then overlays any locale
// files found under ./internal/i18n/locales. Missing files are not an error.
func Initialize() error {
	once.Do(func() {
		instance = &I18n{
			translations: map[string]map[string]string{
				"en": defaultEnglish(),
			},
			defaultLang: "en",
		}
		instance.loadTranslations("./internal/i18n/locales")
	})
	return nil
}

func (i *I18n) loadTranslations(localesPath string) {
	entries, err := os.ReadDir(localesPath)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(localesPath, entry.Name()))
		if err != nil {
			continue
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			continue
		}

		i.mu.Lock()
		if existing, ok := i.translations[lang]; ok {
			for k, v := range translations {
				existing[k] = v
			}
		} else {
			i.translations[lang] = translations
		}
		i.mu.Unlock()
	}
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	// Try to get translation for requested language
	if translations, exists := i.translations[lang]; exists {
		if text, exists := translations[key]; exists {
			if len(args) > 0 {
				return fmt.Sprintf(text, args...)
			}
			return text
		}
	}

	// Fallback to default language
	if lang != i.defaultLang {
		if translations, exists := i.translations[i.defaultLang]; exists {
			if text, exists := translations[key]; exists {
				if len(args) > 0 {
					return fmt.Sprintf(text, args...)
				}
				return text
			}
		}
	}

	// Return key if no translation found
	return key
}

// Global functions
func T(lang, key string, args ...interface{}) string {
	if instance != nil {
		return instance.T(lang, key, args...)
	}
	return key
}

func GetSupportedLanguages() []string {
	if instance == nil {
		return []string{"en"}
	}

	instance.mu.RLock()
	defer instance.mu.RUnlock()

	langs := make([]string, 0, len(instance.translations))
	for lang := range instance.translations {
		langs = append(langs, lang)
	}
	return langs
}

func defaultEnglish() map[string]string {
	return map[string]string{
		KeySuccess: "Success",
		KeyError:   "An error occurred",

		KeyAuthRequired:           "Authentication required",
		KeyAuthInvalidToken:       "Invalid authentication token",
		KeyAuthTokenExpired:       "Authentication token expired",
		KeyAuthInvalidCredentials: "Invalid email or password",
		KeyAuthUserNotFound:       "User not found",
		KeyAuthUserExists:         "A user with this email or username already exists",
		KeyAuthLoginSuccess:       "Logged in successfully",
		KeyAuthRegisterSuccess:    "Account created successfully",
		KeyAccessDenied:           "Access denied",

		KeyDealCreated:      "Deal created",
		KeyDealSubmitted:    "Deal submitted for compliance review",
		KeyDealNotFound:     "Deal not found",
		KeyDealDecided:      "Compliance decision recorded",
		KeyDealResubmitted:  "Deal resubmitted for review",
		KeyDealSuperseded:   "This deal has been superseded by a resubmission",
		KeyDealScoreMissing: "The deal has not been scored yet",

		KeyReviewApproved:      "Deal approved",
		KeyReviewConditional:   "Deal approved with conditions",
		KeyReviewRejected:      "Deal rejected",
		KeyReviewInfoRequested: "Additional information requested",

		KeyInfoRequestCreated:   "Information request created",
		KeyInfoRequestResponded: "Response recorded",
		KeyInfoRequestNotFound:  "Information request not found",

		KeyAppealSubmitted:     "Appeal submitted",
		KeyAppealResolved:      "Appeal resolved",
		KeyAppealNotFound:      "Appeal not found",
		KeyAppealWindowExpired: "The appeal window for this decision has closed",
		KeyAppealAlreadyOpen:   "An appeal is already open for this deal",

		KeyMatchDeclined:     "Invite declined",
		KeyMatchReconsidered: "Invite reopened",
		KeyMatchNotFound:     "Invite not found",

		KeyValidationRequired: "%s is required",
		KeyValidationInvalid:  "Invalid %s",
		KeyValidationTooShort: "%s is too short",

		KeyFileUploadSuccess: "File uploaded",
		KeyFileDeleted:       "File deleted",
		KeyFileUploadFailed:  "File upload failed",
		KeyFileTooLarge:      "File exceeds the size limit",

		KeyNotificationSent:   "Notification sent",
		KeyNotificationFailed: "Notification could not be sent",
	}
}
