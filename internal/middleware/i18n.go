// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/chatnil/compliance-backend/internal/i18n"
)

// I18nMiddleware picks the response language from Accept-Language, falling
// back to English when the preferred language has no catalog.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := "en"

		if header := c.GetHeader("Accept-Language"); header != "" {
			// Handle cases like "es-MX,es;q=0.9,en;q=0.8"
			first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
			for _, supported := range i18n.GetSupportedLanguages() {
				if strings.HasPrefix(first, supported) {
					lang = supported
					break
				}
			}
		}

		c.Set("lang", lang)
		c.Next()
	}
}
