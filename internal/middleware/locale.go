package middleware

import (
	"vinemarket-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
)

const localeLocal = "locale"

// Locale picks the response language from Accept-Language (or ?lang=).
func Locale(def string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pref := c.Query("lang")
		if pref == "" {
			pref = c.Get(fiber.HeaderAcceptLanguage)
		}
		loc := domain.MatchLocale(pref, def)
		c.Locals(localeLocal, loc)
		c.Set(fiber.HeaderContentLanguage, loc)
		return c.Next()
	}
}

// GetLocale returns the negotiated locale, or the default messages locale.
func GetLocale(c *fiber.Ctx) string {
	if l, ok := c.Locals(localeLocal).(string); ok && l != "" {
		return l
	}
	return domain.DefaultLocale
}
