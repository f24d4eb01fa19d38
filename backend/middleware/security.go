package middleware

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ellavondegurechaff/stakeforge/backend/utils"
	"github.com/gofiber/fiber/v2"
)

// CustomErrorHandler renders unhandled errors as the standard JSON envelope.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	return utils.SendError(c, code, strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_")), message, nil)
}

// SecurityHeaders adds security headers to responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Cache-Control", "no-store")
		return c.Next()
	}
}

// APIKeyRequired accepts the key in X-API-Key or as a bearer token. An empty key
// disables the endpoints it guards.
func APIKeyRequired(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return utils.SendError(c, fiber.StatusForbidden, "FORBIDDEN", "Admin API is disabled", nil)
		}

		got := c.Get("X-API-Key")
		if got == "" {
			got = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			slog.Warn("Rejected admin request",
				slog.String("type", "api"),
				slog.String("path", c.Path()),
				slog.String("ip", utils.GetIPAddress(c)))
			return utils.SendUnauthorized(c, "Invalid API key")
		}
		return c.Next()
	}
}
