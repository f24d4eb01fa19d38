package middleware

import (
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/stakeforge/backend/utils"
	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware logs HTTP requests in a structured format
func LoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		statusCode := c.Response().StatusCode()
		logLevel := slog.LevelInfo
		if statusCode >= 400 && statusCode < 500 {
			logLevel = slog.LevelWarn
		} else if statusCode >= 500 {
			logLevel = slog.LevelError
		}

		logger := slog.With(
			slog.String("type", "api"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("code", statusCode),
			slog.Duration("took", duration),
			slog.String("ip", utils.GetIPAddress(c)),
			slog.Int("size", len(c.Response().Body())),
		)
		if q := c.Request().URI().QueryArgs().String(); q != "" {
			logger = logger.With(slog.String("query", q))
		}

		message := "HTTP request processed"
		if err != nil {
			message = "HTTP request failed"
			logger = logger.With(slog.String("error", err.Error()))
		}
		logger.Log(c.Context(), logLevel, message)
		return err
	}
}

// AuditLogMiddleware logs administrative actions with their outcome
func AuditLogMiddleware(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		statusCode := c.Response().StatusCode()
		slog.Info("Admin action completed",
			slog.String("type", "api"),
			slog.String("action", action),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Bool("success", err == nil && statusCode >= 200 && statusCode < 300),
			slog.Int("code", statusCode),
			slog.Duration("took", time.Since(start)),
			slog.String("ip", utils.GetIPAddress(c)),
		)
		return err
	}
}
