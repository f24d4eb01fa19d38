package utils

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ellavondegurechaff/stakeforge/backend/models"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/gate"
	"github.com/gofiber/fiber/v2"
)

func SendJSON(c *fiber.Ctx, statusCode int, data any) error {
	return c.Status(statusCode).JSON(data)
}

func SendSuccess(c *fiber.Ctx, data any, message string) error {
	return SendJSON(c, http.StatusOK, models.NewSuccessResponse(data, message))
}

func SendError(c *fiber.Ctx, statusCode int, code, message string, details map[string]string) error {
	return SendJSON(c, statusCode, models.NewErrorResponse(code, message, details))
}

func SendBadRequest(c *fiber.Ctx, message string, details map[string]string) error {
	return SendError(c, http.StatusBadRequest, "BAD_REQUEST", message, details)
}

func SendUnauthorized(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func SendNotFound(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func SendInternalServerError(c *fiber.Ctx, message string) error {
	return SendError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}

// SendDomainError maps an engine error onto a status code. Gate rejections carry the
// failed check and the remaining wait in the details.
func SendDomainError(c *fiber.Ctx, err error) error {
	if ie, ok := gate.IsIneligible(err); ok {
		details := map[string]string{"check": ie.Check.String()}
		if ie.Remaining > 0 {
			details["retry_after_seconds"] = strconv.FormatInt(int64(ie.Remaining.Seconds()), 10)
		}
		return SendError(c, http.StatusConflict, "INELIGIBLE", ie.Reason, details)
	}

	switch {
	case errors.Is(err, engine.ErrUnknownAsset), errors.Is(err, engine.ErrUnknownAction),
		errors.Is(err, colony.ErrNotFound):
		return SendNotFound(c, err.Error())
	case errors.Is(err, engine.ErrNotOwner), errors.Is(err, colony.ErrNotCreator):
		return SendError(c, http.StatusForbidden, "FORBIDDEN", err.Error(), nil)
	case errors.Is(err, assets.ErrInvalidKey), errors.Is(err, colony.ErrInvalidColonyID):
		return SendBadRequest(c, err.Error(), nil)
	case errors.Is(err, engine.ErrInsufficientCharge), errors.Is(err, engine.ErrNothingToClaim),
		errors.Is(err, engine.ErrAssetExists), errors.Is(err, catalog.ErrEventActive),
		errors.Is(err, colony.ErrAlreadyMember), errors.Is(err, colony.ErrNotMember),
		errors.Is(err, colony.ErrCriteria), errors.Is(err, colony.ErrNotPending):
		return SendError(c, http.StatusConflict, "CONFLICT", err.Error(), nil)
	default:
		return SendInternalServerError(c, "Internal Server Error")
	}
}

// GetIPAddress extracts the client IP address
func GetIPAddress(c *fiber.Ctx) string {
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := c.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return c.IP()
}

func GetUserAgent(c *fiber.Ctx) string {
	return c.Get("User-Agent")
}
