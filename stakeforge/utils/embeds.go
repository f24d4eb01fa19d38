package utils

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/gate"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
)

// ResponseHandler provides standardized embeds for command responses
type ResponseHandler struct{}

var EH = &ResponseHandler{}

type ErrorType int

const (
	// UserError - bad input or a game rule the player can fix
	UserError ErrorType = iota
	// SystemError - storage or registry failures
	SystemError
	// NotFoundError - unknown asset, colony or action
	NotFoundError
	// PermissionError - acting on something the player does not own
	PermissionError
	// CooldownError - gate rejections
	CooldownError
)

func errorPrefix(t ErrorType) string {
	switch t {
	case UserError:
		return "⚠️"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	case CooldownError:
		return "⏰"
	default:
		return "🔧"
	}
}

func errorColor(t ErrorType) int {
	switch t {
	case UserError, CooldownError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

// Classify maps an engine error to the category shown to the player.
func Classify(err error) ErrorType {
	switch {
	case err == nil:
		return UserError
	case errors.Is(err, gate.ErrAssetCooldown), errors.Is(err, gate.ErrSmartCooldown),
		errors.Is(err, gate.ErrDailyLimit), errors.Is(err, gate.ErrTimeWindow):
		return CooldownError
	case errors.Is(err, engine.ErrNotOwner), errors.Is(err, colony.ErrNotCreator):
		return PermissionError
	case errors.Is(err, engine.ErrUnknownAsset), errors.Is(err, engine.ErrUnknownAction),
		errors.Is(err, colony.ErrNotFound):
		return NotFoundError
	case errors.Is(err, gate.ErrColony), errors.Is(err, engine.ErrInsufficientCharge),
		errors.Is(err, engine.ErrAssetExists), errors.Is(err, engine.ErrNothingToClaim),
		errors.Is(err, colony.ErrAlreadyMember), errors.Is(err, colony.ErrNotMember),
		errors.Is(err, colony.ErrCriteria), errors.Is(err, colony.ErrNotPending),
		errors.Is(err, colony.ErrInvalidColonyID), errors.Is(err, catalog.ErrEventActive),
		errors.Is(err, assets.ErrInvalidKey):
		return UserError
	default:
		return SystemError
	}
}

// Describe renders err for a player. System errors are not echoed back.
func Describe(err error) string {
	t := Classify(err)
	if ie, ok := gate.IsIneligible(err); ok {
		msg := fmt.Sprintf("%s %s", errorPrefix(t), ie.Reason)
		if ie.Remaining > 0 {
			msg += fmt.Sprintf("\nTry again in **%s**.", FormatDuration(ie.Remaining))
		}
		return msg
	}
	if t == SystemError {
		return errorPrefix(t) + " Something went wrong. Please try again later."
	}
	return fmt.Sprintf("%s %s", errorPrefix(t), capitalize(err.Error()))
}

// RespondError answers a command with the embed for err. The error itself is not
// returned to the handler so user mistakes do not log as command failures.
func (h *ResponseHandler) RespondError(e *handler.CommandEvent, err error) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: Describe(err),
			Color:       errorColor(Classify(err)),
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateErrorEmbed(e *handler.CommandEvent, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.ErrorColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateSuccessEmbed(e *handler.CommandEvent, title, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: message,
			Color:       config.SuccessColor,
		}},
	})
}

func (h *ResponseHandler) CreateInfoEmbed(e *handler.CommandEvent, title, message string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: message,
			Color:       config.InfoColor,
		}},
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}
