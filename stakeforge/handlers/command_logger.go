package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
)

// WrapWithLogging logs the start, outcome and duration of a command and gives up waiting
// after config.CommandExecutionTimeout.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		user := e.User()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", user.ID.String()),
			slog.String("user_name", user.Username),
			slog.String("channel_id", e.ChannelID().String()),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)
			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", user.ID.String()),
				slog.String("user_name", user.Username),
				slog.Duration("took", duration),
			}

			switch {
			case err != nil:
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", "failed"))...)
			case duration > config.SlowCommandThreshold:
				slog.Warn("Command executed slowly", append(attrs, slog.String("status", "slow"))...)
			default:
				slog.Info("Command completed", append(attrs, slog.String("status", "success"))...)
			}
			return err

		case <-time.After(config.CommandExecutionTimeout):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", user.ID.String()),
				slog.String("user_name", user.Username),
				slog.String("status", "timeout"),
				slog.Duration("timeout", config.CommandExecutionTimeout),
			)
			return fmt.Errorf("command timed out after %s", config.CommandExecutionTimeout)
		}
	}
}

// WrapAutocomplete drops autocomplete requests that take longer than
// config.AutocompleteTimeout; Discord discards late answers anyway.
func WrapAutocomplete(name string, h handler.AutocompleteHandler) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			if err != nil {
				slog.Warn("Autocomplete failed",
					slog.String("type", "cmd"),
					slog.String("name", name),
					slog.Any("error", err))
			}
			return err
		case <-time.After(config.AutocompleteTimeout):
			slog.Warn("Autocomplete timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("status", "timeout"))
			return nil
		}
	}
}
