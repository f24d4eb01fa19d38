package commands

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/gate"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/utils"
)

var Act = discord.SlashCommandCreate{
	Name:        "act",
	Description: "⚔️ Send a staked asset on an action",
	Options:     []discord.ApplicationCommandOption{assetOption, actionOption},
}

var Eligibility = discord.SlashCommandCreate{
	Name:        "eligibility",
	Description: "🔎 Check whether an asset can perform an action right now",
	Options:     []discord.ApplicationCommandOption{assetOption, actionOption},
}

func ActHandler(b *stakeforge.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		key, err := parseAsset(e)
		if err != nil {
			return utils.EH.RespondError(e, err)
		}
		action, err := resolveAction(b.Engine.Tables(), e.SlashCommandInteractionData().String("action"))
		if err != nil {
			return utils.EH.RespondError(e, err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		receipt, err := b.Engine.PerformAction(ctx, actorOf(e), key, action.ID)
		if err != nil {
			if ie, ok := gate.IsIneligible(err); ok {
				slog.Info("Action rejected",
					slog.String("type", "gate"),
					slog.String("check", ie.Check.String()),
					slog.String("asset", assets.FormatKey(key)),
					slog.Int("action", int(action.ID)),
					slog.Duration("remaining", ie.Remaining))
			}
			return utils.EH.RespondError(e, err)
		}

		a, err := b.Engine.Asset(key)
		if err != nil {
			return err
		}

		var desc strings.Builder
		fmt.Fprintf(&desc, "**%s** completed **%s**\n\n", assets.FormatKey(key), action.Name)
		fmt.Fprintf(&desc, "Reward: **%s**\n", utils.FormatAmount(receipt.Reward))
		if receipt.Fee > 0 {
			fmt.Fprintf(&desc, "Fee: %s\n", utils.FormatAmount(receipt.Fee))
		}
		fmt.Fprintf(&desc, "Charge: %d/%d %s (-%d)\n", a.Charge.Current, a.Charge.Max,
			utils.ProgressBar(a.Charge.Current, a.Charge.Max), receipt.Cost)
		if !receipt.Credited {
			desc.WriteString("\n*The daily activity cap is reached; this action did not count toward your streak.*")
		}

		actor := b.Engine.Actor(actorOf(e))
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "⚔️ Action complete",
				Description: desc.String(),
				Color:       config.SuccessColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Streak %d · %d actions today", actor.Streak, actor.CountToday(action.ID)),
				},
			}},
		})
	}
}

func EligibilityHandler(b *stakeforge.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		key, err := parseAsset(e)
		if err != nil {
			return utils.EH.RespondError(e, err)
		}
		action, err := resolveAction(b.Engine.Tables(), e.SlashCommandInteractionData().String("action"))
		if err != nil {
			return utils.EH.RespondError(e, err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		el, err := b.Engine.CheckEligibility(ctx, actorOf(e), key, action.ID)
		if err != nil {
			return utils.EH.RespondError(e, err)
		}

		color, status := config.SuccessColor, "✅ Ready"
		if !el.Allowed {
			color, status = config.WarningColor, "⏳ "+el.Reason
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       fmt.Sprintf("%s · %s", assets.FormatKey(key), action.Name),
				Description: status,
				Color:       color,
				Fields: []discord.EmbedField{
					{Name: "Charge", Value: fmt.Sprintf("%d (costs %d)", el.Charge, el.Cost), Inline: boolPtr(true)},
					{Name: "Expected reward", Value: utils.FormatAmount(el.Reward), Inline: boolPtr(true)},
					{Name: "Fee", Value: utils.FormatAmount(el.Fee), Inline: boolPtr(true)},
				},
			}},
			Flags: discord.MessageFlagEphemeral,
		})
	}
}

func boolPtr(v bool) *bool {
	return &v
}
