package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/rewards"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/utils"
)

var Rewards = discord.SlashCommandCreate{
	Name:        "rewards",
	Description: "💰 Show the rewards an asset has accrued",
	Options:     []discord.ApplicationCommandOption{assetOption},
}

var Claim = discord.SlashCommandCreate{
	Name:        "claim",
	Description: "🎁 Claim the rewards an asset has accrued",
	Options:     []discord.ApplicationCommandOption{assetOption},
}

func RewardsHandler(b *stakeforge.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		key, err := parseAsset(e)
		if err != nil {
			return utils.EH.RespondError(e, err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		bd, err := b.Engine.PendingRewards(ctx, key)
		if err != nil {
			return utils.EH.RespondError(e, err)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "💰 Pending rewards · " + assets.FormatKey(key),
				Description: describeBreakdown(bd),
				Color:       config.InfoColor,
			}},
		})
	}
}

func ClaimHandler(b *stakeforge.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		key, err := parseAsset(e)
		if err != nil {
			return utils.EH.RespondError(e, err)
		}

		ctx, cancel := commandContext()
		defer cancel()

		receipt, err := b.Engine.ClaimRewards(ctx, actorOf(e), key)
		if err != nil {
			return utils.EH.RespondError(e, err)
		}

		slog.Info("Rewards claimed",
			slog.String("type", "rwd"),
			slog.String("actor", receipt.ActorID),
			slog.String("asset", assets.FormatKey(key)),
			slog.Int64("amount", receipt.Amount))

		return utils.EH.CreateSuccessEmbed(e, "🎁 Rewards claimed",
			fmt.Sprintf("You claimed **%s** from %s.\n\n%s",
				utils.FormatAmount(receipt.Amount), assets.FormatKey(key), describeBreakdown(receipt.Breakdown)))
	}
}

func describeBreakdown(bd rewards.Breakdown) string {
	var sb strings.Builder
	sb.WriteString("```ansi\n")
	fmt.Fprintf(&sb, "Staked for   %s\n", utils.FormatDuration(bd.Elapsed.Truncate(time.Minute)))
	fmt.Fprintf(&sb, "Base         %s\n", utils.FormatAmount(bd.Base))
	fmt.Fprintf(&sb, "Bonuses      %s (level %s, variant %s, colony %s, loyalty %s)\n",
		utils.FormatPercent(bd.BonusTotal), utils.FormatPercent(bd.Level), utils.FormatPercent(bd.Variant),
		utils.FormatPercent(bd.Colony), utils.FormatPercent(bd.Loyalty))
	fmt.Fprintf(&sb, "Efficiency   %d%%\n", bd.ChargeEfficiency)
	if bd.FatiguePenalty > 0 || bd.WearPenalty > 0 {
		fmt.Fprintf(&sb, "Penalties    fatigue -%d%%, wear -%d%%\n", bd.FatiguePenalty, bd.WearPenalty)
	}
	if bd.Season != 100 || bd.Global != 100 {
		fmt.Fprintf(&sb, "Multipliers  season %d%%, global %d%%\n", bd.Season, bd.Global)
	}
	fmt.Fprintf(&sb, "\x1b[1;32mTotal        %s\x1b[0m\n", utils.FormatAmount(bd.Amount))
	sb.WriteString("```")
	return sb.String()
}
