package commands

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
)

var Events = discord.SlashCommandCreate{
	Name:        "events",
	Description: "📅 Show the current season and events",
}

func EventsHandler(b *stakeforge.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		snap := b.Engine.Tables()
		now := b.Engine.Now()

		var fields []discord.EmbedField
		for _, ev := range snap.Schedule.Events() {
			if !ev.Open(now) {
				continue
			}
			fields = append(fields, discord.EmbedField{
				Name:  fmt.Sprintf("%s · %s", strings.ToUpper(ev.Kind.String()), ev.Name),
				Value: describeEvent(ev),
			})
		}

		desc := fmt.Sprintf("Global reward multiplier: **%d%%**", snap.Multiplier())
		if len(fields) == 0 {
			desc += "\n\nNo events are running right now."
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "📅 Events",
				Description: desc,
				Color:       config.InfoColor,
				Fields:      fields,
			}},
		})
	}
}

func describeEvent(ev catalog.Event) string {
	var parts []string
	if ev.Multiplier > 0 {
		parts = append(parts, fmt.Sprintf("rewards ×%d%%", ev.Multiplier))
	}
	if ev.ChargeBoost > 0 {
		parts = append(parts, fmt.Sprintf("action rewards +%d%%", ev.ChargeBoost))
	}
	if ev.RegenBonus > 0 {
		parts = append(parts, fmt.Sprintf("charge regen +%d%%", ev.RegenBonus))
	}
	if ev.DailyCap > 0 {
		parts = append(parts, fmt.Sprintf("colony cap %d/day", ev.DailyCap))
	}
	if ev.CooldownOverride > 0 {
		parts = append(parts, fmt.Sprintf("%s cooldown %s", ev.OverrideCategory, ev.CooldownOverride))
	}
	if len(parts) == 0 {
		parts = append(parts, "no modifiers")
	}
	if ev.End.IsZero() {
		return strings.Join(parts, ", ") + "\nRuns until ended"
	}
	return fmt.Sprintf("%s\nEnds <t:%d:R>", strings.Join(parts, ", "), ev.End.Unix())
}
