package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/colony"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/utils"
)

var colonyIDOption = discord.ApplicationCommandOptionString{
	Name:        "colony",
	Description: "Colony id, e.g. 12 or #12",
	Required:    true,
}

var Colony = discord.SlashCommandCreate{
	Name:        "colony",
	Description: "🏰 Colonies pool assets for a shared reward bonus",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "create",
			Description: "Found a colony",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "name",
					Description: "Colony name",
					Required:    true,
					MaxLength:   intPtr(32),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "min_level",
					Description: "Minimum asset level",
				},
				discord.ApplicationCommandOptionInt{
					Name:        "min_variant",
					Description: "Minimum asset variant",
				},
				discord.ApplicationCommandOptionInt{
					Name:        "specialization",
					Description: "Only admit assets with this specialization",
					Choices: []discord.ApplicationCommandOptionChoiceInt{
						{Name: "Balanced", Value: int(assets.SpecBalanced)},
						{Name: "Efficiency", Value: int(assets.SpecEfficiency)},
						{Name: "Regeneration", Value: int(assets.SpecRegeneration)},
					},
				},
				discord.ApplicationCommandOptionBool{
					Name:        "approval",
					Description: "Require your approval for new members",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "info",
			Description: "Show a colony and its current bonus",
			Options:     []discord.ApplicationCommandOption{colonyIDOption},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "members",
			Description: "List colony members",
			Options:     []discord.ApplicationCommandOption{colonyIDOption},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "join",
			Description: "Add one of your assets to a colony",
			Options:     []discord.ApplicationCommandOption{colonyIDOption, assetOption},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "leave",
			Description: "Remove one of your assets from its colony",
			Options:     []discord.ApplicationCommandOption{assetOption},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "approve",
			Description: "Admit a pending asset (creator only)",
			Options: []discord.ApplicationCommandOption{
				colonyIDOption,
				discord.ApplicationCommandOptionString{
					Name:        "asset",
					Description: "Pending asset as collection:token",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "restore",
			Description: "Restore colony health (creator only)",
			Options: []discord.ApplicationCommandOption{
				colonyIDOption,
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "Health points to restore",
					Required:    true,
				},
			},
		},
	},
}

type ColonyHandler struct {
	b *stakeforge.Bot
}

func NewColonyHandler(b *stakeforge.Bot) *ColonyHandler {
	return &ColonyHandler{b: b}
}

func (h *ColonyHandler) Register(r handler.Router) {
	r.Route("/colony", func(r handler.Router) {
		r.Command("/create", wrap("colony-create", h.HandleCreate))
		r.Command("/info", wrap("colony-info", h.HandleInfo))
		r.Command("/members", wrap("colony-members", h.HandleMembers))
		r.Command("/join", wrap("colony-join", h.HandleJoin))
		r.Command("/leave", wrap("colony-leave", h.HandleLeave))
		r.Command("/approve", wrap("colony-approve", h.HandleApprove))
		r.Command("/restore", wrap("colony-restore", h.HandleRestore))
		r.Autocomplete("/join", assetAutocomplete(h.b))
		r.Autocomplete("/leave", assetAutocomplete(h.b))
	})
}

func colonyID(e *handler.CommandEvent) (uint64, error) {
	return colony.ParseColonyID(e.SlashCommandInteractionData().String("colony"))
}

func (h *ColonyHandler) HandleCreate(e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	name := strings.TrimSpace(data.String("name"))
	if name == "" {
		return utils.EH.CreateErrorEmbed(e, "⚠️ A colony needs a name.")
	}

	criteria := colony.Criteria{
		MinLevel:   max(data.Int("min_level"), 0),
		MinVariant: max(data.Int("min_variant"), 0),
	}
	if spec, ok := data.OptInt("specialization"); ok {
		criteria.Specialization = assets.Specialization(spec)
		criteria.RequireSpecialization = true
	}
	criteria.RequireApproval = data.Bool("approval")

	ctx, cancel := commandContext()
	defer cancel()

	c, err := h.b.Engine.CreateColony(ctx, actorOf(e), name, criteria)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, "🏰 Colony founded",
		fmt.Sprintf("**%s** is colony **#%d**. Members join with `/colony join colony:%d`.", c.Name, c.ID, c.ID))
}

func (h *ColonyHandler) HandleInfo(e *handler.CommandEvent) error {
	id, err := colonyID(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	report, err := h.b.Engine.ColonyBonus(ctx, id)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	c := report.Colony

	var desc strings.Builder
	fmt.Fprintf(&desc, "Founded by <@%s> %s\n\n", c.Creator, discordTimestamp(c.CreatedAt))
	fmt.Fprintf(&desc, "Health: %d/100 %s\n", c.Health, utils.ProgressBar(c.Health, 100))
	fmt.Fprintf(&desc, "Activity score: %d\n", c.ActivityScore)
	fmt.Fprintf(&desc, "Members: %d (%d pending)\n\n", c.Size(), len(c.Pending()))
	if c.BonusOverride > 0 {
		fmt.Fprintf(&desc, "Bonus override: %s\n", utils.FormatPercent(c.BonusOverride))
	} else {
		fmt.Fprintf(&desc, "Sampled bonus: %s (%d of %d sampled members valid, diversity %s)\n",
			utils.FormatPercent(report.Sample.Bonus), report.Sample.Valid, report.Sample.Sampled,
			utils.FormatPercent(report.Sample.Diversity))
	}
	fmt.Fprintf(&desc, "**Effective bonus: %s**", utils.FormatPercent(report.Effective))

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       fmt.Sprintf("🏰 #%d %s", c.ID, c.Name),
			Description: desc.String(),
			Color:       config.InfoColor,
			Fields:      criteriaFields(c.Criteria),
		}},
	})
}

func criteriaFields(cr colony.Criteria) []discord.EmbedField {
	var parts []string
	if cr.MinLevel > 0 {
		parts = append(parts, fmt.Sprintf("level ≥ %d", cr.MinLevel))
	}
	if cr.MinVariant > 0 {
		parts = append(parts, fmt.Sprintf("variant ≥ %d", cr.MinVariant))
	}
	if cr.RequireSpecialization {
		parts = append(parts, fmt.Sprintf("specialization %d", cr.Specialization))
	}
	if cr.RequireApproval {
		parts = append(parts, "approval required")
	}
	if len(parts) == 0 {
		return nil
	}
	return []discord.EmbedField{{Name: "Requirements", Value: strings.Join(parts, ", ")}}
}

func (h *ColonyHandler) HandleMembers(e *handler.CommandEvent) error {
	id, err := colonyID(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	report, err := h.b.Engine.ColonyBonus(ctx, id)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	members := report.Colony.Members()
	if len(members) == 0 {
		return utils.EH.CreateInfoEmbed(e, "🏰 "+report.Colony.Name, "This colony has no members yet.")
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Big().Cmp(members[j].Big()) < 0 })

	pages := (len(members) + config.MembersPerPage - 1) / config.MembersPerPage
	return h.b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * config.MembersPerPage
			end := min(start+config.MembersPerPage, len(members))

			var sb strings.Builder
			for i, key := range members[start:end] {
				fmt.Fprintf(&sb, "%d. `%s`\n", start+i+1, assets.FormatKey(key))
			}
			embed.SetTitle(fmt.Sprintf("🏰 #%d %s · members", report.Colony.ID, report.Colony.Name)).
				SetDescription(sb.String()).
				SetColor(config.EmbedColor).
				SetFooterText(fmt.Sprintf("Page %d/%d · %d members", page+1, pages, len(members)))
		},
		Pages:      pages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (h *ColonyHandler) HandleJoin(e *handler.CommandEvent) error {
	id, err := colonyID(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	key, err := parseAsset(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	joined, err := h.b.Engine.JoinColony(ctx, actorOf(e), id, key)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	if !joined {
		return utils.EH.CreateInfoEmbed(e, "🏰 Request sent",
			fmt.Sprintf("%s is waiting for approval to join colony #%d.", assets.FormatKey(key), id))
	}
	return utils.EH.CreateSuccessEmbed(e, "🏰 Joined", fmt.Sprintf("%s joined colony #%d.", assets.FormatKey(key), id))
}

func (h *ColonyHandler) HandleLeave(e *handler.CommandEvent) error {
	key, err := parseAsset(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	id, err := h.b.Engine.LeaveColony(ctx, actorOf(e), key)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, "🏰 Left", fmt.Sprintf("%s left colony #%d.", assets.FormatKey(key), id))
}

func (h *ColonyHandler) HandleApprove(e *handler.CommandEvent) error {
	id, err := colonyID(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	key, err := parseAsset(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := h.b.Engine.ApproveMember(ctx, actorOf(e), id, key); err != nil {
		return utils.EH.RespondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, "🏰 Approved", fmt.Sprintf("%s is now a member of colony #%d.", assets.FormatKey(key), id))
}

func (h *ColonyHandler) HandleRestore(e *handler.CommandEvent) error {
	id, err := colonyID(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	amount := e.SlashCommandInteractionData().Int("amount")
	if amount <= 0 {
		return utils.EH.CreateErrorEmbed(e, "⚠️ Amount must be positive.")
	}

	ctx, cancel := commandContext()
	defer cancel()

	c, err := h.b.Engine.RestoreColonyHealth(ctx, actorOf(e), id, amount)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, "🏰 Health restored", fmt.Sprintf("Colony #%d health is now %d.", c.ID, c.Health))
}

func discordTimestamp(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

func intPtr(v int) *int {
	return &v
}
