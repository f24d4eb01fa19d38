package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/utils"
)

var errBadStakeInput = errors.New("collection and token must be positive and level between 1 and 100")

var Stake = discord.SlashCommandCreate{
	Name:        "stake",
	Description: "📦 Manage your staked assets",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "register",
			Description: "Stake an asset you own",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "collection",
					Description: "Collection id",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "token",
					Description: "Token id",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "level",
					Description: "Asset level (default 1)",
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "List your staked assets",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "repair",
			Description: "Reset an asset's wear",
			Options:     []discord.ApplicationCommandOption{assetOption},
		},
	},
}

type StakeHandler struct {
	b *stakeforge.Bot
}

func NewStakeHandler(b *stakeforge.Bot) *StakeHandler {
	return &StakeHandler{b: b}
}

func (h *StakeHandler) Register(r handler.Router) {
	r.Route("/stake", func(r handler.Router) {
		r.Command("/register", wrap("stake-register", h.HandleRegister))
		r.Command("/list", wrap("stake-list", h.HandleList))
		r.Command("/repair", wrap("stake-repair", h.HandleRepair))
		r.Autocomplete("/repair", assetAutocomplete(h.b))
	})
}

func (h *StakeHandler) HandleRegister(e *handler.CommandEvent) error {
	data := e.SlashCommandInteractionData()
	collection, token := data.Int("collection"), data.Int("token")
	level, ok := data.OptInt("level")
	if !ok {
		level = 1
	}
	if collection <= 0 || token <= 0 || level < 1 || level > 100 {
		return utils.EH.RespondError(e, errBadStakeInput)
	}

	ctx, cancel := commandContext()
	defer cancel()

	a, err := h.b.Engine.RegisterAsset(ctx, actorOf(e), uint64(collection), uint64(token), level)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, "📦 Asset staked",
		fmt.Sprintf("**%s** is now staked at level %d (variant %d).", assets.FormatKey(a.Key), a.Level, a.Variant))
}

func (h *StakeHandler) HandleList(e *handler.CommandEvent) error {
	owned := h.b.Engine.AssetsOf(actorOf(e))
	if len(owned) == 0 {
		return utils.EH.CreateInfoEmbed(e, "📦 Staked assets", "You have no staked assets. Use `/stake register` to add one.")
	}

	pages := (len(owned) + config.DefaultPageSize - 1) / config.DefaultPageSize
	return h.b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * config.DefaultPageSize
			end := min(start+config.DefaultPageSize, len(owned))

			var sb strings.Builder
			for _, a := range owned[start:end] {
				fmt.Fprintf(&sb, "`%s` lvl %d · charge %d/%d · wear %d", assets.FormatKey(a.Key),
					a.Level, a.Charge.Current, a.Charge.Max, a.Wear)
				if a.ColonyID != 0 {
					fmt.Fprintf(&sb, " · colony #%d", a.ColonyID)
				}
				sb.WriteByte('\n')
			}
			embed.SetTitle("📦 Staked assets").
				SetDescription(sb.String()).
				SetColor(config.EmbedColor).
				SetFooterText(fmt.Sprintf("Page %d/%d · %d assets", page+1, pages, len(owned)))
		},
		Pages:      pages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (h *StakeHandler) HandleRepair(e *handler.CommandEvent) error {
	key, err := parseAsset(e)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	a, err := h.b.Engine.RepairAsset(ctx, actorOf(e), key)
	if err != nil {
		return utils.EH.RespondError(e, err)
	}
	return utils.EH.CreateSuccessEmbed(e, "🔧 Repaired", fmt.Sprintf("%s wear is back to %d.", assets.FormatKey(a.Key), a.Wear))
}
