package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/handlers"
)

var Commands = []discord.ApplicationCommandCreate{
	Act,
	Eligibility,
	Rewards,
	Claim,
	Stake,
	Colony,
	Events,
}

var wrap = handlers.WrapWithLogging

func assetAutocomplete(b *stakeforge.Bot) handler.AutocompleteHandler {
	return handlers.WrapAutocomplete("asset-action", AssetActionAutocomplete(b))
}

// Register binds every command and autocomplete handler to r.
func Register(r handler.Router, b *stakeforge.Bot) {
	autocomplete := assetAutocomplete(b)

	r.Command("/act", wrap("act", ActHandler(b)))
	r.Autocomplete("/act", autocomplete)
	r.Command("/eligibility", wrap("eligibility", EligibilityHandler(b)))
	r.Autocomplete("/eligibility", autocomplete)
	r.Command("/rewards", wrap("rewards", RewardsHandler(b)))
	r.Autocomplete("/rewards", autocomplete)
	r.Command("/claim", wrap("claim", ClaimHandler(b)))
	r.Autocomplete("/claim", autocomplete)
	r.Command("/events", wrap("events", EventsHandler(b)))

	NewStakeHandler(b).Register(r)
	NewColonyHandler(b).Register(r)
}
