package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/assets"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/domain/engine"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/config"
	"github.com/sahilm/fuzzy"
)

var (
	assetOption = discord.ApplicationCommandOptionString{
		Name:         "asset",
		Description:  "Staked asset as collection:token",
		Required:     true,
		Autocomplete: true,
	}
	actionOption = discord.ApplicationCommandOptionString{
		Name:         "action",
		Description:  "Action to perform",
		Required:     true,
		Autocomplete: true,
	}
)

func actorOf(e *handler.CommandEvent) string {
	return e.User().ID.String()
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
}

func parseAsset(e *handler.CommandEvent) (assets.Key, error) {
	return assets.ParseKey(strings.TrimSpace(e.SlashCommandInteractionData().String("asset")))
}

// actionSource adapts a sorted action list to fuzzy.Source.
type actionSource []catalog.ActionType

func (s actionSource) String(i int) string { return s[i].Name }
func (s actionSource) Len() int            { return len(s) }

func sortedActions(snap *catalog.Snapshot) []catalog.ActionType {
	out := make([]catalog.ActionType, 0, len(snap.Actions))
	for _, a := range snap.Actions {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// matchActions returns up to limit actions whose names fuzzily match query, best first.
// An empty query lists actions by id.
func matchActions(snap *catalog.Snapshot, query string, limit int) []catalog.ActionType {
	all := sortedActions(snap)
	query = strings.TrimSpace(query)
	if query == "" {
		return all[:min(limit, len(all))]
	}

	matches := fuzzy.FindFrom(query, actionSource(all))
	out := make([]catalog.ActionType, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, all[m.Index])
	}
	return out
}

// resolveAction accepts an action id or a case-insensitive action name.
func resolveAction(snap *catalog.Snapshot, value string) (catalog.ActionType, error) {
	value = strings.TrimSpace(value)
	if id, err := strconv.ParseUint(value, 10, 8); err == nil {
		if a, ok := snap.Action(catalog.ActionID(id)); ok {
			return a, nil
		}
	}
	for _, a := range snap.Actions {
		if strings.EqualFold(a.Name, value) {
			return a, nil
		}
	}
	return catalog.ActionType{}, fmt.Errorf("%w %q", engine.ErrUnknownAction, value)
}

func focusedValue(e *handler.AutocompleteEvent) (string, string) {
	focused := e.Data.Focused()
	var s string
	if focused.Value != nil {
		if err := json.Unmarshal(focused.Value, &s); err != nil {
			return focused.Name, ""
		}
	}
	return focused.Name, strings.TrimSpace(s)
}

// AssetActionAutocomplete completes the asset option from the caller's staked assets and
// the action option from the action table.
func AssetActionAutocomplete(b *stakeforge.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		name, query := focusedValue(e)

		switch name {
		case "action":
			matched := matchActions(b.Engine.Tables(), query, config.MaxAutocomplete)
			choices := make([]discord.AutocompleteChoice, 0, len(matched))
			for _, a := range matched {
				choices = append(choices, discord.AutocompleteChoiceString{
					Name:  fmt.Sprintf("%s (%s)", a.Name, a.Category),
					Value: strconv.Itoa(int(a.ID)),
				})
			}
			return e.AutocompleteResult(choices)

		case "asset":
			owned := b.Engine.AssetsOf(e.User().ID.String())
			choices := make([]discord.AutocompleteChoice, 0, min(len(owned), config.MaxAutocomplete))
			for _, a := range owned {
				key := assets.FormatKey(a.Key)
				if query != "" && !strings.HasPrefix(key, query) {
					continue
				}
				choices = append(choices, discord.AutocompleteChoiceString{
					Name:  fmt.Sprintf("%s · lvl %d · charge %d", key, a.Level, a.Charge.Current),
					Value: key,
				})
				if len(choices) == config.MaxAutocomplete {
					break
				}
			}
			return e.AutocompleteResult(choices)
		}
		return e.AutocompleteResult(nil)
	}
}
