package cmd

import (
	"fmt"
	"sort"

	"github.com/ellavondegurechaff/stakeforge/internal/domain/catalog"
	"github.com/ellavondegurechaff/stakeforge/internal/gateways/configstore"
	"github.com/spf13/cobra"
)

var printFormat string

var tablesCMD = &cobra.Command{
	Use:   "tables",
	Short: "Inspect game table files",
}

var tablesValidateCMD = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse and validate a TOML or YAML table file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := configstore.FileStore{Path: args[0]}.Load(cmd.Context())
		if err != nil {
			return err
		}

		ids := make([]int, 0, len(snap.Actions))
		for id := range snap.Actions {
			ids = append(ids, int(id))
		}
		sort.Ints(ids)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: version %d, %d actions, %d events\n", args[0], snap.Bonus.Version, len(snap.Actions), len(snap.Schedule.Events()))
		for _, id := range ids {
			a := snap.Actions[catalog.ActionID(id)]
			fmt.Fprintf(out, "  %3d %-12s %-8s cooldown %s, cost %d, daily %d\n", a.ID, a.Name, a.Category, a.BaseCooldown, a.ChargeCost, a.DailyLimit.Base)
		}
		return nil
	},
}

var tablesPrintCMD = &cobra.Command{
	Use:   "print [file]",
	Short: "Print a table file, or the built-in tables, in the chosen format",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap := catalog.DefaultSnapshot()
		if len(args) == 1 {
			var err error
			if snap, err = (configstore.FileStore{Path: args[0]}).Load(cmd.Context()); err != nil {
				return err
			}
		}

		format := configstore.Format(printFormat)
		if format != configstore.FormatTOML && format != configstore.FormatYAML {
			return fmt.Errorf("unknown format %q", printFormat)
		}
		data, err := configstore.Encode(snap, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	tablesPrintCMD.Flags().StringVarP(&printFormat, "format", "f", string(configstore.FormatTOML), "output format: toml or yaml")
	tablesCMD.AddCommand(tablesValidateCMD, tablesPrintCMD)
	rootCmd.AddCommand(tablesCMD)
}
