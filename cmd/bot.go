package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/commands"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/jobs"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/logger"
	"github.com/spf13/cobra"
)

var (
	syncCommands bool
	serveAPI     bool
)

var botCMD = &cobra.Command{
	Use:   "bot",
	Short: "Run the Discord bot and the maintenance jobs",
	Long: "Run the Discord bot and the maintenance jobs. The process owns the ledger; " +
		"use --api to serve the HTTP API from the same engine.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		rt, err := stakeforge.Bootstrap(ctx, cfg)
		cancel()
		if err != nil {
			return err
		}
		defer rt.Close(context.Background())

		b := stakeforge.New(*cfg, rt, version, commit)
		h := handler.New()
		commands.Register(h, b)

		if err := b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
			return fmt.Errorf("failed to setup bot: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			b.Client.Close(ctx)
		}()

		if syncCommands {
			logger.LogSystem("Syncing commands", slog.Any("guild_ids", cfg.Bot.DevGuilds))
			if err := handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
				logger.LogError("Failed to sync commands", err)
			}
		}

		ctx, cancel = context.WithTimeout(cmd.Context(), 10*time.Second)
		err = b.Client.OpenGateway(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to open gateway: %w", err)
		}

		scheduler, err := jobs.Start(rt.Engine, rt, time.Duration(cfg.Tables.ReloadMinutes)*time.Minute)
		if err != nil {
			return err
		}
		defer scheduler.Stop()

		if serveAPI {
			app := newAPIServer(cfg, rt)
			go listen(app, cfg.API.Addr)
			defer shutdown(app)
		}

		logger.LogSystem("Bot is running. Press CTRL-C to exit.")
		waitForSignal()
		logger.LogSystem("Shutting down bot...")
		return nil
	},
}

func init() {
	botCMD.Flags().BoolVar(&syncCommands, "sync-commands", false, "sync slash commands to discord")
	botCMD.Flags().BoolVar(&serveAPI, "api", false, "also serve the HTTP API")
	rootCmd.AddCommand(botCMD)
}
