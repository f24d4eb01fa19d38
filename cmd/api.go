package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/ellavondegurechaff/stakeforge/backend"
	"github.com/ellavondegurechaff/stakeforge/backend/handlers"
	"github.com/ellavondegurechaff/stakeforge/stakeforge"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/jobs"
	"github.com/ellavondegurechaff/stakeforge/stakeforge/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

const defaultAPIAddr = ":8080"

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "Serve the HTTP API without the Discord bot",
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

		scheduler, err := jobs.Start(rt.Engine, rt, time.Duration(cfg.Tables.ReloadMinutes)*time.Minute)
		if err != nil {
			return err
		}
		defer scheduler.Stop()

		app := newAPIServer(cfg, rt)
		go listen(app, cfg.API.Addr)

		waitForSignal()
		logger.LogSystem("Shutting down API server...")
		shutdown(app)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(apiCMD)
}

func newAPIServer(cfg *stakeforge.Config, rt *stakeforge.Runtime) *fiber.App {
	api := &handlers.API{
		Engine:  rt.Engine,
		History: rt.History,
		DB:      rt.DB,
		Tables:  rt,
		Version: version,
	}
	return backend.NewServer(api, backend.Options{
		AllowOrigins: cfg.API.AllowOrigins,
		APIKey:       cfg.API.APIKey,
	})
}

func listen(app *fiber.App, addr string) {
	if addr == "" {
		addr = defaultAPIAddr
	}
	logger.LogSystem("Starting API server", slog.String("address", addr))
	if err := app.Listen(addr); err != nil {
		logger.LogError("API server stopped", err)
	}
}

func shutdown(app *fiber.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.LogError("API shutdown error", err)
	}
}
