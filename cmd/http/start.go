package http

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Alijeyrad/halisaha_backend/config"
	"github.com/Alijeyrad/halisaha_backend/internal/api/http"
	"github.com/Alijeyrad/halisaha_backend/internal/api/http/router"
	"github.com/Alijeyrad/halisaha_backend/internal/app"
	"github.com/Alijeyrad/halisaha_backend/pkg/logs"
)

func NewStartCommand() *cobra.Command {
	var (
		shutdownTimeout time.Duration
		autoMigrate     bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the booking API and the pitch buzzer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("auto-migrate") {
				cfg.Database.Migrations.AutoMigrate = autoMigrate
			}

			// Logger first so fx hooks log through it.
			slog.SetDefault(logs.New(cfg))
			slog.Info("starting halisaha api",
				"environment", cfg.Server.Environment,
				"pitches", cfg.Venue.Pitches,
				"location", cfg.Venue.Location,
			)

			fx.New(
				fx.Supply(cfg),
				app.InfraModule,
				app.ServiceModule,
				app.WorkerModule,
				router.Module,
				http.Module,
				fx.Invoke(func(*fiber.App) {}),
				fx.StopTimeout(shutdownTimeout),
				fx.WithLogger(func() fxevent.Logger { return fxevent.NopLogger }),
			).Run()
			return nil
		},
	}

	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for graceful shutdown")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Create missing collection tables on start (overrides database.migrations.auto_migrate)")

	return cmd
}
