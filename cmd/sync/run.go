package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/Alijeyrad/halisaha_backend/config"
	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/schedule"
	"github.com/Alijeyrad/halisaha_backend/internal/service/synchronizer"
	"github.com/Alijeyrad/halisaha_backend/pkg/database"
	"github.com/Alijeyrad/halisaha_backend/pkg/logs"
	redispkg "github.com/Alijeyrad/halisaha_backend/pkg/redis"
)

func NewRunCommand() *cobra.Command {
	var (
		period string
		month  int
		days   int
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Turn subscriptions into dated bookings for a period",
		Long: `Materialize one booking per subscription and matching date in the period,
skipping pitch/slot pairs that already have a booking.

  halisaha sync run                        # next 28 days
  halisaha sync run --days 7
  halisaha sync run --period month --month 6 --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			slog.SetDefault(logs.New(cfg))

			req := schedule.PeriodRequest{Period: period, Days: days}
			if cmd.Flags().Changed("month") {
				if month < 1 || month > 12 {
					return fmt.Errorf("--month must be between 1 and 12")
				}
				idx := month - 1
				req.Month = &idx
			}

			db, err := database.Open(database.FromCentralConfig(cfg.Database))
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			store := repo.NewPostgresStore(db)
			defer store.Close()

			var locker synchronizer.Locker
			rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
			if err != nil {
				return fmt.Errorf("failed to connect to redis: %w", err)
			}
			if rdb != nil {
				defer rdb.Close()
				locker = redispkg.NewLocker(rdb, "halisaha:lock:")
			}

			// A running server arms bells for what this run writes.
			var pub synchronizer.Publisher
			if cfg.Nats.URL != "" {
				nc, err := nats.Connect(cfg.Nats.URL, nats.Name("halisaha-sync"))
				if err != nil {
					return fmt.Errorf("failed to connect to nats: %w", err)
				}
				defer nc.Drain()
				pub = nc
			}

			svc := synchronizer.New(store, locker, pub, synchronizer.Config{
				Location:    cfg.Venue.Loc(),
				RollingDays: cfg.Sync.RollingDays,
				LockTTL:     cfg.Sync.LockTTL(),
			})

			p, err := svc.Resolve(req)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			var res synchronizer.Result
			if dryRun {
				res, err = svc.Preview(ctx, p)
			} else {
				res, err = svc.Run(ctx, p)
			}
			// A failed run still reports what it wrote before the error.
			if printErr := printResult(cmd, res, dryRun); printErr != nil && err == nil {
				err = printErr
			}
			return err
		},
	}

	cmd.Flags().StringVar(&period, "period", string(schedule.PeriodRolling), "rolling or month")
	cmd.Flags().IntVar(&month, "month", 0, "calendar month 1-12 for --period month (current year)")
	cmd.Flags().IntVar(&days, "days", 0, "length of a rolling period (default from sync.rolling_days)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be created without writing")

	return cmd
}

func printResult(cmd *cobra.Command, res synchronizer.Result, dryRun bool) error {
	verb := "created"
	if dryRun {
		verb = "would create"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %d bookings, skipped %d booked slots\n", verb, res.Created, res.Skipped)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res.Dates)
}
