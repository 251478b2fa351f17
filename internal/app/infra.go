package app

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/halisaha_backend/config"
	"github.com/Alijeyrad/halisaha_backend/internal/repo"
	"github.com/Alijeyrad/halisaha_backend/internal/service/appointment"
	"github.com/Alijeyrad/halisaha_backend/internal/service/synchronizer"
	"github.com/Alijeyrad/halisaha_backend/pkg/database"
	"github.com/Alijeyrad/halisaha_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/halisaha_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideDatabase),
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideLocker),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvidePublisher),
	fx.Provide(ProvideOTel),
)

func ProvideDatabase(lc fx.Lifecycle, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(database.FromCentralConfig(cfg.Database))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing main database connection")
			return db.Close()
		},
	})
	return db, nil
}

// ProvideStore returns the Postgres document store and, when enabled,
// creates its schema before the server starts.
func ProvideStore(lc fx.Lifecycle, cfg *config.Config, db *sql.DB) repo.Store {
	store := repo.NewPostgresStore(db)
	if cfg.Database.Migrations.AutoMigrate {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				slog.Info("running document store migrations")
				return store.Migrate(ctx)
			},
		})
	}
	return store
}

// ProvideRedis returns nil when no address is configured.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil || rdb == nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideLocker(rdb *redis.Client) synchronizer.Locker {
	if rdb == nil {
		slog.Warn("redis not configured; sync runs are not locked")
		return nil
	}
	return redispkg.NewLocker(rdb, "halisaha:lock:")
}

// ProvideNatsClient returns nil when no URL is configured.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name("halisaha"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvidePublisher(nc *nats.Conn) appointment.Publisher {
	if nc == nil {
		return nil
	}
	return nc
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
