package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/finbooks/finbooks/internal/adapters/database/memory"
	"github.com/finbooks/finbooks/internal/adapters/database/pgsql"
	"github.com/finbooks/finbooks/internal/core/services"
	"github.com/finbooks/finbooks/internal/handlers"
	"github.com/finbooks/finbooks/internal/middleware"
	"github.com/finbooks/finbooks/pkg/config"
	"github.com/finbooks/finbooks/pkg/database"
)

// @title FinBooks API
// @version 1.0
// @description Multi-tenant double-entry bookkeeping engine.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var repos services.RepositoryProvider
	if cfg.UseInMemoryStore {
		logger.Warn("Running with the in-memory store; all data is lost on shutdown")
		store := memory.NewStore()
		repos = services.RepositoryProvider{
			Tenant:  store,
			Account: store,
			Ledger:  store,
			Invoice: store,
			Bill:    store,
			Banking: store,
		}
	} else {
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer database.ClosePgxPool(dbPool)

		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			os.Exit(1)
		}
		repos = pgxRepositories(dbPool)
	}

	container := services.NewServiceContainer(repos)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiter.New(limitermemory.NewStore(), rate)))

	analyticsClient := middleware.NewAnalyticsClient(cfg.PosthogAPIKey, logger)
	defer analyticsClient.Close()
	r.Use(middleware.Analytics(analyticsClient))

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func pgxRepositories(dbPool *pgxpool.Pool) services.RepositoryProvider {
	return services.RepositoryProvider{
		Tenant:  pgsql.NewPgxTenantRepository(dbPool),
		Account: pgsql.NewPgxAccountRepository(dbPool),
		Ledger:  pgsql.NewPgxLedgerRepository(dbPool),
		Invoice: pgsql.NewPgxInvoiceRepository(dbPool),
		Bill:    pgsql.NewPgxBillRepository(dbPool),
		Banking: pgsql.NewPgxBankingRepository(dbPool),
	}
}

// runMigrations applies all pending up migrations from the migrations
// directory over a short-lived database/sql connection.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", upErr.Error()))
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
