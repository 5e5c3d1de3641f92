package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/phuslu/log"

	"github.com/dmaldonado/patrimonio-backend/internal/adapter/exchange"
	"github.com/dmaldonado/patrimonio-backend/internal/adapter/repository/postgres"
	"github.com/dmaldonado/patrimonio-backend/internal/adapter/rest"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/dashboard"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/scheduler"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/seeder"
	"github.com/dmaldonado/patrimonio-backend/internal/usecase/summary"
)

const defaultPort = "8080"

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log.DefaultLogger = log.Logger{
		Level:      log.ParseLevel(envOr("LOG_LEVEL", "info")),
		TimeFormat: time.RFC3339,
		Writer:     &log.ConsoleWriter{Writer: os.Stderr},
	}

	// 1. Setup Database
	databaseURL := databaseURLFromEnv()

	db, err := postgres.NewDB(databaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	migrationsPath := envOr("MIGRATIONS_PATH", "migrations")
	if err := postgres.RunMigrations(databaseURL, migrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// 2. Initialize Repositories (Postgres)
	assetRepo := postgres.NewAssetRepository(db)
	investmentRepo := postgres.NewInvestmentRepository(db)
	dollarRepo := postgres.NewDollarRepository(db)
	configRepo := postgres.NewConfigRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	incomeRepo := postgres.NewIncomeRepository(db)

	// 3. Initialize Services (Use Cases)
	netWorthService := networth.NewService(assetRepo, investmentRepo, dollarRepo, configRepo, snapshotRepo)
	dashboardService := dashboard.NewService(netWorthService, incomeRepo, expenseRepo)
	summaryService := summary.NewService(incomeRepo, expenseRepo)

	// Ensure default config keys exist before serving
	ctx := context.Background()
	if err := seeder.NewConfigSeeder(configRepo).Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to seed default config")
	}

	// 4. Start HTTP Server
	auth := rest.AuthConfig{
		PasswordHash: os.Getenv("SHARED_PASSWORD_HASH"),
		Password:     os.Getenv("SHARED_PASSWORD"),
		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
	}
	if len(auth.JWTSecret) == 0 {
		log.Fatal().Msg("JWT_SECRET must be set")
	}
	if auth.PasswordHash == "" && auth.Password == "" {
		log.Fatal().Msg("SHARED_PASSWORD_HASH or SHARED_PASSWORD must be set")
	}

	if envOr("GIN_MODE", "") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := rest.NewServer(
		netWorthService, dashboardService, summaryService,
		assetRepo, investmentRepo, dollarRepo,
		configRepo, expenseRepo, incomeRepo,
		exchange.NewClient(), auth,
	)

	httpServer := &http.Server{
		Addr:              ":" + envOr("PORT", defaultPort),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Keep the daily snapshot series alive even on days with no mutations
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	go scheduler.NewSnapshotScheduler(netWorthService).Run(schedulerCtx)

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(httpServer, stopScheduler)
}

// databaseURLFromEnv returns DATABASE_URL, or builds a connection string from
// the individual DB_* vars (Docker friendly)
func databaseURLFromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := envOr("DB_HOST", "localhost")
	port := envOr("DB_PORT", "5432")
	user := envOr("DB_USER", "postgres")
	password := envOr("DB_PASSWORD", "postgres")
	dbname := envOr("DB_NAME", "patrimonio")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		user, password, host, port, dbname)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server, stopScheduler context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	log.Info().Msg("http server stopped")
}
