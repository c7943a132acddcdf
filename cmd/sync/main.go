// Package main is the entry point for the daily sync job. An external
// scheduler (cron or a managed job runner) invokes it once per day; a
// non-zero exit signals a failed run so the scheduler can alert.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codetrack/internal/config"
	"codetrack/internal/pkg/db"
	"codetrack/internal/pkg/pace"
	"codetrack/internal/platform"
	"codetrack/internal/repository"
	"codetrack/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	// Cancel the run on SIGINT/SIGTERM so in-flight batches settle cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Optionally expose Prometheus metrics while the job runs
	if cfg.Sync.MetricsAddr != "" {
		go serveMetrics(cfg.Sync.MetricsAddr)
	}

	// Initialize repositories
	studentRepo := repository.NewStudentRepository(dbPool.Pool)
	accountRepo := repository.NewPlatformAccountRepository(dbPool.Pool)
	activityRepo := repository.NewActivityRepository(dbPool.Pool)
	leaderboardRepo := repository.NewLeaderboardRepository(dbPool.Pool)

	// Initialize platform adapters
	httpClient := platform.NewHTTPClient(cfg.Sync.FetchTimeout)
	adapters := platform.NewRegistry(&cfg.Platforms, httpClient)

	// Initialize services
	syncer := service.NewStudentSyncer(studentRepo, accountRepo, activityRepo, adapters)
	leaderboard := service.NewLeaderboardService(activityRepo, studentRepo, leaderboardRepo)

	timezone, err := loadTimezone(cfg.Sync.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Sync.Timezone).Msg("Invalid timezone")
	}

	orchestrator := service.NewOrchestrator(
		studentRepo,
		syncer,
		leaderboard,
		pace.NewFixed(cfg.Sync.BatchDelay),
		cfg.Sync.BatchSize,
		timezone,
	)

	if err := orchestrator.RunDailySync(ctx); err != nil {
		log.Error().Err(err).Msg("Daily sync failed")
		os.Exit(1)
	}
}

// loadTimezone resolves the configured timezone name.
func loadTimezone(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// serveMetrics exposes /metrics for the duration of the job.
func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Warn().Err(err).Msg("Metrics server stopped")
	}
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create students table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS students (
			id UUID PRIMARY KEY,
			roll_no VARCHAR(50) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			current_streak INT NOT NULL DEFAULT 0 CHECK (current_streak >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: students table created")

	// Migration 2: Create platform_accounts table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS platform_accounts (
			id UUID PRIMARY KEY,
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			platform VARCHAR(20) NOT NULL,
			username VARCHAR(255) NOT NULL,
			connected_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_synced_at TIMESTAMPTZ,
			UNIQUE (student_id, platform)
		);
		CREATE INDEX IF NOT EXISTS idx_platform_accounts_student ON platform_accounts(student_id);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: platform_accounts table created")

	// Migration 3: Create daily_activity table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS daily_activity (
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			activity_date DATE NOT NULL,
			leetcode_solved INT NOT NULL DEFAULT 0,
			codechef_solved INT NOT NULL DEFAULT 0,
			codeforces_solved INT NOT NULL DEFAULT 0,
			hackerrank_solved INT NOT NULL DEFAULT 0,
			total_solved INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (student_id, activity_date)
		);
		CREATE INDEX IF NOT EXISTS idx_daily_activity_date ON daily_activity(activity_date, total_solved DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: daily_activity table created")

	// Migration 4: Create leaderboard_cache table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS leaderboard_cache (
			student_id UUID NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			rank_type VARCHAR(20) NOT NULL,
			period VARCHAR(20) NOT NULL,
			rank INT NOT NULL,
			total_solved INT NOT NULL,
			streak INT NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (student_id, rank_type, period)
		);
		CREATE INDEX IF NOT EXISTS idx_leaderboard_rank ON leaderboard_cache(rank_type, period, rank);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: leaderboard_cache table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
