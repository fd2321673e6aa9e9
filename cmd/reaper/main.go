package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"lorebook/internal/config"
	"lorebook/internal/repository/postgres"
	"lorebook/internal/service/ordering"
	"lorebook/internal/service/workspace"

	"github.com/joho/godotenv"
)

// Deletes workspaces that are unfavorited and unaccessed beyond the
// retention window. Run from cron or a scheduler; one pass per invocation.
func main() {
	dryRun := flag.Bool("dry-run", false, "List stale workspaces without deleting them")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}

	workspaceRepo := postgres.NewWorkspaceRepository(repoConfig)
	ledgerRepo := postgres.NewLedgerRepository(repoConfig)
	pageRepo := postgres.NewPageRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	formRepo := postgres.NewFormRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	orderingService := ordering.NewService(ledgerRepo, pageRepo, fileRepo, formRepo, txManager, logger)
	workspaceService := workspace.NewService(workspaceRepo, ledgerRepo, pageRepo, orderingService, txManager, cfg.RetentionDays, logger)

	logger.Info("reaper starting",
		"environment", cfg.Environment,
		"retention_days", cfg.RetentionDays,
		"dry_run", *dryRun,
	)

	if *dryRun {
		cutoff := timeCutoff(cfg.RetentionDays)
		stale, err := workspaceRepo.ListStale(ctx, cutoff)
		if err != nil {
			log.Fatalf("Failed to list stale workspaces: %v", err)
		}
		for _, ws := range stale {
			logger.Info("would reap workspace",
				"workspace_id", ws.ID,
				"name", ws.Name,
				"last_accessed_at", ws.LastAccessedAt,
			)
		}
		logger.Info("dry run complete", "stale", len(stale))
		return
	}

	reaped, err := workspaceService.ReapStale(ctx)
	if err != nil {
		log.Fatalf("Failed to reap stale workspaces: %v", err)
	}

	logger.Info("reaper finished", "reaped", reaped)
}

func timeCutoff(retentionDays int) time.Time {
	return time.Now().AddDate(0, 0, -retentionDays)
}
