package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"lorebook/internal/config"
	"lorebook/internal/repository/postgres"
	"lorebook/internal/service/ordering"
	"lorebook/internal/service/workspace"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed the welcome workspace")
	libraryID := flag.String("library", "", "Library ID to seed the welcome workspace into")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("🚫 BLOCKED: Cannot run --drop-tables in production environment")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if *schemaOnly {
		log.Printf("🏗️  Setting up schema only (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	} else {
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)
	}

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Drop tables if requested
	if *dropTables {
		log.Println("🗑️  Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("✅ Tables dropped")
	}

	// Run schema to ensure tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	if *libraryID == "" {
		log.Fatalf("--library is required when seeding the welcome workspace")
	}

	// Wire repositories and services
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

	ws, err := workspaceService.CreateWelcomeWorkspace(ctx, *libraryID)
	if err != nil {
		log.Fatalf("Failed to seed welcome workspace: %v", err)
	}

	log.Printf("✅ Welcome workspace created: %s (ID: %s)", ws.Name, ws.ID)
	log.Println("🎉 Seeding complete!")
}

// runSchema creates tables if they don't exist
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// Enable UUID extension
	_, err := pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"")
	if err != nil {
		return err
	}

	// Create workspaces table
	createWorkspaces := `
		CREATE TABLE IF NOT EXISTS ` + tables.Workspaces + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			library_id UUID NOT NULL,
			name TEXT NOT NULL,
			is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			last_accessed_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(library_id, name)
		)
	`
	if _, err := pool.Exec(ctx, createWorkspaces); err != nil {
		return err
	}

	// Create pages table. workspace_id marks workspace-scoped scratch
	// pages; library pages leave it NULL.
	createPages := `
		CREATE TABLE IF NOT EXISTS ` + tables.Pages + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			library_id UUID NOT NULL,
			workspace_id UUID REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createPages); err != nil {
		return err
	}

	// Create files table
	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			library_id UUID NOT NULL,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	// Create forms table
	createForms := `
		CREATE TABLE IF NOT EXISTS ` + tables.Forms + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			library_id UUID NOT NULL,
			name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createForms); err != nil {
		return err
	}

	// Create the ledger table. One kind-polymorphic table for all item
	// kinds; position uniqueness is per workspace across all kinds. The
	// unique index is NOT deferrable - the normalizer's sentinel offset
	// depends on nothing more than standard immediate constraints.
	createWorkspaceItems := `
		CREATE TABLE IF NOT EXISTS ` + tables.WorkspaceItems + ` (
			workspace_id UUID NOT NULL REFERENCES ` + tables.Workspaces + `(id) ON DELETE CASCADE,
			kind TEXT NOT NULL CHECK (kind IN ('page', 'file', 'form')),
			item_id UUID NOT NULL,
			position INTEGER NOT NULL,
			depth INTEGER NOT NULL DEFAULT 0,
			is_in_ai_context BOOLEAN NOT NULL DEFAULT FALSE,
			is_collapsed BOOLEAN NOT NULL DEFAULT FALSE,
			added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (workspace_id, kind, item_id)
		)
	`
	if _, err := pool.Exec(ctx, createWorkspaceItems); err != nil {
		return err
	}

	// Create indexes
	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_` + tablePrefix + `workspace_items_position ON ` + tables.WorkspaceItems + `(workspace_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `workspace_items_item ON ` + tables.WorkspaceItems + `(kind, item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `workspaces_stale ON ` + tables.Workspaces + `(last_accessed_at) WHERE is_favorite = FALSE`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `pages_workspace ON ` + tables.Pages + `(workspace_id)`,
	}

	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys)
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.WorkspaceItems,
		tables.Pages,
		tables.Files,
		tables.Forms,
		tables.Workspaces,
	}

	for _, table := range tableNames {
		dropSQL := "DROP TABLE IF EXISTS " + table + " CASCADE"
		if _, err := pool.Exec(ctx, dropSQL); err != nil {
			return err
		}
		log.Printf("  ✓ Dropped %s", table)
	}

	return nil
}
