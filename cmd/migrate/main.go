package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nossamoto/backend/internal/config"
	"github.com/nossamoto/backend/internal/logging"
	"github.com/nossamoto/backend/internal/repository"
	"github.com/nossamoto/backend/internal/service"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)                  apply pending migrations
  fresh                      drop every table, then apply all migrations in order
  seed <file.yaml>           load the initial motorcycles and coefficients
  import-legacy <file.json>  import an export of the device-local store`)
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	_ = godotenv.Load("../.env")
	logging.Setup()

	cfg, err := config.LoadStore()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}
	if cfg.StoreDriver != config.DriverPostgres {
		logging.Fatal("migrate requires the postgres store driver", "driver", cfg.StoreDriver)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("connect failed", "error", err)
	}
	defer pool.Close()

	migrationDir := findMigrationDir()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		runIncremental(ctx, pool, migrationDir)
	case "seed":
		if len(os.Args) < 3 {
			usage()
		}
		runSeed(ctx, pool, os.Args[2])
	case "import-legacy":
		if len(os.Args) < 3 {
			usage()
		}
		runImportLegacy(ctx, pool, os.Args[2])
	case "fresh":
		runDropAll(ctx, pool, migrationDir)
		runIncremental(ctx, pool, migrationDir)
	default:
		usage()
	}
}

func findMigrationDir() string {
	dir := "migrations"
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		dir = "../migrations"
	}
	return dir
}

// collectUpFiles returns the .up.sql file names in sorted order.
func collectUpFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		logging.Fatal("read migrations dir failed", "error", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}

func ensureSchemaMigrations(ctx context.Context, pool *pgxpool.Pool) {
	_, _ = pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`)
}

// ---------------------------------------------------------------------------
// (default) pending migrations
// ---------------------------------------------------------------------------
func runIncremental(ctx context.Context, pool *pgxpool.Pool, dir string) {
	ensureSchemaMigrations(ctx, pool)

	upFiles := collectUpFiles(dir)
	applied := 0
	for i, filename := range upFiles {
		name := strings.TrimSuffix(filename, ".up.sql")

		var exists bool
		_ = pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name=$1)", name).Scan(&exists)
		if exists {
			continue
		}

		sql, err := os.ReadFile(filepath.Join(dir, filename))
		if err != nil {
			logging.Fatal("read migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			logging.Fatal("migration failed", "migration", name, "error", err)
		}
		if _, err := pool.Exec(ctx, "INSERT INTO schema_migrations (name) VALUES ($1)", name); err != nil {
			logging.Fatal("record migration failed", "migration", name, "error", err)
		}
		applied++
		slog.Info("migration completed", "number", i+1, "migration", name)
	}

	if applied == 0 {
		slog.Info("all migrations already applied")
	} else {
		slog.Info("migrations completed", "count", applied)
	}
}

// ---------------------------------------------------------------------------
// drop every table
// ---------------------------------------------------------------------------
func runDropAll(ctx context.Context, pool *pgxpool.Pool, dir string) {
	slog.Info("dropping all tables")
	sql, err := os.ReadFile(filepath.Join(dir, "000_drop_all.sql"))
	if err != nil {
		logging.Fatal("read 000_drop_all.sql failed", "error", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		logging.Fatal("drop all failed", "error", err)
	}
	slog.Info("all tables dropped")
}

// ---------------------------------------------------------------------------
// seed: initial data from YAML
// ---------------------------------------------------------------------------
func runSeed(ctx context.Context, pool *pgxpool.Pool, path string) {
	f, err := os.Open(path)
	if err != nil {
		logging.Fatal("open seed file failed", "path", path, "error", err)
	}
	defer f.Close()

	seed, err := loadSeed(f)
	if err != nil {
		logging.Fatal("parse seed file failed", "path", path, "error", err)
	}

	// Inserted through the services so the back-office validation applies.
	motoSvc := service.NewMotorcycleService(repository.NewPgMotorcycleRepository(pool))
	coefSvc := service.NewCoefficientService(repository.NewPgCoefficientRepository(pool))
	for _, m := range seed.Motorcycles {
		if _, err := motoSvc.Create(ctx, m.Name, m.Price); err != nil {
			logging.Fatal("seed motorcycle failed", "name", m.Name, "error", err)
		}
	}
	for _, c := range seed.Coefficients {
		if _, err := coefSvc.Create(ctx, c.rule()); err != nil {
			logging.Fatal("seed coefficient failed", "term", c.Term, "motorcycle", c.Motorcycle, "error", err)
		}
	}
	slog.Info("seed completed", "motorcycles", len(seed.Motorcycles), "coefficients", len(seed.Coefficients))
}

// ---------------------------------------------------------------------------
// import-legacy: device-local store export
// ---------------------------------------------------------------------------
func runImportLegacy(ctx context.Context, pool *pgxpool.Pool, path string) {
	f, err := os.Open(path)
	if err != nil {
		logging.Fatal("open legacy dump failed", "path", path, "error", err)
	}
	defer f.Close()

	dump, err := repository.DecodeLegacyDump(f)
	if err != nil {
		logging.Fatal("decode legacy dump failed", "path", path, "error", err)
	}
	reassigned := assignIDs(dump)
	if reassigned > 0 {
		slog.Info("legacy ids replaced", "count", reassigned)
	}

	if err := repository.NewPgMotorcycleRepository(pool).CreateMany(ctx, dump.Motorcycles); err != nil {
		logging.Fatal("insert motorcycles failed", "error", err)
	}
	if err := repository.NewPgCoefficientRepository(pool).CreateMany(ctx, dump.Coefficients); err != nil {
		logging.Fatal("insert coefficients failed", "error", err)
	}
	subs := repository.NewPgSubmissionRepository(pool)
	for _, s := range dump.Submissions {
		if err := subs.Create(ctx, s); err != nil {
			logging.Fatal("insert submission failed", "submission_id", s.ID, "error", err)
		}
	}
	slog.Info("legacy import completed",
		"motorcycles", len(dump.Motorcycles),
		"coefficients", len(dump.Coefficients),
		"submissions", len(dump.Submissions))
}
