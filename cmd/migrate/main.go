package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/fuelops/backend/internal/infrastructure/config"
	"github.com/fuelops/backend/internal/infrastructure/logger"
	"github.com/fuelops/backend/internal/infrastructure/migration"
	infratenant "github.com/fuelops/backend/internal/infrastructure/tenant"
)

const defaultMigrationsPath = "migrations"

func main() {
	var (
		migrationsPath string
		tenantKey      string
		logLevel       string
	)

	flag.StringVar(&migrationsPath, "path", "", "Path to migrations directory (default: ./migrations)")
	flag.StringVar(&tenantKey, "tenant", "", "Tenant key to migrate (default: all registered tenants)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	if migrationsPath == "" {
		migrationsPath = defaultMigrationsPath
	}
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		log.Fatal("Failed to get absolute path", zap.Error(err))
	}
	migrationsPath = absPath

	// create needs no database connection
	if command == "create" {
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		name := args[1]
		description := ""
		if len(args) > 2 {
			description = args[2]
		}

		mf, err := migration.CreateMigration(migrationsPath, name, description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}

		log.Info("Migration created",
			zap.String("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	registry := infratenant.NewConfigRegistry(cfg.Registry, cfg.Database)
	keys := registry.Keys()
	if tenantKey != "" {
		keys = []string{tenantKey}
	}
	if len(keys) == 0 {
		log.Fatal("No tenants registered; check registry.tenants in config.toml")
	}

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("migrations_path", migrationsPath),
		zap.Strings("tenants", keys),
	)

	for _, key := range keys {
		if err := runForTenant(registry, key, migrationsPath, command, args, log); err != nil {
			log.Fatal("Migration failed",
				zap.String("tenant_key", key),
				zap.Error(err),
			)
		}
	}
}

func runForTenant(registry *infratenant.ConfigRegistry, key, migrationsPath, command string, args []string, log *zap.Logger) error {
	conn, err := registry.LookupConnection(context.Background(), key)
	if err != nil {
		return err
	}

	tlog := log.With(zap.String("tenant_key", key))
	m, err := migration.NewForTenant(conn, migrationsPath, tlog)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.Close()
	}()

	switch command {
	case "up":
		return m.Up()

	case "down":
		return m.Down()

	case "step":
		if len(args) < 2 {
			return fmt.Errorf("step count required. Usage: migrate step <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid step count %q", args[1])
		}
		return m.Steps(n)

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			tlog.Info("No migrations applied")
		} else {
			tlog.Info("Current migration version",
				zap.Uint("version", version),
				zap.Bool("dirty", dirty),
			)
		}
		return nil

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("version required. Usage: migrate force <version>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version number %q", args[1])
		}
		return m.Force(version)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func printUsage() {
	fmt.Println(`FuelOps Tenant Migration Tool

Applies the shared migration set to each registered tenant database.

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  version               Show current migration version
  force <version>       Force set migration version (use with caution)
  create <name> [desc]  Create a new migration file pair

Flags:
  -path string          Path to migrations directory (default: ./migrations)
  -tenant string        Tenant key to migrate (default: all registered tenants)
  -log-level string     Log level: debug, info, warn, error (default: info)

Examples:
  # Migrate every registered tenant
  migrate up

  # Roll back the last migration for one tenant
  migrate -tenant station-north step -1

  # Create a new migration
  migrate create add_voucher_attachments "Attachment metadata for vouchers"`)
}
