// Command migrate applies the fintrack PostgreSQL schema with golang-migrate.
//
//	migrate up [N]      apply all (or N) pending migrations
//	migrate down [N]    roll back N migrations (default 1)
//	migrate version     print the current version
//	migrate force V     mark version V as clean after a failed run
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"fintrack/internal/config"
	"fintrack/internal/database"
	"fintrack/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const usage = "usage: migrate <up [N] | down [N] | version | force V>"

type command struct {
	name string
	n    int
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{}, errors.New(usage)
	}
	cmd := command{name: args[0]}

	switch cmd.name {
	case "up", "down":
		if cmd.name == "down" {
			cmd.n = 1
		}
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return command{}, fmt.Errorf("invalid step count %q", args[1])
			}
			cmd.n = n
		}
	case "version":
	case "force":
		if len(args) < 2 {
			return command{}, errors.New("force requires a version")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil || v < 0 {
			return command{}, fmt.Errorf("invalid version %q", args[1])
		}
		cmd.n = v
	default:
		return command{}, fmt.Errorf("unknown command %q; %s", cmd.name, usage)
	}
	return cmd, nil
}

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := run(os.Args[1:]); err != nil {
		logger.Named("migrate").Fatalf("Migration error: %v", err)
	}
}

func run(args []string) error {
	cmd, err := parseCommand(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DBDriver != database.DriverPostgres {
		return fmt.Errorf("migrate only manages PostgreSQL schemas; the %s driver is auto-migrated at startup", cfg.DBDriver)
	}

	log := logger.Named("migrate")
	m, err := migrate.New(database.MigrationsSource, cfg.PostgresURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Warnw("source close failed", "error", srcErr)
		}
		if dbErr != nil {
			log.Warnw("database close failed", "error", dbErr)
		}
	}()

	switch cmd.name {
	case "up":
		if cmd.n > 0 {
			err = m.Steps(cmd.n)
		} else {
			err = m.Up()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
		log.Infow("migrations applied", "db", cfg.DBName)

	case "down":
		if err := m.Steps(-cmd.n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		log.Infow("migrations rolled back", "db", cfg.DBName, "steps", cmd.n)

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Infow("no migrations applied", "db", cfg.DBName)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		log.Infow("schema version", "db", cfg.DBName, "version", version, "dirty", dirty)

	case "force":
		if err := m.Force(cmd.n); err != nil {
			return fmt.Errorf("force version %d failed: %w", cmd.n, err)
		}
		log.Warnw("schema version forced", "db", cfg.DBName, "version", cmd.n)
	}

	return nil
}
