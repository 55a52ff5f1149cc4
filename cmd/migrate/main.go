package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/provdelegation/portal/api/internal/config"
	"github.com/provdelegation/portal/api/internal/database"
	"github.com/provdelegation/portal/api/internal/logger"
)

// cli is the migrate command line. Connection settings come from the same
// DB_* environment variables (or .env) the server reads.
type cli struct {
	LogLevel string `help:"Log level (debug, info, warn, error)." default:"info" env:"LOG_LEVEL"`

	Up      upCmd      `cmd:"" help:"Apply all pending migrations."`
	Down    downCmd    `cmd:"" help:"Roll back applied migrations."`
	Version versionCmd `cmd:"" help:"Print the current schema version."`
}

type upCmd struct{}

func (c *upCmd) Run(m *database.Migrator, log *logger.Logger) error {
	if err := m.Up(); err != nil {
		return err
	}
	return logVersion(m, log, "Migrations applied")
}

type downCmd struct {
	Steps int `help:"Number of migrations to roll back." default:"1"`
}

func (c *downCmd) Run(m *database.Migrator, log *logger.Logger) error {
	if c.Steps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", c.Steps)
	}
	if err := m.Down(c.Steps); err != nil {
		return err
	}
	return logVersion(m, log, "Migrations rolled back")
}

type versionCmd struct{}

func (c *versionCmd) Run(m *database.Migrator, log *logger.Logger) error {
	return logVersion(m, log, "Current schema version")
}

func logVersion(m *database.Migrator, log *logger.Logger, msg string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info(msg, map[string]interface{}{
		"version": version,
		"dirty":   dirty,
	})
	return nil
}

func main() {
	var args cli
	kctx := kong.Parse(&args,
		kong.Name("migrate"),
		kong.Description("Manage the delegation statistics database schema."),
		kong.UsageOnError(),
	)

	log := logger.New("production", args.LogLevel)

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	migrator, err := database.NewMigrator(*dbCfg)
	if err != nil {
		log.Fatal("Failed to open migrator", err, map[string]interface{}{
			"host": dbCfg.Host,
			"name": dbCfg.Name,
		})
	}

	runErr := kctx.Run(migrator, log)
	if err := migrator.Close(); err != nil {
		log.Warn("Failed to close migrator", map[string]interface{}{"error": err.Error()})
	}
	kctx.FatalIfErrorf(runErr)
}
