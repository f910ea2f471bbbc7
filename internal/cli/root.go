// Package cli defines the Cobra commands of quizctl.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hyakuninquiz/internal/config"
	"hyakuninquiz/internal/database"
	"hyakuninquiz/internal/logging"
)

var version = "dev" // set via ldflags at build time

type rootOptions struct {
	logLevel string
}

// NewRootCommand builds the quizctl command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "quizctl",
		Short: "Manage and play the hyakunin isshu quiz",
		Long: `quizctl manages the poem corpus used by the quiz server and can run
a quiz session in the terminal.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (defaults to LOG_LEVEL or warn)")

	cmd.AddCommand(newImportCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newPlayCommand(opts))
	return cmd
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger keeps the terminal quiet unless asked otherwise
func (o *rootOptions) newLogger() *zap.Logger {
	level := o.logLevel
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	if level == "" {
		level = "warn"
	}
	logger, err := logging.New(level)
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// openDatabase connects using the environment configuration and applies migrations
func openDatabase(cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}
	applied, err := db.RunMigrations(database.MigrationSource(cfg.MigrationsPath))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", zap.Strings("files", applied))
	}
	return db, nil
}
