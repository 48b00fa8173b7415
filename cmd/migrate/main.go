// Command migrate manages the local (website) database schema.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/erp/syncengine/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrationsDir string
	logLevel      string
	log           *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the local database schema",
		Long: `Applies the website schema with golang-migrate.

The database is configured the same way as the worker (config.toml, .env,
ERP_DATABASE_* environment variables).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg := logger.DefaultConfig()
			cfg.Level = logLevel
			cfg.TimeFormat = "2006-01-02 15:04:05"
			var err error
			log, err = logger.New(cfg)
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync(log)
		},
	}
	root.PersistentFlags().StringVar(&migrationsDir, "path", "", "migrations directory (default: compiled into the binary)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		withMigrator("up", "Apply all pending migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Up() }),
		withMigrator("down", "Roll back all migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Down() }),
		withMigrator("step <n>", "Apply n migrations (negative rolls back)", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		withMigrator("force <version>", "Mark a version as applied and clear the dirty flag", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(v)
			}),
		withMigrator("version", "Show the applied migration version", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Printf("version %d (dirty: %t)\n", v, dirty)
				return nil
			}),
		newCreateCmd(),
		newListCmd(),
	)
	return root
}

// withMigrator builds a command that opens the configured database and
// hands a migrator to run.
func withMigrator(use, short string, args cobra.PositionalArgs, run func(*migration.Migrator, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(_ *cobra.Command, a []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			db, err := sql.Open("postgres", cfg.Database.DSN())
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Ping(); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}

			m, err := migration.New(db, migrationsDir, log)
			if err != nil {
				return err
			}
			defer m.Close()
			return run(m, a)
		},
	}
}

func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create the next numbered up/down pair (needs --path)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			if migrationsDir == "" {
				return errors.New("create writes files and needs --path")
			}
			desc := ""
			if len(args) == 2 {
				desc = args[1]
			}
			mf, err := migration.CreateMigration(migrationsDir, args[0], desc)
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.Uint("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := migration.ListMigrations(migration.Files(migrationsDir))
			if err != nil {
				return err
			}
			for _, m := range list {
				down := ""
				if !m.HasDown {
					down = " (no down)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s%s\n", m.BaseName(), down)
			}
			return nil
		},
	}
}
