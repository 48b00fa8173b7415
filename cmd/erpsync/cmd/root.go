// Package cmd implements the erpsync operator commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/erp/syncengine/internal/bootstrap"
	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	app        *bootstrap.App
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "erpsync",
	Short: "Operate the website to ERP synchronization",
	Long: `erpsync runs the sync operations by hand: exporting orders, managing
entity mappings, importing products and partners, and cleaning up test
entities in the ERP.

Configuration is read the same way as the worker: config.toml, .env and
ERP_* environment variables.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		label := "Error:"
		if code := shared.CodeOf(err); code != "" {
			label = "Error [" + code + "]:"
		}
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString(label), err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logCfg := &logger.Config{
		Level:  "warn",
		Format: "console",
		Output: "stderr",
	}
	if verbose {
		logCfg.Level = "debug"
	}
	log, err := logger.New(logCfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, log := logger.StartRun(cmd.Context(), log, logger.TriggerCLI)
	log = log.With(zap.String("command", cmd.CommandPath()))
	cmd.SetContext(logger.WithContext(ctx, log))

	app, err = bootstrap.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	return nil
}

func closeApp(cmd *cobra.Command, _ []string) error {
	if app != nil {
		app.Close(context.WithoutCancel(cmd.Context()))
		logger.Sync(app.Logger)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(orderCmd, mappingCmd, productCmd, entitiesCmd, partnerCmd)
}
