package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/cellmark/internal/config"
	"github.com/mithrel/cellmark/internal/logging"
	"github.com/mithrel/cellmark/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Execute is the entrypoint: it builds the root cobra.Command
// and calls its Execute() method to run the CLI.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string
	var dsn string

	cmd := &cobra.Command{
		Use:           "cellmark",
		Short:         "cellmark: preview table cells as rendered markdown",
		SilenceUsage:  true, // don't show usage on runtime errors
		SilenceErrors: true, // let main print errors once
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, map[string]string{
				"dark": "preview.dark_mode",
			})

			logPath := v.GetString("log.file")
			if logPath == "" && cmd.Name() == "preview" {
				// the alt screen owns the terminal
				logPath = filepath.Join(config.ResolveDataDir(v), "cellmark.log")
			}
			logCloser, err := logging.Setup(v.GetString("log.level"), logPath)
			if err != nil {
				return fmt.Errorf("logging: %w", err)
			}

			// Wire up the app and stash it in context for subcommands.
			app, err := wire.BuildApp(cmd.Context(), v, dsn)
			if err != nil {
				_ = logCloser.Close()
				return err
			}
			app.OnClose(logCloser)
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app, ok := cmd.Context().Value(appKey).(*wire.App); ok {
				return app.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")
	cmd.PersistentFlags().StringVar(&dsn, "db", "", "base location (sqlite://path); defaults to data_dir/cellmark.db")

	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newFieldsCmd())
	cmd.AddCommand(newTablesCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newCellCmd())
	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newConfigCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
