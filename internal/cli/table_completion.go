package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/cellmark/internal/config"
	"github.com/mithrel/cellmark/internal/db"
	"github.com/mithrel/cellmark/internal/util"
)

const maxCompletions = 20

// addTableFlag adds --table (overriding the table config key) with
// completion from the base.
func addTableFlag(cmd *cobra.Command) {
	cmd.Flags().String("table", "", "table name (exact or fuzzy); defaults to config or the first table")
	_ = cmd.RegisterFlagCompletionFunc("table", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names, err := tableNames(cmd)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return util.ScoreCompletions(toComplete, names, maxCompletions), cobra.ShellCompDirectiveNoFileComp
	})
}

// tableNames opens the base directly; completion runs without the root
// pre-run hook.
func tableNames(cmd *cobra.Command) ([]string, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	v := viper.New()
	if f := cmd.Flag("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
	}
	if err := config.Load(ctx, v); err != nil {
		return nil, err
	}
	dsn := "sqlite://" + config.ResolveDBPath(v)
	if f := cmd.Flag("db"); f != nil && f.Value.String() != "" {
		dsn = f.Value.String()
	}
	repo, closer, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	tables, err := repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return names, nil
}
