package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mithrel/cellmark/internal/db"
	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/internal/present"
	"github.com/mithrel/cellmark/internal/present/format"
)

func newTablesCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the base",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			opts, err := presentOptions(outputMode, noHeaders)
			if err != nil {
				return err
			}
			tables, err := app.Repo.ListTables(ctx)
			if err != nil {
				return err
			}
			active, err := db.ResolveTable(ctx, app.Repo, app.Cfg.GetString("table"))
			if err != nil && !errors.Is(err, host.ErrNoActiveTable) {
				return err
			}

			items := make([]format.TableSummary, 0, len(tables))
			for _, t := range tables {
				fields, err := app.Repo.ListFields(ctx, t.ID)
				if err != nil {
					return err
				}
				records, err := app.Repo.ListRecords(ctx, t.ID)
				if err != nil {
					return err
				}
				item := format.TableSummary{
					TableMeta: t,
					Fields:    len(fields),
					Records:   len(records),
					Active:    t.ID == active.ID,
				}
				for _, f := range fields {
					if f.IsText() {
						item.TextFields++
					}
				}
				items = append(items, item)
			}
			return present.RenderTables(cmd.OutOrStdout(), items, opts)
		},
	}
	addOutputFlags(cmd, &outputMode, &noHeaders, "pretty")
	return cmd
}
