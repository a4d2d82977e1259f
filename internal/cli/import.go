package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/cellmark/internal/importer"
)

func newImportCmd() *cobra.Command {
	var opts importer.Options
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import a spreadsheet sheet as a table",
		Long: "Import one sheet of an xlsx workbook. The header row names the fields; every\n" +
			"following non-blank row becomes a record. Re-importing into the same table\n" +
			"updates cells in place.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if !cmd.Flags().Changed("header-row") {
				opts.HeaderRow = app.Cfg.GetInt("import.header_row")
			}
			res, err := importer.ImportFile(cmd.Context(), app.Repo, args[0], opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s: %d fields, %d records (%d cells written, %d unchanged)\n",
				res.Sheet, res.Table.Name, res.Fields, res.Records, res.Written, res.Unchanged)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "sheet to import (default: first sheet)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "target table (default: sheet name)")
	cmd.Flags().IntVar(&opts.HeaderRow, "header-row", 1, "1-based row holding the field names")
	return cmd
}
