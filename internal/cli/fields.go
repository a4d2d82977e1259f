package cli

import (
	"github.com/spf13/cobra"

	"github.com/mithrel/cellmark/internal/present")

func newFieldsCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	var all bool
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "List the previewable fields of a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := presentOptions(outputMode, noHeaders)
			if err != nil {
				return err
			}
			t, err := app.Base.ActiveTable(cmd.Context())
			if err != nil {
				return err
			}
			fields, err := t.GetFieldMetaList(cmd.Context())
			if err != nil {
				return err
			}
			if !all {
				text := fields[:0]
				for _, f := range fields {
					if f.IsText() {
						text = append(text, f)
					}
				}
				fields = text
			}
			return present.RenderFields(cmd.OutOrStdout(), fields, opts)
		},
	}
	addTableFlag(cmd)
	addOutputFlags(cmd, &outputMode, &noHeaders, "pretty")
	cmd.Flags().BoolVar(&all, "all", false, "include fields that cannot be previewed")
	return cmd
}
