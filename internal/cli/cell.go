package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mithrel/cellmark/internal/cache"
	"github.com/mithrel/cellmark/internal/editor"
	"github.com/mithrel/cellmark/internal/preview"
)

func newCellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Edit cells",
	}
	cmd.AddCommand(newCellSetCmd())
	cmd.AddCommand(newCellEditCmd())
	return cmd
}

func newCellEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <record> <field>",
		Short: "Edit a text cell's markdown in $EDITOR",
		Long: "Open the text of a cell in $VISUAL or $EDITOR. The saved text replaces the\n" +
			"cell value as a plain string; rich-text spans are flattened.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			t, err := app.Base.ActiveTable(ctx)
			if err != nil {
				return err
			}
			rec, err := resolveRecord(ctx, t, args[0])
			if err != nil {
				return err
			}
			field, err := resolveField(ctx, t, args[1])
			if err != nil {
				return err
			}
			if !field.IsText() {
				return fmt.Errorf("field %s is %s; only text fields can be edited", field.Name, field.Type)
			}
			text, err := preview.NewExtractor(cache.New()).Extract(ctx, t, field.ID, rec.ID)
			if err != nil {
				return err
			}
			path, err := editor.PathForCell(rec.ID, field.ID)
			if err != nil {
				return err
			}
			label := fmt.Sprintf("%s / %s / %s", t.Meta().Name, field.Name, rec.ID)
			final, changed, err := editor.OpenAt(path, []byte(editor.ComposeContent(label, text)))
			if err != nil {
				return err
			}
			body, err := editor.ParseEdited(string(final))
			if err != nil {
				return err
			}
			if !changed || body == text {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tunchanged\n", rec.ID, field.Name)
				return nil
			}
			if _, err := app.Repo.SetCell(ctx, rec.ID, field.ID, body); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tupdated\n", rec.ID, field.Name)
			return nil
		},
	}
	addTableFlag(cmd)
	return cmd
}

func newCellSetCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "set <record> <field> <value>",
		Short: "Set a cell value",
		Long: "Set a cell value. The value is stored as a string unless --json is given, in\n" +
			`which case it is stored as-is, e.g. '[{"type":"text","text":"# Title"}]'.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			t, err := app.Base.ActiveTable(ctx)
			if err != nil {
				return err
			}
			rec, err := resolveRecord(ctx, t, args[0])
			if err != nil {
				return err
			}
			field, err := resolveField(ctx, t, args[1])
			if err != nil {
				return err
			}
			var value any = args[2]
			if asJSON {
				if !json.Valid([]byte(args[2])) {
					return errors.New("--json value is not valid JSON")
				}
				value = json.RawMessage(args[2])
			}
			changed, err := app.Repo.SetCell(ctx, rec.ID, field.ID, value)
			if err != nil {
				return err
			}
			state := "unchanged"
			if changed {
				state = "updated"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", rec.ID, field.Name, state)
			return nil
		},
	}
	addTableFlag(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "parse the value as JSON")
	return cmd
}
