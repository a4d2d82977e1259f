package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mithrel/cellmark/internal/cache"
	"github.com/mithrel/cellmark/internal/present"
	"github.com/mithrel/cellmark/internal/present/format"
	"github.com/mithrel/cellmark/internal/preview"
	"github.com/mithrel/cellmark/internal/render"
)

func newShowCmd() *cobra.Command {
	var outputMode string
	var raw bool
	var width int
	cmd := &cobra.Command{
		Use:   "show <record> <field>",
		Short: "Render one cell as markdown",
		Long: "Render one text cell as markdown. <record> is a record ID or a 1-based row number;\n" +
			"<field> is a field ID or name.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			ctx := cmd.Context()
			if raw {
				outputMode = "plain"
			}
			opts, err := presentOptions(outputMode, false)
			if err != nil {
				return err
			}

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
				return fmt.Errorf("field %s is %s; only text fields can be previewed", field.Name, field.Type)
			}
			text, err := preview.NewExtractor(cache.New()).Extract(ctx, t, field.ID, rec.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts.Styled = isTerminal(out)
			if width <= 0 {
				width = app.Cfg.GetInt("preview.word_wrap")
			}
			if width <= 0 {
				width = terminalWidth(out)
			}
			opts.Render = render.Options{
				Dark:       app.Cfg.GetBool("preview.dark_mode"),
				DarkStyle:  app.Cfg.GetString("preview.style_dark"),
				LightStyle: app.Cfg.GetString("preview.style_light"),
				Width:      width,
			}
			cell := format.Cell{RecordID: rec.ID, FieldID: field.ID, Field: field.Name, Type: string(field.Type), Text: text}
			if opts.Mode != present.ModePretty {
				return present.RenderCell(out, cell, opts)
			}
			return withPager(ctx, out, cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderCell(w, cell, opts)
			})
		},
	}
	addTableFlag(cmd)
	addOutputFlags(cmd, &outputMode, nil, "pretty")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the extracted markdown without rendering")
	cmd.Flags().Bool("dark", false, "render with the dark theme")
	cmd.Flags().IntVar(&width, "width", 0, "wrap column (0 uses preview.word_wrap or the terminal width)")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return min(width, 120)
}
