package format

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mithrel/cellmark/pkg/api"
)

func WritePlainFields(w io.Writer, fields []api.FieldMeta, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, "id\tname\ttype\tpreview\n")
	}
	for _, f := range fields {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", esc(f.ID), esc(f.Name), f.Type, f.IsText())
	}
	return tw.Flush()
}

func WritePrettyFields(w io.Writer, fields []api.FieldMeta, headers bool) error {
	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft, WidthMax: 40},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignCenter},
	})
	if headers {
		tw.AppendHeader(table.Row{"ID", "Name", "Type", "Preview"})
	}
	for _, f := range fields {
		mark := "-"
		if f.IsText() {
			mark = "✓"
		}
		tw.AppendRow(table.Row{f.ID, f.Name, string(f.Type), mark})
	}
	if len(fields) == 0 {
		tw.AppendRow(table.Row{"-", "(no fields)", "-", "-"})
	}
	_ = tw.Render()
	return nil
}

func WriteJSONFields(w io.Writer, fields []api.FieldMeta, indent bool) error {
	if fields == nil {
		fields = []api.FieldMeta{}
	}
	return writeJSON(w, fields, indent)
}

func WriteNDJSONFields(w io.Writer, fields []api.FieldMeta) error {
	return writeNDJSON(w, fields)
}
