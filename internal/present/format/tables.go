package format

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/mithrel/cellmark/pkg/api"
)

// TableSummary is one table of the base with its sizes.
type TableSummary struct {
	api.TableMeta
	Fields     int  `json:"fields"`
	TextFields int  `json:"text_fields"`
	Records    int  `json:"records"`
	Active     bool `json:"active"`
}

func WritePlainTables(w io.Writer, items []TableSummary, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, "id\tname\tfields\ttext_fields\trecords\tactive\n")
	}
	for _, t := range items {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%t\n",
			esc(t.ID), esc(t.Name), t.Fields, t.TextFields, t.Records, t.Active)
	}
	return tw.Flush()
}

func WritePrettyTables(w io.Writer, items []TableSummary, headers bool) error {
	tw := newTable(w)
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignCenter},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft, WidthMax: 40},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	if headers {
		tw.AppendHeader(table.Row{"", "ID", "Name", "Fields", "Text", "Records"})
	}
	for _, t := range items {
		mark := ""
		if t.Active {
			mark = "*"
		}
		tw.AppendRow(table.Row{mark, t.ID, t.Name, t.Fields, t.TextFields, t.Records})
	}
	if len(items) == 0 {
		tw.AppendRow(table.Row{"", "-", "(no tables)", 0, 0, 0})
	}
	_ = tw.Render()
	return nil
}

func WriteJSONTables(w io.Writer, items []TableSummary, indent bool) error {
	if items == nil {
		items = []TableSummary{}
	}
	return writeJSON(w, items, indent)
}

func WriteNDJSONTables(w io.Writer, items []TableSummary) error {
	return writeNDJSON(w, items)
}
