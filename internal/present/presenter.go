package present

import (
	"io"

	"github.com/mithrel/cellmark/internal/present/format"
	"github.com/mithrel/cellmark/internal/render"
	"github.com/mithrel/cellmark/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Render and Styled apply to cell output in pretty mode.
	Render render.Options
	Styled bool
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty", "table":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModePretty, false
	}
}

// RenderFields renders the field list of a table.
func RenderFields(w io.Writer, fields []api.FieldMeta, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONFields(w, fields, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONFields(w, fields)
	case ModePlain:
		return format.WritePlainFields(w, fields, opts.Headers)
	default:
		return format.WritePrettyFields(w, fields, opts.Headers)
	}
}

// RenderTables renders the tables of the base.
func RenderTables(w io.Writer, tables []format.TableSummary, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONTables(w, tables, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONTables(w, tables)
	case ModePlain:
		return format.WritePlainTables(w, tables, opts.Headers)
	default:
		return format.WritePrettyTables(w, tables, opts.Headers)
	}
}

// RenderCell renders one extracted cell.
func RenderCell(w io.Writer, c format.Cell, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONCell(w, c, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONCell(w, c)
	case ModePlain:
		return format.WritePlainCell(w, c)
	default:
		return format.WritePrettyCell(w, c, opts.Render, opts.Styled)
	}
}
