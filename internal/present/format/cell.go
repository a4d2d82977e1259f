package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mithrel/cellmark/internal/render"
)

// Cell is the extracted text of one cell.
type Cell struct {
	RecordID string `json:"record_id"`
	FieldID  string `json:"field_id"`
	Field    string `json:"field"`
	Type     string `json:"type"`
	Text     string `json:"text"`
}

// WritePlainCell writes the raw markdown.
func WritePlainCell(w io.Writer, c Cell) error {
	_, err := io.WriteString(w, c.Text)
	if err == nil && !strings.HasSuffix(c.Text, "\n") {
		_, err = io.WriteString(w, "\n")
	}
	return err
}

// WritePrettyCell renders the markdown with glamour; styled is false when
// the output is not a terminal.
func WritePrettyCell(w io.Writer, c Cell, o render.Options, styled bool) error {
	var (
		out string
		err error
	)
	if styled {
		out, err = render.Markdown(c.Text, o)
	} else {
		out, err = render.Plain(c.Text, o.Width)
	}
	if err != nil {
		return fmt.Errorf("render %s/%s: %w", c.RecordID, c.FieldID, err)
	}
	_, err = io.WriteString(w, out)
	return err
}

func WriteJSONCell(w io.Writer, c Cell, indent bool) error {
	return writeJSON(w, c, indent)
}

func WriteNDJSONCell(w io.Writer, c Cell) error {
	return writeNDJSON(w, []Cell{c})
}
