package api

// FieldType tags a column with the kind of content it holds.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldCheckbox FieldType = "checkbox"
	FieldURL      FieldType = "url"
)

// ParseFieldType maps a user-supplied name to a FieldType.
func ParseFieldType(s string) (FieldType, bool) {
	switch FieldType(s) {
	case FieldText, FieldNumber, FieldDate, FieldCheckbox, FieldURL:
		return FieldType(s), true
	default:
		return "", false
	}
}

type TableMeta struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FieldMeta struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Type FieldType `json:"type"`
}

// IsText reports whether cells of this field are eligible for preview.
func (f FieldMeta) IsText() bool { return f.Type == FieldText }

type Record struct {
	ID string `json:"id"`
}

// SelectionEvent is delivered whenever the focused cell changes.
// FieldID or RecordID may be empty when the focus is not on a cell.
type SelectionEvent struct {
	TableID  string `json:"table_id"`
	FieldID  string `json:"field_id"`
	RecordID string `json:"record_id"`
}

// Complete reports whether the event names a single cell.
func (e *SelectionEvent) Complete() bool {
	return e != nil && e.FieldID != "" && e.RecordID != ""
}

// Span is one run of rich text as stored in a text cell.
type Span struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Link string `json:"link,omitempty"`
}

const SpanText = "text"
