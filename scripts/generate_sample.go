package main

import (
	"fmt"
	mrand "math/rand"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

const sheet = "Notes"

var headings = []string{"Overview", "Checklist", "Snippet", "Quote", "Table"}

func main() {
	out := "sample.xlsx"
	if len(os.Args) > 1 {
		out = os.Args[1]
	}
	// Deterministic seed for reproducible output
	mr := mrand.New(mrand.NewSource(42))

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		panic(err)
	}
	header := []any{"Title", "Body", "Link", "Priority", "Done"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		panic(err)
	}

	const total = 50
	for i := 0; i < total; i++ {
		row := i + 2
		kind := headings[mr.Intn(len(headings))]
		title := fmt.Sprintf("Sample %s %02d", kind, i+1)
		set(f, "A", row, title)

		body := cell("B", row)
		if i%4 == 0 {
			// several runs are imported as a span sequence
			runs := []excelize.RichTextRun{
				{Text: "## " + title + "\n\n"},
				{Text: "Bold lead-in. ", Font: &excelize.Font{Bold: true}},
				{Text: sampleBody(kind, i)},
			}
			if err := f.SetCellRichText(sheet, body, runs); err != nil {
				panic(err)
			}
		} else {
			set(f, "B", row, "## "+title+"\n\n"+sampleBody(kind, i))
		}

		if mr.Float64() < 0.3 {
			link := cell("C", row)
			set(f, "C", row, "docs")
			if err := f.SetCellHyperLink(sheet, link, fmt.Sprintf("https://example.com/docs/%d", i+1), "External"); err != nil {
				panic(err)
			}
		}
		set(f, "D", row, 1+mr.Intn(5))
		set(f, "E", row, mr.Float64() < 0.5)
	}

	if err := f.SaveAs(out); err != nil {
		panic(err)
	}
	fmt.Println("wrote", out)
}

func sampleBody(kind string, i int) string {
	switch kind {
	case "Checklist":
		return "- [x] draft\n- [ ] review\n- [ ] publish\n"
	case "Snippet":
		return "```go\nfmt.Println(\"note " + fmt.Sprint(i+1) + "\")\n```\n"
	case "Quote":
		return "> Markdown in a cell, rendered in a terminal.\n"
	case "Table":
		var b strings.Builder
		b.WriteString("| key | value |\n|---|---|\n")
		for k := 0; k < 3; k++ {
			fmt.Fprintf(&b, "| k%d | %d |\n", k, (i+1)*(k+1))
		}
		return b.String()
	default:
		return fmt.Sprintf("This is the body for sample note %02d with *emphasis* and `code`.\n", i+1)
	}
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func set(f *excelize.File, col string, row int, v any) {
	if err := f.SetCellValue(sheet, cell(col, row), v); err != nil {
		panic(err)
	}
}
