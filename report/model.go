// Package report turns classified items into styled, sheet-ready sections
// and renders them into an Excel workbook. Sections are a declarative
// contract: names, column schemas and per-cell style hints. The renderer
// consumes the hints; it owns no classification logic of its own.
package report

// Highlight is a declarative style hint for one cell.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightAlert    // strong alert color, cost at or above sale
	HighlightCaution  // caution color, margin below target
	HighlightPositive // positive color, item has stock
)

// Column describes one report column: header text, width in characters and
// whether values should be rendered with the currency format.
type Column struct {
	Header   string
	Width    float64
	Currency bool
}

// Cell is one value plus its style hint.
type Cell struct {
	Value     interface{}
	Highlight Highlight
}

// Row is one report line, cells aligned with the section's columns.
type Row struct {
	Cells []Cell
}

// Section is one sheet of the output artifact.
type Section struct {
	Name    string
	Columns []Column
	Rows    []Row
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}
