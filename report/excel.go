package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Highlight fill colors, matching the store's established report palette.
const (
	colorAlert    = "FFC7CE" // light red
	colorCaution  = "FFEB9C" // light yellow
	colorPositive = "C6EFCE" // light green
)

const currencyFormat = `"R$" #,##0.00`

// invalid in Excel sheet names, plus the 31-character limit below.
var sheetNameStripper = strings.NewReplacer("*", "", "/", "", "?", "", ":", "", "\\", "", "[", "", "]", "")

// sanitizeSheetName strips the characters Excel forbids and clamps the
// name to the 31-character sheet name limit.
func sanitizeSheetName(name string) string {
	name = strings.TrimSpace(sheetNameStripper.Replace(name))
	if name == "" {
		name = "Sheet"
	}
	if runes := []rune(name); len(runes) > 31 {
		name = strings.TrimSpace(string(runes[:31]))
	}
	return name
}

// workbookStyles holds the style IDs registered on one workbook.
type workbookStyles struct {
	header   int
	center   int
	currency int
	alert    int
	caution  int
	positive int
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: center,
	})
	if err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}

	s.center, err = f.NewStyle(&excelize.Style{Alignment: center})
	if err != nil {
		return s, fmt.Errorf("failed to create center style: %w", err)
	}

	numFmt := currencyFormat
	s.currency, err = f.NewStyle(&excelize.Style{Alignment: center, CustomNumFmt: &numFmt})
	if err != nil {
		return s, fmt.Errorf("failed to create currency style: %w", err)
	}

	fill := func(color string) (int, error) {
		return f.NewStyle(&excelize.Style{
			Alignment: center,
			Fill:      excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
	}
	if s.alert, err = fill(colorAlert); err != nil {
		return s, fmt.Errorf("failed to create alert style: %w", err)
	}
	if s.caution, err = fill(colorCaution); err != nil {
		return s, fmt.Errorf("failed to create caution style: %w", err)
	}
	if s.positive, err = fill(colorPositive); err != nil {
		return s, fmt.Errorf("failed to create positive style: %w", err)
	}

	return s, nil
}

// WriteWorkbook renders the sections into an .xlsx workbook, one sheet per
// section: frozen header row, configured column widths, centered cells,
// currency number format on price columns and highlight fills where the
// assembler asked for them.
//
// A write failure is fatal to the run; no partial artifact is guaranteed.
func WriteWorkbook(path string, sections []Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("no sections to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}

	seen := make(map[string]int)
	for i, section := range sections {
		sheetName := sanitizeSheetName(section.Name)
		if n := seen[sheetName]; n > 0 {
			sheetName = sanitizeSheetName(fmt.Sprintf("%s (%d)", sheetName, n+1))
		}
		seen[sanitizeSheetName(section.Name)]++

		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheetName); err != nil {
				return fmt.Errorf("failed to rename first sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheetName); err != nil {
				return fmt.Errorf("failed to create sheet %q: %w", sheetName, err)
			}
		}

		if err := writeSection(f, sheetName, section, styles); err != nil {
			return fmt.Errorf("failed to write sheet %q: %w", sheetName, err)
		}
	}

	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSection(f *excelize.File, sheetName string, section Section, styles workbookStyles) error {
	// Header row and column widths
	for i, column := range section.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, column.Header); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, styles.header); err != nil {
			return err
		}

		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, col, col, column.Width); err != nil {
			return err
		}
	}

	// Data rows
	for rowIdx, row := range section.Rows {
		for colIdx, c := range row.Cells {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheetName, cell, c.Value); err != nil {
				return err
			}

			style := styles.center
			switch {
			case c.Highlight == HighlightAlert:
				style = styles.alert
			case c.Highlight == HighlightCaution:
				style = styles.caution
			case c.Highlight == HighlightPositive:
				style = styles.positive
			case colIdx < len(section.Columns) && section.Columns[colIdx].Currency:
				style = styles.currency
			}
			if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
				return err
			}
		}
	}

	// Freeze the header row
	return f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
