package report

import (
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ENGINE", "ENGINE"},
		{"OIL/FILTERS*?", "OILFILTERS"},
		{"A[B]C:D\\E", "ABCDE"},
		{"", "Sheet"},
		{"A very long category name that exceeds the limit", "A very long category name that"},
		// Accented names must be clamped on rune boundaries, never mid-sequence.
		{"Acessórios e peças de reposição geral", "Acessórios e peças de reposição"},
	}
	for _, tt := range tests {
		got := sanitizeSheetName(tt.in)
		assert.Equal(t, tt.want, got)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), 31)
		assert.True(t, utf8.ValidString(got))
	}
}

func TestWriteWorkbook(t *testing.T) {
	sections := []Section{
		{
			Name: "No Stock",
			Columns: []Column{
				{Header: "Item Code", Width: 25},
				{Header: "Sale Price", Width: 25, Currency: true},
				{Header: "Has Stock", Width: 20},
			},
			Rows: []Row{
				{Cells: []Cell{
					{Value: int64(42)},
					{Value: 123.45},
					{Value: "NO"},
				}},
			},
		},
		{
			Name: "In Stock, Sold By AC",
			Columns: []Column{
				{Header: "Item Code", Width: 25},
			},
			Rows: []Row{
				{Cells: []Cell{{Value: int64(7), Highlight: HighlightPositive}}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteWorkbook(path, sections))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Sheet names survive sanitization (commas are legal).
	assert.Equal(t, []string{"No Stock", "In Stock, Sold By AC"}, f.GetSheetList())

	header, err := f.GetCellValue("No Stock", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Item Code", header)

	code, err := f.GetCellValue("No Stock", "A2")
	require.NoError(t, err)
	assert.Equal(t, "42", code)

	stock, err := f.GetCellValue("No Stock", "C2")
	require.NoError(t, err)
	assert.Equal(t, "NO", stock)
}

func TestWriteWorkbookEmptySections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	assert.Error(t, WriteWorkbook(path, nil))
}
