package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ItemSnapshot is one line of the baseline catalog: the item as it was
// observed when the snapshot was captured. Immutable once loaded.
type ItemSnapshot struct {
	Code        int64    `json:"code"`
	Name        string   `json:"name"`
	Fabrication string   `json:"fabrication"`
	PriorPrice  float64  `json:"prior_price"`
	PriorCost   *float64 `json:"prior_cost,omitempty"`
}

// SnapshotParserConfig holds configuration options for the baseline CSV parser.
type SnapshotParserConfig struct {
	Delimiter     rune   // CSV delimiter (default ';', the ERP export uses it)
	HasHeader     bool   // Whether the file starts with a header row
	Encoding      string // "utf-8" or "windows-1252" (legacy ERP exports)
	SkipEmptyRows bool
	MaxErrors     int // Max row errors before the parse is aborted
}

// DefaultSnapshotParserConfig returns the configuration matching the
// Movere catalog export.
func DefaultSnapshotParserConfig() SnapshotParserConfig {
	return SnapshotParserConfig{
		Delimiter:     ';',
		HasHeader:     true,
		Encoding:      "windows-1252",
		SkipEmptyRows: true,
		MaxErrors:     100,
	}
}

// snapshotColumnIndices holds resolved column positions for the CSV layout.
type snapshotColumnIndices struct {
	code        int
	name        int
	fabrication int
	priorPrice  int
	priorCost   int
}

// SnapshotParser parses the baseline item catalog exported from the ERP.
type SnapshotParser struct {
	config     SnapshotParserConfig
	logger     interface{ Printf(format string, v ...interface{}) }
	errorCount int
}

// NewSnapshotParser creates a parser with the given configuration.
func NewSnapshotParser(config SnapshotParserConfig, logger interface{ Printf(format string, v ...interface{}) }) *SnapshotParser {
	if config.Delimiter == 0 {
		config.Delimiter = ';'
	}
	if config.Encoding == "" {
		config.Encoding = "utf-8"
	}
	return &SnapshotParser{config: config, logger: logger}
}

// ParseCSVFile parses a baseline catalog CSV file.
func (p *SnapshotParser) ParseCSVFile(filePath string) ([]ItemSnapshot, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse parses baseline catalog rows from a reader.
func (p *SnapshotParser) Parse(r io.Reader) ([]ItemSnapshot, error) {
	p.errorCount = 0

	if strings.EqualFold(p.config.Encoding, "windows-1252") {
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.Comma = p.config.Delimiter
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("snapshot file is empty")
	}

	indices := defaultSnapshotIndices()
	start := 0
	if p.config.HasHeader {
		indices = p.resolveColumns(rows[0])
		start = 1
	}

	var items []ItemSnapshot
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if p.config.SkipEmptyRows && isEmptyRow(row) {
			continue
		}

		item, err := p.parseRow(row, indices)
		if err != nil {
			p.errorCount++
			if p.logger != nil {
				p.logger.Printf("Row %d skipped: %v", i+1, err)
			}
			if p.config.MaxErrors > 0 && p.errorCount >= p.config.MaxErrors {
				return nil, fmt.Errorf("too many row errors (%d), last: %w", p.errorCount, err)
			}
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items in snapshot file")
	}
	return items, nil
}

// resolveColumns matches header names to column positions. Headers come in
// the ERP's Portuguese form; unknown layouts fall back to positional order.
func (p *SnapshotParser) resolveColumns(header []string) snapshotColumnIndices {
	indices := snapshotColumnIndices{code: -1, name: -1, fabrication: -1, priorPrice: -1, priorCost: -1}

	for i, raw := range header {
		h := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case h == "codigo" || h == "código" || h == "codigodoitem":
			indices.code = i
		case h == "nome" || h == "nomedoitem":
			indices.name = i
		case strings.Contains(h, "fabrica"):
			indices.fabrication = i
		case strings.Contains(h, "custo"):
			indices.priorCost = i
		case strings.Contains(h, "preco") || strings.Contains(h, "preço") || strings.Contains(h, "venda"):
			indices.priorPrice = i
		}
	}

	if indices.code == -1 || indices.name == -1 || indices.fabrication == -1 || indices.priorPrice == -1 {
		return defaultSnapshotIndices()
	}
	return indices
}

func defaultSnapshotIndices() snapshotColumnIndices {
	return snapshotColumnIndices{code: 0, name: 1, fabrication: 2, priorPrice: 3, priorCost: 4}
}

func (p *SnapshotParser) parseRow(row []string, indices snapshotColumnIndices) (ItemSnapshot, error) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	codeStr := field(indices.code)
	code, err := strconv.ParseInt(codeStr, 10, 64)
	if err != nil {
		return ItemSnapshot{}, fmt.Errorf("invalid item code %q: %w", codeStr, err)
	}

	name := field(indices.name)
	if name == "" {
		return ItemSnapshot{}, fmt.Errorf("item %d has no name", code)
	}

	fabrication := field(indices.fabrication)
	if fabrication == "" {
		return ItemSnapshot{}, fmt.Errorf("item %d has no fabrication code", code)
	}

	price, err := parseDecimal(field(indices.priorPrice))
	if err != nil {
		return ItemSnapshot{}, fmt.Errorf("item %d has invalid price: %w", code, err)
	}

	item := ItemSnapshot{
		Code:        code,
		Name:        name,
		Fabrication: fabrication,
		PriorPrice:  price,
	}

	if costStr := field(indices.priorCost); costStr != "" {
		cost, err := parseDecimal(costStr)
		if err != nil {
			return ItemSnapshot{}, fmt.Errorf("item %d has invalid cost: %w", code, err)
		}
		item.PriorCost = &cost
	}

	return item, nil
}

// parseDecimal accepts both "1234.56" and the ERP's "1.234,56" form.
func parseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// LoadSnapshot reads the baseline catalog in the configured format.
// Format is "csv" (the ERP export, with the given encoding) or "json".
func LoadSnapshot(path, format, encoding string, logger interface{ Printf(format string, v ...interface{}) }) ([]ItemSnapshot, error) {
	switch strings.ToLower(format) {
	case "json":
		return LoadSnapshotJSON(path)
	case "csv":
		config := DefaultSnapshotParserConfig()
		config.Encoding = encoding
		return NewSnapshotParser(config, logger).ParseCSVFile(path)
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
}

// LoadSnapshotJSON reads the baseline catalog from a JSON file, the format
// written by an earlier pipeline stage.
func LoadSnapshotJSON(path string) ([]ItemSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var items []ItemSnapshot
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("snapshot file has no items")
	}
	return items, nil
}
