package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"pricewatch/fetcher"
)

// failureLog is the operator follow-up artifact written next to the
// workbook: one entry per item whose lookup exhausted its retries.
type failureLog struct {
	ExportedAt string                 `json:"exported_at"`
	Total      int                    `json:"total"`
	Failures   []fetcher.FetchFailure `json:"failures"`
}

// WriteFailureLog writes the failed lookups as indented JSON. An empty
// failure list still produces a file, so operators can tell "nothing
// failed" from "the log was never written".
func WriteFailureLog(path string, failures []fetcher.FetchFailure) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create failure log: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	log := failureLog{
		ExportedAt: time.Now().Format(time.RFC3339),
		Total:      len(failures),
		Failures:   failures,
	}
	if log.Failures == nil {
		log.Failures = []fetcher.FetchFailure{}
	}

	if err := encoder.Encode(log); err != nil {
		return fmt.Errorf("failed to encode failure log: %w", err)
	}
	return nil
}
