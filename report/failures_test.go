package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricewatch/fetcher"
)

func TestWriteFailureLog(t *testing.T) {
	failures := []fetcher.FetchFailure{
		{ItemCode: 3, Name: "Gasket", Reason: "no matching record in response"},
	}
	path := filepath.Join(t.TempDir(), "failures.json")
	require.NoError(t, WriteFailureLog(path, failures))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		ExportedAt string                 `json:"exported_at"`
		Total      int                    `json:"total"`
		Failures   []fetcher.FetchFailure `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 1, decoded.Total)
	assert.Equal(t, failures, decoded.Failures)
	assert.NotEmpty(t, decoded.ExportedAt)
}

// An empty batch still writes a log, so "nothing failed" is visible.
func TestWriteFailureLogEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failures.json")
	require.NoError(t, WriteFailureLog(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total": 0`)
	assert.Contains(t, string(data), `"failures": []`)
}
