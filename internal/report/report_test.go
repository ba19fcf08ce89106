package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ynab-autocat/internal/engine"
	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/models"
)

func sampleDecisions() []models.Decision {
	confidence := 0.857
	return []models.Decision{
		{
			TransactionID: "t-1",
			Payee:         "Migros",
			Date:          "2026-03-01",
			Amount:        "-45.99",
			CategoryID:    "c-groceries",
			CategoryName:  "Groceries",
			Source:        models.SourceHistory,
			Confidence:    &confidence,
			Occurrences:   12,
			Total:         14,
			LastDate:      "2026-02-20",
		},
		{
			TransactionID: "t-2",
			Payee:         "Brand New Cafe",
			Date:          "2026-03-02",
			Amount:        "-8.50",
			CategoryID:    "c-dining",
			CategoryName:  "Dining Out",
			Source:        models.SourceFallback,
			Reason:        "cafe name",
		},
	}
}

func TestWriteSummary(t *testing.T) {
	summary := &engine.Summary{
		Evaluated:       5,
		HistoryMatched:  3,
		FallbackMatched: 1,
		Skipped:         2,
		Unmatched:       1,
		Applied:         true,
		Decisions:       sampleDecisions(),
	}

	var buf strings.Builder
	WriteSummary(&buf, summary)
	out := buf.String()

	assert.Contains(t, out, "Evaluated:        5")
	assert.Contains(t, out, "from history:   3")
	assert.Contains(t, out, "from fallback:  1")
	assert.Contains(t, out, "Skipped:          2")
	assert.Contains(t, out, "Applied 2 category updates.")
}

func TestWriteSummary_DryRun(t *testing.T) {
	summary := &engine.Summary{Decisions: sampleDecisions()}

	var buf strings.Builder
	WriteSummary(&buf, summary)
	assert.Contains(t, buf.String(), "Dry run: 2 decisions not applied.")
}

func TestWriteDecisions(t *testing.T) {
	var buf strings.Builder
	WriteDecisions(&buf, sampleDecisions())
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "Migros")
	assert.Contains(t, lines[0], "Groceries")
	assert.Contains(t, lines[0], "confidence 0.857")

	// a missing confidence prints as a dash
	assert.Contains(t, lines[1], "Dining Out")
	assert.Contains(t, lines[1], "confidence -")
}

func TestExportCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decisions.csv")
	require.NoError(t, ExportCSV(path, sampleDecisions(), logging.NewMockLogger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 3, "header plus one row per decision")

	assert.Contains(t, lines[0], "transaction_id")
	assert.Contains(t, lines[0], "category_id")
	assert.Contains(t, lines[0], "source")
	assert.Contains(t, lines[1], "t-1")
	assert.Contains(t, lines[1], "c-groceries")
	assert.Contains(t, lines[1], "history")
	assert.Contains(t, lines[2], "fallback")
}
