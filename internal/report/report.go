// Package report renders the outcome of a categorization run: a console
// summary and an optional CSV export of the individual decisions.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"fjacquet/ynab-autocat/internal/engine"
	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/models"
)

// WriteSummary prints a human-readable run summary.
func WriteSummary(w io.Writer, summary *engine.Summary) {
	fmt.Fprintf(w, "Evaluated:        %d\n", summary.Evaluated)
	fmt.Fprintf(w, "  from history:   %d\n", summary.HistoryMatched)
	fmt.Fprintf(w, "  from fallback:  %d\n", summary.FallbackMatched)
	fmt.Fprintf(w, "  from overrides: %d\n", summary.OverrideMatched)
	fmt.Fprintf(w, "  unmatched:      %d\n", summary.Unmatched)
	fmt.Fprintf(w, "Skipped:          %d\n", summary.Skipped)
	if summary.Applied {
		fmt.Fprintf(w, "Applied %d category updates.\n", len(summary.Decisions))
	} else if len(summary.Decisions) > 0 {
		fmt.Fprintf(w, "Dry run: %d decisions not applied.\n", len(summary.Decisions))
	}
}

// WriteDecisions prints one line per decision.
func WriteDecisions(w io.Writer, decisions []models.Decision) {
	for _, d := range decisions {
		confidence := "-"
		if d.Confidence != nil {
			confidence = fmt.Sprintf("%.3f", *d.Confidence)
		}
		fmt.Fprintf(w, "%s  %s  %10s  %-30s -> %s (%s, confidence %s)\n",
			d.Date, d.TransactionID, d.Amount, d.Payee, d.CategoryName, d.Source, confidence)
	}
}

// ExportCSV writes the decisions to a CSV file using gocsv.
func ExportCSV(path string, decisions []models.Decision, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close CSV file")
		}
	}()

	if err := gocsv.MarshalFile(&decisions, file); err != nil {
		return fmt.Errorf("error writing CSV file: %w", err)
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(decisions)},
		logging.Field{Key: "file", Value: path},
	).Info("Exported decisions to CSV")
	return nil
}
