// internal/reporting/text_reporter.go
package reporting

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
)

// TextReporter renders reports as the human-readable statistics block the
// CLI prints after each run. It is thread safe.
type TextReporter struct {
	writer io.WriteCloser
	logger *zap.Logger

	mu      sync.Mutex
	written int
}

// NewTextReporter creates a reporter that writes plain-text statistics.
// It takes ownership of the writer.
func NewTextReporter(writer io.WriteCloser, logger *zap.Logger) *TextReporter {
	return &TextReporter{
		writer: writer,
		logger: logger.Named("TextReporter"),
	}
}

// Write renders one report. Consecutive reports are separated by a blank
// line so a watch-mode stream stays readable.
func (r *TextReporter) Write(report *schemas.ImpositionReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var b strings.Builder
	if r.written > 0 {
		b.WriteString("\n")
	}

	b.WriteString("Imposition Statistics:\n")
	fmt.Fprintf(&b, "  Source pages: %d\n", report.Stats.SourcePageCount)
	fmt.Fprintf(&b, "  Output sheets: %d\n", report.Stats.OutputSheetCount)
	fmt.Fprintf(&b, "  Output pages: %d\n", report.Stats.OutputPageCount)
	fmt.Fprintf(&b, "  Blank pages added: %d\n", report.Stats.BlankPagesAdded)
	fmt.Fprintf(&b, "  Signatures: %d\n", report.Stats.SignatureCount)

	for _, path := range report.OutputFiles {
		fmt.Fprintf(&b, "Imposed → %s\n", path)
	}

	if _, err := io.WriteString(r.writer, b.String()); err != nil {
		r.logger.Error("Failed to write text report", zap.Error(err))
		return fmt.Errorf("failed to write text report: %w", err)
	}
	r.written++

	r.logger.Debug("Report written",
		zap.String("job_id", report.JobID),
		zap.Int("output_files", len(report.OutputFiles)),
	)
	return nil
}

// Close closes the underlying writer.
func (r *TextReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writer.Close(); err != nil {
		r.logger.Error("Failed to close output writer", zap.Error(err))
		return fmt.Errorf("failed to close output writer: %w", err)
	}
	return nil
}
