// internal/reporting/json_reporter.go
package reporting

import (
	"fmt"
	"io"
	"sync"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/inkfold/bindery/api/schemas"
)

// JSONReporter emits one pretty-printed JSON document per report. Unlike a
// buffered format it streams, so a watch-mode run leaves a usable file even
// if the process is killed mid-session.
type JSONReporter struct {
	writer  io.WriteCloser
	logger  *zap.Logger
	encoder *json.Encoder

	mu sync.Mutex
}

// NewJSONReporter creates a reporter that writes machine-readable reports.
// It takes ownership of the writer.
func NewJSONReporter(writer io.WriteCloser, logger *zap.Logger) *JSONReporter {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	return &JSONReporter{
		writer:  writer,
		logger:  logger.Named("JSONReporter"),
		encoder: encoder,
	}
}

// Write encodes one report and flushes it to the writer.
func (r *JSONReporter) Write(report *schemas.ImpositionReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.encoder.Encode(report); err != nil {
		r.logger.Error("Failed to encode report to JSON", zap.Error(err))
		return fmt.Errorf("failed to encode report: %w", err)
	}

	r.logger.Debug("Report written", zap.String("job_id", report.JobID))
	return nil
}

// Close closes the underlying writer.
func (r *JSONReporter) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.writer.Close(); err != nil {
		r.logger.Error("Failed to close output writer", zap.Error(err))
		return fmt.Errorf("failed to close output writer: %w", err)
	}
	return nil
}
