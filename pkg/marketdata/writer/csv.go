package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/rxtech-lab/index-history/internal/logger"
	"github.com/rxtech-lab/index-history/internal/types"
)

const csvFileMode = 0o644

// CSVWriter writes a price table as comma-separated values with a header row.
// Rows go to a temporary file next to the target, which replaces the target
// only on Finalize.
type CSVWriter struct {
	outputPath string
	log        *logger.Logger

	schema types.Schema
	file   *os.File
	csv    *csv.Writer
	rows   int
}

// NewCSVWriter creates a new CSVWriter for outputPath.
func NewCSVWriter(outputPath string, log *logger.Logger) MarketDataWriter {
	return &CSVWriter{
		outputPath: outputPath,
		log:        log,
	}
}

// Initialize opens the temporary file and writes the header.
func (w *CSVWriter) Initialize(schema types.Schema) error {
	if w.file != nil {
		return fmt.Errorf("writer already initialized")
	}

	dir := filepath.Dir(w.outputPath)

	file, err := os.CreateTemp(dir, "."+filepath.Base(w.outputPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}

	w.file = file
	w.csv = csv.NewWriter(file)
	w.schema = schema
	w.rows = 0

	if err := w.csv.Write(schema.Header()); err != nil {
		_ = w.discard()

		return fmt.Errorf("failed to write header: %w", err)
	}

	return nil
}

// Write appends one record.
func (w *CSVWriter) Write(bar types.Bar) error {
	if w.csv == nil {
		return fmt.Errorf("writer not initialized")
	}

	if err := w.csv.Write(w.schema.Record(bar)); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	w.rows++

	return nil
}

// Finalize flushes the records and moves the file over the output path.
func (w *CSVWriter) Finalize() (string, error) {
	if w.file == nil {
		return "", fmt.Errorf("writer not initialized")
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return "", fmt.Errorf("failed to flush records: %w", err)
	}

	if err := w.file.Chmod(csvFileMode); err != nil {
		return "", fmt.Errorf("failed to set file mode: %w", err)
	}

	tempPath := w.file.Name()

	if err := w.file.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary file: %w", err)
	}

	w.file = nil
	w.csv = nil

	if err := os.Rename(tempPath, w.outputPath); err != nil {
		_ = os.Remove(tempPath)

		return "", fmt.Errorf("failed to move %s to %s: %w", tempPath, w.outputPath, err)
	}

	w.log.Debug("Wrote CSV file",
		zap.String("path", w.outputPath),
		zap.Int("rows", w.rows),
	)

	return w.outputPath, nil
}

// Close removes the temporary file if Finalize did not run.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}

	return w.discard()
}

func (w *CSVWriter) GetOutputPath() string {
	return w.outputPath
}

func (w *CSVWriter) discard() error {
	tempPath := w.file.Name()
	closeErr := w.file.Close()

	w.file = nil
	w.csv = nil

	if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove temporary file: %w", err)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close temporary file: %w", closeErr)
	}

	return nil
}
