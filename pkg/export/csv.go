// pkg/export/csv.go
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// CSVWriter writes the consolidated dataset as a CSV file.
type CSVWriter struct {
	path   string
	logger *zap.Logger
}

// NewCSVWriter creates a CSV writer targeting path.
func NewCSVWriter(path string, logger *zap.Logger) (*CSVWriter, error) {
	if path == "" {
		return nil, errors.New("output path cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &CSVWriter{path: path, logger: logger}, nil
}

// Write renders the records into the CSV file.
func (w *CSVWriter) Write(ctx context.Context, records []model.WeighingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", w.path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(model.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i := range records {
		if err := writer.Write(records[i].Values()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", w.path, err)
	}

	w.logger.Info("CSV written",
		zap.String("path", w.path),
		zap.Int("rows", len(records)))

	return nil
}
