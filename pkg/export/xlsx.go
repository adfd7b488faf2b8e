// pkg/export/xlsx.go
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/ingest"
	"github.com/sapore-ops/scale-audit/pkg/model"
)

const consolidatedSheet = "CONSOLIDADO"

// XLSXWriter writes the consolidated dataset as a single-sheet workbook with
// the date column formatted as a real date.
type XLSXWriter struct {
	path   string
	logger *zap.Logger
}

// NewXLSXWriter creates an XLSX writer targeting path.
func NewXLSXWriter(path string, logger *zap.Logger) (*XLSXWriter, error) {
	if path == "" {
		return nil, errors.New("output path cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &XLSXWriter{path: path, logger: logger}, nil
}

// Write renders the records into the workbook and saves it.
func (w *XLSXWriter) Write(ctx context.Context, records []model.WeighingRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()

	if err := workbook.SetSheetName("Sheet1", consolidatedSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(model.Columns))
	for i, name := range model.Columns {
		header[i] = name
	}
	if err := workbook.SetSheetRow(consolidatedSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	dateFormat := "dd/mm/yyyy"
	dateStyle, err := workbook.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	for i := range records {
		rec := &records[i]
		rowIdx := i + 2

		row := make([]interface{}, len(model.Columns))
		for col, value := range rec.Values() {
			row[col] = value
		}

		// A real date cell lets the auditors sort and filter the column.
		if parsed, err := time.Parse(ingest.DateLayout, rec.Date); err == nil {
			row[0] = parsed
		}
		if rec.WeightKnown {
			row[9] = rec.Weight
		}

		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", rowIdx, err)
		}
		if err := workbook.SetSheetRow(consolidatedSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowIdx, err)
		}
		if err := workbook.SetCellStyle(consolidatedSheet, cell, cell, dateStyle); err != nil {
			return fmt.Errorf("failed to style date cell %s: %w", cell, err)
		}
	}

	if err := workbook.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save %s (close the file if it is open): %w", w.path, err)
	}

	w.logger.Info("Workbook written",
		zap.String("path", w.path),
		zap.Int("rows", len(records)))

	return nil
}
