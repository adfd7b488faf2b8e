// pkg/ingest/workbook.go
package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// Logical columns consumed from the source workbook, keyed by the header
// names the scales export.
var workbookColumns = map[string]string{
	"data":    "date",
	"horario": "time",
	"etapa":   "stage",
	"produto": "product",
	"panela":  "container",
	"pesagem": "weight",
	"servico": "service",
}

var mandatoryColumns = []string{"date", "time", "stage", "product", "weight"}

// Sheet names whose scale serves a CENTRAL sub-operation; their rows fold
// into the CENTRAL restaurant.
var centralSubSites = map[string]struct{}{
	"CENTRAL SOBRA LIMPA": {},
	"CENTRAL ACOUGUE":     {},
	"CENTRAL CONFEITARIA": {},
	"CENTRAL SALADA":      {},
	"CENTRAL ESTOQUE":     {},
}

// WorkbookReader materializes weighing records from a multi-sheet scale
// export. One sheet per scale; the sheet name carries the site identity.
type WorkbookReader struct {
	logger *zap.Logger
	// SheetPrefix is the site code prepended to every sheet name, stripped
	// before deriving the scale and restaurant columns.
	SheetPrefix string
}

// NewWorkbookReader creates a workbook reader.
func NewWorkbookReader(logger *zap.Logger) (*WorkbookReader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &WorkbookReader{logger: logger, SheetPrefix: "3352 - "}, nil
}

// FindWorkbook locates the input workbook in dir by filename substring.
func FindWorkbook(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	for _, path := range matches {
		if strings.Contains(strings.ToLower(filepath.Base(path)), strings.ToLower(pattern)) {
			return path, nil
		}
	}

	return "", fmt.Errorf("no .xlsx matching %q found in %s", pattern, dir)
}

// Read materializes every qualifying row of the workbook, sheet by sheet.
// Sheets named CONSOLIDADO are prior outputs and are skipped. Rows whose date
// does not parse or falls outside the filter are dropped; value-level
// normalizations are reported as findings.
func (r *WorkbookReader) Read(path string, filter DateFilter) ([]model.WeighingRecord, []model.RowFinding, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer workbook.Close()

	var (
		records  []model.WeighingRecord
		findings []model.RowFinding
	)

	for _, sheet := range workbook.GetSheetList() {
		if strings.Contains(strings.ToUpper(sheet), "CONSOLIDADO") {
			r.logger.Debug("Skipping consolidated sheet", zap.String("sheet", sheet))
			continue
		}

		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if len(rows) < 2 {
			r.logger.Warn("Sheet is empty or header-only", zap.String("sheet", sheet))
			continue
		}

		columns, err := mapHeader(rows[0], workbookColumns)
		if err != nil {
			return nil, nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}

		restaurant, scale := r.NormalizeSheetName(sheet)

		kept := 0
		for _, row := range rows[1:] {
			record, rowFindings, ok := r.buildRecord(sheet, restaurant, scale, columns, row, filter)
			findings = append(findings, rowFindings...)
			if !ok {
				continue
			}
			records = append(records, record)
			kept++
		}

		r.logger.Info("Sheet ingested",
			zap.String("sheet", sheet),
			zap.String("restaurant", restaurant),
			zap.Int("rows", kept))
	}

	return records, findings, nil
}

// NormalizeSheetName derives the canonical restaurant and scale names from a
// sheet name: the site prefix is stripped for both, receiving/hybrid scale
// suffixes are stripped from the restaurant, and CENTRAL sub-operations fold
// into CENTRAL.
func (r *WorkbookReader) NormalizeSheetName(sheet string) (restaurant, scale string) {
	scale = strings.TrimPrefix(sheet, r.SheetPrefix)

	restaurant = scale
	restaurant = strings.ReplaceAll(restaurant, " RECEB", "")
	restaurant = strings.ReplaceAll(restaurant, " HIB", "")
	if _, ok := centralSubSites[restaurant]; ok {
		restaurant = "CENTRAL"
	}

	return restaurant, scale
}

// buildRecord converts one sheet row into a record. The bool result is false
// when the row is dropped (missing/unparsable date or filtered out).
func (r *WorkbookReader) buildRecord(
	sheet, restaurant, scale string,
	columns map[string]int,
	row []string,
	filter DateFilter,
) (model.WeighingRecord, []model.RowFinding, bool) {
	var findings []model.RowFinding

	cell := func(logical string) string {
		idx, ok := columns[logical]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	rawDate := cell("date")
	rawTime := cell("time")
	rowID := rowIdentifier(restaurant, rawDate, rawTime)

	date, err := NormalizeDate(rawDate)
	if err != nil {
		findings = append(findings, model.RowFinding{
			Sheet:         sheet,
			Column:        "date",
			OriginalValue: rawDate,
			RowIdentifier: rowID,
			Operation:     model.OpDateUnparsable,
			Reason:        err.Error(),
			RecordedAt:    time.Now(),
		})
		return model.WeighingRecord{}, findings, false
	}
	if date != rawDate {
		findings = append(findings, model.RowFinding{
			Sheet:         sheet,
			Column:        "date",
			OriginalValue: rawDate,
			NewValue:      date,
			RowIdentifier: rowID,
			Operation:     model.OpDateReformat,
			Reason:        "date normalized to dd/mm/yyyy",
			RecordedAt:    time.Now(),
		})
	}
	if !filter.Accepts(date) {
		return model.WeighingRecord{}, findings, false
	}

	timeOfDay := rawTime
	if normalized, err := model.NormalizeTime(rawTime); err == nil {
		if normalized != rawTime {
			findings = append(findings, model.RowFinding{
				Sheet:         sheet,
				Column:        "time",
				OriginalValue: rawTime,
				NewValue:      normalized,
				RowIdentifier: rowID,
				Operation:     model.OpTimeZeroPad,
				Reason:        "time normalized to HH:MM:SS",
				RecordedAt:    time.Now(),
			})
		}
		timeOfDay = normalized
	} else {
		// Keep the raw value; the classifier degrades this row instead of
		// the batch aborting.
		findings = append(findings, model.RowFinding{
			Sheet:         sheet,
			Column:        "time",
			OriginalValue: rawTime,
			RowIdentifier: rowID,
			Operation:     model.OpTimeUnparsable,
			Reason:        err.Error(),
			RecordedAt:    time.Now(),
		})
	}

	rawWeight := cell("weight")
	weight, weightKnown := ParseWeight(rawWeight)
	if !weightKnown && rawWeight != "" {
		findings = append(findings, model.RowFinding{
			Sheet:         sheet,
			Column:        "weight",
			OriginalValue: rawWeight,
			RowIdentifier: rowID,
			Operation:     model.OpWeightUnparsable,
			Reason:        "weight is not a non-negative number",
			RecordedAt:    time.Now(),
		})
	}

	record := model.WeighingRecord{
		Date:        date,
		Restaurant:  restaurant,
		Scale:       scale,
		Time:        timeOfDay,
		Stage:       strings.ToUpper(cell("stage")),
		Product:     strings.ToUpper(cell("product")),
		Container:   cell("container"),
		Weight:      weight,
		WeightKnown: weightKnown,
		Service:     cell("service"),
	}

	return record, findings, true
}

// mapHeader resolves logical column positions from a header row and verifies
// the mandatory columns are present.
func mapHeader(header []string, aliases map[string]string) (map[string]int, error) {
	columns := make(map[string]int)
	for idx, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if logical, ok := aliases[name]; ok {
			if _, dup := columns[logical]; !dup {
				columns[logical] = idx
			}
		}
	}

	var missing []string
	for _, logical := range mandatoryColumns {
		if _, ok := columns[logical]; !ok {
			missing = append(missing, logical)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing mandatory columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}
