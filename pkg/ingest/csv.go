// pkg/ingest/csv.go
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// CSV inputs are already consolidated, so they carry the restaurant (and
// optionally scale) columns themselves. Both the export's Portuguese headers
// and the output-contract English names are accepted.
var csvColumns = map[string]string{
	"data":        "date",
	"date":        "date",
	"restaurante": "restaurant",
	"restaurant":  "restaurant",
	"balanca":     "scale",
	"scale":       "scale",
	"horario":     "time",
	"time":        "time",
	"etapa":       "stage",
	"stage":       "stage",
	"produto":     "product",
	"product":     "product",
	"panela":      "container",
	"container":   "container",
	"pesagem":     "weight",
	"weight":      "weight",
	"servico":     "service",
	"service":     "service",
}

var csvMandatoryColumns = []string{"date", "restaurant", "time", "stage", "product", "weight"}

// CSVReader materializes weighing records from a consolidated CSV file.
type CSVReader struct {
	logger *zap.Logger
}

// NewCSVReader creates a CSV reader.
func NewCSVReader(logger *zap.Logger) (*CSVReader, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &CSVReader{logger: logger}, nil
}

// Read materializes every qualifying row of the CSV file.
func (r *CSVReader) Read(path string, filter DateFilter) ([]model.WeighingRecord, []model.RowFinding, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%s is empty or header-only", path)
	}

	columns, err := mapHeader(rows[0], csvColumns)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, logical := range csvMandatoryColumns {
		if _, ok := columns[logical]; !ok {
			return nil, nil, fmt.Errorf("%s: missing mandatory column %s", path, logical)
		}
	}

	var (
		records  []model.WeighingRecord
		findings []model.RowFinding
	)

	source := "csv:" + path
	for _, row := range rows[1:] {
		cell := func(logical string) string {
			idx, ok := columns[logical]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		rawDate := cell("date")
		rawTime := cell("time")
		restaurant := strings.ToUpper(cell("restaurant"))
		rowID := rowIdentifier(restaurant, rawDate, rawTime)

		date, err := NormalizeDate(rawDate)
		if err != nil {
			findings = append(findings, model.RowFinding{
				Sheet:         source,
				Column:        "date",
				OriginalValue: rawDate,
				RowIdentifier: rowID,
				Operation:     model.OpDateUnparsable,
				Reason:        err.Error(),
				RecordedAt:    time.Now(),
			})
			continue
		}
		if !filter.Accepts(date) {
			continue
		}

		timeOfDay := rawTime
		if normalized, err := model.NormalizeTime(rawTime); err == nil {
			timeOfDay = normalized
		} else {
			findings = append(findings, model.RowFinding{
				Sheet:         source,
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
				Sheet:         source,
				Column:        "weight",
				OriginalValue: rawWeight,
				RowIdentifier: rowID,
				Operation:     model.OpWeightUnparsable,
				Reason:        "weight is not a non-negative number",
				RecordedAt:    time.Now(),
			})
		}

		records = append(records, model.WeighingRecord{
			Date:        date,
			Restaurant:  restaurant,
			Scale:       cell("scale"),
			Time:        timeOfDay,
			Stage:       strings.ToUpper(cell("stage")),
			Product:     strings.ToUpper(cell("product")),
			Container:   cell("container"),
			Weight:      weight,
			WeightKnown: weightKnown,
			Service:     cell("service"),
		})
	}

	r.logger.Info("CSV ingested", zap.String("path", path), zap.Int("rows", len(records)))

	return records, findings, nil
}
