// pkg/export/xlsx_test.go
package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

func TestXLSXWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apuracao_consolidada.xlsx")
	writer, err := NewXLSXWriter(path, zap.NewNop())
	require.NoError(t, err)

	records := []model.WeighingRecord{
		{
			Date:        "15/03/2025",
			Restaurant:  "CENTRAL",
			Scale:       "CENTRAL",
			Shift:       model.ShiftLunch,
			Time:        "12:00:00",
			Stage:       model.StagePacing,
			Category:    model.CategoryRice,
			Product:     "ARROZ BRANCO",
			Weight:      12.5,
			WeightKnown: true,
		},
	}

	require.NoError(t, writer.Write(context.Background(), records))

	workbook, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows(consolidatedSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, model.Columns, rows[0])
	assert.Equal(t, "15/03/2025", rows[1][0])
	assert.Equal(t, "CENTRAL", rows[1][1])
	assert.Equal(t, model.ShiftLunch, rows[1][3])
	assert.Equal(t, "12.5", rows[1][9])
}

func TestXLSXWriterValidation(t *testing.T) {
	_, err := NewXLSXWriter("", zap.NewNop())
	assert.Error(t, err)

	_, err = NewXLSXWriter("out.xlsx", nil)
	assert.Error(t, err)
}
