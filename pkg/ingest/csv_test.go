// pkg/ingest/csv_test.go
package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	return path
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "consolidado.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVReaderRead(t *testing.T) {
	reader, err := NewCSVReader(zap.NewNop())
	require.NoError(t, err)

	path := writeCSV(t, `data,restaurante,balanca,horario,etapa,produto,panela,pesagem,servico
15/03/2025,Central,CENTRAL,11:30:00,Cadenciamento,Arroz Branco,GN 1/1,"12,5",1
15/03/2025,COQUERIA,COQUERIA RECEB,9:5,producao inicial,feijao carioca,,3.25,1
`)

	records, findings, err := reader.Read(path, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Empty(t, findings)

	first := records[0]
	assert.Equal(t, "15/03/2025", first.Date)
	assert.Equal(t, "CENTRAL", first.Restaurant)
	assert.Equal(t, "CENTRAL", first.Scale)
	assert.Equal(t, "11:30:00", first.Time)
	assert.Equal(t, model.StagePacing, first.Stage)
	assert.Equal(t, "ARROZ BRANCO", first.Product)
	assert.Equal(t, "GN 1/1", first.Container)
	assert.True(t, first.WeightKnown)
	assert.InDelta(t, 12.5, first.Weight, 1e-9)

	second := records[1]
	assert.Equal(t, "09:05:00", second.Time)
	assert.Equal(t, model.StageInitialProduction, second.Stage)
	assert.InDelta(t, 3.25, second.Weight, 1e-9)
}

func TestCSVReaderAcceptsEnglishHeaders(t *testing.T) {
	reader, err := NewCSVReader(zap.NewNop())
	require.NoError(t, err)

	path := writeCSV(t, `date,restaurant,time,stage,product,weight
15/03/2025,CENTRAL,12:00:00,CADENCIAMENTO,ARROZ BRANCO,10
`)

	records, _, err := reader.Read(path, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CENTRAL", records[0].Restaurant)
}

func TestCSVReaderDegradesBadRows(t *testing.T) {
	reader, err := NewCSVReader(zap.NewNop())
	require.NoError(t, err)

	path := writeCSV(t, `data,restaurante,horario,etapa,produto,pesagem
sem data,CENTRAL,12:00:00,CADENCIAMENTO,ARROZ BRANCO,10
15/03/2025,CENTRAL,sem horario,CADENCIAMENTO,ARROZ BRANCO,10
15/03/2025,CENTRAL,12:00:00,CADENCIAMENTO,ARROZ BRANCO,muito
`)

	records, findings, err := reader.Read(path, nil)
	require.NoError(t, err)

	// Unparsable dates drop the row; unparsable times and weights degrade it.
	require.Len(t, records, 2)
	assert.Equal(t, "sem horario", records[0].Time)
	assert.False(t, records[1].WeightKnown)

	operations := make(map[string]int)
	for _, finding := range findings {
		operations[finding.Operation]++
	}
	assert.Equal(t, 1, operations[model.OpDateUnparsable])
	assert.Equal(t, 1, operations[model.OpTimeUnparsable])
	assert.Equal(t, 1, operations[model.OpWeightUnparsable])
}

func TestCSVReaderAppliesDateFilter(t *testing.T) {
	reader, err := NewCSVReader(zap.NewNop())
	require.NoError(t, err)

	path := writeCSV(t, `data,restaurante,horario,etapa,produto,pesagem
15/03/2025,CENTRAL,12:00:00,CADENCIAMENTO,ARROZ BRANCO,10
16/03/2025,CENTRAL,12:00:00,CADENCIAMENTO,ARROZ BRANCO,10
`)

	filter, err := NewDateFilter("16/03/2025", "")
	require.NoError(t, err)

	records, _, err := reader.Read(path, filter)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "16/03/2025", records[0].Date)
}

func TestCSVReaderRejectsMissingColumns(t *testing.T) {
	reader, err := NewCSVReader(zap.NewNop())
	require.NoError(t, err)

	path := writeCSV(t, `data,horario,etapa,produto,pesagem
15/03/2025,12:00:00,CADENCIAMENTO,ARROZ BRANCO,10
`)

	_, _, err = reader.Read(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restaurant")
}

func TestCSVReaderRejectsEmptyFiles(t *testing.T) {
	reader, err := NewCSVReader(zap.NewNop())
	require.NoError(t, err)

	path := writeCSV(t, "data,restaurante,horario,etapa,produto,pesagem\n")
	_, _, err = reader.Read(path, nil)
	assert.Error(t, err)
}
