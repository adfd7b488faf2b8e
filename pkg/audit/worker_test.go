// pkg/audit/worker_test.go
package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/classify"
	"github.com/sapore-ops/scale-audit/pkg/model"
)

func newTestWorker(t *testing.T, records []model.WeighingRecord) *Worker {
	t.Helper()
	classifier, err := classify.NewRecordClassifier(map[string]struct{}{"CENTRAL": {}}, zap.NewNop())
	require.NoError(t, err)
	return NewWorker(1, records, classifier, zap.NewNop())
}

func TestProcessJobTalliesChunk(t *testing.T) {
	records := []model.WeighingRecord{
		{Restaurant: "CENTRAL", Time: "12:00:00", Stage: model.StagePacing, Product: "ARROZ BRANCO"},
		{Restaurant: "CENTRAL", Time: "15:00:00", Stage: model.StagePacing, Product: "FEIJAO PRETO"},
		{Restaurant: "CENTRAL", Time: "invalido", Stage: model.StagePacing, Product: "SUCO DE UVA"},
		{Restaurant: "CENTRAL", Time: "21:00:00", Stage: model.StagePacing, Product: "ARROZ BRANCO"},
	}
	worker := newTestWorker(t, records)

	result := worker.ProcessJob(NewChunkJob("run", 0, 3))

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.ClassifiedRows)
	assert.Equal(t, 1, result.SkippedRows)
	assert.Equal(t, 1, result.LabelCounts[model.ErrPacingWeighing])
	assert.Equal(t, 2, result.ShiftCounts[model.ShiftLunch])
	assert.Equal(t, 1, result.CategoryCounts[model.CategoryRice])
	assert.Equal(t, 1, result.CategoryCounts[model.CategoryBeans])

	// The chunk boundary is respected: the fourth row was not touched.
	assert.Equal(t, "", records[3].Shift)
}

func TestProcessJobRejectsOutOfRangeChunks(t *testing.T) {
	records := []model.WeighingRecord{
		{Restaurant: "CENTRAL", Time: "12:00:00", Stage: model.StagePacing, Product: "ARROZ BRANCO"},
	}
	worker := newTestWorker(t, records)

	result := worker.ProcessJob(NewChunkJob("run", 0, 5))

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ErrorCategoryChunkLevel, result.Errors[0].Category)
}

func TestErrorHandlerThresholds(t *testing.T) {
	t.Run("row-level faults accumulate without aborting", func(t *testing.T) {
		handler := NewErrorHandler(zap.NewNop())
		for i := 0; i < 100; i++ {
			handler.Record(NewErrorRecord(errChunkOutOfRange(0, 1, 0), ErrorCategoryRowLevel))
		}
		assert.False(t, handler.ShouldAbortRun())
	})

	t.Run("a single batch-level fault aborts", func(t *testing.T) {
		handler := NewErrorHandler(zap.NewNop())
		handler.Record(NewErrorRecord(errChunkOutOfRange(0, 1, 0), ErrorCategoryBatchLevel))
		assert.True(t, handler.ShouldAbortRun())
	})

	t.Run("summary reports counts per category", func(t *testing.T) {
		handler := NewErrorHandler(zap.NewNop())
		handler.Record(NewErrorRecord(errChunkOutOfRange(0, 1, 0), ErrorCategoryChunkLevel))
		handler.Record(NewErrorRecord(errChunkOutOfRange(0, 1, 0), ErrorCategoryChunkLevel))

		summary := handler.GetErrorSummary()
		assert.Equal(t, 2, summary[ErrorCategoryChunkLevel])
	})
}
