// pkg/audit/worker.go
package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/classify"
	"github.com/sapore-ops/scale-audit/pkg/model"
)

// WorkerState represents the current state of a worker.
type WorkerState string

const (
	WorkerStateIdle      WorkerState = "idle"
	WorkerStateWorking   WorkerState = "working"
	WorkerStateCompleted WorkerState = "completed"
)

// Worker classifies dataset chunks. Each chunk addresses a disjoint span of
// the shared record slice, so workers never contend on a row.
type Worker struct {
	ID         int
	records    []model.WeighingRecord
	classifier *classify.RecordClassifier
	logger     *zap.Logger
	state      WorkerState
	stateLock  sync.RWMutex
}

// NewWorker creates a classification worker over the shared record slice.
func NewWorker(
	id int,
	records []model.WeighingRecord,
	classifier *classify.RecordClassifier,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		ID:         id,
		records:    records,
		classifier: classifier,
		logger:     logger.With(zap.Int("workerID", id)),
		state:      WorkerStateIdle,
	}
}

// GetState returns the current state of the worker.
func (w *Worker) GetState() WorkerState {
	w.stateLock.RLock()
	defer w.stateLock.RUnlock()
	return w.state
}

func (w *Worker) setState(state WorkerState) {
	w.stateLock.Lock()
	defer w.stateLock.Unlock()
	w.state = state
}

// Start begins the worker processing loop.
func (w *Worker) Start(ctx context.Context, jobs <-chan ChunkJob, results chan<- ChunkResult) {
	w.setState(WorkerStateWorking)
	w.logger.Debug("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("Worker stopping due to context cancellation")
			w.setState(WorkerStateCompleted)
			return

		case job, ok := <-jobs:
			if !ok {
				w.logger.Debug("Worker stopping due to closed job channel")
				w.setState(WorkerStateCompleted)
				return
			}

			result := w.ProcessJob(job)

			select {
			case results <- result:
			case <-ctx.Done():
				w.logger.Warn("Context cancelled while sending chunk result",
					zap.String("jobID", job.ID))
				w.setState(WorkerStateCompleted)
				return
			}
		}
	}
}

// ProcessJob classifies one chunk and tallies its label distribution.
func (w *Worker) ProcessJob(job ChunkJob) ChunkResult {
	result := NewChunkResult(job, w.ID)

	end := job.Offset + job.Length
	if job.Offset < 0 || end > len(w.records) {
		result.AddError(NewErrorRecord(
			errChunkOutOfRange(job.Offset, end, len(w.records)),
			ErrorCategoryChunkLevel,
		))
		result.Complete(false)
		return *result
	}

	for i := job.Offset; i < end; i++ {
		rec := &w.records[i]
		w.classifier.ClassifyRecord(rec)

		if !rec.HasDerivedFields() {
			result.SkippedRows++
			continue
		}

		result.ClassifiedRows++
		result.ShiftCounts[rec.Shift]++
		if rec.Category != "" {
			result.CategoryCounts[rec.Category]++
		}
		if rec.Error != "" {
			result.LabelCounts[rec.Error]++
		}
	}

	result.Complete(true)

	w.logger.Debug("Chunk classified",
		zap.Int("offset", job.Offset),
		zap.Int("length", job.Length),
		zap.Int("classified", result.ClassifiedRows),
		zap.Int("skipped", result.SkippedRows),
		zap.Duration("duration", result.Duration))

	return *result
}
