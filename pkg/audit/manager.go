// pkg/audit/manager.go
package audit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/classify"
	"github.com/sapore-ops/scale-audit/pkg/cluster"
	"github.com/sapore-ops/scale-audit/pkg/config"
	"github.com/sapore-ops/scale-audit/pkg/model"
	"github.com/sapore-ops/scale-audit/pkg/refine"
)

// AuditManager orchestrates one audit run: row-local classification fanned
// out to a worker pool, the single blocking cluster-refinement pass, and a
// final verification of the output contract.
type AuditManager struct {
	cfg          *config.Config
	classifier   *classify.RecordClassifier
	refiner      *refine.Refiner
	verifier     *Verifier
	errorHandler *ErrorHandler
	metrics      *AuditMetrics
	logger       *zap.Logger
	workerCount  int
	chunkSize    int
}

// NewAuditManager creates an audit manager from configuration.
func NewAuditManager(cfg *config.Config, logger *zap.Logger) (*AuditManager, error) {
	if cfg == nil {
		return nil, errors.New("configuration cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	classifier, err := classify.NewRecordClassifier(cfg.AlwaysOpenSet(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create record classifier: %w", err)
	}

	kmeans, err := cluster.NewKMeans(
		cfg.Cluster.K,
		cfg.Cluster.Seed,
		cfg.Cluster.Restarts,
		cfg.Cluster.MaxIterations,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create clusterer: %w", err)
	}

	refiner, err := refine.NewRefiner(kmeans, cfg.SatelliteMarker, cfg.Cluster.MinRows, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create refiner: %w", err)
	}

	workerCount := cfg.WorkerPoolSize
	if workerCount == 0 {
		workerCount = calculateOptimalWorkerCount()
	}

	return &AuditManager{
		cfg:          cfg,
		classifier:   classifier,
		refiner:      refiner,
		verifier:     NewVerifier(logger),
		errorHandler: NewErrorHandler(logger),
		metrics:      NewAuditMetrics(logger),
		logger:       logger,
		workerCount:  workerCount,
		chunkSize:    cfg.ChunkSize,
	}, nil
}

// Run classifies and refines the dataset in place and returns the run result.
// Classification failures on single rows degrade those rows; faults that
// invalidate the whole dataset abort the run.
func (am *AuditManager) Run(ctx context.Context, records []model.WeighingRecord) (*RunResult, error) {
	if len(records) == 0 {
		return nil, errors.New("no records to audit")
	}

	runID := uuid.New().String()
	am.metrics.StartRun()
	result := NewRunResult(runID, len(records))

	am.logger.Info("Starting audit run",
		zap.String("runID", runID),
		zap.Int("rows", len(records)),
		zap.Int("workers", am.workerCount),
		zap.Int("chunkSize", am.chunkSize))

	if err := am.classifyAll(ctx, runID, records, result); err != nil {
		return nil, err
	}

	// Snapshot labels so the verifier can prove the refiner honored its
	// overwrite contract.
	priorLabels := make([]string, len(records))
	for i := range records {
		priorLabels[i] = records[i].Error
	}

	stats, err := am.refiner.Refine(records)
	if err != nil {
		return nil, fmt.Errorf("cluster refinement failed: %w", err)
	}
	result.Refine = stats

	relabeled := make(map[string]int)
	for i := range records {
		if records[i].Error != priorLabels[i] {
			relabeled[priorLabels[i]]++
		}
	}
	am.metrics.RecordRefine(stats, relabeled, model.ErrPacingMisweighedAsPrepLoss)
	for previous, count := range relabeled {
		if previous != "" {
			result.LabelCounts[previous] -= count
			if result.LabelCounts[previous] <= 0 {
				delete(result.LabelCounts, previous)
			}
		}
		result.LabelCounts[model.ErrPacingMisweighedAsPrepLoss] += count
	}

	for _, warning := range am.verifier.VerifyRun(records, priorLabels, stats) {
		result.AddWarning(warning)
	}

	result.Complete()
	am.metrics.EndRun()

	am.logger.Info("Audit run completed",
		zap.String("runID", runID),
		zap.Int("classifiedRows", result.ClassifiedRows),
		zap.Int("skippedRows", result.SkippedRows),
		zap.Int("flaggedRows", result.FlaggedRows()),
		zap.Int("reassigned", stats.Reassigned),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// classifyAll fans the dataset out to the worker pool in chunks and folds the
// chunk results back into the run result.
func (am *AuditManager) classifyAll(ctx context.Context, runID string, records []model.WeighingRecord, result *RunResult) error {
	chunkCount := (len(records) + am.chunkSize - 1) / am.chunkSize
	jobs := make(chan ChunkJob, chunkCount)
	results := make(chan ChunkResult, chunkCount)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var wg sync.WaitGroup
	for i := 0; i < am.workerCount; i++ {
		worker := NewWorker(i, records, am.classifier, am.logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Start(workerCtx, jobs, results)
		}()
	}

	for offset := 0; offset < len(records); offset += am.chunkSize {
		length := am.chunkSize
		if offset+length > len(records) {
			length = len(records) - offset
		}
		jobs <- NewChunkJob(runID, offset, length)
	}
	close(jobs)

	wg.Wait()
	close(results)

	if err := ctx.Err(); err != nil {
		am.logger.Warn("Audit run cancelled by context")
		return err
	}

	for chunkResult := range results {
		am.metrics.RecordChunk(chunkResult)
		result.AddChunkResult(chunkResult)

		for _, errRecord := range chunkResult.Errors {
			am.errorHandler.Record(errRecord)
		}
	}

	if am.errorHandler.ShouldAbortRun() {
		return fmt.Errorf("aborting run %s: error threshold exceeded (%v)",
			runID, am.errorHandler.GetErrorSummary())
	}

	return nil
}

// GenerateReport renders the metrics summary for the completed run.
func (am *AuditManager) GenerateReport() string {
	return am.metrics.GenerateRunReport()
}

// GetMetrics returns the run metrics collector.
func (am *AuditManager) GetMetrics() *AuditMetrics {
	return am.metrics
}

// calculateOptimalWorkerCount sizes the pool from the available CPUs.
// Classification is pure CPU work, so there is no reason to oversubscribe.
func calculateOptimalWorkerCount() int {
	workerCount := int(math.Ceil(float64(runtime.NumCPU()) * 0.75))

	if workerCount < 2 {
		workerCount = 2
	} else if workerCount > 12 {
		workerCount = 12
	}

	return workerCount
}
