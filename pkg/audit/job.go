// pkg/audit/job.go
package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/sapore-ops/scale-audit/pkg/refine"
)

// ChunkJob is one slice of the dataset handed to a classification worker.
// Chunks never overlap, so workers mutate disjoint rows without locking.
type ChunkJob struct {
	ID        string
	RunID     string
	Offset    int
	Length    int
	CreatedAt time.Time
}

// NewChunkJob creates a chunk job for records[offset : offset+length].
func NewChunkJob(runID string, offset, length int) ChunkJob {
	return ChunkJob{
		ID:        uuid.New().String(),
		RunID:     runID,
		Offset:    offset,
		Length:    length,
		CreatedAt: time.Now(),
	}
}

// ChunkResult is the outcome of classifying one chunk.
type ChunkResult struct {
	JobID          string
	WorkerID       int
	Offset         int
	Length         int
	ClassifiedRows int
	SkippedRows    int // rows whose time did not parse
	LabelCounts    map[string]int
	ShiftCounts    map[string]int
	CategoryCounts map[string]int
	Success        bool
	Errors         []ErrorRecord
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// NewChunkResult initializes a chunk result for a job.
func NewChunkResult(job ChunkJob, workerID int) *ChunkResult {
	return &ChunkResult{
		JobID:          job.ID,
		WorkerID:       workerID,
		Offset:         job.Offset,
		Length:         job.Length,
		LabelCounts:    make(map[string]int),
		ShiftCounts:    make(map[string]int),
		CategoryCounts: make(map[string]int),
		StartTime:      time.Now(),
	}
}

// Complete marks the chunk as done and computes its duration.
func (r *ChunkResult) Complete(success bool) {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	r.Success = success
}

// AddError records an error and marks the chunk unsuccessful.
func (r *ChunkResult) AddError(err ErrorRecord) {
	r.Errors = append(r.Errors, err)
	r.Success = false
}

// RunResult is the consolidated outcome of one audit run.
type RunResult struct {
	RunID          string
	InputRows      int
	ClassifiedRows int
	SkippedRows    int
	LabelCounts    map[string]int
	ShiftCounts    map[string]int
	CategoryCounts map[string]int
	Refine         refine.Stats
	Warnings       []string
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

// NewRunResult initializes a run result.
func NewRunResult(runID string, inputRows int) *RunResult {
	return &RunResult{
		RunID:          runID,
		InputRows:      inputRows,
		LabelCounts:    make(map[string]int),
		ShiftCounts:    make(map[string]int),
		CategoryCounts: make(map[string]int),
		StartTime:      time.Now(),
	}
}

// AddChunkResult folds a chunk result into the run totals.
func (r *RunResult) AddChunkResult(result ChunkResult) {
	r.ClassifiedRows += result.ClassifiedRows
	r.SkippedRows += result.SkippedRows
	for label, count := range result.LabelCounts {
		r.LabelCounts[label] += count
	}
	for shift, count := range result.ShiftCounts {
		r.ShiftCounts[shift] += count
	}
	for category, count := range result.CategoryCounts {
		r.CategoryCounts[category] += count
	}
}

// AddWarning appends an advisory warning to the run.
func (r *RunResult) AddWarning(warning string) {
	r.Warnings = append(r.Warnings, warning)
}

// Complete marks the run as finished and computes its duration.
func (r *RunResult) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}

// FlaggedRows returns the total number of rows carrying an error label.
func (r *RunResult) FlaggedRows() int {
	total := 0
	for _, count := range r.LabelCounts {
		total += count
	}
	return total
}
