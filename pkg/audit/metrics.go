// pkg/audit/metrics.go
package audit

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/refine"
)

// AuditMetrics collects counters across an audit run.
type AuditMetrics struct {
	logger *zap.Logger
	mu     sync.Mutex

	runStart       time.Time
	runEnd         time.Time
	chunksTotal    int
	chunksFailed   int
	rowsProcessed  int
	rowsSkipped    int
	labelCounts    map[string]int
	shiftCounts    map[string]int
	categoryCounts map[string]int
	refineStats    refine.Stats
}

// NewAuditMetrics creates a metrics collector.
func NewAuditMetrics(logger *zap.Logger) *AuditMetrics {
	return &AuditMetrics{
		logger:         logger,
		labelCounts:    make(map[string]int),
		shiftCounts:    make(map[string]int),
		categoryCounts: make(map[string]int),
	}
}

// StartRun marks the beginning of a run.
func (m *AuditMetrics) StartRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runStart = time.Now()
}

// EndRun marks the end of a run.
func (m *AuditMetrics) EndRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runEnd = time.Now()
}

// RecordChunk folds one chunk result into the run counters.
func (m *AuditMetrics) RecordChunk(result ChunkResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chunksTotal++
	if !result.Success {
		m.chunksFailed++
	}
	m.rowsProcessed += result.ClassifiedRows
	m.rowsSkipped += result.SkippedRows
	for label, count := range result.LabelCounts {
		m.labelCounts[label] += count
	}
	for shift, count := range result.ShiftCounts {
		m.shiftCounts[shift] += count
	}
	for category, count := range result.CategoryCounts {
		m.categoryCounts[category] += count
	}
}

// RecordRefine stores the refinement pass outcome, moving reassigned rows
// between label counters so the report reflects final labels.
func (m *AuditMetrics) RecordRefine(stats refine.Stats, relabeled map[string]int, newLabel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.refineStats = stats
	for previous, count := range relabeled {
		if previous != "" {
			m.labelCounts[previous] -= count
			if m.labelCounts[previous] <= 0 {
				delete(m.labelCounts, previous)
			}
		}
		m.labelCounts[newLabel] += count
	}
}

// Duration returns the elapsed run time.
func (m *AuditMetrics) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runEnd.IsZero() {
		return time.Since(m.runStart)
	}
	return m.runEnd.Sub(m.runStart)
}

// GenerateRunReport renders a human-readable summary of the run.
func (m *AuditMetrics) GenerateRunReport() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("Audit run summary\n")
	sb.WriteString(fmt.Sprintf("  Rows classified: %d\n", m.rowsProcessed))
	sb.WriteString(fmt.Sprintf("  Rows skipped:    %d\n", m.rowsSkipped))
	sb.WriteString(fmt.Sprintf("  Chunks:          %d (%d failed)\n", m.chunksTotal, m.chunksFailed))

	sb.WriteString("  Shifts:\n")
	writeSortedCounts(&sb, m.shiftCounts)
	sb.WriteString("  Categories:\n")
	writeSortedCounts(&sb, m.categoryCounts)
	sb.WriteString("  Findings:\n")
	writeSortedCounts(&sb, m.labelCounts)

	if m.refineStats.Skipped {
		sb.WriteString("  Cluster refinement: skipped (insufficient signal)\n")
	} else {
		sb.WriteString(fmt.Sprintf("  Cluster refinement: %d of %d clustered rows reassigned\n",
			m.refineStats.Reassigned, m.refineStats.ClusteredRows))
	}

	duration := m.runEnd.Sub(m.runStart)
	if m.runEnd.IsZero() {
		duration = time.Since(m.runStart)
	}
	sb.WriteString(fmt.Sprintf("  Duration: %s\n", duration.Round(time.Millisecond)))

	return sb.String()
}

func writeSortedCounts(sb *strings.Builder, counts map[string]int) {
	if len(counts) == 0 {
		sb.WriteString("    (none)\n")
		return
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		sb.WriteString(fmt.Sprintf("    %-40s %d\n", key, counts[key]))
	}
}
