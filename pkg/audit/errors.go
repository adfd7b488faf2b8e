// pkg/audit/errors.go
package audit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrorCategory defines categories of system faults during an audit run.
// Data-quality findings are column values, never ErrorRecords.
type ErrorCategory int

const (
	ErrorCategoryNone ErrorCategory = iota
	// ErrorCategoryRowLevel covers faults confined to one row, e.g. an
	// unparsable mandatory field; the row degrades, the run continues.
	ErrorCategoryRowLevel
	// ErrorCategoryChunkLevel covers faults that lost a whole chunk.
	ErrorCategoryChunkLevel
	// ErrorCategoryBatchLevel covers faults that invalidate the dataset,
	// e.g. a missing mandatory column; the run aborts.
	ErrorCategoryBatchLevel
	// ErrorCategorySystemLevel covers environmental faults (I/O, database).
	ErrorCategorySystemLevel
)

// String returns a string representation of the error category.
func (ec ErrorCategory) String() string {
	switch ec {
	case ErrorCategoryNone:
		return "None"
	case ErrorCategoryRowLevel:
		return "RowLevel"
	case ErrorCategoryChunkLevel:
		return "ChunkLevel"
	case ErrorCategoryBatchLevel:
		return "BatchLevel"
	case ErrorCategorySystemLevel:
		return "SystemLevel"
	default:
		return fmt.Sprintf("Unknown(%d)", ec)
	}
}

func errChunkOutOfRange(start, end, total int) error {
	return fmt.Errorf("chunk [%d:%d) out of range for %d records", start, end, total)
}

// ErrorRecord represents a single fault during a run.
type ErrorRecord struct {
	Category      ErrorCategory
	RowIdentifier string
	Column        string
	Error         error
	Message       string
	Timestamp     time.Time
}

// NewErrorRecord creates a new error record with the current timestamp.
func NewErrorRecord(err error, category ErrorCategory) ErrorRecord {
	record := ErrorRecord{
		Category:  category,
		Error:     err,
		Timestamp: time.Now(),
	}
	if err != nil {
		record.Message = err.Error()
	}
	return record
}

// WithRow adds row information to the error record.
func (r ErrorRecord) WithRow(rowID string) ErrorRecord {
	r.RowIdentifier = rowID
	return r
}

// WithColumn adds column information to the error record.
func (r ErrorRecord) WithColumn(column string) ErrorRecord {
	r.Column = column
	return r
}

// String returns a formatted error message.
func (r ErrorRecord) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] ", r.Category))
	if r.RowIdentifier != "" {
		sb.WriteString(fmt.Sprintf("Row: %s ", r.RowIdentifier))
	}
	if r.Column != "" {
		sb.WriteString(fmt.Sprintf("Column: %s ", r.Column))
	}
	sb.WriteString(fmt.Sprintf("Error: %s", r.Message))
	return sb.String()
}

// ErrorHandler tracks fault counts during a run and decides when a run has
// degraded too far to be worth continuing.
type ErrorHandler struct {
	logger          *zap.Logger
	errorThresholds map[ErrorCategory]int
	errorCounts     map[ErrorCategory]int
	sampleErrors    map[ErrorCategory][]ErrorRecord
	mu              sync.Mutex
	maxSamples      int
}

// NewErrorHandler creates a new error handler with default thresholds.
func NewErrorHandler(logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		errorThresholds: map[ErrorCategory]int{
			ErrorCategoryRowLevel:    1000, // rows degrade individually, many are acceptable
			ErrorCategoryChunkLevel:  5,
			ErrorCategoryBatchLevel:  0, // batch faults abort immediately
			ErrorCategorySystemLevel: 0,
		},
		errorCounts:  make(map[ErrorCategory]int),
		sampleErrors: make(map[ErrorCategory][]ErrorRecord),
		maxSamples:   5,
	}
}

// Record registers an error and logs it at a severity matching its category.
func (eh *ErrorHandler) Record(record ErrorRecord) {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	eh.errorCounts[record.Category]++
	if len(eh.sampleErrors[record.Category]) < eh.maxSamples {
		eh.sampleErrors[record.Category] = append(eh.sampleErrors[record.Category], record)
	}

	switch record.Category {
	case ErrorCategoryRowLevel:
		eh.logger.Debug("Row-level fault", zap.String("detail", record.String()))
	case ErrorCategoryChunkLevel:
		eh.logger.Warn("Chunk-level fault", zap.String("detail", record.String()))
	default:
		eh.logger.Error("Fault", zap.String("detail", record.String()))
	}
}

// ShouldAbortRun reports whether any category exceeded its threshold.
func (eh *ErrorHandler) ShouldAbortRun() bool {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	for category, count := range eh.errorCounts {
		if count > eh.errorThresholds[category] {
			return true
		}
	}
	return false
}

// GetErrorSummary returns the fault counts per category.
func (eh *ErrorHandler) GetErrorSummary() map[ErrorCategory]int {
	eh.mu.Lock()
	defer eh.mu.Unlock()

	summary := make(map[ErrorCategory]int, len(eh.errorCounts))
	for category, count := range eh.errorCounts {
		summary[category] = count
	}
	return summary
}
