// pkg/model/finding.go
package model

import (
	"time"
)

// RowFinding records a single value-level adjustment or degradation applied
// while materializing a record, e.g. zero-padding a time or giving up on an
// unparsable weight. Findings are advisory and never fail a run.
type RowFinding struct {
	Sheet         string      // source sheet or file the row came from
	Column        string      // logical column that was touched
	OriginalValue interface{} // original cell value (may be nil)
	NewValue      string      // value after normalization, empty when dropped
	RowIdentifier string      // restaurant + date + time, best effort
	Operation     string      // e.g. "time_zero_pad", "weight_unparsable"
	Reason        string      // why the operation was applied
	RecordedAt    time.Time
}

// Finding operation names used across ingestion and classification.
const (
	OpTimeZeroPad      = "time_zero_pad"
	OpTimeUnparsable   = "time_unparsable"
	OpDateReformat     = "date_reformat"
	OpDateUnparsable   = "date_unparsable"
	OpWeightUnparsable = "weight_unparsable"
)
