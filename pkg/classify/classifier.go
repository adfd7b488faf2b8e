// pkg/classify/classifier.go
package classify

import (
	"errors"

	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// RecordClassifier applies the three row-local classifiers to a record in
// order: shift, category, rule-based error. Rows are independent, so batches
// may be classified concurrently.
type RecordClassifier struct {
	shift    *ShiftClassifier
	category *CategoryClassifier
	rules    *RuleBasedErrorDetector
	logger   *zap.Logger
}

// NewRecordClassifier creates a record classifier.
func NewRecordClassifier(alwaysOpen map[string]struct{}, logger *zap.Logger) (*RecordClassifier, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	shift, err := NewShiftClassifier(alwaysOpen)
	if err != nil {
		return nil, err
	}

	return &RecordClassifier{
		shift:    shift,
		category: NewCategoryClassifier(),
		rules:    NewRuleBasedErrorDetector(),
		logger:   logger,
	}, nil
}

// ClassifyRecord enriches one record in place with shift, category and the
// rule-based error label. A row whose time does not parse keeps its
// time-derived fields empty instead of failing the batch; the category does
// not depend on time and is still assigned.
func (c *RecordClassifier) ClassifyRecord(rec *model.WeighingRecord) {
	rec.Category = c.category.Classify(rec.Product)

	if _, err := model.NormalizeTime(rec.Time); err != nil {
		c.logger.Debug("Skipping time-derived fields for unparsable time",
			zap.String("restaurant", rec.Restaurant),
			zap.String("time", rec.Time))
		rec.Shift = ""
		rec.Error = ""
		return
	}

	rec.Shift = c.shift.Classify(rec.Restaurant, rec.Time, rec.Stage)
	rec.Error = c.rules.Detect(rec.Product, rec.Stage, rec.Time, rec.Shift)
}

// ClassifyAll enriches every record in the slice sequentially. The audit
// manager fans this work out to a worker pool instead for large runs.
func (c *RecordClassifier) ClassifyAll(records []model.WeighingRecord) {
	for i := range records {
		c.ClassifyRecord(&records[i])
	}
}
