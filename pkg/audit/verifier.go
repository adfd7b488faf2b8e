// pkg/audit/verifier.go
package audit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sapore-ops/scale-audit/pkg/model"
	"github.com/sapore-ops/scale-audit/pkg/refine"
)

// Verifier checks the output dataset against the classification contract
// after a run: every classified row has exactly one shift, all labels come
// from the known taxonomy, and the refiner only ever overwrote
// preparation-loss rows. Violations are returned as warnings; they indicate a
// bug in the engine rather than bad input data.
type Verifier struct {
	logger *zap.Logger
}

// NewVerifier creates a run verifier.
func NewVerifier(logger *zap.Logger) *Verifier {
	return &Verifier{logger: logger}
}

// VerifyRun validates the classified records. priorLabels holds each row's
// error label as it stood before the refinement pass.
func (v *Verifier) VerifyRun(records []model.WeighingRecord, priorLabels []string, stats refine.Stats) []string {
	var warnings []string

	if len(priorLabels) != len(records) {
		warnings = append(warnings, fmt.Sprintf(
			"row count changed during refinement: %d before, %d after",
			len(priorLabels), len(records)))
		return warnings
	}

	overwritten := 0
	for i := range records {
		rec := &records[i]

		if rec.HasDerivedFields() && rec.Shift != model.ShiftLunch && rec.Shift != model.ShiftDinner {
			warnings = append(warnings, fmt.Sprintf(
				"row %d has unknown shift %q", i, rec.Shift))
		}

		if !model.IsKnownErrorLabel(rec.Error) {
			warnings = append(warnings, fmt.Sprintf(
				"row %d carries unknown error label %q", i, rec.Error))
		}

		if rec.Error == priorLabels[i] {
			continue
		}

		overwritten++
		if rec.Error != model.ErrPacingMisweighedAsPrepLoss {
			warnings = append(warnings, fmt.Sprintf(
				"row %d label changed from %q to %q outside the refiner contract",
				i, priorLabels[i], rec.Error))
		}
		if !strings.Contains(strings.ToUpper(rec.Stage), model.StagePreparationLoss) {
			warnings = append(warnings, fmt.Sprintf(
				"row %d was relabeled but its stage %q is not preparation loss", i, rec.Stage))
		}
	}

	if overwritten != stats.Reassigned {
		warnings = append(warnings, fmt.Sprintf(
			"refiner reported %d reassignments but %d labels changed",
			stats.Reassigned, overwritten))
	}

	if len(warnings) > 0 {
		v.logger.Warn("Run verification found contract violations",
			zap.Int("count", len(warnings)))
	} else {
		v.logger.Debug("Run verification passed",
			zap.Int("rows", len(records)),
			zap.Int("reassigned", stats.Reassigned))
	}

	return warnings
}
