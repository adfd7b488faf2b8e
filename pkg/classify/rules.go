// pkg/classify/rules.go
package classify

import (
	"strings"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// shiftWindows holds the per-shift tolerance boundaries. The initial
// production cutoff already includes a 15-minute grace period past nominal
// service start; both pacing bounds carry the same grace.
type shiftWindows struct {
	InitialProductionCutoff string
	PacingStart             string
	PacingEnd               string
}

var ruleWindows = map[string]shiftWindows{
	model.ShiftLunch: {
		InitialProductionCutoff: "11:00:00",
		PacingStart:             "10:30:00",
		PacingEnd:               "14:30:00",
	},
	model.ShiftDinner: {
		InitialProductionCutoff: "19:15:00",
		PacingStart:             "18:45:00",
		PacingEnd:               "22:00:00",
	},
}

// RuleBasedErrorDetector flags probable data-entry errors from time-of-day
// rules alone. It is a pure function of (product, stage, time, shift); the
// clustering refiner may later overwrite its verdict on preparation-loss rows.
type RuleBasedErrorDetector struct{}

// NewRuleBasedErrorDetector creates a rule-based error detector.
func NewRuleBasedErrorDetector() *RuleBasedErrorDetector {
	return &RuleBasedErrorDetector{}
}

// Detect returns the data-quality label for one weighing event, or "" when no
// rule fires. Stage families are checked in a fixed order and the first match
// wins, so at most one label is emitted per record.
func (d *RuleBasedErrorDetector) Detect(product, stage, timeOfDay, shift string) string {
	stage = strings.ToUpper(strings.TrimSpace(stage))
	product = strings.ToUpper(strings.TrimSpace(product))

	// Samples must only ever be logged as preparation loss.
	if product == model.SampleProduct && stage != model.StagePreparationLoss {
		return model.ErrSampleWeighing
	}

	windows, ok := ruleWindows[shift]
	if !ok {
		return ""
	}

	switch {
	case strings.Contains(stage, model.StagePreparationLoss) && product != model.SampleProduct:
		// A loss logged past the end of service looks like unweighed surplus.
		// Mistimed entries inside the service window are left to the
		// clustering refiner.
		if timeOfDay > windows.PacingEnd {
			return model.ErrCleanSurplusAsPrepLoss
		}

	case strings.Contains(stage, model.StageCleanSurplus):
		if shift == model.ShiftLunch {
			if timeOfDay < "10:45:00" || timeOfDay > "17:00:00" {
				return model.ErrSurplusWeighing
			}
		} else {
			// Dinner surplus is only valid at or after 19:00, or at or before
			// 06:00 (preserved as observed in operation).
			if timeOfDay < "19:00:00" && timeOfDay > "06:00:00" {
				return model.ErrSurplusWeighing
			}
		}

	case strings.Contains(stage, model.StageInitialProduction):
		// The transported variant is exempt from the cutoff.
		if strings.Contains(stage, "TRANSPORTADA") {
			return ""
		}
		if timeOfDay > windows.InitialProductionCutoff {
			return model.ErrInitialProductionWeighing
		}

	case strings.Contains(stage, model.StagePacing):
		if timeOfDay < windows.PacingStart || timeOfDay > windows.PacingEnd {
			return model.ErrPacingWeighing
		}
	}

	return ""
}
