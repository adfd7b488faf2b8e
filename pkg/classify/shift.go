// pkg/classify/shift.go
package classify

import (
	"errors"
	"strings"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

// ShiftClassifier assigns a weighing event to the lunch or dinner shift based
// on restaurant, stage and time of day. Time comparisons are done on the
// zero-padded HH:MM:SS strings directly; lexicographic order equals
// chronological order within a day.
type ShiftClassifier struct {
	alwaysOpen map[string]struct{}
}

// NewShiftClassifier creates a shift classifier for the given set of
// restaurants that serve both shifts every day.
func NewShiftClassifier(alwaysOpen map[string]struct{}) (*ShiftClassifier, error) {
	if len(alwaysOpen) == 0 {
		return nil, errors.New("always-open restaurant set cannot be empty")
	}

	return &ShiftClassifier{alwaysOpen: alwaysOpen}, nil
}

// Classify returns the shift label for one weighing event.
//
// Single-shift sites are always lunch. For always-open sites the window
// depends on the stage family:
//   - transported initial production inverts: food weighed after 16:00 or
//     before 06:00 belongs to the next day's lunch service
//   - plain initial production: (03:00, 13:30) exclusive is lunch
//   - everything else: (06:00, 17:00) exclusive is lunch
func (c *ShiftClassifier) Classify(restaurant, timeOfDay, stage string) string {
	stage = strings.ToUpper(strings.TrimSpace(stage))

	if _, alwaysOpen := c.alwaysOpen[restaurant]; !alwaysOpen {
		return model.ShiftLunch
	}

	initialProduction := strings.Contains(stage, model.StageInitialProduction)
	transported := strings.Contains(stage, "TRANSPORTADA")

	if initialProduction && transported {
		if timeOfDay > "16:00:00" || timeOfDay < "06:00:00" {
			return model.ShiftLunch
		}
		return model.ShiftDinner
	}

	if initialProduction {
		if timeOfDay > "03:00:00" && timeOfDay < "13:30:00" {
			return model.ShiftLunch
		}
		return model.ShiftDinner
	}

	if timeOfDay > "06:00:00" && timeOfDay < "17:00:00" {
		return model.ShiftLunch
	}
	return model.ShiftDinner
}
