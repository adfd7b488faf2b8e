// pkg/classify/shift_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

func newTestShiftClassifier(t *testing.T) *ShiftClassifier {
	t.Helper()
	classifier, err := NewShiftClassifier(map[string]struct{}{
		"CENTRAL":  {},
		"COQUERIA": {},
		"MINI LTQ": {},
	})
	require.NoError(t, err)
	return classifier
}

func TestNewShiftClassifier(t *testing.T) {
	_, err := NewShiftClassifier(nil)
	assert.Error(t, err)

	_, err = NewShiftClassifier(map[string]struct{}{})
	assert.Error(t, err)
}

func TestClassifySingleShiftSites(t *testing.T) {
	classifier := newTestShiftClassifier(t)

	// A site outside the always-open set serves lunch only, no matter when
	// the scale was used.
	for _, timeOfDay := range []string{"05:00:00", "12:00:00", "20:30:00"} {
		assert.Equal(t, model.ShiftLunch,
			classifier.Classify("ESCRITORIO", timeOfDay, model.StagePacing), timeOfDay)
	}
}

func TestClassifyTransportedInitialProduction(t *testing.T) {
	classifier := newTestShiftClassifier(t)
	stage := model.StageInitialProductionTransported

	cases := []struct {
		time string
		want string
	}{
		// Transported food weighed in the evening is for the next lunch.
		{"16:00:01", model.ShiftLunch},
		{"23:45:00", model.ShiftLunch},
		{"05:59:59", model.ShiftLunch},
		{"16:00:00", model.ShiftDinner},
		{"15:59:59", model.ShiftDinner},
		{"06:00:00", model.ShiftDinner},
		{"12:00:00", model.ShiftDinner},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifier.Classify("CENTRAL", tc.time, stage), tc.time)
	}
}

func TestClassifyInitialProduction(t *testing.T) {
	classifier := newTestShiftClassifier(t)
	stage := model.StageInitialProduction

	cases := []struct {
		time string
		want string
	}{
		{"03:00:01", model.ShiftLunch},
		{"08:00:00", model.ShiftLunch},
		{"13:29:59", model.ShiftLunch},
		{"03:00:00", model.ShiftDinner},
		{"13:30:00", model.ShiftDinner},
		{"18:00:00", model.ShiftDinner},
		{"02:00:00", model.ShiftDinner},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, classifier.Classify("COQUERIA", tc.time, stage), tc.time)
	}
}

func TestClassifyServiceStages(t *testing.T) {
	classifier := newTestShiftClassifier(t)

	cases := []struct {
		time string
		want string
	}{
		{"06:00:01", model.ShiftLunch},
		{"12:00:00", model.ShiftLunch},
		{"16:59:59", model.ShiftLunch},
		{"06:00:00", model.ShiftDinner},
		{"17:00:00", model.ShiftDinner},
		{"21:00:00", model.ShiftDinner},
		{"01:00:00", model.ShiftDinner},
	}
	for _, stage := range []string{model.StagePacing, model.StageCleanSurplus, model.StagePreparationLoss} {
		for _, tc := range cases {
			assert.Equal(t, tc.want, classifier.Classify("CENTRAL", tc.time, stage),
				"%s at %s", stage, tc.time)
		}
	}
}

func TestClassifyStageMatchingIsCaseInsensitive(t *testing.T) {
	classifier := newTestShiftClassifier(t)

	// 12:00 is dinner under the transported rule but lunch under the plain
	// initial production rule, so the variants are distinguishable.
	assert.Equal(t, model.ShiftDinner,
		classifier.Classify("CENTRAL", "12:00:00", "  producao inicial transportada "))
	assert.Equal(t, model.ShiftLunch,
		classifier.Classify("CENTRAL", "12:00:00", "producao inicial"))
}
