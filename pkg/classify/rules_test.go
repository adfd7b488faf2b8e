// pkg/classify/rules_test.go
package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sapore-ops/scale-audit/pkg/model"
)

func TestDetectSampleRule(t *testing.T) {
	detector := NewRuleBasedErrorDetector()

	t.Run("sample outside preparation loss is flagged", func(t *testing.T) {
		for _, stage := range []string{model.StagePacing, model.StageCleanSurplus, model.StageInitialProduction} {
			got := detector.Detect(model.SampleProduct, stage, "12:00:00", model.ShiftLunch)
			assert.Equal(t, model.ErrSampleWeighing, got, stage)
		}
	})

	t.Run("sample under preparation loss is clean at any hour", func(t *testing.T) {
		for _, timeOfDay := range []string{"04:00:00", "12:00:00", "23:00:00"} {
			got := detector.Detect(model.SampleProduct, model.StagePreparationLoss, timeOfDay, model.ShiftLunch)
			assert.Equal(t, "", got, timeOfDay)
		}
	})

	t.Run("sample rule fires even without a shift", func(t *testing.T) {
		got := detector.Detect(model.SampleProduct, model.StagePacing, "12:00:00", "")
		assert.Equal(t, model.ErrSampleWeighing, got)
	})
}

func TestDetectPreparationLoss(t *testing.T) {
	detector := NewRuleBasedErrorDetector()
	stage := model.StagePreparationLoss

	cases := []struct {
		shift string
		time  string
		want  string
	}{
		{model.ShiftLunch, "14:30:00", ""},
		{model.ShiftLunch, "14:30:01", model.ErrCleanSurplusAsPrepLoss},
		{model.ShiftLunch, "16:00:00", model.ErrCleanSurplusAsPrepLoss},
		{model.ShiftLunch, "12:00:00", ""},
		{model.ShiftDinner, "22:00:00", ""},
		{model.ShiftDinner, "22:00:01", model.ErrCleanSurplusAsPrepLoss},
		{model.ShiftDinner, "20:00:00", ""},
	}
	for _, tc := range cases {
		got := detector.Detect("FEIJAO CARIOCA", stage, tc.time, tc.shift)
		assert.Equal(t, tc.want, got, "%s %s", tc.shift, tc.time)
	}
}

func TestDetectCleanSurplus(t *testing.T) {
	detector := NewRuleBasedErrorDetector()
	stage := model.StageCleanSurplus

	cases := []struct {
		shift string
		time  string
		want  string
	}{
		{model.ShiftLunch, "10:45:00", ""},
		{model.ShiftLunch, "10:44:59", model.ErrSurplusWeighing},
		{model.ShiftLunch, "17:00:00", ""},
		{model.ShiftLunch, "17:00:01", model.ErrSurplusWeighing},
		{model.ShiftLunch, "13:00:00", ""},

		{model.ShiftDinner, "19:00:00", ""},
		{model.ShiftDinner, "18:59:59", model.ErrSurplusWeighing},
		{model.ShiftDinner, "06:00:00", ""},
		{model.ShiftDinner, "06:00:01", model.ErrSurplusWeighing},
		{model.ShiftDinner, "21:00:00", ""},
	}
	for _, tc := range cases {
		got := detector.Detect("ARROZ BRANCO", stage, tc.time, tc.shift)
		assert.Equal(t, tc.want, got, "%s %s", tc.shift, tc.time)
	}
}

func TestDetectInitialProduction(t *testing.T) {
	detector := NewRuleBasedErrorDetector()

	cases := []struct {
		shift string
		time  string
		want  string
	}{
		{model.ShiftLunch, "11:00:00", ""},
		{model.ShiftLunch, "11:00:01", model.ErrInitialProductionWeighing},
		{model.ShiftLunch, "08:00:00", ""},
		{model.ShiftDinner, "19:15:00", ""},
		{model.ShiftDinner, "19:15:01", model.ErrInitialProductionWeighing},
	}
	for _, tc := range cases {
		got := detector.Detect("FRANGO ASSADO", model.StageInitialProduction, tc.time, tc.shift)
		assert.Equal(t, tc.want, got, "%s %s", tc.shift, tc.time)
	}

	t.Run("transported variant is exempt from the cutoff", func(t *testing.T) {
		got := detector.Detect("FRANGO ASSADO", model.StageInitialProductionTransported, "23:00:00", model.ShiftLunch)
		assert.Equal(t, "", got)
	})
}

func TestDetectPacing(t *testing.T) {
	detector := NewRuleBasedErrorDetector()
	stage := model.StagePacing

	cases := []struct {
		shift string
		time  string
		want  string
	}{
		{model.ShiftLunch, "10:30:00", ""},
		{model.ShiftLunch, "10:29:59", model.ErrPacingWeighing},
		{model.ShiftLunch, "14:30:00", ""},
		{model.ShiftLunch, "14:30:01", model.ErrPacingWeighing},

		{model.ShiftDinner, "18:45:00", ""},
		{model.ShiftDinner, "18:44:59", model.ErrPacingWeighing},
		{model.ShiftDinner, "22:00:00", ""},
		{model.ShiftDinner, "22:00:01", model.ErrPacingWeighing},
	}
	for _, tc := range cases {
		got := detector.Detect("ARROZ BRANCO", stage, tc.time, tc.shift)
		assert.Equal(t, tc.want, got, "%s %s", tc.shift, tc.time)
	}
}

func TestDetectUnknownShiftIsSilent(t *testing.T) {
	detector := NewRuleBasedErrorDetector()

	got := detector.Detect("ARROZ BRANCO", model.StagePacing, "03:00:00", "")
	assert.Equal(t, "", got)
}

func TestDetectUnknownStageIsSilent(t *testing.T) {
	detector := NewRuleBasedErrorDetector()

	got := detector.Detect("ARROZ BRANCO", "RECEBIMENTO", "03:00:00", model.ShiftLunch)
	assert.Equal(t, "", got)
}
