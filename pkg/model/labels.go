// pkg/model/labels.go
package model

// Shift labels.
const (
	ShiftLunch  = "ALMOCO"
	ShiftDinner = "JANTAR"
)

// Category labels.
const (
	CategoryRice    = "ARROZ"
	CategoryBeans   = "FEIJAO"
	CategoryJuice   = "SUCO"
	CategorySauce   = "MOLHO"
	CategorySide    = "GUARNICAO"
	CategorySalad   = "SALADA"
	CategoryProtein = "PROTEINA"
	CategoryDessert = "SOBREMESA"
)

// Stage names as they appear in the scale export. Rule matching is done by
// case-insensitive substring, so free-text variants still hit the right family.
const (
	StageInitialProduction            = "PRODUCAO INICIAL"
	StageInitialProductionTransported = "PRODUCAO INICIAL TRANSPORTADA"
	StagePacing                       = "CADENCIAMENTO"
	StageCleanSurplus                 = "SOBRA LIMPA"
	StagePreparationLoss              = "PERDA POR PREPARACAO"
)

// SampleProduct is the sentinel product used for control samples. Samples may
// only ever be logged under the preparation-loss stage.
const SampleProduct = "Z AMOSTRA"

// Data-quality labels written to the error column. These strings are part of
// the output contract and must match byte-for-byte.
const (
	ErrSampleWeighing             = "SAMPLE_WEIGHING_ERROR"
	ErrCleanSurplusAsPrepLoss     = "CLEAN_SURPLUS_MISWEIGHED_AS_PREP_LOSS"
	ErrSurplusWeighing            = "SURPLUS_WEIGHING_ERROR"
	ErrInitialProductionWeighing  = "INITIAL_PRODUCTION_WEIGHING_ERROR"
	ErrPacingWeighing             = "PACING_WEIGHING_ERROR"
	ErrPacingMisweighedAsPrepLoss = "PACING_MISWEIGHED_AS_PREP_LOSS"
)

// KnownErrorLabels lists every label the engine can emit.
var KnownErrorLabels = []string{
	ErrSampleWeighing,
	ErrCleanSurplusAsPrepLoss,
	ErrSurplusWeighing,
	ErrInitialProductionWeighing,
	ErrPacingWeighing,
	ErrPacingMisweighedAsPrepLoss,
}

// IsKnownErrorLabel reports whether label is empty or one of the taxonomy.
func IsKnownErrorLabel(label string) bool {
	if label == "" {
		return true
	}
	for _, known := range KnownErrorLabels {
		if label == known {
			return true
		}
	}
	return false
}
