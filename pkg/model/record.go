// pkg/model/record.go
package model

// WeighingRecord represents one weighing event read from the scale export.
// Date is dd/mm/yyyy and Time is a zero-padded 24h HH:MM:SS string; within a
// day the lexicographic order of Time equals chronological order, and all
// time-window rules rely on that.
type WeighingRecord struct {
	Date       string // dd/mm/yyyy
	Restaurant string // canonical site name
	Scale      string // scale identifier derived from the source sheet
	Shift      string // derived: ShiftLunch or ShiftDinner, empty when unknown
	Time       string // HH:MM:SS
	Stage      string // workflow stage, free text
	Category   string // derived food category, empty when unclassifiable
	Product    string
	Container  string
	Weight     float64
	// WeightKnown is false when the source weight cell was missing or did not
	// parse; such rows pass through but never enter the clustering population.
	WeightKnown bool
	Service     string
	Error       string // derived data-quality label, empty when none
}

// HasDerivedFields reports whether the row was fully classified. Rows with an
// unparsable time keep their derived fields empty rather than aborting a run.
func (r *WeighingRecord) HasDerivedFields() bool {
	return r.Shift != ""
}

// IsSample reports whether the row is the sample sentinel product.
func (r *WeighingRecord) IsSample() bool {
	return r.Product == SampleProduct
}

// Columns is the output column order. The names and order are a contract with
// downstream report consumers and must not change.
var Columns = []string{
	"date", "restaurant", "scale", "shift", "time", "stage",
	"category", "product", "container", "weight", "service", "error",
}

// Values returns the record's cells in Columns order.
func (r *WeighingRecord) Values() []string {
	return []string{
		r.Date,
		r.Restaurant,
		r.Scale,
		r.Shift,
		r.Time,
		r.Stage,
		r.Category,
		r.Product,
		r.Container,
		formatWeight(r.Weight, r.WeightKnown),
		r.Service,
		r.Error,
	}
}
