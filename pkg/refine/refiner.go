// pkg/refine/refiner.go
package refine

import (
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/sapore-ops/scale-audit/pkg/cluster"
	"github.com/sapore-ops/scale-audit/pkg/model"
)

// Pacing windows used to select the clustering population. These are the
// strict service bounds, without the grace periods the rule detector grants.
type pacingWindow struct {
	Start string
	End   string
}

var clusterWindows = map[string]pacingWindow{
	model.ShiftLunch:  {Start: "10:45:00", End: "14:30:00"},
	model.ShiftDinner: {Start: "19:00:00", End: "22:00:00"},
}

// Stats summarizes one refinement pass.
type Stats struct {
	CandidateRows int  // rows inside the pacing window after exclusions
	ClusteredRows int  // rows that actually entered clustering
	Reassigned    int  // preparation-loss rows relabeled as mistimed pacing
	Skipped       bool // true when the pass was a no-op
	PacingCluster int  // id of the lowest-mean-interval cluster, -1 when skipped
}

// Refiner reclassifies preparation-loss rows that behave like pacing:
// recurring quickly, with characteristic weights, inside genuine pacing
// territory. It needs the whole dataset at once; the inter-event intervals
// only exist relative to neighbouring rows.
type Refiner struct {
	clusterer       cluster.Clusterer
	logger          *zap.Logger
	satelliteMarker string
	minRows         int
}

// NewRefiner creates a cluster anomaly refiner.
func NewRefiner(clusterer cluster.Clusterer, satelliteMarker string, minRows int, logger *zap.Logger) (*Refiner, error) {
	if clusterer == nil {
		return nil, errors.New("clusterer cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if minRows <= 0 {
		return nil, errors.New("minimum row count must be positive")
	}

	return &Refiner{
		clusterer:       clusterer,
		logger:          logger,
		satelliteMarker: satelliteMarker,
		minRows:         minRows,
	}, nil
}

// candidate is one row of the clustering population, pointing back at the
// dataset it came from.
type candidate struct {
	index   int // position in the original record slice
	minutes int
	// interval is minutes since the previous same-(restaurant, product) row;
	// -1 for the first row of a group.
	interval int
}

// Refine runs the clustering pass over records, overwriting the error label
// of preparation-loss rows assigned to the pacing-like cluster. Rows outside
// the clustering population are never touched. With too little signal the
// pass is a deliberate no-op.
func (r *Refiner) Refine(records []model.WeighingRecord) (Stats, error) {
	stats := Stats{Skipped: true, PacingCluster: -1}

	candidates := r.selectCandidates(records)
	stats.CandidateRows = len(candidates)

	if len(candidates) < r.minRows {
		r.logger.Warn("Insufficient rows for cluster refinement, keeping rule-based labels",
			zap.Int("rows", len(candidates)),
			zap.Int("required", r.minRows))
		return stats, nil
	}

	r.computeIntervals(records, candidates)

	// First row of each group has no interval; rows without a usable weight
	// also stay out of the clustering input.
	input := make([]candidate, 0, len(candidates))
	points := make([]cluster.Point, 0, len(candidates))
	for _, c := range candidates {
		if c.interval < 0 || !records[c.index].WeightKnown {
			continue
		}
		input = append(input, c)
		points = append(points, cluster.Point{
			Weight:   records[c.index].Weight,
			Interval: float64(c.interval),
		})
	}
	stats.ClusteredRows = len(input)

	assignments, err := r.clusterer.Assign(points)
	if err != nil {
		// Degraded populations (e.g. fewer usable rows than clusters) keep
		// their rule-based labels instead of failing the run.
		r.logger.Warn("Cluster refinement skipped", zap.Error(err))
		return stats, nil
	}

	pacingCluster := lowestMeanIntervalCluster(points, assignments)
	stats.PacingCluster = pacingCluster
	stats.Skipped = false

	for i, c := range input {
		if assignments[i] != pacingCluster {
			continue
		}
		rec := &records[c.index]
		if strings.Contains(strings.ToUpper(rec.Stage), model.StagePreparationLoss) {
			rec.Error = model.ErrPacingMisweighedAsPrepLoss
			stats.Reassigned++
		}
	}

	r.logger.Info("Cluster refinement completed",
		zap.Int("candidateRows", stats.CandidateRows),
		zap.Int("clusteredRows", stats.ClusteredRows),
		zap.Int("pacingCluster", pacingCluster),
		zap.Int("reassigned", stats.Reassigned))

	return stats, nil
}

// selectCandidates returns the window-filtered population in (restaurant,
// time) order. Sample rows and satellite sites are excluded up front; their
// pacing dynamics do not represent the main kitchens.
func (r *Refiner) selectCandidates(records []model.WeighingRecord) []candidate {
	candidates := make([]candidate, 0)
	for i := range records {
		rec := &records[i]

		if rec.IsSample() {
			continue
		}
		if r.satelliteMarker != "" &&
			strings.Contains(strings.ToUpper(rec.Restaurant), r.satelliteMarker) {
			continue
		}

		window, ok := clusterWindows[rec.Shift]
		if !ok {
			continue
		}
		if rec.Time < window.Start || rec.Time > window.End {
			continue
		}

		minutes, err := model.MinutesOfDay(rec.Time)
		if err != nil {
			continue
		}

		candidates = append(candidates, candidate{index: i, minutes: minutes, interval: -1})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		ra, rb := records[candidates[a].index], records[candidates[b].index]
		if ra.Restaurant != rb.Restaurant {
			return ra.Restaurant < rb.Restaurant
		}
		return ra.Time < rb.Time
	})

	return candidates
}

// computeIntervals fills each candidate's interval with the minutes elapsed
// since the previous candidate of the same (restaurant, product) group.
func (r *Refiner) computeIntervals(records []model.WeighingRecord, candidates []candidate) {
	previous := make(map[string]int)
	for i := range candidates {
		rec := &records[candidates[i].index]
		key := rec.Restaurant + "\x00" + rec.Product
		if last, seen := previous[key]; seen {
			candidates[i].interval = candidates[i].minutes - last
		}
		previous[key] = candidates[i].minutes
	}
}

// lowestMeanIntervalCluster identifies the pacing-like cluster: pacing events
// recur more frequently than preparation-loss events, so the cluster with the
// lowest mean interval is the suspect one. Ties go to the lowest cluster id.
func lowestMeanIntervalCluster(points []cluster.Point, assignments []int) int {
	grouped := make(map[int][]float64)
	maxID := 0
	for i, id := range assignments {
		grouped[id] = append(grouped[id], points[i].Interval)
		if id > maxID {
			maxID = id
		}
	}

	best := -1
	bestMean := 0.0
	for id := 0; id <= maxID; id++ {
		intervals, ok := grouped[id]
		if !ok {
			continue
		}
		mean := stat.Mean(intervals, nil)
		if best == -1 || mean < bestMean {
			best = id
			bestMean = mean
		}
	}
	return best
}
