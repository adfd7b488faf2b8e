// pkg/cluster/kmeans.go
package cluster

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KMeans is the default Clusterer: Lloyd's algorithm over features
// standardized to zero mean and unit variance, with a fixed seed and several
// re-initializations. The restart with the lowest inertia wins, which keeps
// centroid choice stable across runs on the same data.
type KMeans struct {
	k             int
	seed          int64
	restarts      int
	maxIterations int
}

// NewKMeans creates a k-means clusterer.
func NewKMeans(k int, seed int64, restarts, maxIterations int) (*KMeans, error) {
	if k < 2 {
		return nil, errors.New("cluster count must be at least 2")
	}
	if restarts <= 0 {
		return nil, errors.New("restart count must be positive")
	}
	if maxIterations <= 0 {
		return nil, errors.New("iteration cap must be positive")
	}

	return &KMeans{
		k:             k,
		seed:          seed,
		restarts:      restarts,
		maxIterations: maxIterations,
	}, nil
}

// Assign partitions points into k clusters and returns a cluster id per point.
func (km *KMeans) Assign(points []Point) ([]int, error) {
	if len(points) < km.k {
		return nil, fmt.Errorf("need at least %d points for %d clusters, got %d",
			km.k, km.k, len(points))
	}

	features := standardize(points)

	var (
		bestAssignments []int
		bestInertia     = math.Inf(1)
	)

	for restart := 0; restart < km.restarts; restart++ {
		rng := rand.New(rand.NewSource(km.seed + int64(restart)))
		assignments, inertia := km.run(features, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestAssignments = assignments
		}
	}

	return bestAssignments, nil
}

// standardize scales each feature to zero mean and unit population variance.
// A constant feature keeps its zero-centered values unscaled.
func standardize(points []Point) [][]float64 {
	n := len(points)
	weights := make([]float64, n)
	intervals := make([]float64, n)
	for i, p := range points {
		weights[i] = p.Weight
		intervals[i] = p.Interval
	}

	wMean, wStd := stat.Mean(weights, nil), popStdDev(weights)
	iMean, iStd := stat.Mean(intervals, nil), popStdDev(intervals)

	features := make([][]float64, n)
	for i := range points {
		features[i] = []float64{
			(weights[i] - wMean) / wStd,
			(intervals[i] - iMean) / iStd,
		}
	}
	return features
}

func popStdDev(values []float64) float64 {
	mean := stat.Mean(values, nil)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	std := math.Sqrt(sum / float64(len(values)))
	if std == 0 {
		return 1
	}
	return std
}

// run performs one seeded Lloyd pass and returns the assignments with their
// inertia (sum of squared distances to the owning centroid).
func (km *KMeans) run(features [][]float64, rng *rand.Rand) ([]int, float64) {
	n := len(features)
	dims := len(features[0])

	// Initial centroids are k distinct points.
	centroids := make([][]float64, km.k)
	for i, idx := range rng.Perm(n)[:km.k] {
		centroids[i] = append([]float64(nil), features[idx]...)
	}

	assignments := make([]int, n)
	for iter := 0; iter < km.maxIterations; iter++ {
		changed := false
		for i, point := range features {
			best := nearestCentroid(point, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids as cluster means.
		counts := make([]int, km.k)
		sums := make([][]float64, km.k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, c := range assignments {
			counts[c]++
			floats.Add(sums[c], features[i])
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Reseat an empty cluster at the point farthest from its
				// current centroid; the first such point keeps this
				// deterministic.
				centroids[c] = append([]float64(nil), features[farthestPoint(features, assignments, centroids)]...)
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}

	var inertia float64
	for i, point := range features {
		d := floats.Distance(point, centroids[assignments[i]], 2)
		inertia += d * d
	}
	return assignments, inertia
}

// nearestCentroid returns the index of the closest centroid; ties go to the
// lowest index.
func nearestCentroid(point []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(point, centroid, 2); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// farthestPoint returns the index of the point farthest from its assigned
// centroid.
func farthestPoint(features [][]float64, assignments []int, centroids [][]float64) int {
	best := 0
	bestDist := -1.0
	for i, point := range features {
		if d := floats.Distance(point, centroids[assignments[i]], 2); d > bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
