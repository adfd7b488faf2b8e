// pkg/cluster/cluster.go
package cluster

// Point is one observation in the anomaly-refinement feature space: the
// recorded weight and the minutes elapsed since the previous weighing of the
// same (restaurant, product) pair.
type Point struct {
	Weight   float64
	Interval float64
}

// Clusterer partitions points into clusters and returns one cluster id per
// point, in input order. Implementations must be deterministic: the same
// input always yields the same assignment.
type Clusterer interface {
	Assign(points []Point) ([]int, error)
}
