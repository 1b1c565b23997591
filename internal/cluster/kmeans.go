// Package cluster partitions embedding vectors into k groups with seeded
// k-means, so identical input and k always produce identical labels.
package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"feedback-insights-go/internal/logger"
)

const (
	// DefaultSeed fixes centroid initialization for reproducible runs.
	DefaultSeed = 42

	defaultMaxIterations = 100
)

// KMeans is a centroid-based partitioner minimizing within-cluster sum of
// squared distances, with k-means++ initialization.
type KMeans struct {
	K       int
	Seed    int64
	MaxIter int
}

// Assign clusters vectors into k groups with the default seed.
func Assign(vectors [][]float32, k int) []int {
	return KMeans{K: k, Seed: DefaultSeed, MaxIter: defaultMaxIterations}.Fit(vectors)
}

// Fit returns one label in [0, k') per input row. When there are fewer rows
// than requested clusters, k is clamped to max(2, min(n, k)) and never above
// n, so a tiny batch cannot ask for more clusters than points.
func (km KMeans) Fit(vectors [][]float32) []int {
	n := len(vectors)
	if n == 0 {
		return nil
	}
	k := effectiveK(n, km.K)
	labels := make([]int, n)
	if k <= 1 {
		return labels
	}

	dim := len(vectors[0])
	x := mat.NewDense(n, dim, nil)
	for i, v := range vectors {
		for j, f := range v {
			x.Set(i, j, float64(f))
		}
	}

	maxIter := km.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	rng := rand.New(rand.NewSource(km.Seed))
	centroids := seedCentroids(x, k, rng)

	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			best, bestDist := 0, math.Inf(1)
			for c := 0; c < k; c++ {
				d := floats.Distance(x.RawRowView(i), centroids.RawRowView(c), 2)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		// Recompute centroids; an emptied cluster keeps its previous one.
		sums := mat.NewDense(k, dim, nil)
		counts := make([]int, k)
		for i := 0; i < n; i++ {
			c := labels[i]
			counts[c]++
			row := sums.RawRowView(c)
			floats.Add(row, x.RawRowView(i))
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			row := sums.RawRowView(c)
			floats.Scale(1/float64(counts[c]), row)
			centroids.SetRow(c, row)
		}
	}

	logger.Component("cluster").
		WithField("n", n).
		WithField("k", k).
		Debug("kmeans fit complete")
	return labels
}

func effectiveK(n, k int) int {
	if n < k {
		k = min(n, k)
		if k < 2 {
			k = 2
		}
	}
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	return k
}

// seedCentroids picks k initial centroids with k-means++: the first at
// random, the rest weighted by squared distance to the nearest pick so far.
func seedCentroids(x *mat.Dense, k int, rng *rand.Rand) *mat.Dense {
	n, dim := x.Dims()
	centroids := mat.NewDense(k, dim, nil)
	centroids.SetRow(0, x.RawRowView(rng.Intn(n)))

	dist2 := make([]float64, n)
	for i := range dist2 {
		dist2[i] = math.Inf(1)
	}
	for c := 1; c < k; c++ {
		prev := centroids.RawRowView(c - 1)
		total := 0.0
		for i := 0; i < n; i++ {
			d := floats.Distance(x.RawRowView(i), prev, 2)
			if d2 := d * d; d2 < dist2[i] {
				dist2[i] = d2
			}
			total += dist2[i]
		}
		idx := n - 1
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i := 0; i < n; i++ {
				acc += dist2[i]
				if acc >= target {
					idx = i
					break
				}
			}
		} else {
			idx = rng.Intn(n)
		}
		centroids.SetRow(c, x.RawRowView(idx))
	}
	return centroids
}
