package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repeat(v []float32, n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestAssignClampsKToRowCount(t *testing.T) {
	vectors := make([][]float32, 10)
	for i := range vectors {
		vectors[i] = []float32{float32(i), float32(i * 2)}
	}

	labels := Assign(vectors, 15)
	require.Len(t, labels, 10)
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 10, "k' = min(10, 15) for 10 rows")
	}
}

func TestAssignSingleRow(t *testing.T) {
	labels := Assign([][]float32{{1, 2}}, 8)
	assert.Equal(t, []int{0}, labels)
}

func TestAssignEmpty(t *testing.T) {
	assert.Nil(t, Assign(nil, 5))
}

func TestAssignDeterministic(t *testing.T) {
	vectors := make([][]float32, 30)
	for i := range vectors {
		vectors[i] = []float32{float32(i % 7), float32(i % 11), float32(i % 3)}
	}

	first := Assign(vectors, 4)
	second := Assign(vectors, 4)
	assert.Equal(t, first, second, "fixed seed makes runs reproducible")
}

func TestAssignSeparatesObviousGroups(t *testing.T) {
	vectors := append(repeat([]float32{0, 0}, 3), repeat([]float32{100, 100}, 3)...)

	labels := Assign(vectors, 2)
	require.Len(t, labels, 6)
	assert.Equal(t, labels[0], labels[1])
	assert.Equal(t, labels[0], labels[2])
	assert.Equal(t, labels[3], labels[4])
	assert.Equal(t, labels[3], labels[5])
	assert.NotEqual(t, labels[0], labels[3])
}

func TestAssignThreeGroups(t *testing.T) {
	vectors := append(repeat([]float32{0, 0}, 4), repeat([]float32{100, 0}, 4)...)
	vectors = append(vectors, repeat([]float32{0, 100}, 4)...)

	labels := Assign(vectors, 3)
	require.Len(t, labels, 12)

	distinct := map[int]bool{}
	for _, l := range labels {
		assert.GreaterOrEqual(t, l, 0)
		assert.Less(t, l, 3)
		distinct[l] = true
	}
	assert.Len(t, distinct, 3)

	for g := 0; g < 3; g++ {
		base := labels[g*4]
		for i := 1; i < 4; i++ {
			assert.Equal(t, base, labels[g*4+i], "identical vectors share a cluster")
		}
	}
}

func TestEffectiveK(t *testing.T) {
	tests := []struct {
		n, k, want int
	}{
		{100, 8, 8},
		{10, 15, 10},
		{3, 15, 3},
		{2, 15, 2},
		{1, 15, 1},
		{5, 2, 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, effectiveK(tt.n, tt.k), "n=%d k=%d", tt.n, tt.k)
	}
}
