// Package cluster groups pixels into a fixed grid over the RGB cube and finds
// the most populated cells.
package cluster

import (
	"sort"

	"github.com/kamusis/chroma/internal/colormath"
)

const (
	// AxisDivisions is the number of cells along each RGB axis.
	AxisDivisions = 8
	// BucketSize is the width of a cell along one axis, in 8-bit units.
	BucketSize = 256 / AxisDivisions
	// NumBuckets is the total number of cells.
	NumBuckets = AxisDivisions * AxisDivisions * AxisDivisions
)

// Cluster accumulates the pixels falling into one cell.
type Cluster struct {
	Count   int
	Average colormath.RGBA8

	totals [4]int
}

// Add counts c and updates the running average. The average is recomputed
// from integer totals after every pixel and truncated to 8 bits.
func (cl *Cluster) Add(c colormath.RGBA8) {
	cl.Count++
	var avg [4]uint8
	for i := range cl.totals {
		cl.totals[i] += int(c.Channel(i))
		avg[i] = uint8(cl.totals[i] / cl.Count)
	}
	cl.Average = colormath.RGBA8{R: avg[0], G: avg[1], B: avg[2], A: avg[3]}
}

// Clusters is the RGB grid. The zero value is ready to use.
type Clusters struct {
	buckets [NumBuckets]Cluster
}

// New returns an empty grid.
func New() *Clusters {
	return new(Clusters)
}

// BucketIndex returns the grid cell of c.
func BucketIndex(c colormath.RGBA8) int {
	r := int(c.R) / BucketSize
	g := int(c.G) / BucketSize
	b := int(c.B) / BucketSize
	return (r*AxisDivisions+g)*AxisDivisions + b
}

// Add places c into its cell.
func (cs *Clusters) Add(c colormath.RGBA8) {
	cs.buckets[BucketIndex(c)].Add(c)
}

// Bucket returns a copy of cell i.
func (cs *Clusters) Bucket(i int) Cluster {
	return cs.buckets[i]
}

// Best returns the k most populated cells, largest first. Cells with equal
// counts keep their grid order. Empty cells are included when fewer than k
// cells are populated.
func (cs *Clusters) Best(k int) []Cluster {
	if k > NumBuckets {
		k = NumBuckets
	}
	if k <= 0 {
		return nil
	}
	sorted := make([]Cluster, NumBuckets)
	copy(sorted, cs.buckets[:])
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted[:k]
}
