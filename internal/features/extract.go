// Package features extracts the colour features stored for each indexed image.
package features

import (
	"sort"

	"github.com/kamusis/chroma/internal/cluster"
	"github.com/kamusis/chroma/internal/colormath"
	"github.com/kamusis/chroma/internal/histogram"
)

// TopColors is the number of dominant colours and shades kept per image.
const TopColors = 5

// ColorInfo is one dominant colour and the fraction of the image it covers.
type ColorInfo struct {
	Color colormath.Packed
	Ratio float64
}

// Record holds the features of one image.
type Record struct {
	ID ID

	// BestColors are the most frequent exact pixel colours, most frequent
	// first. Missing entries are zero.
	BestColors [TopColors]ColorInfo

	// BestShades are the average colours of the most populated RGB grid
	// cells, most populated first.
	BestShades [TopColors]ColorInfo

	Histogram histogram.Histogram
}

type colorCount struct {
	color colormath.Packed
	count int
}

// Extract computes the features of pixels in a single pass. The result only
// depends on the pixel values and their order.
func Extract(id ID, pixels []colormath.RGBA8) Record {
	rec := Record{ID: id}
	total := len(pixels)
	if total == 0 {
		return rec
	}

	positions := make(map[colormath.Packed]int)
	var counts []colorCount
	clusters := cluster.New()
	for _, p := range pixels {
		packed := colormath.Pack(p)
		rec.Histogram.Add(p)
		if i, ok := positions[packed]; ok {
			counts[i].count++
		} else {
			positions[packed] = len(counts)
			counts = append(counts, colorCount{color: packed, count: 1})
		}
		clusters.Add(p)
	}
	rec.Histogram.Normalize(total)

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].count > counts[j].count
	})
	for i := 0; i < TopColors && i < len(counts); i++ {
		rec.BestColors[i] = ColorInfo{
			Color: counts[i].color,
			Ratio: float64(counts[i].count) / float64(total),
		}
	}

	for i, cl := range clusters.Best(TopColors) {
		rec.BestShades[i] = ColorInfo{
			Color: colormath.Pack(cl.Average),
			Ratio: float64(cl.Count) / float64(total),
		}
	}
	return rec
}

// ComputeHistogram returns only the histogram part of the features.
func ComputeHistogram(pixels []colormath.RGBA8) histogram.Histogram {
	return histogram.Compute(pixels)
}
