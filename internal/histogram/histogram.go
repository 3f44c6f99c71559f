// Package histogram builds per-channel intensity histograms and compares them.
package histogram

import (
	"github.com/kamusis/chroma/internal/colormath"
)

// Size is the number of bins per channel, one per 8-bit intensity.
const Size = 256

// Histogram holds one distribution per RGB channel. Once normalised, each
// channel sums to 1.
type Histogram struct {
	R [Size]float32
	G [Size]float32
	B [Size]float32
}

// Add counts one pixel.
func (h *Histogram) Add(c colormath.RGBA8) {
	h.R[c.R]++
	h.G[c.G]++
	h.B[c.B]++
}

// Normalize divides every bin by the image pixel count. A non-positive count
// leaves the histogram untouched.
func (h *Histogram) Normalize(totalPixels int) {
	if totalPixels <= 0 {
		return
	}
	total := float32(totalPixels)
	for i := 0; i < Size; i++ {
		h.R[i] /= total
		h.G[i] /= total
		h.B[i] /= total
	}
}

// Channels returns the three channel slices in R, G, B order.
func (h *Histogram) Channels() [3][]float32 {
	return [3][]float32{h.R[:], h.G[:], h.B[:]}
}

// Compute returns the normalised histogram of pixels.
func Compute(pixels []colormath.RGBA8) Histogram {
	var h Histogram
	for _, p := range pixels {
		h.Add(p)
	}
	h.Normalize(len(pixels))
	return h
}
