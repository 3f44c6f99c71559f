package histogram

import (
	"fmt"
	"math"
	"strings"
)

// Metric selects a histogram distance. The zero value is Bhattacharyya.
type Metric int

const (
	Bhattacharyya Metric = iota
	CityBlock
	Euclidean
	MDPA
)

var metricNames = map[Metric]string{
	CityBlock:     "cityblock",
	Euclidean:     "euclidean",
	Bhattacharyya: "bhattacharyya",
	MDPA:          "mdpa",
}

func (m Metric) String() string {
	if s, ok := metricNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric maps a metric name (case-insensitive) to its Metric.
func ParseMetric(name string) (Metric, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, s := range metricNames {
		if s == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown histogram metric %q (want cityblock, euclidean, bhattacharyya or mdpa)", name)
}

// Distance returns the distance between a and b under m: 0 for identical
// histograms, about 1 for completely different ones. An unknown metric
// yields 1.
func Distance(a, b *Histogram, m Metric) float64 {
	switch m {
	case CityBlock:
		return CityBlockDistance(a, b)
	case Euclidean:
		return EuclideanDistance(a, b)
	case Bhattacharyya:
		return BhattacharyyaDistance(a, b)
	case MDPA:
		return MDPADistance(a, b)
	}
	return 1
}

// CityBlockDistance is the L1 distance summed over channels. Each channel
// contributes at most 2, hence the division by 6.
func CityBlockDistance(a, b *Histogram) float64 {
	ca, cb := a.Channels(), b.Channels()
	var sum float64
	for ch := range ca {
		for i := 0; i < Size; i++ {
			sum += math.Abs(float64(ca[ch][i]) - float64(cb[ch][i]))
		}
	}
	return sum / 6
}

// EuclideanDistance sums the per-channel L2 distances. Each is at most
// sqrt(2).
func EuclideanDistance(a, b *Histogram) float64 {
	ca, cb := a.Channels(), b.Channels()
	var sum float64
	for ch := range ca {
		var sq float64
		for i := 0; i < Size; i++ {
			d := float64(ca[ch][i]) - float64(cb[ch][i])
			sq += d * d
		}
		sum += math.Sqrt(sq)
	}
	return sum / (3 * math.Sqrt2)
}

// BhattacharyyaDistance is one minus the mean Bhattacharyya coefficient of the
// three channels. It is not the -ln(BC) form; it stays in [0,1].
func BhattacharyyaDistance(a, b *Histogram) float64 {
	ca, cb := a.Channels(), b.Channels()
	var sum float64
	for ch := range ca {
		for i := 0; i < Size; i++ {
			sum += math.Sqrt(float64(ca[ch][i]) * float64(cb[ch][i]))
		}
	}
	return 1 - sum/3
}

// MDPADistance is the minimal difference of pair assignments: the sum of the
// absolute cumulative differences, normalised by 3*255.
func MDPADistance(a, b *Histogram) float64 {
	ca, cb := a.Channels(), b.Channels()
	var sum float64
	for ch := range ca {
		var prefix float64
		for i := 0; i < Size; i++ {
			prefix += float64(ca[ch][i]) - float64(cb[ch][i])
			sum += math.Abs(prefix)
		}
	}
	return sum / (3 * (Size - 1))
}
