// Package predicates scores feature records against query parameters. The
// scores are compared with a threshold by the query evaluator.
package predicates

import (
	"strings"

	"github.com/kamusis/chroma/internal/colormath"
	"github.com/kamusis/chroma/internal/features"
	"github.com/kamusis/chroma/internal/histogram"
	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/kamusis/chroma/internal/pixels"
)

// Color sums the weighted similarity of the record's dominant shades to query.
func Color(rec features.Record, query colormath.Color) float64 {
	var score float64
	for _, shade := range rec.BestShades {
		score += colormath.WeightedSimilarity(shade.Color.Unpack().Float(), shade.Ratio, query)
	}
	return score
}

// Hist returns 1 - Bhattacharyya distance between the record histogram and
// query. A nil query scores 0.
func Hist(rec features.Record, query *histogram.Histogram) float32 {
	return HistMetric(rec, query, histogram.Bhattacharyya)
}

// HistMetric is Hist with a chosen distance metric.
func HistMetric(rec features.Record, query *histogram.Histogram, m histogram.Metric) float32 {
	if query == nil {
		return 0
	}
	return float32(1 - histogram.Distance(&rec.Histogram, query, m))
}

// Finder looks up an indexed record by source path.
type Finder interface {
	Find(path string) (*imageindex.Index, features.Record, bool)
}

// HistogramResolver turns a hist parameter into a histogram: the stored
// histogram of an indexed path, or one computed from the image file.
type HistogramResolver struct {
	Registry Finder
	Reader   pixels.Reader
	Metric   histogram.Metric
}

// Resolve returns nil when param is neither indexed nor a readable image.
func (hr HistogramResolver) Resolve(param string) *histogram.Histogram {
	path := strings.ReplaceAll(strings.TrimSpace(param), "\\", "/")
	if path == "" {
		return nil
	}
	if hr.Registry != nil {
		if _, rec, ok := hr.Registry.Find(path); ok {
			h := rec.Histogram
			return &h
		}
	}
	if hr.Reader == nil {
		return nil
	}
	px, err := hr.Reader.ReadPixels(path)
	if err != nil || len(px) == 0 {
		return nil
	}
	h := features.ComputeHistogram(px)
	return &h
}

// SearchKey is the free-text key of a record: its source path.
func SearchKey(reg interface {
	PathByID(features.ID) (string, bool)
}, rec features.Record) string {
	p, _ := reg.PathByID(rec.ID)
	return p
}
