package cmd

import (
	"fmt"
	"os"

	"github.com/kamusis/chroma/internal/config"
	"github.com/kamusis/chroma/internal/histogram"
	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/kamusis/chroma/internal/pixels"
	"github.com/kamusis/chroma/internal/predicates"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "chroma",
	Short:        "chroma — colour similarity search over image collections",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `chroma extracts dominant colours, colour clusters and channel histograms
from your images, stores them in index files under ~/.chroma/indexes/, and
finds images by colour or by histogram similarity.`,
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads chroma.yaml, falling back to defaults when chroma has not
// been initialised yet.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault()
	if err != nil {
		return nil, fmt.Errorf("cannot load config: %w", err)
	}
	return cfg, nil
}

func newReader(cfg *config.Config) pixels.FileReader {
	return pixels.FileReader{MaxDimension: cfg.MaxDimension}
}

// newPredicates wires the color and hist predicates to the indexes in the
// configured index directory.
func newPredicates(cfg *config.Config, reg *imageindex.Registry) (predicates.Set, error) {
	metric, err := histogram.ParseMetric(cfg.HistogramMetric)
	if err != nil {
		return nil, err
	}
	return predicates.NewSet(predicates.HistogramResolver{
		Registry: reg,
		Reader:   newReader(cfg),
		Metric:   metric,
	}), nil
}
