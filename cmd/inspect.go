package cmd

import (
	"fmt"
	"strings"

	"github.com/kamusis/chroma/internal/features"
	"github.com/kamusis/chroma/internal/histogram"
	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <image-path>",
	Short: "Show the colour features of an image",
	Long: `Display the stored feature record of an indexed image: its id, the
dominant colours and shades with their coverage, and a histogram summary.

Images that are not in any index are decoded and analysed on the fly.

Example:
  chroma inspect photos/beach.png`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := args[0]

	reg := imageindex.NewRegistry(cfg.IndexDir)
	idx, rec, ok := reg.Find(path)
	source := ""
	if ok {
		source = fmt.Sprintf("index %s", idx.Name())
	} else {
		px, err := newReader(cfg).ReadPixels(path)
		if err != nil {
			return fmt.Errorf("%s is not indexed and cannot be read: %w", path, err)
		}
		rec = features.Extract(features.ComputeID(path), px)
		source = fmt.Sprintf("extracted from %d pixel(s)", len(px))
	}

	printInspect(features.CanonicalPath(path), source, rec)
	return nil
}

func printInspect(path, source string, rec features.Record) {
	fmt.Printf("\n%s\n", path)
	fmt.Printf("  ID:      %s\n", rec.ID)
	fmt.Printf("  Source:  %s\n", source)

	printBullet("Dominant colours:")
	printColorInfos(rec.BestColors)
	printBullet("Dominant shades:")
	printColorInfos(rec.BestShades)

	printBullet("Histogram:")
	names := [3]string{"R", "G", "B"}
	for i, ch := range rec.Histogram.Channels() {
		peak, mean := channelSummary(ch)
		fmt.Printf("  %s  peak %3d  mean %6.1f  %s\n", names[i], peak, mean, sparkline(ch))
	}
}

func printColorInfos(infos [features.TopColors]features.ColorInfo) {
	for i, ci := range infos {
		if ci.Ratio == 0 {
			if i == 0 {
				printMiss("", "none")
			}
			return
		}
		c := ci.Color.Unpack()
		fmt.Printf("  %d.  %s  alpha %3d  %6.2f%%\n", i+1, ci.Color.Hex(), c.A, ci.Ratio*100)
	}
}

// channelSummary returns the most populated bin and the mean intensity.
func channelSummary(bins []float32) (int, float64) {
	peak := 0
	var mean float64
	for i, v := range bins {
		if v > bins[peak] {
			peak = i
		}
		mean += float64(i) * float64(v)
	}
	return peak, mean
}

// sparkline renders the channel as 16 coarse bars.
func sparkline(bins []float32) string {
	const bars = " ▁▂▃▄▅▆▇█"
	levels := []rune(bars)
	var groups [16]float64
	var top float64
	for i, v := range bins {
		g := i * len(groups) / histogram.Size
		groups[g] += float64(v)
		if groups[g] > top {
			top = groups[g]
		}
	}
	var b strings.Builder
	for _, g := range groups {
		n := 0
		if top > 0 {
			n = int(g / top * float64(len(levels)-1))
		}
		b.WriteRune(levels[n])
	}
	return b.String()
}
