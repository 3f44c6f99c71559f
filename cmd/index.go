package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/kamusis/chroma/internal/pixels"
	"github.com/spf13/cobra"
)

var (
	flagIndexName    string
	flagIndexForce   bool
	flagIndexLegacy  bool
	flagIndexWorkers int
	flagIndexDebug   bool
)

var indexCmd = &cobra.Command{
	Use:   "index [roots...]",
	Short: "Extract colour features from images and write an index file",
	Long: `Scan the given directories (or the roots in chroma.yaml) for images,
extract their colour features and write them to <index_dir>/<name>.idb.

Example:
  chroma index ~/Pictures --name photos
  chroma index --name assets --legacy`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&flagIndexName, "name", "default", "Index name; the file is <index_dir>/<name>.idb")
	indexCmd.Flags().BoolVar(&flagIndexForce, "force", false, "Replace an existing index with the same name")
	indexCmd.Flags().BoolVar(&flagIndexLegacy, "legacy", false, "Write the headerless legacy layout")
	indexCmd.Flags().IntVar(&flagIndexWorkers, "workers", 0, "Concurrent extractions (default: config, then CPU count)")
	indexCmd.Flags().BoolVar(&flagIndexDebug, "debug", false, "Print every image as it is processed")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	roots := args
	if len(roots) == 0 {
		roots = cfg.Roots
	}
	if len(roots) == 0 {
		return fmt.Errorf("no image roots given\nPass directories as arguments or set roots in chroma.yaml.")
	}

	outPath := imageindex.PathFor(cfg.IndexDir, flagIndexName)
	unlock, err := claimIndexTarget(cfg.IndexDir, outPath, flagIndexForce, 30*time.Second)
	if err != nil {
		return err
	}
	defer unlock()

	workers := cfg.Workers
	if cmd.Flags().Changed("workers") {
		workers = flagIndexWorkers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printSection("Index")
	for _, r := range roots {
		printInfo("", fmt.Sprintf("scanning %s", r))
	}

	start := time.Now()
	idx, report, err := imageindex.Build(ctx, imageindex.BuildOptions{
		Name:  flagIndexName,
		Roots: roots,
		Discover: pixels.DiscoverOptions{
			Extensions: cfg.Extensions,
			Excludes:   cfg.Excludes,
		},
		Reader:   newReader(cfg),
		Workers:  workers,
		Progress: progressPrinter(),
	})
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	for _, f := range report.Failures {
		printWarn("", fmt.Sprintf("%s: %v", f.Path, f.Err))
	}
	if report.Indexed == 0 {
		return fmt.Errorf("no images could be indexed under %v", roots)
	}

	legacy := cfg.LegacyFormat || flagIndexLegacy
	if err := imageindex.Write(outPath, idx, imageindex.WriteOptions{Legacy: legacy}); err != nil {
		return err
	}
	printOK(flagIndexName, fmt.Sprintf("%d image(s) indexed, %d skipped in %s",
		report.Indexed, len(report.Failures), time.Since(start).Round(time.Millisecond)))
	printOK(flagIndexName, fmt.Sprintf("index written: %s", outPath))
	return nil
}

// claimIndexTarget takes the directory lock and then checks that outPath may
// be written. The lock is released on error.
func claimIndexTarget(dir, outPath string, force bool, timeout time.Duration) (func(), error) {
	unlock, err := imageindex.LockDir(dir, timeout)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(outPath); err == nil && !force {
		unlock()
		return nil, fmt.Errorf("index %s already exists (use --force to replace it)", outPath)
	}
	return unlock, nil
}

// progressPrinter reports every tenth of the work, or every image with --debug.
func progressPrinter() imageindex.ProgressFunc {
	lastStep := -1
	return func(desc string, fraction float64, done bool) {
		if done {
			return
		}
		if flagIndexDebug {
			printInfo("", fmt.Sprintf("%5.1f%%  %s", fraction*100, desc))
			return
		}
		if step := int(fraction * 10); step > lastStep {
			lastStep = step
			printInfo("", fmt.Sprintf("%3.0f%%", fraction*100))
		}
	}
}
